package mermaid_test

import (
	"fmt"

	"github.com/matzehuels/sysmlite/pkg/diagram"
	"github.com/matzehuels/sysmlite/pkg/render/mermaid"
)

func ExampleCompile() {
	fmt.Print(mermaid.Compile(diagram.Seed()))
	// Output:
	// classDiagram
	//   class Main_System {
	//     <<block>>
	//     power: Real
	//     mass: Real
	//   }
	//   class Performance_Req {
	//     <<requirement>>
	//     id: REQ-001
	//     text: The system shall be fast.
	//   }
	//   Main_System ..> Performance_Req : satisfy
}
