package diagram_test

import (
	"fmt"

	"github.com/matzehuels/sysmlite/pkg/diagram"
	"github.com/matzehuels/sysmlite/pkg/model"
)

func ExampleStore() {
	s := diagram.NewStore()
	_, block := s.AddElement(model.TypeBlock)
	_, req := s.AddElement(model.TypeRequirement)

	c, _ := s.Connect(block.ID, req.ID)
	s.UpdateConnectionLabel(c.ID, "satisfy")

	c, _ = s.Connection(c.ID)
	fmt.Println(c.Style().Dashed(), c.Style().EndMarker)

	s.RemovePlacement(block.ID)
	fmt.Println(len(s.Connections()))
	// Output:
	// true arrow
	// 0
}
