package diagram

import (
	"github.com/matzehuels/sysmlite/pkg/geometry"
	"github.com/matzehuels/sysmlite/pkg/model"
)

// Seed returns the starter diagram: a block satisfied by a requirement.
func Seed() Snapshot {
	return Snapshot{
		Elements: map[string]model.Element{
			"elem-1": {
				ID:          "elem-1",
				Type:        model.TypeBlock,
				Name:        "Main System",
				Description: "power: Real\nmass: Real",
			},
			"elem-2": {
				ID:          "elem-2",
				Type:        model.TypeRequirement,
				Name:        "Performance Req",
				Description: "id: REQ-001\ntext: The system shall be fast.",
			},
		},
		Placements: []Placement{
			{ID: "node-1", ElementID: "elem-1", Position: geometry.Point{X: 100, Y: 100}},
			{ID: "node-2", ElementID: "elem-2", Position: geometry.Point{X: 400, Y: 100}},
		},
		Connections: []Connection{
			{ID: "edge-1", Source: "node-1", Target: "node-2", Label: "satisfy"},
		},
	}
}
