package diagram

import (
	"fmt"

	"github.com/matzehuels/sysmlite/pkg/geometry"
)

// ChangeType identifies an incremental change reported by the rendering surface.
type ChangeType int

const (
	// ChangePosition moves a placement (drag).
	ChangePosition ChangeType = iota
	// ChangeDimensions reports a placement's measured size.
	ChangeDimensions
	// ChangeRemove deletes a placement or connection.
	ChangeRemove
	// ChangeSelect toggles selection.
	ChangeSelect
)

var changeTypeNames = map[ChangeType]string{
	ChangePosition:   "position",
	ChangeDimensions: "dimensions",
	ChangeRemove:     "remove",
	ChangeSelect:     "select",
}

// String returns the wire name of the change type.
func (t ChangeType) String() string { return changeTypeNames[t] }

// MarshalText encodes the change type by name.
func (t ChangeType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes a change type name.
func (t *ChangeType) UnmarshalText(b []byte) error {
	for k, v := range changeTypeNames {
		if v == string(b) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown change type %q", b)
}

// PlacementChange is an incremental edit to a placement.
type PlacementChange struct {
	Type     ChangeType      `json:"type"`
	ID       string          `json:"id"`
	Position *geometry.Point `json:"position,omitempty"`   // ChangePosition
	Size     *geometry.Size  `json:"dimensions,omitempty"` // ChangeDimensions
	Selected bool            `json:"selected,omitempty"`   // ChangeSelect
}

// ConnectionChange is an incremental edit to a connection.
// Only ChangeRemove and ChangeSelect apply to connections.
type ConnectionChange struct {
	Type     ChangeType `json:"type"`
	ID       string     `json:"id"`
	Selected bool       `json:"selected,omitempty"`
}
