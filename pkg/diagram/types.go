package diagram

import (
	"maps"
	"slices"

	"github.com/matzehuels/sysmlite/pkg/geometry"
	"github.com/matzehuels/sysmlite/pkg/model"
	"github.com/matzehuels/sysmlite/pkg/style"
)

// MissingName is the label rendered for a placement whose element is gone.
const MissingName = "Missing Data"

// Placement is a visual instance of an element on the canvas.
type Placement struct {
	ID        string         `json:"id"`
	ElementID string         `json:"elementId"`
	Position  geometry.Point `json:"position"`
	Width     float64        `json:"width,omitempty"`
	Height    float64        `json:"height,omitempty"`
}

// Hint returns the declared size hint (zero when unset).
func (p Placement) Hint() geometry.Size {
	return geometry.Size{Width: p.Width, Height: p.Height}
}

// Box returns the placement as a geometry box with the given measured size.
func (p Placement) Box(measured geometry.Size) geometry.Box {
	return geometry.Box{Origin: p.Position, Measured: measured, Hint: p.Hint()}
}

// Connection is a typed relationship between two placements.
// Its visual style is derived from Label and never stored.
type Connection struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Kind returns the relationship kind parsed from the label.
func (c Connection) Kind() style.Kind { return style.ParseKind(c.Label) }

// Style returns the rendering attributes derived from the label.
func (c Connection) Style() style.Descriptor { return style.Resolve(c.Kind()) }

// Snapshot is the complete importable/exportable diagram state.
type Snapshot struct {
	Placements  []Placement              `json:"placements"`
	Connections []Connection             `json:"connections"`
	Elements    map[string]model.Element `json:"elements"`
}

// Complete reports whether all three collections are present.
func (s Snapshot) Complete() bool {
	return s.Placements != nil && s.Connections != nil && s.Elements != nil
}

// Clone returns a deep copy. Nil collections are returned as empty ones.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Placements:  slices.Clone(s.Placements),
		Connections: slices.Clone(s.Connections),
		Elements:    maps.Clone(s.Elements),
	}
	if out.Placements == nil {
		out.Placements = []Placement{}
	}
	if out.Connections == nil {
		out.Connections = []Connection{}
	}
	if out.Elements == nil {
		out.Elements = map[string]model.Element{}
	}
	return out
}

// Placement returns the placement with the given id.
func (s Snapshot) Placement(id string) (Placement, bool) {
	for _, p := range s.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// ElementAt returns the element drawn by the placement with the given id.
// The second result is false when the placement or its element is missing.
func (s Snapshot) ElementAt(placementID string) (model.Element, bool) {
	p, ok := s.Placement(placementID)
	if !ok {
		return model.Element{}, false
	}
	e, ok := s.Elements[p.ElementID]
	return e, ok
}

// View pairs a placement with the element it draws.
type View struct {
	Placement Placement
	Element   model.Element
	Missing   bool // Element is a fallback; the referenced element does not exist
}

// Selection is the current selection. At most one field is set.
type Selection struct {
	ElementID    string `json:"elementId,omitempty"`
	ConnectionID string `json:"connectionId,omitempty"`
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool { return s.ElementID == "" && s.ConnectionID == "" }

func missingElement(id string) model.Element {
	return model.Element{ID: id, Name: MissingName}
}
