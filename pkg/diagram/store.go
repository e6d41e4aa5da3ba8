package diagram

import (
	"math/rand/v2"
	"slices"

	errs "github.com/matzehuels/sysmlite/pkg/errors"
	"github.com/matzehuels/sysmlite/pkg/geometry"
	"github.com/matzehuels/sysmlite/pkg/model"
)

// Id prefixes for generated placement and connection ids.
const (
	PlacementPrefix  = "node-"
	ConnectionPrefix = "edge-"
)

// DefaultSpawn is the region new placements are dropped into.
var DefaultSpawn = geometry.Rect{X: 50, Y: 50, Width: 400, Height: 400}

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Model is the data envelope held by a Store. It carries no behavior and is
// replaced wholesale by Store.Load.
type Model struct {
	Elements    *model.Table
	Placements  []Placement
	Connections []Connection
}

// Store owns the diagram state and all mutation logic.
type Store struct {
	ids   model.IDGenerator
	rnd   RandomSource
	spawn geometry.Rect

	data      *Model
	measured  map[string]geometry.Size
	selection Selection
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator sets the generator used for element, placement and
// connection ids.
func WithIDGenerator(g model.IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithRand sets the source used to pick spawn positions.
func WithRand(r RandomSource) Option {
	return func(s *Store) { s.rnd = r }
}

// WithSpawnRegion sets the region new placements are dropped into.
func WithSpawnRegion(r geometry.Rect) Option {
	return func(s *Store) { s.spawn = r }
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		ids:   model.UUIDGenerator{},
		rnd:   globalRand{},
		spawn: DefaultSpawn,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.data = &Model{Elements: model.NewTable(s.ids)}
	s.measured = make(map[string]geometry.Size)
	return s
}

// AddElement creates an element of type t with default attributes and one
// placement for it at a random position inside the spawn region. The
// placement's size hint is the type's default size.
func (s *Store) AddElement(t model.Type) (model.Element, Placement) {
	e := s.data.Elements.Create(t)
	size := t.DefaultSize()
	p := Placement{
		ID:        PlacementPrefix + s.ids.NewID(),
		ElementID: e.ID,
		Position: geometry.Point{
			X: s.spawn.X + s.rnd.Float64()*s.spawn.Width,
			Y: s.spawn.Y + s.rnd.Float64()*s.spawn.Height,
		},
		Width:  size.Width,
		Height: size.Height,
	}
	s.data.Placements = append(s.data.Placements, p)
	return e, p
}

// UpdateElement applies the non-nil fields of patch to an element.
// It returns false if the element does not exist.
func (s *Store) UpdateElement(id string, patch model.Patch) bool {
	return s.data.Elements.Update(id, patch)
}

// ApplyPlacementChanges applies each change in order and returns how many
// referenced an existing placement.
func (s *Store) ApplyPlacementChanges(changes []PlacementChange) int {
	var n int
	for _, c := range changes {
		if s.applyPlacementChange(c) {
			n++
		}
	}
	return n
}

func (s *Store) applyPlacementChange(c PlacementChange) bool {
	i := s.placementIndex(c.ID)
	if i < 0 {
		return false
	}
	switch c.Type {
	case ChangePosition:
		if c.Position != nil {
			s.data.Placements[i].Position = *c.Position
		}
	case ChangeDimensions:
		if c.Size != nil {
			s.measured[c.ID] = *c.Size
		}
	case ChangeRemove:
		s.RemovePlacement(c.ID)
	case ChangeSelect:
		elemID := s.data.Placements[i].ElementID
		if c.Selected {
			s.selection = Selection{ElementID: elemID}
		} else if s.selection.ElementID == elemID {
			s.selection = Selection{}
		}
	default:
		return false
	}
	return true
}

// RemovePlacement deletes a placement together with every connection that
// starts or ends at it. The element itself is kept.
func (s *Store) RemovePlacement(id string) bool {
	i := s.placementIndex(id)
	if i < 0 {
		return false
	}
	elemID := s.data.Placements[i].ElementID
	s.data.Placements = slices.Delete(s.data.Placements, i, i+1)
	delete(s.measured, id)

	s.data.Connections = slices.DeleteFunc(s.data.Connections, func(c Connection) bool {
		if c.Source != id && c.Target != id {
			return false
		}
		if s.selection.ConnectionID == c.ID {
			s.selection = Selection{}
		}
		return true
	})
	if s.selection.ElementID == elemID && !s.placed(elemID) {
		s.selection = Selection{}
	}
	return true
}

// ApplyConnectionChanges applies each change in order and returns how many
// referenced an existing connection.
func (s *Store) ApplyConnectionChanges(changes []ConnectionChange) int {
	var n int
	for _, c := range changes {
		if s.connectionIndex(c.ID) < 0 {
			continue
		}
		switch c.Type {
		case ChangeRemove:
			s.RemoveConnection(c.ID)
		case ChangeSelect:
			if c.Selected {
				s.selection = Selection{ConnectionID: c.ID}
			} else if s.selection.ConnectionID == c.ID {
				s.selection = Selection{}
			}
		default:
			continue
		}
		n++
	}
	return n
}

// Connect creates an unlabeled connection between two placements. It returns
// false, and changes nothing, if either placement does not exist.
func (s *Store) Connect(source, target string) (Connection, bool) {
	if s.placementIndex(source) < 0 || s.placementIndex(target) < 0 {
		return Connection{}, false
	}
	c := Connection{
		ID:     ConnectionPrefix + s.ids.NewID(),
		Source: source,
		Target: target,
	}
	s.data.Connections = append(s.data.Connections, c)
	return c, true
}

// UpdateConnectionLabel replaces a connection's label. The visual style
// follows from the new label alone.
func (s *Store) UpdateConnectionLabel(id, label string) bool {
	i := s.connectionIndex(id)
	if i < 0 {
		return false
	}
	s.data.Connections[i].Label = model.ValidText(label)
	return true
}

// RemoveConnection deletes a connection, clearing the selection if it was
// selected.
func (s *Store) RemoveConnection(id string) bool {
	i := s.connectionIndex(id)
	if i < 0 {
		return false
	}
	s.data.Connections = slices.Delete(s.data.Connections, i, i+1)
	if s.selection.ConnectionID == id {
		s.selection = Selection{}
	}
	return true
}

// SelectElement selects an element and clears any connection selection.
// An empty id clears the selection. Unknown ids are ignored.
func (s *Store) SelectElement(id string) bool {
	if id == "" {
		s.selection = Selection{}
		return true
	}
	if _, ok := s.data.Elements.Get(id); !ok {
		return false
	}
	s.selection = Selection{ElementID: id}
	return true
}

// SelectConnection selects a connection and clears any element selection.
// An empty id clears the selection. Unknown ids are ignored.
func (s *Store) SelectConnection(id string) bool {
	if id == "" {
		s.selection = Selection{}
		return true
	}
	if s.connectionIndex(id) < 0 {
		return false
	}
	s.selection = Selection{ConnectionID: id}
	return true
}

// Selection returns the current selection.
func (s *Store) Selection() Selection { return s.selection }

// Load replaces the whole state with a copy of snap. A snapshot missing any
// collection is rejected with ErrCodeInvalidFormat and the store is left
// unchanged. Selection and measured sizes are reset; the store's
// collaborators are kept.
func (s *Store) Load(snap Snapshot) error {
	if !snap.Complete() {
		return errs.New(errs.ErrCodeInvalidFormat, "snapshot must contain placements, connections and elements")
	}
	snap = snap.Clone()
	elems := model.NewTable(s.ids)
	elems.Replace(snap.Elements)
	s.data = &Model{
		Elements:    elems,
		Placements:  snap.Placements,
		Connections: snap.Connections,
	}
	s.measured = make(map[string]geometry.Size)
	s.selection = Selection{}
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Placements:  slices.Clone(s.data.Placements),
		Connections: slices.Clone(s.data.Connections),
		Elements:    s.data.Elements.Map(),
	}.Clone()
}

// Resolve pairs a placement with its element. A placement whose element is
// absent resolves to a fallback element with Missing set. The second result
// is false only when the placement itself does not exist.
func (s *Store) Resolve(placementID string) (View, bool) {
	i := s.placementIndex(placementID)
	if i < 0 {
		return View{}, false
	}
	p := s.data.Placements[i]
	if e, ok := s.data.Elements.Get(p.ElementID); ok {
		return View{Placement: p, Element: e}, true
	}
	return View{Placement: p, Element: missingElement(p.ElementID), Missing: true}, true
}

// Element returns the element with the given id.
func (s *Store) Element(id string) (model.Element, bool) { return s.data.Elements.Get(id) }

// Placement returns the placement with the given id.
func (s *Store) Placement(id string) (Placement, bool) {
	if i := s.placementIndex(id); i >= 0 {
		return s.data.Placements[i], true
	}
	return Placement{}, false
}

// Connection returns the connection with the given id.
func (s *Store) Connection(id string) (Connection, bool) {
	if i := s.connectionIndex(id); i >= 0 {
		return s.data.Connections[i], true
	}
	return Connection{}, false
}

// Placements returns a copy of the placements in insertion order.
func (s *Store) Placements() []Placement { return slices.Clone(s.data.Placements) }

// Connections returns a copy of the connections in insertion order.
func (s *Store) Connections() []Connection { return slices.Clone(s.data.Connections) }

// Measured returns the last size reported for a placement.
func (s *Store) Measured(id string) (geometry.Size, bool) {
	sz, ok := s.measured[id]
	return sz, ok
}

// Boxes returns the geometry of every placement, using measured sizes where
// known.
func (s *Store) Boxes() []geometry.Box {
	out := make([]geometry.Box, len(s.data.Placements))
	for i, p := range s.data.Placements {
		out[i] = p.Box(s.measured[p.ID])
	}
	return out
}

func (s *Store) placementIndex(id string) int {
	return slices.IndexFunc(s.data.Placements, func(p Placement) bool { return p.ID == id })
}

func (s *Store) connectionIndex(id string) int {
	return slices.IndexFunc(s.data.Connections, func(c Connection) bool { return c.ID == id })
}

func (s *Store) placed(elemID string) bool {
	return slices.ContainsFunc(s.data.Placements, func(p Placement) bool { return p.ElementID == elemID })
}
