package diagram

import (
	"fmt"
	"testing"

	errs "github.com/matzehuels/sysmlite/pkg/errors"
	"github.com/matzehuels/sysmlite/pkg/geometry"
	"github.com/matzehuels/sysmlite/pkg/model"
	"github.com/matzehuels/sysmlite/pkg/style"
)

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprint(s.n)
}

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func newTestStore() *Store {
	return NewStore(WithIDGenerator(&seqIDs{}), WithRand(fixedRand(0.5)))
}

func ptr[T any](v T) *T { return &v }

func TestAddElement(t *testing.T) {
	s := newTestStore()
	e, p := s.AddElement(model.TypeBlock)

	if e.ID != "1" || e.Name != "New Block" || e.Description != "" {
		t.Errorf("element = %+v", e)
	}
	if p.ID != "node-2" || p.ElementID != e.ID {
		t.Errorf("placement = %+v", p)
	}
	if want := (geometry.Point{X: 250, Y: 250}); p.Position != want {
		t.Errorf("Position = %v, want %v", p.Position, want)
	}
	if p.Hint() != geometry.DefaultSize {
		t.Errorf("Hint = %v, want %v", p.Hint(), geometry.DefaultSize)
	}
	if _, start := s.AddElement(model.TypeStart); start.Width != 24 || start.Height != 24 {
		t.Errorf("Start hint = %vx%v, want 24x24", start.Width, start.Height)
	}
	if got, ok := s.Element(e.ID); !ok || got != e {
		t.Errorf("Element(%q) = %+v, %v", e.ID, got, ok)
	}
	if n := len(s.Placements()); n != 2 {
		t.Errorf("len(Placements) = %d, want 2", n)
	}
}

func TestAddElementSpawnRegion(t *testing.T) {
	for _, r := range []float64{0, 0.25, 0.999} {
		s := NewStore(WithRand(fixedRand(r)))
		_, p := s.AddElement(model.TypeActivity)
		if p.Position.X < 50 || p.Position.X >= 450 || p.Position.Y < 50 || p.Position.Y >= 450 {
			t.Errorf("rand %v: Position = %v outside spawn region", r, p.Position)
		}
	}

	s := NewStore(WithRand(fixedRand(0)), WithSpawnRegion(geometry.Rect{X: -10, Y: 5, Width: 1, Height: 1}))
	_, p := s.AddElement(model.TypeBlock)
	if want := (geometry.Point{X: -10, Y: 5}); p.Position != want {
		t.Errorf("Position = %v, want %v", p.Position, want)
	}
}

func TestAddElementUniqueIDs(t *testing.T) {
	s := NewStore()
	seen := map[string]bool{}
	for range 50 {
		e, p := s.AddElement(model.TypeActor)
		for _, id := range []string{e.ID, p.ID} {
			if seen[id] {
				t.Fatalf("duplicate id %q", id)
			}
			seen[id] = true
		}
	}
}

func TestUpdateElement(t *testing.T) {
	s := newTestStore()
	e, _ := s.AddElement(model.TypeBlock)

	if !s.UpdateElement(e.ID, model.Patch{Name: ptr("Engine")}) {
		t.Fatal("UpdateElement returned false")
	}
	got, _ := s.Element(e.ID)
	if got.Name != "Engine" || got.Type != model.TypeBlock {
		t.Errorf("element = %+v", got)
	}

	before := s.Snapshot()
	if s.UpdateElement("nope", model.Patch{Name: ptr("x")}) {
		t.Error("UpdateElement on unknown id returned true")
	}
	if after := s.Snapshot(); len(after.Elements) != len(before.Elements) {
		t.Error("unknown update changed element table")
	}
}

func TestConnect(t *testing.T) {
	s := newTestStore()
	_, a := s.AddElement(model.TypeBlock)
	_, b := s.AddElement(model.TypeRequirement)

	c, ok := s.Connect(a.ID, b.ID)
	if !ok {
		t.Fatal("Connect returned false")
	}
	if c.Label != "" || c.Source != a.ID || c.Target != b.ID {
		t.Errorf("connection = %+v", c)
	}
	if c.Style() != style.Resolve(style.KindDefault) {
		t.Errorf("new connection style = %+v, want default", c.Style())
	}

	if _, ok := s.Connect(a.ID, "node-missing"); ok {
		t.Error("Connect to missing placement returned true")
	}
	if n := len(s.Connections()); n != 1 {
		t.Errorf("len(Connections) = %d, want 1", n)
	}
}

func TestUpdateConnectionLabel(t *testing.T) {
	s := newTestStore()
	_, a := s.AddElement(model.TypeBlock)
	_, b := s.AddElement(model.TypeRequirement)
	c, _ := s.Connect(a.ID, b.ID)

	s.UpdateConnectionLabel(c.ID, "satisfy")
	got, _ := s.Connection(c.ID)
	if d := got.Style(); d.DashPattern != style.DashPattern || d.EndMarker != style.MarkerArrow {
		t.Errorf("satisfy style = %+v", d)
	}

	s.UpdateConnectionLabel(c.ID, "Composition")
	got, _ = s.Connection(c.ID)
	if d := got.Style(); d.Dashed() || d.StartMarker != style.MarkerDiamondFilled || d.EndMarker != style.MarkerNone {
		t.Errorf("relabeled style = %+v", d)
	}

	s.UpdateConnectionLabel(c.ID, "composition")
	got, _ = s.Connection(c.ID)
	if d := got.Style(); d != style.Resolve(style.KindDefault) {
		t.Errorf("lower-case composition style = %+v, want default", d)
	}

	s.UpdateConnectionLabel(c.ID, "bad\xffutf8")
	got, _ = s.Connection(c.ID)
	if got.Label != "bad\uFFFDutf8" {
		t.Errorf("label = %q, want invalid bytes replaced", got.Label)
	}

	if s.UpdateConnectionLabel("edge-missing", "trace") {
		t.Error("unknown connection label update returned true")
	}
}

func TestRemovePlacementCascades(t *testing.T) {
	s := newTestStore()
	ea, a := s.AddElement(model.TypeBlock)
	_, b := s.AddElement(model.TypeBlock)
	_, c := s.AddElement(model.TypeBlock)
	ab, _ := s.Connect(a.ID, b.ID)
	bc, _ := s.Connect(b.ID, c.ID)
	ca, _ := s.Connect(c.ID, a.ID)

	s.SelectConnection(ab.ID)
	n := s.ApplyPlacementChanges([]PlacementChange{{Type: ChangeRemove, ID: a.ID}})
	if n != 1 {
		t.Errorf("applied = %d, want 1", n)
	}

	if _, ok := s.Placement(a.ID); ok {
		t.Error("placement still present")
	}
	if _, ok := s.Element(ea.ID); !ok {
		t.Error("element removed with its placement")
	}
	for _, id := range []string{ab.ID, ca.ID} {
		if _, ok := s.Connection(id); ok {
			t.Errorf("connection %s survived removal of its endpoint", id)
		}
	}
	if _, ok := s.Connection(bc.ID); !ok {
		t.Error("unrelated connection removed")
	}
	if !s.Selection().IsEmpty() {
		t.Errorf("selection = %+v, want empty", s.Selection())
	}
}

func TestRemovePlacementSelection(t *testing.T) {
	s := newTestStore()
	e, p := s.AddElement(model.TypeBlock)
	s.SelectElement(e.ID)

	s.RemovePlacement(p.ID)
	if !s.Selection().IsEmpty() {
		t.Errorf("selection = %+v, want cleared", s.Selection())
	}

	other, _ := s.AddElement(model.TypeBlock)
	s.SelectElement(other.ID)
	s.RemovePlacement("node-missing")
	if s.Selection().ElementID != other.ID {
		t.Errorf("selection = %+v, want %s", s.Selection(), other.ID)
	}
}

func TestPlacementChanges(t *testing.T) {
	s := newTestStore()
	e, p := s.AddElement(model.TypeBlock)

	n := s.ApplyPlacementChanges([]PlacementChange{
		{Type: ChangePosition, ID: p.ID, Position: &geometry.Point{X: 10, Y: 20}},
		{Type: ChangeDimensions, ID: p.ID, Size: &geometry.Size{Width: 180, Height: 90}},
		{Type: ChangeSelect, ID: p.ID, Selected: true},
		{Type: ChangePosition, ID: "node-missing", Position: &geometry.Point{}},
	})
	if n != 3 {
		t.Errorf("applied = %d, want 3", n)
	}

	got, _ := s.Placement(p.ID)
	if want := (geometry.Point{X: 10, Y: 20}); got.Position != want {
		t.Errorf("Position = %v, want %v", got.Position, want)
	}
	if sz, ok := s.Measured(p.ID); !ok || sz.Width != 180 {
		t.Errorf("Measured = %v, %v", sz, ok)
	}
	if s.Selection().ElementID != e.ID {
		t.Errorf("selection = %+v", s.Selection())
	}

	s.ApplyPlacementChanges([]PlacementChange{{Type: ChangeSelect, ID: p.ID, Selected: false}})
	if !s.Selection().IsEmpty() {
		t.Errorf("selection = %+v, want empty after deselect", s.Selection())
	}

	if snap := s.Snapshot(); snap.Placements[0].Width != 0 {
		t.Error("measured size leaked into snapshot")
	}
}

func TestConnectionChanges(t *testing.T) {
	s := newTestStore()
	_, a := s.AddElement(model.TypeBlock)
	_, b := s.AddElement(model.TypeBlock)
	c1, _ := s.Connect(a.ID, b.ID)
	c2, _ := s.Connect(b.ID, a.ID)

	n := s.ApplyConnectionChanges([]ConnectionChange{
		{Type: ChangeSelect, ID: c1.ID, Selected: true},
		{Type: ChangeRemove, ID: c2.ID},
		{Type: ChangeRemove, ID: "edge-missing"},
	})
	if n != 2 {
		t.Errorf("applied = %d, want 2", n)
	}
	if s.Selection().ConnectionID != c1.ID {
		t.Errorf("selection = %+v", s.Selection())
	}

	s.ApplyConnectionChanges([]ConnectionChange{{Type: ChangeRemove, ID: c1.ID}})
	if !s.Selection().IsEmpty() {
		t.Errorf("selection = %+v, want cleared", s.Selection())
	}
	if n := len(s.Connections()); n != 0 {
		t.Errorf("len(Connections) = %d, want 0", n)
	}
}

func TestSelectionExclusive(t *testing.T) {
	s := newTestStore()
	e, a := s.AddElement(model.TypeBlock)
	_, b := s.AddElement(model.TypeBlock)
	c, _ := s.Connect(a.ID, b.ID)

	s.SelectElement(e.ID)
	s.SelectConnection(c.ID)
	if sel := s.Selection(); sel.ElementID != "" || sel.ConnectionID != c.ID {
		t.Errorf("after SelectConnection: %+v", sel)
	}

	s.SelectElement(e.ID)
	if sel := s.Selection(); sel.ElementID != e.ID || sel.ConnectionID != "" {
		t.Errorf("after SelectElement: %+v", sel)
	}

	if s.SelectElement("elem-missing") {
		t.Error("selecting unknown element returned true")
	}
	if s.Selection().ElementID != e.ID {
		t.Error("unknown selection changed state")
	}

	s.SelectElement("")
	if !s.Selection().IsEmpty() {
		t.Errorf("after clear: %+v", s.Selection())
	}
}

func TestLoadAndSnapshot(t *testing.T) {
	s := newTestStore()
	if err := s.Load(Seed()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Placements) != 2 || len(snap.Connections) != 1 || len(snap.Elements) != 2 {
		t.Fatalf("snapshot sizes = %d/%d/%d", len(snap.Placements), len(snap.Connections), len(snap.Elements))
	}

	snap.Placements[0].Position.X = 999
	snap.Elements["elem-1"] = model.Element{ID: "elem-1", Name: "mutated"}
	if p, _ := s.Placement("node-1"); p.Position.X != 100 {
		t.Error("snapshot shares placement storage with store")
	}
	if e, _ := s.Element("elem-1"); e.Name != "Main System" {
		t.Error("snapshot shares element storage with store")
	}

	// Mutation API keeps working after a load.
	_, p := s.AddElement(model.TypeBlock)
	if _, ok := s.Connect("node-1", p.ID); !ok {
		t.Error("Connect after Load failed")
	}
}

func TestLoadResetsTransientState(t *testing.T) {
	s := newTestStore()
	e, p := s.AddElement(model.TypeBlock)
	s.SelectElement(e.ID)
	s.ApplyPlacementChanges([]PlacementChange{{Type: ChangeDimensions, ID: p.ID, Size: &geometry.Size{Width: 1, Height: 1}}})

	if err := s.Load(s.Snapshot()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s.Selection().IsEmpty() {
		t.Error("selection survived Load")
	}
	if _, ok := s.Measured(p.ID); ok {
		t.Error("measured size survived Load")
	}
}

func TestLoadRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"empty", Snapshot{}},
		{"no elements", Snapshot{Placements: []Placement{}, Connections: []Connection{}}},
		{"no connections", Snapshot{Placements: []Placement{}, Elements: map[string]model.Element{}}},
		{"no placements", Snapshot{Connections: []Connection{}, Elements: map[string]model.Element{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			if err := s.Load(Seed()); err != nil {
				t.Fatal(err)
			}
			err := s.Load(tt.snap)
			if !errs.Is(err, errs.ErrCodeInvalidFormat) {
				t.Fatalf("Load() error = %v, want %s", err, errs.ErrCodeInvalidFormat)
			}
			if n := len(s.Snapshot().Placements); n != 2 {
				t.Errorf("store mutated by rejected load: %d placements", n)
			}
		})
	}
}

func TestLoadEmptyCollections(t *testing.T) {
	s := newTestStore()
	empty := Snapshot{Placements: []Placement{}, Connections: []Connection{}, Elements: map[string]model.Element{}}
	if err := s.Load(empty); err != nil {
		t.Fatalf("Load(empty) = %v", err)
	}
	snap := s.Snapshot()
	if snap.Placements == nil || snap.Connections == nil || snap.Elements == nil {
		t.Error("snapshot collections must be non-nil")
	}
}

func TestResolve(t *testing.T) {
	s := newTestStore()
	err := s.Load(Snapshot{
		Placements: []Placement{
			{ID: "node-1", ElementID: "elem-1"},
			{ID: "node-2", ElementID: "elem-gone"},
		},
		Connections: []Connection{},
		Elements:    map[string]model.Element{"elem-1": {ID: "elem-1", Type: model.TypeBlock, Name: "A"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	v, ok := s.Resolve("node-1")
	if !ok || v.Missing || v.Element.Name != "A" {
		t.Errorf("Resolve(node-1) = %+v, %v", v, ok)
	}

	v, ok = s.Resolve("node-2")
	if !ok || !v.Missing || v.Element.Name != MissingName {
		t.Errorf("Resolve(node-2) = %+v, %v", v, ok)
	}

	if _, ok := s.Resolve("node-3"); ok {
		t.Error("Resolve of unknown placement returned true")
	}
}

func TestBoxes(t *testing.T) {
	s := newTestStore()
	if err := s.Load(Seed()); err != nil {
		t.Fatal(err)
	}
	s.ApplyPlacementChanges([]PlacementChange{
		{Type: ChangeDimensions, ID: "node-2", Size: &geometry.Size{Width: 200, Height: 120}},
	})

	got := geometry.BoundingBox(s.Boxes())
	want := geometry.Rect{X: 100, Y: 100, Width: 500, Height: 120}
	if got != want {
		t.Errorf("BoundingBox = %+v, want %+v", got, want)
	}
}

func TestChangeTypeText(t *testing.T) {
	for _, ct := range []ChangeType{ChangePosition, ChangeDimensions, ChangeRemove, ChangeSelect} {
		b, _ := ct.MarshalText()
		var got ChangeType
		if err := got.UnmarshalText(b); err != nil || got != ct {
			t.Errorf("round trip %v = %v, %v", ct, got, err)
		}
	}
	var ct ChangeType
	if err := ct.UnmarshalText([]byte("resize")); err == nil {
		t.Error("unknown change type accepted")
	}
}
