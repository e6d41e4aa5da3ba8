package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/matzehuels/sysmlite/pkg/geometry"
)

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("elem-%d", s.n)
}

func TestCreateDefaults(t *testing.T) {
	tests := []struct {
		typ      Type
		wantName string
		wantSize geometry.Size
	}{
		{TypeBlock, "New Block", geometry.Size{Width: 150, Height: 100}},
		{TypeRequirement, "New Requirement", geometry.Size{Width: 150, Height: 100}},
		{TypeUseCase, "New UseCase", geometry.Size{Width: 150, Height: 100}},
		{TypeDecision, "?", geometry.Size{Width: 48, Height: 48}},
		{TypeStart, "", geometry.Size{Width: 24, Height: 24}},
		{TypeEnd, "", geometry.Size{Width: 32, Height: 32}},
		{TypeFork, "", geometry.Size{Width: 16, Height: 96}},
		{TypeJoin, "", geometry.Size{Width: 16, Height: 96}},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			tbl := NewTable(&seqIDs{})
			e := tbl.Create(tt.typ)
			if e.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", e.Name, tt.wantName)
			}
			if e.Description != "" {
				t.Errorf("Description = %q, want empty", e.Description)
			}
			if got := tt.typ.DefaultSize(); got != tt.wantSize {
				t.Errorf("DefaultSize = %+v, want %+v", got, tt.wantSize)
			}
			if got, ok := tbl.Get(e.ID); !ok || got != e {
				t.Errorf("Get(%q) = %+v, %v", e.ID, got, ok)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	tbl := NewTable(&seqIDs{})
	e := tbl.Create(TypeBlock)

	name := "Main System"
	if !tbl.Update(e.ID, Patch{Name: &name}) {
		t.Fatal("Update returned false for existing id")
	}
	got, _ := tbl.Get(e.ID)
	if got.Name != name || got.Type != TypeBlock || got.Description != "" {
		t.Errorf("after name patch: %+v", got)
	}

	desc := "power: Real\nmass: Real"
	tbl.Update(e.ID, Patch{Description: &desc})
	got, _ = tbl.Get(e.ID)
	if got.Name != name || got.Description != desc {
		t.Errorf("patch did not merge: %+v", got)
	}

	if tbl.Update("missing", Patch{Name: &name}) {
		t.Error("Update on missing id should return false")
	}
	if tbl.Len() != 1 {
		t.Errorf("Len = %d, want 1", tbl.Len())
	}
}

func TestUpdateReplacesInvalidUTF8(t *testing.T) {
	tbl := NewTable(&seqIDs{})
	e := tbl.Create(TypeBlock)

	name, desc := "Pump\xff", "ok\xc3\n  indented"
	tbl.Update(e.ID, Patch{Name: &name, Description: &desc})
	got, _ := tbl.Get(e.ID)
	if got.Name != "Pump\uFFFD" || got.Description != "ok\uFFFD\n  indented" {
		t.Errorf("sanitized element = %+v", got)
	}
}

func TestUUIDGeneratorUnique(t *testing.T) {
	tbl := NewTable(nil)
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		e := tbl.Create(TypeBlock)
		if seen[e.ID] {
			t.Fatalf("duplicate id %q after %d creates", e.ID, i)
		}
		seen[e.ID] = true
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range Types {
		got, err := ParseType(string(typ))
		if err != nil || got != typ {
			t.Errorf("ParseType(%q) = %q, %v", typ, got, err)
		}
	}
	if got, err := ParseType("usecase"); err != nil || got != TypeUseCase {
		t.Errorf("case-insensitive parse = %q, %v", got, err)
	}
	if _, err := ParseType("Widget"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("ParseType(Widget) err = %v, want ErrUnknownType", err)
	}
}

func TestLines(t *testing.T) {
	e := Element{Description: "a: 1\n\n  \nb: 2\r\n"}
	lines := e.Lines()
	if len(lines) != 2 || lines[0] != "a: 1" || lines[1] != "b: 2" {
		t.Errorf("Lines() = %q", lines)
	}
	if got := (Element{}).Lines(); got != nil {
		t.Errorf("empty Lines() = %q, want nil", got)
	}
}

func TestAllAndClone(t *testing.T) {
	tbl := NewTable(&seqIDs{})
	tbl.Create(TypeBlock)
	tbl.Create(TypeActor)

	all := tbl.All()
	if len(all) != 2 || all[0].ID != "elem-1" || all[1].ID != "elem-2" {
		t.Fatalf("All() = %+v", all)
	}

	c := tbl.Clone()
	name := "changed"
	c.Update("elem-1", Patch{Name: &name})
	if e, _ := tbl.Get("elem-1"); e.Name != "New Block" {
		t.Errorf("clone shares storage: %q", e.Name)
	}
	if e := c.Create(TypeBlock); e.ID != "elem-3" {
		t.Errorf("clone id = %q, want elem-3", e.ID)
	}
}
