package model

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

// IDGenerator produces globally unique identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random (version 4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string { return uuid.NewString() }

// Table is the element store, keyed by element id.
//
// The zero value is not usable; create tables with [NewTable].
// Table is not safe for concurrent use.
type Table struct {
	ids      IDGenerator
	elements map[string]Element
}

// NewTable creates an empty table. A nil ids uses UUIDGenerator.
func NewTable(ids IDGenerator) *Table {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Table{ids: ids, elements: make(map[string]Element)}
}

// Get returns the element with the given id.
func (t *Table) Get(id string) (Element, bool) {
	e, ok := t.elements[id]
	return e, ok
}

// Create adds a new element of type typ with a fresh id and default fields.
func (t *Table) Create(typ Type) Element {
	e := Element{
		ID:          t.ids.NewID(),
		Type:        typ,
		Name:        typ.DefaultName(),
		Description: "",
	}
	t.elements[e.ID] = e
	return e
}

// Update merges patch into the element with the given id. It is a no-op
// returning false when the id is unknown.
func (t *Table) Update(id string, patch Patch) bool {
	e, ok := t.elements[id]
	if !ok {
		return false
	}
	patch.apply(&e)
	t.elements[id] = e
	return true
}

// Len returns the number of elements.
func (t *Table) Len() int { return len(t.elements) }

// IDs returns all element ids in sorted order.
func (t *Table) IDs() []string {
	return slices.Sorted(maps.Keys(t.elements))
}

// Map returns a copy of the element map.
func (t *Table) Map() map[string]Element {
	return maps.Clone(t.elements)
}

// Replace swaps the table contents for a copy of elements.
func (t *Table) Replace(elements map[string]Element) {
	t.elements = maps.Clone(elements)
	if t.elements == nil {
		t.elements = make(map[string]Element)
	}
}

// All returns every element ordered by id.
func (t *Table) All() []Element {
	out := make([]Element, 0, len(t.elements))
	for _, id := range t.IDs() {
		out = append(out, t.elements[id])
	}
	return out
}

// Clone returns an independent copy sharing the same id generator.
func (t *Table) Clone() *Table {
	return &Table{ids: t.ids, elements: maps.Clone(t.elements)}
}
