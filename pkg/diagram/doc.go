// Package diagram implements the SysML-lite graph store.
//
// # Overview
//
// A diagram has three collections:
//
//   - Elements: semantic entities owned by a [model.Table]
//   - Placements: visual instances of elements (position and size hints)
//   - Connections: typed relationships between placements
//
// Together they form a [Snapshot], the unit of import and export.
//
// # Model and Store
//
// The data lives in a [Model] envelope; the behavior lives in [Store]. The
// store is created once with its collaborators (id generator, random source,
// spawn region) and [Store.Load] swaps only the envelope, so the mutation API
// is never affected by an import:
//
//	s := diagram.NewStore()
//	_, a := s.AddElement(model.TypeBlock)
//	_, b := s.AddElement(model.TypeRequirement)
//	c, _ := s.Connect(a.ID, b.ID)
//	s.UpdateConnectionLabel(c.ID, "satisfy")
//
// # Referential Rules
//
// Placements refer to elements without owning them. Removing a placement
// removes every connection that starts or ends at it; the element stays in
// the table. A placement whose element is missing still resolves through
// [Store.Resolve], flagged as Missing, so renderers can draw a fallback.
//
// # Failure Semantics
//
// Operations that reference unknown ids are no-ops and report false. The only
// rejecting operation is [Store.Load], which refuses a snapshot lacking any
// of the three collections and leaves the store untouched.
//
// # Concurrency
//
// Store is single-writer and synchronous. It performs no locking; callers
// that serve several goroutines (such as the HTTP adapter) must serialize
// access themselves.
package diagram
