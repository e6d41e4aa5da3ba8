// Package model defines the semantic entities of a SysML-lite diagram.
//
// An [Element] is independent of where or how it is drawn: placements in
// package diagram refer to elements by id, and several placements may in
// principle share one element. The [Table] owns elements and assigns ids
// through an injected [IDGenerator], so tests can supply deterministic ids
// while production code uses [UUIDGenerator].
//
// # Element Types
//
// The taxonomy is closed: Block, Requirement, Actor, UseCase, Activity,
// Package, Decision, Start, End, Fork and Join. Control-flow types (Start,
// End, Fork, Join) are created with an empty name, Decision with "?", every
// other type with "New <Type>".
package model
