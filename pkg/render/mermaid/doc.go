// Package mermaid compiles diagram snapshots into Mermaid class-diagram text.
//
// Every element becomes a class block whose identifier is the element name
// with each character outside [A-Za-z0-9_] replaced by an underscore. The
// block carries the lower-cased element type as a stereotype annotation and
// one member line per non-empty description line:
//
//	classDiagram
//	  class Main_System {
//	    <<block>>
//	    power: Real
//	    mass: Real
//	  }
//	  Main_System ..> Performance_Req : satisfy
//
// Distinct elements whose names sanitize to the same identifier are not
// deduplicated; Mermaid merges them into one class.
//
// Connections become relation lines. The arrow token follows the
// relationship kind; structural kinds (Association, Composition,
// Aggregation, Generalization) are expressed by the arrow alone, every other
// non-empty label is appended after a colon. Connections whose endpoints do
// not resolve to elements are skipped.
//
// Output is a pure function of the snapshot: elements are emitted in id
// order and connections in snapshot order.
package mermaid
