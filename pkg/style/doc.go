// Package style maps relationship kinds to edge rendering attributes.
//
// Relationship labels arrive as free text (from the properties panel or from
// imported files). [ParseKind] matches them exactly against the canonical
// labels of the closed [Kind] enumeration, sending anything else (including
// case variants) to [KindDefault]. [Resolve] is a total lookup
// over that enumeration and always builds a fresh [Descriptor], so relabeling
// a connection can never leave a stale dash pattern or marker behind.
//
//	d := style.ResolveLabel("Composition")
//	// d.StartMarker == style.MarkerDiamondFilled, d.EndMarker == style.MarkerNone
package style
