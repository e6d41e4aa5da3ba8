package style

// Kind is a relationship kind.
type Kind int

const (
	// KindDefault covers the empty label and every unrecognized label.
	KindDefault Kind = iota
	KindAssociation
	KindDependency
	KindSatisfy
	KindVerify
	KindRefine
	KindTrace
	KindComposition
	KindAggregation
	KindGeneralization
)

// Kinds lists every named relationship kind (KindDefault excluded).
var Kinds = []Kind{
	KindDependency, KindAssociation, KindComposition, KindAggregation, KindGeneralization,
	KindSatisfy, KindVerify, KindRefine, KindTrace,
}

var kindLabels = map[Kind]string{
	KindDefault:        "",
	KindAssociation:    "Association",
	KindDependency:     "Dependency",
	KindSatisfy:        "satisfy",
	KindVerify:         "verify",
	KindRefine:         "refine",
	KindTrace:          "trace",
	KindComposition:    "Composition",
	KindAggregation:    "Aggregation",
	KindGeneralization: "Generalization",
}

// String returns the canonical label of the kind.
func (k Kind) String() string { return kindLabels[k] }

// IsStructural reports whether the kind is one of the four structural
// relationships drawn purely by line ends (Association, Composition,
// Aggregation, Generalization).
func (k Kind) IsStructural() bool {
	switch k {
	case KindAssociation, KindComposition, KindAggregation, KindGeneralization:
		return true
	}
	return false
}

// IsTrace reports whether the kind is a requirement trace relationship
// (satisfy, verify, refine, trace).
func (k Kind) IsTrace() bool {
	switch k {
	case KindSatisfy, KindVerify, KindRefine, KindTrace:
		return true
	}
	return false
}

var labelKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindLabels))
	for k, s := range kindLabels {
		m[s] = k
	}
	return m
}()

// ParseKind maps a label to its kind. Only canonical labels match, and they
// match byte for byte; everything else is KindDefault.
func ParseKind(label string) Kind {
	return labelKinds[label]
}

// Marker is a line-end decoration.
type Marker int

const (
	MarkerNone Marker = iota
	MarkerArrow
	MarkerDiamondOpen
	MarkerDiamondFilled
	MarkerTriangleHollow
)

var markerNames = map[Marker]string{
	MarkerNone:           "none",
	MarkerArrow:          "arrow",
	MarkerDiamondOpen:    "diamond-open",
	MarkerDiamondFilled:  "diamond-filled",
	MarkerTriangleHollow: "triangle-hollow",
}

// String returns the marker name.
func (m Marker) String() string { return markerNames[m] }

// MarshalText encodes the marker by name.
func (m Marker) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// DashPattern is the stroke pattern used for dashed relationships.
const DashPattern = "5,5"

// Descriptor holds the derived visual attributes of a connection.
type Descriptor struct {
	DashPattern string `json:"dashPattern,omitempty"` // empty when solid
	EndMarker   Marker `json:"endMarker"`
	StartMarker Marker `json:"startMarker"`
	Animated    bool   `json:"animated"`
}

// Dashed reports whether the line is dashed.
func (d Descriptor) Dashed() bool { return d.DashPattern != "" }

// Resolve returns the descriptor for k. Every field is assigned from scratch.
func Resolve(k Kind) Descriptor {
	d := Descriptor{EndMarker: MarkerArrow}
	switch k {
	case KindAssociation:
		d.EndMarker = MarkerNone
	case KindDependency, KindSatisfy, KindVerify, KindRefine, KindTrace:
		d.DashPattern = DashPattern
	case KindComposition:
		d.EndMarker = MarkerNone
		d.StartMarker = MarkerDiamondFilled
	case KindAggregation:
		d.EndMarker = MarkerNone
		d.StartMarker = MarkerDiamondOpen
	case KindGeneralization:
		d.EndMarker = MarkerTriangleHollow
	}
	return d
}

// ResolveLabel resolves a free-text label.
func ResolveLabel(label string) Descriptor { return Resolve(ParseKind(label)) }
