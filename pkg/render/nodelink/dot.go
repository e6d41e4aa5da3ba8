package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/sysmlite/pkg/diagram"
	"github.com/matzehuels/sysmlite/pkg/model"
	"github.com/matzehuels/sysmlite/pkg/style"
)

// Options configures node-link diagram generation.
type Options struct {
	// Detailed adds description lines to node labels.
	Detailed bool
	// Pinned keeps canvas positions instead of computing a layout.
	Pinned bool
}

var shapes = map[model.Type][]string{
	model.TypeBlock:       {"shape=box"},
	model.TypeRequirement: {"shape=note"},
	model.TypeActor:       {"shape=box", "style=\"rounded,filled\"", "peripheries=2"},
	model.TypeUseCase:     {"shape=ellipse"},
	model.TypeActivity:    {"shape=box", "style=\"rounded,filled\""},
	model.TypePackage:     {"shape=tab"},
	model.TypeDecision:    {"shape=diamond", "width=0.66", "height=0.66", "fixedsize=true"},
	model.TypeStart:       {"shape=circle", "fillcolor=black", "width=0.33", "fixedsize=true"},
	model.TypeEnd:         {"shape=doublecircle", "fillcolor=black", "width=0.33", "fixedsize=true"},
	model.TypeFork:        {"shape=box", "fillcolor=black", "width=0.22", "height=1.33", "fixedsize=true"},
	model.TypeJoin:        {"shape=box", "fillcolor=black", "width=0.22", "height=1.33", "fixedsize=true"},
}

var markers = map[style.Marker]string{
	style.MarkerNone:           "none",
	style.MarkerArrow:          "normal",
	style.MarkerDiamondOpen:    "odiamond",
	style.MarkerDiamondFilled:  "diamond",
	style.MarkerTriangleHollow: "onormal",
}

// ToDOT converts a snapshot to Graphviz DOT. Nodes are keyed by placement id
// and emitted in snapshot order.
func ToDOT(s diagram.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Pinned {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  inputscale=72;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fillcolor=white, fontname=\"Helvetica\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("\n")

	placed := make(map[string]bool, len(s.Placements))
	for _, p := range s.Placements {
		placed[p.ID] = true
		e, ok := s.Elements[p.ElementID]
		attrs := nodeAttrs(p, e, ok, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range s.Connections {
		if !placed[c.Source] || !placed[c.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", c.Source, c.Target, strings.Join(edgeAttrs(c), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(p diagram.Placement, e model.Element, ok bool, opts Options) []string {
	var attrs []string
	if !ok {
		attrs = append(attrs, fmt.Sprintf("label=%q", diagram.MissingName), "shape=box", "style=\"dashed\"", "fontcolor=red")
	} else {
		attrs = append(attrs, fmt.Sprintf("label=%q", nodeLabel(e, opts.Detailed)))
		attrs = append(attrs, shapes[e.Type]...)
	}
	if opts.Pinned {
		// Graphviz y grows upwards.
		attrs = append(attrs, fmt.Sprintf("pos=\"%g,%g!\"", p.Position.X, -p.Position.Y))
	}
	return attrs
}

func nodeLabel(e model.Element, detailed bool) string {
	if e.Type.IsControlFlow() {
		return ""
	}
	parts := []string{"«" + e.Type.Stereotype() + "»", e.Name}
	if detailed {
		parts = append(parts, e.Lines()...)
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(c diagram.Connection) []string {
	kind := c.Kind()
	d := style.Resolve(kind)

	attrs := []string{"arrowhead=" + markers[d.EndMarker]}
	if d.StartMarker != style.MarkerNone {
		attrs = append(attrs, "dir=both", "arrowtail="+markers[d.StartMarker])
	}
	if d.Dashed() {
		attrs = append(attrs, "style=dashed")
	}
	if c.Label != "" && !kind.IsStructural() {
		attrs = append(attrs, fmt.Sprintf("label=%q", c.Label))
	}
	return attrs
}
