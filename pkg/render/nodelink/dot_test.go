package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/sysmlite/pkg/diagram"
	"github.com/matzehuels/sysmlite/pkg/model"
)

func TestToDOTSeed(t *testing.T) {
	dot := ToDOT(diagram.Seed(), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		`"node-1" [label="«block»\nMain System", shape=box];`,
		`"node-2" [label="«requirement»\nPerformance Req", shape=note];`,
		`"node-1" -> "node-2" [arrowhead=normal, style=dashed, label="satisfy"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "pos=") {
		t.Error("unpinned DOT should not carry positions")
	}
}

func TestToDOTEdgeAttributes(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"", "[arrowhead=normal]"},
		{"Association", "[arrowhead=none]"},
		{"Composition", "[arrowhead=none, dir=both, arrowtail=diamond]"},
		{"Aggregation", "[arrowhead=none, dir=both, arrowtail=odiamond]"},
		{"Generalization", "[arrowhead=onormal]"},
		{"trace", `[arrowhead=normal, style=dashed, label="trace"]`},
		{"uses", `[arrowhead=normal, label="uses"]`},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			snap := diagram.Seed()
			snap.Connections[0].Label = tt.label
			dot := ToDOT(snap, Options{})
			if !strings.Contains(dot, `"node-1" -> "node-2" `+tt.want) {
				t.Errorf("edge for %q, want %s:\n%s", tt.label, tt.want, dot)
			}
		})
	}
}

func TestToDOTPinnedAndDetailed(t *testing.T) {
	dot := ToDOT(diagram.Seed(), Options{Pinned: true, Detailed: true})

	for _, want := range []string{
		"layout=neato;",
		`pos="100,-100!"`,
		`pos="400,-100!"`,
		`label="«block»\nMain System\npower: Real\nmass: Real"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
}

func TestToDOTMissingAndDangling(t *testing.T) {
	snap := diagram.Snapshot{
		Elements: map[string]model.Element{
			"e1": {ID: "e1", Type: model.TypeStart},
		},
		Placements: []diagram.Placement{
			{ID: "n1", ElementID: "e1"},
			{ID: "n2", ElementID: "gone"},
		},
		Connections: []diagram.Connection{
			{ID: "c1", Source: "n1", Target: "n2"},
			{ID: "c2", Source: "n1", Target: "n9"},
		},
	}
	dot := ToDOT(snap, Options{})

	if !strings.Contains(dot, `"n2" [label="Missing Data"`) {
		t.Errorf("missing element not rendered as fallback:\n%s", dot)
	}
	if !strings.Contains(dot, `"n1" [label="", shape=circle`) {
		t.Errorf("start node should be an unlabeled circle:\n%s", dot)
	}
	if strings.Contains(dot, `"n9"`) {
		t.Errorf("dangling connection emitted:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="200pt" height="100pt" viewBox="0.00 0.00 200.00 100.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="200" height="100"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if !strings.HasSuffix(out, "<g/></svg>") {
		t.Errorf("body not preserved: %s", out)
	}

	plain := []byte("<svg></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
