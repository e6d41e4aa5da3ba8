package mermaid

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/sysmlite/pkg/diagram"
	"github.com/matzehuels/sysmlite/pkg/model"
	"github.com/matzehuels/sysmlite/pkg/style"
)

// Header is the first line of every compiled document.
const Header = "classDiagram"

var arrows = map[style.Kind]string{
	style.KindAssociation:    "--",
	style.KindComposition:    "*--",
	style.KindAggregation:    "o--",
	style.KindGeneralization: "<|--",
	style.KindSatisfy:        "..>",
	style.KindVerify:         "..>",
	style.KindRefine:         "..>",
	style.KindTrace:          "..>",
}

// braces would close the class body early.
var braces = strings.NewReplacer("{", "", "}", "")

// Arrow returns the relation token for a kind. Kinds without a dedicated
// token use the dependency arrow "-->".
func Arrow(k style.Kind) string {
	if a, ok := arrows[k]; ok {
		return a
	}
	return "-->"
}

// Identifier sanitizes an element name into a class identifier.
func Identifier(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Compile renders a snapshot as a Mermaid class diagram.
func Compile(s diagram.Snapshot) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')

	for _, id := range slices.Sorted(maps.Keys(s.Elements)) {
		writeClass(&b, s.Elements[id])
	}

	for _, c := range s.Connections {
		src, ok := s.ElementAt(c.Source)
		if !ok {
			continue
		}
		dst, ok := s.ElementAt(c.Target)
		if !ok {
			continue
		}
		writeRelation(&b, src, dst, c.Label)
	}

	return b.String()
}

func writeClass(b *strings.Builder, e model.Element) {
	b.WriteString("  class ")
	b.WriteString(Identifier(e.Name))
	b.WriteString(" {\n    <<")
	b.WriteString(e.Type.Stereotype())
	b.WriteString(">>\n")
	for _, line := range e.Lines() {
		line = strings.TrimSuffix(braces.Replace(line), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("  }\n")
}

func writeRelation(b *strings.Builder, src, dst model.Element, label string) {
	kind := style.ParseKind(label)
	b.WriteString("  ")
	b.WriteString(Identifier(src.Name))
	b.WriteByte(' ')
	b.WriteString(Arrow(kind))
	b.WriteByte(' ')
	b.WriteString(Identifier(dst.Name))
	if label != "" && !kind.IsStructural() {
		b.WriteString(" : ")
		b.WriteString(label)
	}
	b.WriteByte('\n')
}
