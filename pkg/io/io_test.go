package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/sysmlite/pkg/diagram"
	errs "github.com/matzehuels/sysmlite/pkg/errors"
	"github.com/matzehuels/sysmlite/pkg/geometry"
	"github.com/matzehuels/sysmlite/pkg/model"
)

func richSnapshot() diagram.Snapshot {
	s := diagram.Seed()
	s.Elements["elem-3"] = model.Element{ID: "elem-3", Type: model.TypeDecision, Name: "?", Stereotype: "gate"}
	s.Placements = append(s.Placements,
		diagram.Placement{ID: "node-3", ElementID: "elem-3", Position: geometry.Point{X: 12.5, Y: -3.25}, Width: 48, Height: 48},
		diagram.Placement{ID: "node-4", ElementID: "elem-gone", Position: geometry.Point{X: 0.1, Y: 0.2}},
	)
	s.Connections = append(s.Connections,
		diagram.Connection{ID: "edge-2", Source: "node-3", Target: "node-3", Label: "Unknown label"},
		diagram.Connection{ID: "edge-3", Source: "node-1", Target: "node-9"},
	)
	return s
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		snap diagram.Snapshot
	}{
		{"seed", diagram.Seed()},
		{"rich", richSnapshot()},
		{"empty", diagram.Snapshot{}.Clone()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(tt.snap)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			got, err := Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !reflect.DeepEqual(got, tt.snap) {
				t.Errorf("round trip mismatch\ngot:  %+v\nwant: %+v", got, tt.snap)
			}
		})
	}
}

func TestRoundTripStoreEdits(t *testing.T) {
	st := diagram.NewStore()
	req, _ := st.AddElement(model.TypeRequirement)
	_, pa := st.AddElement(model.TypeBlock)
	blk, pb := st.AddElement(model.TypeBlock)
	_, pc := st.AddElement(model.TypeActivity)

	name, desc, stereo := "Pump\xc3", "flow \xff\xfe rate\n  nominal", "bad\x80"
	st.UpdateElement(req.ID, model.Patch{Name: &name, Description: &desc})
	st.UpdateElement(blk.ID, model.Patch{Stereotype: &stereo})

	labels := []string{"bad\xffutf8", "Composition", "composition", ""}
	ends := [][2]string{{pa.ID, pb.ID}, {pb.ID, pc.ID}, {pc.ID, pa.ID}, {pa.ID, pa.ID}}
	for i, label := range labels {
		c, ok := st.Connect(ends[i][0], ends[i][1])
		if !ok {
			t.Fatalf("Connect(%v) failed", ends[i])
		}
		st.UpdateConnectionLabel(c.ID, label)
	}

	snap := st.Snapshot()
	data, err := Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, snap) {
		t.Errorf("round trip mismatch\ngot:  %+v\nwant: %+v", got, snap)
	}
	if got.Connections[0].Label != "bad\uFFFDutf8" {
		t.Errorf("label = %q", got.Connections[0].Label)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	a, _ := Marshal(richSnapshot())
	for range 10 {
		b, _ := Marshal(richSnapshot())
		if !bytes.Equal(a, b) {
			t.Fatal("Marshal output differs between runs")
		}
	}
	if !bytes.Contains(a, []byte("\n  \"placements\": [")) {
		t.Errorf("output not two-space indented:\n%s", a)
	}
}

func TestMarshalNilCollections(t *testing.T) {
	data, err := Marshal(diagram.Snapshot{})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"placements": []`, `"connections": []`, `"elements": {}`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("output missing %s:\n%s", want, data)
		}
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errs.Code
	}{
		{"not json", "not json", errs.ErrCodeParse},
		{"truncated", `{"placements": [`, errs.ErrCodeParse},
		{"empty input", "", errs.ErrCodeParse},
		{"only placements", `{"placements":[]}`, errs.ErrCodeInvalidFormat},
		{"null elements", `{"placements":[],"connections":[],"elements":null}`, errs.ErrCodeInvalidFormat},
		{"array root", `[]`, errs.ErrCodeInvalidFormat},
		{"wrong member type", `{"placements":{},"connections":[],"elements":{}}`, errs.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.input))
			if !errs.Is(err, tt.code) {
				t.Errorf("Unmarshal(%q) error = %v, want %s", tt.input, err, tt.code)
			}
		})
	}
}

func TestUnmarshalToleratesDanglingReferences(t *testing.T) {
	input := `{
  "placements": [{"id": "node-1", "elementId": "elem-x", "position": {"x": 1, "y": 2}}],
  "connections": [{"id": "edge-1", "source": "node-1", "target": "node-404", "label": ""}],
  "elements": {}
}`
	snap, err := Unmarshal([]byte(input))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(snap.Placements) != 1 || len(snap.Connections) != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestLoadInto(t *testing.T) {
	s := diagram.NewStore()
	if err := s.Load(diagram.Seed()); err != nil {
		t.Fatal(err)
	}
	before := s.Snapshot()

	for _, input := range []string{`{"placements":[]}`, "not json"} {
		if err := LoadInto(s, []byte(input)); err == nil {
			t.Errorf("LoadInto(%q) succeeded", input)
		}
		if !reflect.DeepEqual(s.Snapshot(), before) {
			t.Errorf("LoadInto(%q) mutated the store", input)
		}
	}

	data, _ := Marshal(richSnapshot())
	if err := LoadInto(s, data); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	if n := len(s.Placements()); n != 4 {
		t.Errorf("len(Placements) = %d, want 4", n)
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.json")
	if err := ExportJSON(richSnapshot(), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if !reflect.DeepEqual(got, richSnapshot()) {
		t.Error("file round trip mismatch")
	}

	raw, _ := os.ReadFile(path)
	if !bytes.HasSuffix(raw, []byte("}\n")) {
		t.Error("file should end with a newline")
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}
