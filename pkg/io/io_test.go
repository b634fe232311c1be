package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/wikimap/pkg/mindmap"
)

func sampleGraph() *mindmap.Graph {
	g := mindmap.New()
	root := g.AddNode("Mind map")
	h, _ := g.AddChild(root, "History")
	e, _ := g.AddChild(h, "Early period")
	g.SetOriginPage(h, "Mind_map")
	g.SetOriginPage(e, "History_of_mind_maps")

	for _, n := range g.Nodes() {
		n.Color = "#000000"
		n.Scale = float64(3 - n.ID)
	}
	return g
}

func TestToTreeModel(t *testing.T) {
	m := ToTreeModel(sampleGraph())
	if m.Class != ModelClass {
		t.Errorf("Class = %q", m.Class)
	}
	if len(m.NodeDataArray) != 3 {
		t.Fatalf("got %d records, want 3", len(m.NodeDataArray))
	}
	for i, nd := range m.NodeDataArray {
		if nd.Key != i {
			t.Errorf("record %d has key %d", i, nd.Key)
		}
	}
	if m.NodeDataArray[0].Parent != nil {
		t.Error("root record must not have a parent")
	}
	if p := m.NodeDataArray[2].Parent; p == nil || *p != 1 {
		t.Errorf("record 2 parent = %v, want 1", p)
	}
}

func TestWriteJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sampleGraph(), &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var raw struct {
		Class string           `json:"class"`
		Nodes []map[string]any `json:"nodeDataArray"`
	}
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if raw.Class != "go.TreeModel" {
		t.Errorf("class = %q", raw.Class)
	}

	root := raw.Nodes[0]
	if _, ok := root["parent"]; ok {
		t.Error("root must omit parent")
	}
	if _, ok := root["pageTitle"]; ok {
		t.Error("root must omit an unset pageTitle")
	}
	for _, key := range []string{"key", "text", "brush", "scale"} {
		if _, ok := root[key]; !ok {
			t.Errorf("root record missing %q", key)
		}
	}
	if got := raw.Nodes[1]["pageTitle"]; got != "Mind_map" {
		t.Errorf("pageTitle = %v", got)
	}
	if got := raw.Nodes[1]["parent"]; got != float64(0) {
		t.Errorf("parent = %v, want 0", got)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(sampleGraph(), &buf); err != nil {
		t.Fatalf("WriteYAML() error: %v", err)
	}
	if !strings.Contains(buf.String(), "class: go.TreeModel") {
		t.Errorf("YAML missing class:\n%s", buf.String())
	}

	var m TreeModel
	if err := yaml.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("YAML does not decode: %v", err)
	}
	if len(m.NodeDataArray) != 3 || m.NodeDataArray[2].PageTitle != "History_of_mind_maps" {
		t.Errorf("decoded = %+v", m)
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	if err := ExportJSON(sampleGraph(), path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	g, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("imported graph invalid: %v", err)
	}
	n, _ := g.Node(2)
	if n.Name != "Early period" || n.Parent != 1 || n.OriginPage != "History_of_mind_maps" || n.Scale != 1 {
		t.Errorf("node 2 = %+v", n)
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON() of a missing file should fail")
	}
}

func intp(i int) *int { return &i }

func TestFromTreeModelErrors(t *testing.T) {
	tests := []struct {
		name  string
		nodes []NodeData
	}{
		{"empty", nil},
		{"key gap", []NodeData{{Key: 0}, {Key: 2, Parent: intp(0)}}},
		{"root with parent", []NodeData{{Key: 0, Parent: intp(0)}}},
		{"orphan", []NodeData{{Key: 0}, {Key: 1}}},
		{"forward parent", []NodeData{{Key: 0}, {Key: 1, Parent: intp(2)}, {Key: 2, Parent: intp(0)}}},
		{"negative parent", []NodeData{{Key: 0}, {Key: 1, Parent: intp(-1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromTreeModel(TreeModel{NodeDataArray: tt.nodes}); err == nil {
				t.Error("FromTreeModel() should fail")
			}
		})
	}

	_, err := FromTreeModel(TreeModel{NodeDataArray: []NodeData{{Key: 0}, {Key: 1}}})
	if !errors.Is(err, mindmap.ErrOrphanNode) {
		t.Errorf("orphan error = %v, want ErrOrphanNode", err)
	}
}

func TestReadJSONMalformed(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{not json")); err == nil {
		t.Error("ReadJSON() should fail on malformed input")
	}
}
