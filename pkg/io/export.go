package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/wikimap/pkg/mindmap"
)

// ModelClass is the class tag of exported tree models.
const ModelClass = "go.TreeModel"

// TreeModel is the exchange format of a mind map.
type TreeModel struct {
	Class         string     `json:"class" yaml:"class"`
	NodeDataArray []NodeData `json:"nodeDataArray" yaml:"nodeDataArray"`
}

// NodeData is one node record.
type NodeData struct {
	Key       int     `json:"key" yaml:"key"`
	Text      string  `json:"text" yaml:"text"`
	Brush     string  `json:"brush" yaml:"brush"`
	Scale     float64 `json:"scale" yaml:"scale"`
	Parent    *int    `json:"parent,omitempty" yaml:"parent,omitempty"`
	PageTitle string  `json:"pageTitle,omitempty" yaml:"pageTitle,omitempty"`
}

// ToTreeModel flattens g into records in node-ID order.
func ToTreeModel(g *mindmap.Graph) TreeModel {
	nodes := g.Nodes()
	out := TreeModel{
		Class:         ModelClass,
		NodeDataArray: make([]NodeData, len(nodes)),
	}
	for i, n := range nodes {
		nd := NodeData{
			Key:       n.ID,
			Text:      n.Name,
			Brush:     n.Color,
			Scale:     n.Scale,
			PageTitle: n.OriginPage,
		}
		if !n.IsRoot() {
			parent := n.Parent
			nd.Parent = &parent
		}
		out.NodeDataArray[i] = nd
	}
	return out
}

// WriteJSON encodes g as an indented JSON tree model and writes it to w.
func WriteJSON(g *mindmap.Graph, w io.Writer) error {
	return EncodeJSON(ToTreeModel(g), w)
}

// EncodeJSON writes an already flattened model to w.
func EncodeJSON(m TreeModel, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes g as a YAML tree model and writes it to w.
func WriteYAML(g *mindmap.Graph, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToTreeModel(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes g to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *mindmap.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
