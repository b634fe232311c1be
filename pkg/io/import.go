package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/wikimap/pkg/mindmap"
)

// DecodeJSON decodes a tree model from r without rebuilding the graph.
func DecodeJSON(r io.Reader) (TreeModel, error) {
	var m TreeModel
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return TreeModel{}, fmt.Errorf("decode: %w", err)
	}
	return m, nil
}

// ReadJSON decodes a JSON tree model from r into a graph.
//
// ReadJSON returns an error if the JSON is malformed or the records do not
// describe a tree (see [FromTreeModel]). ReadJSON does not close r.
func ReadJSON(r io.Reader) (*mindmap.Graph, error) {
	m, err := DecodeJSON(r)
	if err != nil {
		return nil, err
	}
	return FromTreeModel(m)
}

// FromTreeModel rebuilds a graph from records. Keys must run 0..n-1 in order,
// key 0 must have no parent, and every other record must name an earlier key
// as its parent. Decorations and page titles are restored.
func FromTreeModel(m TreeModel) (*mindmap.Graph, error) {
	g := mindmap.New()
	for i, nd := range m.NodeDataArray {
		if nd.Key != i {
			return nil, fmt.Errorf("node %d: key out of sequence (want %d)", nd.Key, i)
		}

		var id int
		switch {
		case i == 0 && nd.Parent != nil:
			return nil, fmt.Errorf("node 0: root has parent %d", *nd.Parent)
		case i == 0:
			id = g.AddNode(nd.Text)
		case nd.Parent == nil:
			return nil, fmt.Errorf("node %d: %w", nd.Key, mindmap.ErrOrphanNode)
		case *nd.Parent >= nd.Key:
			return nil, fmt.Errorf("node %d: parent %d does not precede it", nd.Key, *nd.Parent)
		default:
			var err error
			if id, err = g.AddChild(*nd.Parent, nd.Text); err != nil {
				return nil, fmt.Errorf("node %d: %w", nd.Key, err)
			}
		}

		n, _ := g.Node(id)
		n.Color = nd.Brush
		n.Scale = nd.Scale
		n.OriginPage = nd.PageTitle
	}
	if g.Len() == 0 {
		return nil, mindmap.ErrNoRoot
	}
	return g, nil
}

// ImportJSON reads a JSON tree model file at path and returns the graph.
func ImportJSON(path string) (*mindmap.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
