// Package io converts mind maps to and from the tree-model exchange format.
//
// # Overview
//
// A tree model is a flat list of node records in node-ID order. Each record
// names its parent by key, which is enough for diagramming front ends to
// rebuild the tree:
//
//	{
//	  "class": "go.TreeModel",
//	  "nodeDataArray": [
//	    {"key": 0, "text": "Mind map", "brush": "#000000", "scale": 3},
//	    {"key": 1, "text": "History", "brush": "#ff0000", "scale": 2, "parent": 0, "pageTitle": "Mind_map"}
//	  ]
//	}
//
// # Record Fields
//
//   - key: node ID, sequential from 0
//   - text: section or page title
//   - brush: "#rrggbb" fill color
//   - scale: display scale
//   - parent: parent key, omitted for the root
//   - pageTitle: URL suffix of the article the node was read from, omitted when unset
//
// # Export
//
// Use [ToTreeModel] to build the records, [WriteJSON] or [WriteYAML] to
// encode a graph to any io.Writer, and [ExportJSON] to write a file.
//
// # Import
//
// [ReadJSON] and [ImportJSON] decode a tree model and rebuild the graph with
// [FromTreeModel]. Keys must be sequential and every parent must precede its
// children, which is always true for exported maps.
package io
