// Package mindmap provides the tree container that a generation run grows.
//
// # Overview
//
// A mind map is a strict tree: one root (ID 0) and every other node attached
// to exactly one parent. Nodes are identified by integers handed out by a
// counter owned by the [Graph], so IDs are sequential, never reused, and
// reflect creation order. Export relies on that order.
//
// # Basic Usage
//
//	g := mindmap.New()
//	root := g.AddNode("Mind map")
//	history, _ := g.AddChild(root, "History")
//	g.AddChildIfAbsent(history, "Early period") // added
//	g.AddChildIfAbsent(history, "Early period") // no-op, added == false
//
// [Graph.AddChildIfAbsent] is how repeated subsection titles reached through
// different links collapse into a single node.
//
// # Decorations
//
// [Node.Scale] and [Node.Color] are left zero by the builder and filled in by
// the layout pass. [Node.OriginPage] records the URL suffix of the article a
// header was read from.
//
// # Concurrency
//
// Graph is not safe for concurrent use. A generation run owns its graph and
// mutates it from a single goroutine.
package mindmap
