package mindmap

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownParent is returned by [Graph.AddChild] and
	// [Graph.AddChildIfAbsent] when the parent ID does not exist.
	ErrUnknownParent = errors.New("unknown parent node")

	// ErrUnknownNode is returned when a node ID does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNoRoot is returned by [Graph.Root] and [Graph.Validate] on an empty graph.
	ErrNoRoot = errors.New("graph has no root")

	// ErrOrphanNode is returned by [Graph.Validate] when a non-root node has no
	// parent, or when node 0 has one.
	ErrOrphanNode = errors.New("node has no parent")

	// ErrCycle is returned by [Graph.Validate] when following parent links
	// from some node never reaches the root.
	ErrCycle = errors.New("graph contains a cycle")
)

// RootID is the ID of the root node.
const RootID = 0

// NoParent is the Parent value of the root node.
const NoParent = -1

// Node is a mind map entry.
type Node struct {
	ID         int     // Sequential identifier, 0 for the root
	Name       string  // Section or page title
	Parent     int     // Parent ID, NoParent for the root
	OriginPage string  // URL suffix of the article the node was read from
	Scale      float64 // Visual scale, set by the layout pass
	Color      string  // "#rrggbb", set by the layout pass
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool { return n.Parent == NoParent }

// Graph is a rooted tree of [Node] values indexed by ID.
//
// The zero value is not usable - use [New].
type Graph struct {
	nodes    []*Node
	children [][]int
	next     int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode allocates the next ID and creates an unattached node with that
// name. The first node added is the root.
func (g *Graph) AddNode(name string) int {
	id := g.next
	g.next++
	g.nodes = append(g.nodes, &Node{ID: id, Name: name, Parent: NoParent})
	g.children = append(g.children, nil)
	return id
}

// AddChild creates a node and attaches it under parent. Children keep their
// insertion order.
func (g *Graph) AddChild(parent int, name string) (int, error) {
	if !g.has(parent) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownParent, parent)
	}
	id := g.AddNode(name)
	g.nodes[id].Parent = parent
	g.children[parent] = append(g.children[parent], id)
	return id, nil
}

// AddChildIfAbsent behaves like [Graph.AddChild] unless parent already has a
// child with the same name, in which case it returns that child's ID with
// added == false and creates nothing.
func (g *Graph) AddChildIfAbsent(parent int, name string) (id int, added bool, err error) {
	if !g.has(parent) {
		return 0, false, fmt.Errorf("%w: %d", ErrUnknownParent, parent)
	}
	for _, c := range g.children[parent] {
		if g.nodes[c].Name == name {
			return c, false, nil
		}
	}
	id, err = g.AddChild(parent, name)
	return id, err == nil, err
}

// Node returns the node with the given ID. The pointer refers to the node in
// the graph, so modifications affect the graph.
func (g *Graph) Node(id int) (*Node, bool) {
	if !g.has(id) {
		return nil, false
	}
	return g.nodes[id], true
}

// Children returns the child IDs of a node in insertion order. The returned
// slice must not be modified.
func (g *Graph) Children(id int) []int {
	if !g.has(id) {
		return nil
	}
	return g.children[id]
}

// Nodes returns all nodes in ID order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Root returns the root node.
func (g *Graph) Root() (*Node, error) {
	if len(g.nodes) == 0 {
		return nil, ErrNoRoot
	}
	return g.nodes[RootID], nil
}

// SetName renames a node.
func (g *Graph) SetName(id int, name string) error {
	if !g.has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	g.nodes[id].Name = name
	return nil
}

// SetOriginPage records the article a node was read from.
func (g *Graph) SetOriginPage(id int, page string) error {
	if !g.has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	g.nodes[id].OriginPage = page
	return nil
}

// Depths returns the distance from the root for every node reachable from
// it, indexed by node ID. Unreachable nodes get -1.
func (g *Graph) Depths() []int {
	depths := make([]int, len(g.nodes))
	for i := range depths {
		depths[i] = -1
	}
	if len(g.nodes) == 0 {
		return depths
	}

	depths[RootID] = 0
	queue := []int{RootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range g.children[id] {
			if depths[c] < 0 {
				depths[c] = depths[id] + 1
				queue = append(queue, c)
			}
		}
	}
	return depths
}

// LongestPath returns the number of edges on the longest root-to-leaf path.
// It is 0 for an empty or single-node graph.
func (g *Graph) LongestPath() int {
	longest := 0
	for _, d := range g.Depths() {
		longest = max(longest, d)
	}
	return longest
}

// Validate checks that the graph is a tree rooted at node 0: the root has no
// parent, every other node has exactly one existing parent that lists it as
// a child, and every node reaches the root.
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 {
		return ErrNoRoot
	}
	if !g.nodes[RootID].IsRoot() {
		return fmt.Errorf("%w: root %d has parent %d", ErrOrphanNode, RootID, g.nodes[RootID].Parent)
	}

	for _, n := range g.nodes[1:] {
		if n.IsRoot() || !g.has(n.Parent) {
			return fmt.Errorf("%w: %d (%q)", ErrOrphanNode, n.ID, n.Name)
		}
		if !slices.Contains(g.children[n.Parent], n.ID) {
			return fmt.Errorf("%w: %d not listed under parent %d", ErrOrphanNode, n.ID, n.Parent)
		}
	}

	for _, n := range g.nodes {
		steps, id := 0, n.ID
		for id != RootID {
			if steps > len(g.nodes) {
				return fmt.Errorf("%w: from node %d", ErrCycle, n.ID)
			}
			id = g.nodes[id].Parent
			steps++
		}
	}
	return nil
}

func (g *Graph) has(id int) bool { return id >= 0 && id < len(g.nodes) }
