package mindmap

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNodeSequentialIDs(t *testing.T) {
	g := New()
	for want := 0; want < 5; want++ {
		if got := g.AddNode("n"); got != want {
			t.Fatalf("AddNode() = %d, want %d", got, want)
		}
	}
	if g.Len() != 5 {
		t.Errorf("Len() = %d, want 5", g.Len())
	}
}

func TestIDsIndependentPerGraph(t *testing.T) {
	a, b := New(), New()
	a.AddNode("a0")
	a.AddNode("a1")
	if got := b.AddNode("b0"); got != 0 {
		t.Errorf("second graph starts at %d, want 0", got)
	}
}

func TestAddChild(t *testing.T) {
	g := New()
	root := g.AddNode("root")
	c1, err := g.AddChild(root, "History")
	if err != nil {
		t.Fatalf("AddChild() error: %v", err)
	}
	c2, _ := g.AddChild(root, "History")
	if c1 == c2 {
		t.Error("AddChild() should always create a new node")
	}

	n, ok := g.Node(c1)
	if !ok || n.Parent != root || n.Name != "History" {
		t.Errorf("Node(%d) = %+v, %v", c1, n, ok)
	}
	if got := g.Children(root); !slices.Equal(got, []int{c1, c2}) {
		t.Errorf("Children(root) = %v, want [%d %d]", got, c1, c2)
	}

	if _, err := g.AddChild(42, "x"); !errors.Is(err, ErrUnknownParent) {
		t.Errorf("AddChild(42) error = %v, want ErrUnknownParent", err)
	}
	if _, err := g.AddChild(-1, "x"); !errors.Is(err, ErrUnknownParent) {
		t.Errorf("AddChild(-1) error = %v, want ErrUnknownParent", err)
	}
}

func TestAddChildIfAbsentIdempotent(t *testing.T) {
	g := New()
	root := g.AddNode("root")
	section, _ := g.AddChild(root, "Uses")

	first, added, err := g.AddChildIfAbsent(section, "Overview")
	if err != nil || !added {
		t.Fatalf("first AddChildIfAbsent() = %d, %v, %v", first, added, err)
	}
	second, added, err := g.AddChildIfAbsent(section, "Overview")
	if err != nil {
		t.Fatalf("second AddChildIfAbsent() error: %v", err)
	}
	if added {
		t.Error("second AddChildIfAbsent() should not add")
	}
	if second != first {
		t.Errorf("second AddChildIfAbsent() = %d, want existing %d", second, first)
	}
	if n := len(g.Children(section)); n != 1 {
		t.Errorf("section has %d children, want 1", n)
	}
	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}

	// Same name under a different parent is a different node.
	other, _ := g.AddChild(root, "Design")
	if _, added, _ := g.AddChildIfAbsent(other, "Overview"); !added {
		t.Error("AddChildIfAbsent() under another parent should add")
	}

	if _, _, err := g.AddChildIfAbsent(99, "x"); !errors.Is(err, ErrUnknownParent) {
		t.Errorf("AddChildIfAbsent(99) error = %v, want ErrUnknownParent", err)
	}
}

func TestRootAndSetters(t *testing.T) {
	g := New()
	if _, err := g.Root(); !errors.Is(err, ErrNoRoot) {
		t.Errorf("Root() on empty graph error = %v", err)
	}

	g.AddNode("Mind_map")
	if err := g.SetName(RootID, "Mind map"); err != nil {
		t.Fatal(err)
	}
	c, _ := g.AddChild(RootID, "History")
	if err := g.SetOriginPage(c, "Mind_map"); err != nil {
		t.Fatal(err)
	}

	root, err := g.Root()
	if err != nil || root.Name != "Mind map" || !root.IsRoot() {
		t.Errorf("Root() = %+v, %v", root, err)
	}
	if n, _ := g.Node(c); n.OriginPage != "Mind_map" {
		t.Errorf("OriginPage = %q", n.OriginPage)
	}

	if err := g.SetName(7, "x"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("SetName(7) error = %v", err)
	}
	if err := g.SetOriginPage(7, "x"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("SetOriginPage(7) error = %v", err)
	}
	if _, ok := g.Node(7); ok {
		t.Error("Node(7) should not exist")
	}
	if g.Children(7) != nil {
		t.Error("Children(7) should be nil")
	}
}

func TestDepthsAndLongestPath(t *testing.T) {
	g := New()
	if g.LongestPath() != 0 {
		t.Error("LongestPath() of empty graph should be 0")
	}

	root := g.AddNode("root")
	if g.LongestPath() != 0 {
		t.Error("LongestPath() of single node should be 0")
	}

	a, _ := g.AddChild(root, "a")
	b, _ := g.AddChild(a, "b")
	g.AddChild(b, "c")
	g.AddChild(root, "d")

	want := []int{0, 1, 2, 3, 1}
	if got := g.Depths(); !slices.Equal(got, want) {
		t.Errorf("Depths() = %v, want %v", got, want)
	}
	if got := g.LongestPath(); got != 3 {
		t.Errorf("LongestPath() = %d, want 3", got)
	}
}

func TestNodesInIDOrder(t *testing.T) {
	g := New()
	root := g.AddNode("root")
	a, _ := g.AddChild(root, "a")
	g.AddChild(a, "a1")
	g.AddChild(root, "b")

	for i, n := range g.Nodes() {
		if n.ID != i {
			t.Errorf("Nodes()[%d].ID = %d", i, n.ID)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid tree", func(t *testing.T) {
		g := New()
		root := g.AddNode("root")
		a, _ := g.AddChild(root, "a")
		g.AddChild(a, "b")
		if err := g.Validate(); err != nil {
			t.Errorf("Validate() error: %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if err := New().Validate(); !errors.Is(err, ErrNoRoot) {
			t.Errorf("Validate() error = %v, want ErrNoRoot", err)
		}
	})

	t.Run("second root", func(t *testing.T) {
		g := New()
		g.AddNode("root")
		g.AddNode("stray")
		if err := g.Validate(); !errors.Is(err, ErrOrphanNode) {
			t.Errorf("Validate() error = %v, want ErrOrphanNode", err)
		}
	})

	t.Run("cycle", func(t *testing.T) {
		g := New()
		root := g.AddNode("root")
		a, _ := g.AddChild(root, "a")
		b, _ := g.AddChild(a, "b")
		// Rewire a under b while keeping the child lists consistent.
		g.nodes[a].Parent = b
		g.children[root] = nil
		g.children[b] = append(g.children[b], a)
		if err := g.Validate(); !errors.Is(err, ErrCycle) {
			t.Errorf("Validate() error = %v, want ErrCycle", err)
		}
	})
}
