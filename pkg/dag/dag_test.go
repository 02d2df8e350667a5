package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNodeErrors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID: %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate: %v", err)
	}
	n, _ := g.Node("a")
	if n.Meta == nil {
		t.Error("Meta should be initialized")
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	if err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source: %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target: %v", err)
	}
}

func TestInsertionOrder(t *testing.T) {
	g := New()
	ids := []string{"z", "m", "a", "q"}
	for _, id := range ids {
		_ = g.AddNode(Node{ID: id})
	}
	if got := NodeIDs(g.Nodes()); !slices.Equal(got, ids) {
		t.Errorf("Nodes() = %v, want insertion order %v", got, ids)
	}
	if got := NodeIDs(g.Sources()); !slices.Equal(got, ids) {
		t.Errorf("Sources() = %v", got)
	}
}

func TestValidateCycle(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a", Row: 0})
	_ = g.AddNode(Node{ID: "b", Row: 1})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "b", To: "a"})
	// The back edge also breaks the row rule, which is checked first.
	if err := g.Validate(); !errors.Is(err, ErrNonConsecutiveRows) {
		t.Errorf("Validate() = %v", err)
	}

	g = New()
	_ = g.AddNode(Node{ID: "a", Row: 0})
	_ = g.AddEdge(Edge{From: "a", To: "a"})
	g.edges = nil // bypass the row check
	if err := g.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("self loop: Validate() = %v", err)
	}
}

func TestWalkSkip(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "r", Row: 0})
	_ = g.AddNode(Node{ID: "a", Row: 1})
	_ = g.AddNode(Node{ID: "a1", Row: 2})
	_ = g.AddNode(Node{ID: "b", Row: 1})
	_ = g.AddEdge(Edge{From: "r", To: "a"})
	_ = g.AddEdge(Edge{From: "a", To: "a1"})
	_ = g.AddEdge(Edge{From: "r", To: "b"})

	var seen []string
	g.Walk(func(n *Node, _ int) bool {
		seen = append(seen, n.ID)
		return n.ID != "a"
	})
	if want := []string{"r", "a", "b"}; !slices.Equal(seen, want) {
		t.Errorf("Walk = %v, want %v", seen, want)
	}
}
