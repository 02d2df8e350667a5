package dag_test

import (
	"fmt"

	"github.com/matzehuels/sceneimport/pkg/dag"
)

func ExampleDAG_basic() {
	// A scene branch: Root → Body → Body's mesh
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "root", Row: 0})
	_ = g.AddNode(dag.Node{ID: "body", Row: 1})
	_ = g.AddNode(dag.Node{ID: "mesh", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "root", To: "body"})
	_ = g.AddEdge(dag.Edge{From: "body", To: "mesh"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Nodes: 3
	// Valid: true
}

func ExampleDAG_Walk() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "root", Row: 0, Label: "Root"})
	_ = g.AddNode(dag.Node{ID: "body", Row: 1, Label: "Body"})
	_ = g.AddNode(dag.Node{ID: "hat", Row: 1, Label: "Hat"})
	_ = g.AddNode(dag.Node{ID: "brim", Row: 2, Label: "Brim"})
	_ = g.AddEdge(dag.Edge{From: "root", To: "body"})
	_ = g.AddEdge(dag.Edge{From: "root", To: "hat"})
	_ = g.AddEdge(dag.Edge{From: "hat", To: "brim"})

	g.Walk(func(n *dag.Node, depth int) bool {
		fmt.Printf("%*s%s\n", depth*2, "", n.DisplayLabel())
		return true
	})
	// Output:
	// Root
	//   Body
	//   Hat
	//     Brim
}

func ExampleDAG_Validate() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})

	fmt.Println(g.Validate())
	// Output:
	// edges must connect consecutive rows
}
