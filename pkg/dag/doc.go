// Package dag provides a row-layered directed acyclic graph.
//
// # Overview
//
// Nodes are organized into horizontal rows (layers) and edges only connect
// nodes in consecutive rows. The tree projections of an import session are
// built on this structure: each projection item is a node whose row is its
// depth, and each parent/child relation is an edge.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]. Nodes must have unique IDs, and edges can only connect
// existing nodes in consecutive rows (From.Row+1 == To.Row):
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "root", Row: 0, Label: "Root"})
//	g.AddNode(dag.Node{ID: "body", Row: 1, Label: "Body"})
//	g.AddEdge(dag.Edge{From: "root", To: "body"})
//
// Query the graph structure with [DAG.Children], [DAG.Parents],
// [DAG.Node] and [DAG.Walk]. Use [DAG.Validate] to verify structural
// integrity before rendering.
//
// # Ordering
//
// Unlike a plain map-backed graph, node and child order is insertion order.
// Two identical walks therefore produce identical graphs, and renderers
// can rely on [DAG.Nodes] and [DAG.Walk] being deterministic.
//
// # Metadata
//
// Nodes and edges carry [Metadata] maps. Projections use
// node metadata for the entry kind and identity behind each item. Metadata
// maps are never nil after insertion.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
package dag
