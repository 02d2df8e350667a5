// Package nodelink renders projection trees as node-link diagrams and
// plain outlines.
//
// # Usage
//
// Convert a tree to DOT, then render to SVG:
//
//	tree := res.Projections.Tree(projection.ViewMesh)
//	dot := nodelink.ToDOT(tree, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// or print it:
//
//	err := nodelink.WriteText(os.Stdout, tree, nodelink.Options{})
//
// Nodes are filled by entry kind. Preview-only items, which have no
// stable identity and cannot be selected, are dashed and grey in diagrams
// and marked with an asterisk in outlines.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
