package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sceneimport/pkg/dag"
	"github.com/matzehuels/sceneimport/pkg/projection"
)

// Options configures tree diagram rendering.
type Options struct {
	// Detailed adds the identity of each item to its label.
	Detailed bool
}

// kindFill colors nodes by the kind of entry they show.
var kindFill = map[string]string{
	"node":      "white",
	"mesh":      "lightblue",
	"material":  "moccasin",
	"animation": "palegreen",
}

// ToDOT converts one projection tree to Graphviz DOT. Items without a
// store entry are drawn dashed and grey; they cannot be selected.
func ToDOT(t *projection.Tree, opts Options) string {
	g := t.Graph()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	fmt.Fprintf(&buf, "  label=%q;\n", string(t.View())+" view")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(*n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n dag.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}
	kind, _ := n.Meta[projection.MetaKind].(string)
	id, _ := n.Meta[projection.MetaID].(string)
	if id == "" {
		id = "(no identity)"
	}
	return label + "\n" + kind + ": " + id
}

func fmtAttrs(n dag.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	if sel, _ := n.Meta[projection.MetaSelectable].(bool); !sel {
		return append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=grey30")
	}
	kind, _ := n.Meta[projection.MetaKind].(string)
	if fill, ok := kindFill[kind]; ok {
		attrs = append(attrs, "fillcolor="+fill)
	}
	return attrs
}

// WriteText writes the tree as an indented outline, one item per line.
// Preview-only items are marked with an asterisk.
func WriteText(w io.Writer, t *projection.Tree, opts Options) error {
	var err error
	t.Walk(func(it projection.Item, depth int) bool {
		if err != nil {
			return false
		}
		line := strings.Repeat("  ", depth) + it.Label
		if opts.Detailed && it.ID != "" {
			line += "  [" + string(it.Kind) + " " + it.ID + "]"
		}
		if !it.Selectable {
			line += " *"
		}
		_, err = fmt.Fprintln(w, line)
		return err == nil
	})
	return err
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with a
// zero-origin viewBox so the SVG scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
