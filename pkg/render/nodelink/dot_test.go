package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/sceneimport/pkg/identity"
	"github.com/matzehuels/sceneimport/pkg/projection"
)

func sampleTree(t *testing.T) *projection.Tree {
	t.Helper()
	set := projection.NewSet()
	root, err := set.Add(projection.ViewScene, "", projection.Item{Label: "Root", Kind: identity.KindNode, ID: "/Root", Selectable: true})
	if err != nil {
		t.Fatal(err)
	}
	body, _ := set.Add(projection.ViewScene, root, projection.Item{Label: "Body", Kind: identity.KindNode, ID: "/Root/Body", Selectable: true})
	_, _ = set.Add(projection.ViewScene, body, projection.Item{Label: "M1", Kind: identity.KindMesh, ID: "/Root/Body:mesh", Selectable: true})
	_, _ = set.Add(projection.ViewScene, root, projection.Item{Label: "Generated", Kind: identity.KindNode})
	return set.Tree(projection.ViewScene)
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleTree(t), Options{})

	for _, want := range []string{
		"digraph G {",
		`label="scene view"`,
		`"scene:1" -> "scene:2";`,
		`"scene:2" -> "scene:3";`,
		"fillcolor=lightblue",
		"dashed",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "/Root/Body:mesh") {
		t.Error("identities appear only in detailed mode")
	}

	detailed := ToDOT(sampleTree(t), Options{Detailed: true})
	if !strings.Contains(detailed, `mesh: /Root/Body:mesh`) || !strings.Contains(detailed, "(no identity)") {
		t.Errorf("detailed DOT:\n%s", detailed)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleTree(t), Options{Detailed: true}); err != nil {
		t.Fatal(err)
	}
	want := "Root  [node /Root]\n" +
		"  Body  [node /Root/Body]\n" +
		"    M1  [mesh /Root/Body:mesh]\n" +
		"  Generated *\n"
	if buf.String() != want {
		t.Errorf("WriteText =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(sampleTree(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Errorf("SVG root not normalized: %.200s", svg)
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(in); !bytes.Equal(got, in) {
		t.Errorf("normalizeViewBox without viewBox = %s", got)
	}
}
