package identity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/scene"
)

// Kind names one of the four sub-resource mappings.
type Kind string

const (
	KindNode      Kind = "node"
	KindMesh      Kind = "mesh"
	KindMaterial  Kind = "material"
	KindAnimation Kind = "animation"
)

// Kinds lists every kind in serialization order.
var Kinds = []Kind{KindNode, KindMesh, KindMaterial, KindAnimation}

// ParseKind converts a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindNode, KindMesh, KindMaterial, KindAnimation:
		return k, nil
	}
	return "", errors.New(errors.ErrCodeInvalidKind, "unknown kind %q (want node, mesh, material or animation)", s)
}

const (
	// Separator joins node names into a path. It is illegal in node names.
	Separator = "/"

	// suffixSep separates a node path from a resource suffix. It is also
	// illegal in node names, so suffixed ids never collide with node paths.
	suffixSep = ":"
)

// Context carries what [Resolve] needs for one sub-resource.
type Context struct {
	// Node is the node owning the resource, or the node itself for KindNode.
	Node *scene.Node

	// Surface and Slot locate a material on the node's mesh.
	Surface int
	Slot    int

	Mesh      *scene.Mesh
	Material  *scene.Material
	Animation *scene.Animation
}

// NodePath returns the path of n from the scene root, e.g. "/Root/Body".
// It fails when any name along the path is not a legal node name.
func NodePath(n *scene.Node) (string, error) {
	if n == nil {
		return "", errors.New(errors.ErrCodeUnresolvableIdentity, "nil node")
	}
	var names []string
	for p := n; p != nil; p = p.Parent() {
		if err := errors.ValidateNodeName(p.Name); err != nil {
			return "", errors.Wrap(errors.ErrCodeUnresolvableIdentity, err, "node path")
		}
		names = append(names, p.Name)
	}
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		b.WriteString(Separator)
		b.WriteString(names[i])
	}
	return b.String(), nil
}

// DisplayPath returns a best-effort path for logs and tree labels, even
// for nodes whose path does not resolve.
func DisplayPath(n *scene.Node) string {
	var names []string
	for p := n; p != nil; p = p.Parent() {
		name := p.Name
		if errors.ValidateNodeName(name) != nil {
			name = strconv.Quote(name)
		}
		names = append(names, name)
	}
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		b.WriteString(Separator)
		b.WriteString(names[i])
	}
	return b.String()
}

// Resolve derives the identity of a sub-resource.
//
//   - node: the node path
//   - mesh: the mesh's declared import id, else node path + ":mesh"
//   - material: the material's declared import id, else node path +
//     ":surface<i>", with ":<slot>" appended for slots after the first
//   - animation: the clip's declared name
//
// The second result is false when no stable id exists: the node is a
// generated helper or its path holds an illegal name, and the resource
// declares no import id of its own. Such resources are preview-only.
func Resolve(kind Kind, ctx Context) (string, bool) {
	switch kind {
	case KindNode:
		if ctx.Node == nil || ctx.Node.Generated {
			return "", false
		}
		path, err := NodePath(ctx.Node)
		return path, err == nil

	case KindMesh:
		if ctx.Mesh != nil && ctx.Mesh.ImportID != "" {
			return ctx.Mesh.ImportID, true
		}
		base, ok := Resolve(KindNode, ctx)
		if !ok {
			return "", false
		}
		return base + suffixSep + "mesh", true

	case KindMaterial:
		if ctx.Material != nil && ctx.Material.ImportID != "" {
			return ctx.Material.ImportID, true
		}
		base, ok := Resolve(KindNode, ctx)
		if !ok {
			return "", false
		}
		id := fmt.Sprintf("%s%ssurface%d", base, suffixSep, ctx.Surface)
		if ctx.Slot > 0 {
			id += suffixSep + strconv.Itoa(ctx.Slot)
		}
		return id, true

	case KindAnimation:
		if ctx.Animation == nil || ctx.Animation.Name == "" {
			return "", false
		}
		return ctx.Animation.Name, true
	}
	return "", false
}
