package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Node is one element of the live scene graph.
//
// A node may carry renderable geometry (Mesh), animation clips
// (Animations), or neither. Meshes, materials and animations are shared
// resources: several nodes may point at the same *Mesh, and the import
// settings model never mutates them.
type Node struct {
	Name string

	// Transform is the node's transform relative to its parent.
	Transform mgl64.Mat4

	// Generated marks helper nodes created procedurally by the importer.
	// They have no stable import identity.
	Generated bool

	Mesh *Mesh

	// MaterialOverrides replaces the primary material of the mesh surface
	// with the same index. Nil entries keep the mesh's own material.
	MaterialOverrides []*Material

	Animations []*Animation

	Children []*Node
	parent   *Node
}

// NewNode creates a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{Name: name, Transform: mgl64.Ident4()}
}

// AddChild appends c to n's children and returns c.
func (n *Node) AddChild(c *Node) *Node {
	c.parent = n
	n.Children = append(n.Children, c)
	return c
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// GlobalTransform composes the transforms from the root down to n.
func (n *Node) GlobalTransform() mgl64.Mat4 {
	m := n.localTransform()
	for p := n.parent; p != nil; p = p.parent {
		m = p.localTransform().Mul4(m)
	}
	return m
}

func (n *Node) localTransform() mgl64.Mat4 {
	if n.Transform == (mgl64.Mat4{}) {
		return mgl64.Ident4()
	}
	return n.Transform
}

// SurfaceMaterials returns the material slots of surface i as rendered on
// this node, with the node's override applied to slot 0.
func (n *Node) SurfaceMaterials(i int) []*Material {
	if n.Mesh == nil || i < 0 || i >= len(n.Mesh.Surfaces) {
		return nil
	}
	slots := n.Mesh.Surfaces[i].Materials
	if i >= len(n.MaterialOverrides) || n.MaterialOverrides[i] == nil {
		return slots
	}
	out := make([]*Material, max(len(slots), 1))
	copy(out, slots)
	out[0] = n.MaterialOverrides[i]
	return out
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool { count++; return true })
	return count
}

// Mesh is a shared geometry resource made of surfaces.
type Mesh struct {
	Name string

	// ImportID is the identity declared by the source asset, if any.
	ImportID string

	// Bounds is the local-space bounding box of all surfaces.
	Bounds Bounds

	Surfaces []Surface
}

// Surface is one draw call of a mesh. Materials holds the material slots
// of the surface: slot 0 is the primary material, further slots are extra
// passes.
type Surface struct {
	Name      string
	Materials []*Material
}

// Material is a shared material resource.
type Material struct {
	Name     string
	ImportID string
}

// Animation is a named animation clip.
type Animation struct {
	Name   string
	Length float64
	Loop   bool
}
