package identity

import (
	"testing"

	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/scene"
)

func tree() (root, body, helper, bad *scene.Node) {
	root = scene.NewNode("Root")
	body = root.AddChild(scene.NewNode("Body"))
	helper = root.AddChild(scene.NewNode("Collision"))
	helper.Generated = true
	bad = body.AddChild(scene.NewNode("Arm:L"))
	return
}

func TestNodePath(t *testing.T) {
	root, body, _, bad := tree()
	if p, err := NodePath(root); err != nil || p != "/Root" {
		t.Errorf("NodePath(root) = %q, %v", p, err)
	}
	if p, err := NodePath(body); err != nil || p != "/Root/Body" {
		t.Errorf("NodePath(body) = %q, %v", p, err)
	}
	if _, err := NodePath(bad); !errors.Is(err, errors.ErrCodeUnresolvableIdentity) {
		t.Errorf("NodePath(illegal name) error = %v", err)
	}

	child := bad.AddChild(scene.NewNode("Hand"))
	if _, err := NodePath(child); err == nil {
		t.Error("an illegal ancestor name must make the whole subtree unresolvable")
	}
	if got := DisplayPath(child); got != `/Root/Body/"Arm:L"/Hand` {
		t.Errorf("DisplayPath = %s", got)
	}
}

func TestResolve(t *testing.T) {
	root, body, helper, bad := tree()
	mesh := &scene.Mesh{Name: "M1"}
	declared := &scene.Mesh{Name: "M2", ImportID: "mesh-42"}
	mat := &scene.Material{Name: "A"}
	clip := &scene.Animation{Name: "walk"}

	tests := []struct {
		name   string
		kind   Kind
		ctx    Context
		want   string
		stable bool
	}{
		{"root node", KindNode, Context{Node: root}, "/Root", true},
		{"nested node", KindNode, Context{Node: body}, "/Root/Body", true},
		{"generated node", KindNode, Context{Node: helper}, "", false},
		{"illegal name", KindNode, Context{Node: bad}, "", false},
		{"mesh by path", KindMesh, Context{Node: body, Mesh: mesh}, "/Root/Body:mesh", true},
		{"mesh declared id", KindMesh, Context{Node: helper, Mesh: declared}, "mesh-42", true},
		{"mesh on generated node", KindMesh, Context{Node: helper, Mesh: mesh}, "", false},
		{"material slot 0", KindMaterial, Context{Node: body, Material: mat, Surface: 1}, "/Root/Body:surface1", true},
		{"material extra slot", KindMaterial, Context{Node: body, Material: mat, Surface: 1, Slot: 2}, "/Root/Body:surface1:2", true},
		{"material declared id", KindMaterial, Context{Node: bad, Material: &scene.Material{ImportID: "mat-7"}}, "mat-7", true},
		{"material unresolvable", KindMaterial, Context{Node: bad, Material: mat}, "", false},
		{"animation", KindAnimation, Context{Animation: clip}, "walk", true},
		{"unnamed animation", KindAnimation, Context{Animation: &scene.Animation{}}, "", false},
		{"unknown kind", Kind("light"), Context{Node: body}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stable := Resolve(tt.kind, tt.ctx)
			if got != tt.want || stable != tt.stable {
				t.Errorf("Resolve() = (%q, %v), want (%q, %v)", got, stable, tt.want, tt.stable)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	_, body, _, _ := tree()
	ctx := Context{Node: body, Material: &scene.Material{}, Surface: 0}
	a, _ := Resolve(KindMaterial, ctx)
	b, _ := Resolve(KindMaterial, ctx)
	if a != b {
		t.Errorf("Resolve must be deterministic: %q != %q", a, b)
	}
}

func TestRegistryFirstWins(t *testing.T) {
	r := NewRegistry()
	first, second := &scene.Mesh{Name: "a"}, &scene.Mesh{Name: "b"}

	if !r.Claim(KindMesh, "m", first, "/A") {
		t.Fatal("first claim should succeed")
	}
	if !r.Claim(KindMesh, "m", first, "/A") {
		t.Error("re-claiming by the same owner should succeed")
	}
	if r.Claim(KindMesh, "m", second, "/B") {
		t.Error("a second owner must not take the id")
	}
	if owner, _ := r.Owner(KindMesh, "m"); owner != first {
		t.Error("first-registered owner must be kept")
	}
	if !r.Claim(KindMaterial, "m", second, "/B") {
		t.Error("ids are unique per kind, not across kinds")
	}

	conflicts := r.Conflicts()
	if !r.Ambiguous() || len(conflicts) != 1 || conflicts[0].Where != "/B" || conflicts[0].Kind != KindMesh {
		t.Errorf("Conflicts() = %+v", conflicts)
	}
	if r.Len(KindMesh) != 1 {
		t.Errorf("Len(mesh) = %d", r.Len(KindMesh))
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		if got, err := ParseKind(string(k)); err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseKind("light"); !errors.Is(err, errors.ErrCodeInvalidKind) {
		t.Errorf("ParseKind(light) error = %v", err)
	}
}
