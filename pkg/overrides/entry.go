package overrides

import (
	"github.com/matzehuels/sceneimport/pkg/identity"
	"github.com/matzehuels/sceneimport/pkg/scene"
	"github.com/matzehuels/sceneimport/pkg/settings"
)

// Entry is the model record of one sub-resource. Which resource field is
// set depends on Kind: Node for nodes, Mesh for meshes, Material for
// materials, Animation for animations. Resources are shared references
// and are never modified through an entry.
type Entry struct {
	Kind     identity.Kind
	ID       string
	Category settings.Category

	// Path is the scene path of the node the entry was first found under.
	Path string

	// Bounds is the world-space box used to frame the preview. Empty for
	// entries without geometry.
	Bounds scene.Bounds

	Node      *scene.Node
	Mesh      *scene.Mesh
	Material  *scene.Material
	Animation *scene.Animation

	// Ancestor is the entry whose effective settings feed inheritable
	// defaults. Nil at the top of the hierarchy.
	Ancestor *Entry

	overrides settings.Bag
}

// HasOverrides reports whether the entry has at least one explicit
// override.
func (e *Entry) HasOverrides() bool { return len(e.overrides) > 0 }

// Overrides returns a copy of the explicit override bag.
func (e *Entry) Overrides() settings.Bag { return e.overrides.Clone() }

// Override returns the explicit value of key, if set.
func (e *Entry) Override(key string) (settings.Value, bool) {
	v, ok := e.overrides[key]
	return v, ok
}

func (e *Entry) defaults(r *settings.Resolver) settings.Bag {
	var anc settings.Bag
	if e.Ancestor != nil {
		anc = e.Ancestor.effective(r)
	}
	return r.DefaultsFor(e.Category, anc)
}

func (e *Entry) effective(r *settings.Resolver) settings.Bag {
	return e.defaults(r).Overlay(e.overrides)
}
