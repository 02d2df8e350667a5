package projection

import (
	"fmt"
	"strings"

	"github.com/matzehuels/sceneimport/pkg/dag"
	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/identity"
)

// View names one of the three parallel tree views.
type View string

const (
	ViewScene    View = "scene"
	ViewMesh     View = "mesh"
	ViewMaterial View = "material"
)

// Views lists every view in display order.
var Views = []View{ViewScene, ViewMesh, ViewMaterial}

// ParseView converts a view name.
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewScene, ViewMesh, ViewMaterial:
		return v, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown view %q (want scene, mesh or material)", s)
}

// Handle is an opaque reference to one tree item, e.g. "scene:17".
type Handle string

// View returns the view encoded in the handle.
func (h Handle) View() View {
	v, _, _ := strings.Cut(string(h), ":")
	return View(v)
}

// Metadata keys set on every projection node of the underlying graph.
const (
	MetaKind       = "kind"
	MetaID         = "id"
	MetaSelectable = "selectable"
)

// Item is one entry of a tree view.
type Item struct {
	Handle Handle
	Label  string
	Kind   identity.Kind

	// ID is the identity of the entry behind the item. It is empty for
	// preview-only resources.
	ID string

	// Selectable is false for items without a store entry.
	Selectable bool
}

// Ref locates an item in a specific view.
type Ref struct {
	View   View
	Handle Handle
}

// Tree is one view: a forest of items stored in a [dag.DAG] whose rows are
// item depths.
type Tree struct {
	view  View
	g     *dag.DAG
	items map[Handle]Item
	next  int
}

func newTree(v View) *Tree {
	return &Tree{
		view:  v,
		g:     dag.New(),
		items: make(map[Handle]Item),
	}
}

// View returns the tree's view.
func (t *Tree) View() View { return t.view }

// Len returns the number of items.
func (t *Tree) Len() int { return t.g.NodeCount() }

// Graph returns the underlying graph. Callers must not modify it.
func (t *Tree) Graph() *dag.DAG { return t.g }

func (t *Tree) add(parent Handle, it Item) (Handle, error) {
	row := 0
	if parent != "" {
		p, ok := t.g.Node(string(parent))
		if !ok {
			return "", errors.New(errors.ErrCodeInternal, "%s tree: unknown parent %s", t.view, parent)
		}
		row = p.Row + 1
	}

	t.next++
	it.Handle = Handle(fmt.Sprintf("%s:%d", t.view, t.next))
	node := dag.Node{
		ID:    string(it.Handle),
		Row:   row,
		Label: it.Label,
		Meta: dag.Metadata{
			MetaKind:       string(it.Kind),
			MetaID:         it.ID,
			MetaSelectable: it.Selectable,
		},
	}
	if err := t.g.AddNode(node); err != nil {
		return "", err
	}
	if parent != "" {
		if err := t.g.AddEdge(dag.Edge{From: string(parent), To: node.ID}); err != nil {
			return "", err
		}
	}
	t.items[it.Handle] = it
	return it.Handle, nil
}

// Item returns the item behind h.
func (t *Tree) Item(h Handle) (Item, bool) {
	it, ok := t.items[h]
	return it, ok
}

// Roots returns the top-level items in insertion order.
func (t *Tree) Roots() []Handle {
	return handles(dag.NodeIDs(t.g.Sources()))
}

// Children returns the child items of h in insertion order.
func (t *Tree) Children(h Handle) []Handle {
	return handles(t.g.Children(string(h)))
}

// Parent returns the parent of h, or "" for a root.
func (t *Tree) Parent(h Handle) Handle {
	if ps := t.g.Parents(string(h)); len(ps) > 0 {
		return Handle(ps[0])
	}
	return ""
}

// Walk visits every item depth-first, parents before children.
func (t *Tree) Walk(fn func(it Item, depth int) bool) {
	t.g.Walk(func(n *dag.Node, depth int) bool {
		return fn(t.items[Handle(n.ID)], depth)
	})
}

func handles(ids []string) []Handle {
	out := make([]Handle, len(ids))
	for i, id := range ids {
		out[i] = Handle(id)
	}
	return out
}

type entryKey struct {
	kind identity.Kind
	id   string
}

// Set holds the three views of one walk and the bidirectional index from
// entry identity to the items that project it.
type Set struct {
	trees map[View]*Tree
	index map[entryKey][]Ref
}

// NewSet returns three empty views.
func NewSet() *Set {
	s := &Set{
		trees: make(map[View]*Tree, len(Views)),
		index: make(map[entryKey][]Ref),
	}
	for _, v := range Views {
		s.trees[v] = newTree(v)
	}
	return s
}

// Tree returns the view v.
func (s *Set) Tree(v View) *Tree { return s.trees[v] }

// Add appends it under parent ("" for a root) in view v and indexes it
// when it carries an identity.
func (s *Set) Add(v View, parent Handle, it Item) (Handle, error) {
	t, ok := s.trees[v]
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown view %q", v)
	}
	h, err := t.add(parent, it)
	if err != nil {
		return "", err
	}
	if it.ID != "" && it.Selectable {
		k := entryKey{it.Kind, it.ID}
		s.index[k] = append(s.index[k], Ref{View: v, Handle: h})
	}
	return h, nil
}

// Bind attaches a preview-only item to the entry id once that entry has
// been registered, making it selectable and indexing it.
func (s *Set) Bind(h Handle, id string) error {
	t, ok := s.trees[h.View()]
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown view %q", h.View())
	}
	it, ok := t.items[h]
	if !ok {
		return errors.New(errors.ErrCodeInternal, "%s tree: unknown item %s", t.view, h)
	}
	if it.ID != "" {
		return errors.New(errors.ErrCodeInternal, "%s tree: item %s is already bound to %q", t.view, h, it.ID)
	}
	it.ID, it.Selectable = id, true
	t.items[h] = it
	if n, ok := t.g.Node(string(h)); ok {
		n.Meta[MetaID] = id
		n.Meta[MetaSelectable] = true
	}
	k := entryKey{it.Kind, id}
	s.index[k] = append(s.index[k], Ref{View: h.View(), Handle: h})
	return nil
}

// Validate checks the graph of every view.
func (s *Set) Validate() error {
	for _, v := range Views {
		if err := s.trees[v].g.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "%s tree", v)
		}
	}
	return nil
}

// Refs returns every item projecting (kind, id), across all views, in
// insertion order.
func (s *Set) Refs(kind identity.Kind, id string) []Ref {
	return append([]Ref(nil), s.index[entryKey{kind, id}]...)
}

// RefsIn returns the items projecting (kind, id) in view v.
func (s *Set) RefsIn(v View, kind identity.Kind, id string) []Handle {
	var out []Handle
	for _, r := range s.index[entryKey{kind, id}] {
		if r.View == v {
			out = append(out, r.Handle)
		}
	}
	return out
}

// Resolve maps a handle back to its item. The view is read from the
// handle itself.
func (s *Set) Resolve(h Handle) (Item, bool) {
	t, ok := s.trees[h.View()]
	if !ok {
		return Item{}, false
	}
	return t.Item(h)
}
