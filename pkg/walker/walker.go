package walker

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/identity"
	"github.com/matzehuels/sceneimport/pkg/observability"
	"github.com/matzehuels/sceneimport/pkg/overrides"
	"github.com/matzehuels/sceneimport/pkg/projection"
	"github.com/matzehuels/sceneimport/pkg/scene"
	"github.com/matzehuels/sceneimport/pkg/settings"
)

// Options configures a walk.
type Options struct {
	// Asset names the source asset in logs and hook events.
	Asset string

	// AnimationOnly restricts the walk to nodes and animations. Meshes and
	// materials are neither registered nor projected.
	AnimationOnly bool

	// Resolver computes default bags. Nil uses the built-in defaults.
	Resolver *settings.Resolver

	// Seed holds overrides to restore onto matching entries.
	Seed overrides.Seed

	// Runtime options
	Logger *log.Logger
}

// Covers reports whether a walk with these options registers entries of
// kind.
func (o Options) Covers(kind identity.Kind) bool {
	return !o.AnimationOnly || (kind != identity.KindMesh && kind != identity.KindMaterial)
}

// Excluded lists the kinds a walk with these options does not register.
func (o Options) Excluded() []identity.Kind {
	var out []identity.Kind
	for _, k := range identity.Kinds {
		if !o.Covers(k) {
			out = append(out, k)
		}
	}
	return out
}

// Result is everything one walk produces. A new walk never shares state
// with a previous Result.
type Result struct {
	Store       *overrides.Store
	Projections *projection.Set

	// Bounds is the world-space box of all geometry seen, empty when the
	// scene has none. FirstBounds is the box of the first geometry.
	Bounds      scene.Bounds
	FirstBounds scene.Bounds

	// Retained holds the seeded overrides of kinds the walk does not
	// register. They are carried unchanged so that serializing the session
	// does not drop them.
	Retained overrides.Seed

	Report Report
	Stats  observability.WalkStats
}

type walker struct {
	opts  Options
	store *overrides.Store
	proj  *projection.Set
	reg   *identity.Registry

	meshes    map[*scene.Mesh]*visit
	materials map[*scene.Material]*visit
	visits    []*visit
	anims     map[*scene.Animation]*overrides.Entry
	seeded    map[identity.Kind]map[string]bool

	bounds scene.Bounds
	first  scene.Bounds
	report Report
}

// visit tracks a shared resource across the nodes that reference it.
// A resource stays preview-only until some referencing node gives it an
// identity; its earlier items are then bound to the new entry.
type visit struct {
	entry   *overrides.Entry
	preview []projection.Handle
	issue   *Issue
}

// resolve retries registration while the resource has no entry.
func (w *walker) resolve(v *visit, claim func() (*overrides.Entry, *Issue)) error {
	if v.entry != nil {
		return nil
	}
	v.entry, v.issue = claim()
	if v.entry == nil {
		return nil
	}
	for _, h := range v.preview {
		if err := w.proj.Bind(h, v.entry.ID); err != nil {
			return err
		}
	}
	v.preview = nil
	return nil
}

// add projects the resource under parent and remembers preview-only
// items for later binding.
func (w *walker) add(v *visit, view projection.View, parent projection.Handle, label string, kind identity.Kind) (projection.Handle, error) {
	h, err := w.proj.Add(view, parent, itemFor(label, kind, v.entry))
	if err != nil {
		return "", err
	}
	if v.entry == nil {
		v.preview = append(v.preview, h)
	}
	return h, nil
}

// Walk traverses root depth-first, parents before children, and builds a
// fresh store, projection set and bounding volume in one pass.
//
// Identity problems never abort the walk. They are collected in the
// result's Report; affected items are still projected but have no store
// entry. Walk fails only when root is nil.
func Walk(ctx context.Context, root *scene.Node, opts Options) (*Result, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidScene, "scene has no root node")
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	start := time.Now()
	observability.Walk().OnWalkStart(ctx, opts.Asset)

	w := &walker{
		opts:      opts,
		store:     overrides.New(opts.Resolver),
		proj:      projection.NewSet(),
		reg:       identity.NewRegistry(),
		meshes:    make(map[*scene.Mesh]*visit),
		materials: make(map[*scene.Material]*visit),
		anims:     make(map[*scene.Animation]*overrides.Entry),
		seeded:    make(map[identity.Kind]map[string]bool),
		bounds:    scene.EmptyBounds(),
		first:     scene.EmptyBounds(),
	}
	if err := w.visit(root, "", nil); err != nil {
		return nil, err
	}
	w.reportUnresolved()
	w.reportStaleSeeds()
	retained := w.retainedSeeds()
	if err := w.proj.Validate(); err != nil {
		return nil, err
	}
	w.store.MarkClean()

	res := &Result{
		Store:       w.store,
		Projections: w.proj,
		Bounds:      w.bounds,
		FirstBounds: w.first,
		Retained:    retained,
		Report:      w.report,
		Stats: observability.WalkStats{
			Nodes:      w.store.Len(identity.KindNode),
			Meshes:     w.store.Len(identity.KindMesh),
			Materials:  w.store.Len(identity.KindMaterial),
			Animations: w.store.Len(identity.KindAnimation),
			Issues:     len(w.report.Issues),
		},
	}

	for _, is := range res.Report.Issues {
		opts.Logger.Warn(is.Message, "code", is.Code, "kind", is.Kind, "path", is.Path)
	}
	duration := time.Since(start)
	opts.Logger.Debug("walked scene",
		"asset", opts.Asset,
		"nodes", res.Stats.Nodes,
		"meshes", res.Stats.Meshes,
		"materials", res.Stats.Materials,
		"animations", res.Stats.Animations,
		"issues", res.Stats.Issues,
		"retained_kinds", len(retained),
		"duration", duration)
	observability.Walk().OnWalkComplete(ctx, opts.Asset, res.Stats, duration)
	return res, nil
}

func nodeCategory(n *scene.Node) settings.Category {
	switch {
	case n.Mesh != nil:
		return settings.CategoryMeshNode
	case len(n.Animations) > 0:
		return settings.CategoryAnimationNode
	}
	return settings.CategoryNode
}

func (w *walker) visit(n *scene.Node, parent projection.Handle, ancestor *overrides.Entry) error {
	path := identity.DisplayPath(n)
	entry := w.register(identity.KindNode, identity.Context{Node: n}, n, path, func(id string) *overrides.Entry {
		e := &overrides.Entry{
			Kind:     identity.KindNode,
			ID:       id,
			Category: nodeCategory(n),
			Path:     path,
			Node:     n,
			Ancestor: ancestor,
			Bounds:   scene.EmptyBounds(),
		}
		if n.Mesh != nil {
			e.Bounds = n.Mesh.Bounds.Transform(n.GlobalTransform())
		}
		return e
	})

	item, err := w.proj.Add(projection.ViewScene, parent, itemFor(n.Name, identity.KindNode, entry))
	if err != nil {
		return err
	}

	next := ancestor
	if entry != nil {
		next = entry
	}

	if n.Mesh != nil {
		world := n.Mesh.Bounds.Transform(n.GlobalTransform())
		if w.first.IsEmpty() {
			w.first = world
		}
		w.bounds = w.bounds.Extend(world)
		if !w.opts.AnimationOnly {
			if err := w.visitMesh(n, item, path, next); err != nil {
				return err
			}
		}
	}

	for _, clip := range n.Animations {
		if err := w.visitAnimation(n, clip, item, path, next); err != nil {
			return err
		}
	}

	for _, c := range n.Children {
		if err := w.visit(c, item, next); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) visitMesh(n *scene.Node, parent projection.Handle, path string, ancestor *overrides.Entry) error {
	mv, seen := w.meshes[n.Mesh]
	if !seen {
		mv = &visit{}
		w.meshes[n.Mesh] = mv
		w.visits = append(w.visits, mv)
	}
	err := w.resolve(mv, func() (*overrides.Entry, *Issue) {
		return w.claim(identity.KindMesh, identity.Context{Node: n, Mesh: n.Mesh}, n.Mesh, path, func(id string) *overrides.Entry {
			return &overrides.Entry{
				Kind:     identity.KindMesh,
				ID:       id,
				Category: settings.CategoryMesh,
				Path:     path,
				Mesh:     n.Mesh,
				Ancestor: ancestor,
				Bounds:   n.Mesh.Bounds,
			}
		})
	})
	if err != nil {
		return err
	}

	label := meshLabel(n.Mesh)
	sceneItem, err := w.add(mv, projection.ViewScene, parent, label, identity.KindMesh)
	if err != nil {
		return err
	}
	var meshItem projection.Handle
	if !seen {
		if meshItem, err = w.add(mv, projection.ViewMesh, "", label, identity.KindMesh); err != nil {
			return err
		}
	}

	for i := range n.Mesh.Surfaces {
		for slot, mat := range n.SurfaceMaterials(i) {
			if mat == nil {
				continue
			}
			if err := w.visitMaterial(n, mat, i, slot, sceneItem, meshItem, path, mv.entry); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walker) visitMaterial(n *scene.Node, mat *scene.Material, surface, slot int, sceneParent, meshParent projection.Handle, path string, ancestor *overrides.Entry) error {
	mv, seen := w.materials[mat]
	if !seen {
		mv = &visit{}
		w.materials[mat] = mv
		w.visits = append(w.visits, mv)
	}
	err := w.resolve(mv, func() (*overrides.Entry, *Issue) {
		ctx := identity.Context{Node: n, Material: mat, Surface: surface, Slot: slot}
		return w.claim(identity.KindMaterial, ctx, mat, path, func(id string) *overrides.Entry {
			return &overrides.Entry{
				Kind:     identity.KindMaterial,
				ID:       id,
				Category: settings.CategoryMaterial,
				Path:     path,
				Material: mat,
				Ancestor: ancestor,
				Bounds:   ancestorBounds(ancestor),
			}
		})
	})
	if err != nil {
		return err
	}

	label := materialLabel(mat, surface, slot)
	if _, err := w.add(mv, projection.ViewScene, sceneParent, label, identity.KindMaterial); err != nil {
		return err
	}
	if meshParent != "" {
		if _, err := w.add(mv, projection.ViewMesh, meshParent, label, identity.KindMaterial); err != nil {
			return err
		}
	}
	if !seen {
		if _, err := w.add(mv, projection.ViewMaterial, "", label, identity.KindMaterial); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) visitAnimation(n *scene.Node, clip *scene.Animation, parent projection.Handle, path string, ancestor *overrides.Entry) error {
	entry, seen := w.anims[clip]
	if !seen {
		entry = w.register(identity.KindAnimation, identity.Context{Node: n, Animation: clip}, clip, path, func(id string) *overrides.Entry {
			return &overrides.Entry{
				Kind:      identity.KindAnimation,
				ID:        id,
				Category:  settings.CategoryAnimation,
				Path:      path,
				Animation: clip,
				Ancestor:  ancestor,
				Bounds:    scene.EmptyBounds(),
			}
		})
		w.anims[clip] = entry
	}
	_, err := w.proj.Add(projection.ViewScene, parent, itemFor(clip.Name, identity.KindAnimation, entry))
	return err
}

// register resolves and claims an identity for owner and inserts the
// entry built by mk. It returns nil, after recording an issue, when the
// resource has no usable identity.
func (w *walker) register(kind identity.Kind, ctx identity.Context, owner any, path string, mk func(id string) *overrides.Entry) *overrides.Entry {
	e, is := w.claim(kind, ctx, owner, path, mk)
	if is != nil {
		w.report.add(*is)
	}
	return e
}

// claim is register without reporting: the issue is returned to the
// caller, which may retry from another referencing node.
func (w *walker) claim(kind identity.Kind, ctx identity.Context, owner any, path string, mk func(id string) *overrides.Entry) (*overrides.Entry, *Issue) {
	id, ok := identity.Resolve(kind, ctx)
	if !ok {
		return nil, &Issue{
			Code:    errors.ErrCodeUnresolvableIdentity,
			Kind:    kind,
			Path:    path,
			Message: fmt.Sprintf("%s under %s has no stable identity; preview only", kind, path),
		}
	}
	if !w.reg.Claim(kind, id, owner, path) {
		return nil, &Issue{
			Code:    errors.ErrCodeAmbiguousIdentity,
			Kind:    kind,
			ID:      id,
			Path:    path,
			Message: fmt.Sprintf("%s id %q is already taken; the first resource keeps it", kind, id),
		}
	}

	e := mk(id)
	if err := w.store.Insert(e); err != nil {
		return nil, &Issue{Code: errors.GetCode(err), Kind: kind, ID: id, Path: path, Message: errors.UserMessage(err)}
	}
	w.applySeed(e)
	return e, nil
}

// reportUnresolved records the last failure of every shared resource that
// no referencing node could give an identity.
func (w *walker) reportUnresolved() {
	for _, v := range w.visits {
		if v.entry == nil && v.issue != nil {
			w.report.add(*v.issue)
		}
	}
}

func (w *walker) applySeed(e *overrides.Entry) {
	raw, ok := w.opts.Seed[e.Kind][e.ID]
	if !ok {
		return
	}
	if w.seeded[e.Kind] == nil {
		w.seeded[e.Kind] = make(map[string]bool)
	}
	w.seeded[e.Kind][e.ID] = true
	for _, err := range w.store.Apply(e, raw) {
		w.report.add(Issue{
			Code:    errors.GetCode(err),
			Kind:    e.Kind,
			ID:      e.ID,
			Path:    e.Path,
			Message: errors.UserMessage(err),
		})
	}
}

// reportStaleSeeds flags seeded identities that no longer exist in the
// scene. Their overrides are dropped.
func (w *walker) reportStaleSeeds() {
	for _, kind := range identity.Kinds {
		if !w.opts.Covers(kind) {
			continue
		}
		byID := w.opts.Seed[kind]
		for _, id := range slices.Sorted(maps.Keys(byID)) {
			if w.seeded[kind][id] {
				continue
			}
			w.report.add(Issue{
				Code:    errors.ErrCodeUnknownIdentity,
				Kind:    kind,
				ID:      id,
				Message: fmt.Sprintf("stored overrides for %s %q match nothing in the scene and were dropped", kind, id),
			})
		}
	}
}

// retainedSeeds copies the seeded sections of excluded kinds.
func (w *walker) retainedSeeds() overrides.Seed {
	out := overrides.Seed{}
	for _, kind := range w.opts.Excluded() {
		for id, kv := range w.opts.Seed[kind] {
			for key, raw := range kv {
				out.Set(kind, id, key, raw)
			}
		}
	}
	return out
}

func itemFor(label string, kind identity.Kind, e *overrides.Entry) projection.Item {
	it := projection.Item{Label: label, Kind: kind}
	if e != nil {
		it.ID = e.ID
		it.Selectable = true
	}
	return it
}

func ancestorBounds(e *overrides.Entry) scene.Bounds {
	if e == nil {
		return scene.EmptyBounds()
	}
	return e.Bounds
}

func meshLabel(m *scene.Mesh) string {
	if m.Name != "" {
		return m.Name
	}
	return "<mesh>"
}

func materialLabel(m *scene.Material, surface, slot int) string {
	if m.Name != "" {
		return m.Name
	}
	if slot > 0 {
		return fmt.Sprintf("<surface %d slot %d>", surface, slot)
	}
	return fmt.Sprintf("<surface %d>", surface)
}
