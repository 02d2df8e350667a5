package session

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sceneimport/pkg/draft"
	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/identity"
	"github.com/matzehuels/sceneimport/pkg/overrides"
	"github.com/matzehuels/sceneimport/pkg/projection"
	"github.com/matzehuels/sceneimport/pkg/reimport"
	"github.com/matzehuels/sceneimport/pkg/scene"
	"github.com/matzehuels/sceneimport/pkg/selection"
	"github.com/matzehuels/sceneimport/pkg/settings"
	"github.com/matzehuels/sceneimport/pkg/walker"
)

// Options configures a session.
type Options struct {
	// AnimationOnly edits only nodes and animations.
	AnimationOnly bool

	// Resolver computes default bags. Nil uses the built-in defaults.
	Resolver *settings.Resolver

	// Drafts persists unsaved edits. Nil disables drafts.
	Drafts   draft.Store
	DraftTTL time.Duration

	// Viewport is framed on every selection change. May be nil.
	Viewport selection.Viewport

	// Runtime options
	Logger *log.Logger
}

// Session is one editing pass over an asset: the walked store and
// projections, the action list and the selection.
//
// Session is not safe for concurrent use.
type Session struct {
	ID    string
	Asset string

	root    *scene.Node
	opts    Options
	result  *walker.Result
	actions *reimport.ActionList
	sel     *selection.Controller

	// dirty covers edits the store flag cannot see.
	dirty bool
}

// Open reads the scene description at asset and starts a session on it.
func Open(ctx context.Context, asset string, opts Options) (*Session, error) {
	root, err := scene.ReadFile(asset)
	if err != nil {
		return nil, err
	}
	return New(ctx, asset, root, opts)
}

// New starts a session on an already loaded scene.
//
// Stored state is restored in order: the import configuration next to
// the asset seeds overrides and actions, and a draft, when one exists,
// replaces both with the unsaved state of the last session. Actions whose
// entry no longer exists are dropped and listed by [Session.Issues].
func New(ctx context.Context, asset string, root *scene.Node, opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.DraftTTL <= 0 {
		opts.DraftTTL = draft.DefaultTTL
	}

	s := &Session{
		ID:      uuid.NewString(),
		Asset:   asset,
		root:    root,
		opts:    opts,
		actions: reimport.NewActionList(),
	}

	seed := overrides.Seed{}
	cfg, err := reimport.ReadFile(reimport.ConfigPath(asset))
	switch {
	case err == nil:
		if seed, err = cfg.Seed(); err != nil {
			opts.Logger.Warn("import config has unusable sections", "asset", asset, "error", err)
		}
		s.actions = reimport.NewActionList(cfg.Actions...)
		opts.Logger.Debug("loaded import config", "path", reimport.ConfigPath(asset), "actions", len(cfg.Actions))
	case errors.Is(err, errors.ErrCodeFileNotFound):
	default:
		return nil, err
	}

	var selected *selection.Target
	if opts.Drafts != nil {
		d, ok, err := draft.Load(ctx, opts.Drafts, asset)
		if err != nil {
			opts.Logger.Warn("draft unavailable", "asset", asset, "error", err)
		}
		if ok {
			seed = d.Overrides
			s.actions = reimport.NewActionList(d.Actions...)
			selected = d.Selected
			s.dirty = true
			if d.Session != "" {
				s.ID = d.Session
			}
			opts.Logger.Debug("restored draft", "asset", asset, "backend", opts.Drafts.Name(), "updated", d.UpdatedAt)
		}
	}

	if err := s.walk(ctx, seed); err != nil {
		return nil, err
	}
	s.sel = selection.New(s, opts.Viewport)
	if selected != nil {
		// A draft selection whose entry vanished is simply dropped.
		_ = s.sel.Select(selected.Kind, selected.ID)
	}
	return s, nil
}

func (s *Session) walkOptions(seed overrides.Seed) walker.Options {
	return walker.Options{
		Asset:         s.Asset,
		AnimationOnly: s.opts.AnimationOnly,
		Resolver:      s.opts.Resolver,
		Seed:          seed,
		Logger:        s.opts.Logger,
	}
}

func (s *Session) walk(ctx context.Context, seed overrides.Seed) error {
	res, err := walker.Walk(ctx, s.root, s.walkOptions(seed))
	if err != nil {
		return err
	}
	s.result = res
	s.pruneActions()
	return nil
}

// pruneActions drops actions on covered kinds whose entry the last walk
// did not register.
func (s *Session) pruneActions() {
	excluded := s.excluded()
	for _, a := range s.actions.All() {
		kind := a.Kind.EntryKind()
		if slices.Contains(excluded, kind) || s.result.Store.Has(kind, a.ID) {
			continue
		}
		s.actions.Remove(a.Kind, a.ID)
		s.dirty = true
		s.result.Report.Issues = append(s.result.Report.Issues, walker.Issue{
			Code:    errors.ErrCodeUnknownIdentity,
			Kind:    kind,
			ID:      a.ID,
			Message: fmt.Sprintf("dropped %s action: no %s with id %q", a.Kind, kind, a.ID),
		})
		s.opts.Logger.Warn("dropped stale action", "asset", s.Asset, "action", a.Kind, "id", a.ID)
	}
}

// excluded lists the kinds the session does not edit.
func (s *Session) excluded() []identity.Kind { return s.walkOptions(nil).Excluded() }

// snapshot returns the explicit overrides of the store together with the
// retained sections of excluded kinds.
func (s *Session) snapshot() overrides.Seed {
	sd := s.result.Store.Snapshot()
	for kind, byID := range s.result.Retained {
		for id, kv := range byID {
			for key, raw := range kv {
				sd.Set(kind, id, key, raw)
			}
		}
	}
	return sd
}

// Rewalk rebuilds the store and projections from the scene, carrying the
// explicit overrides over by identity. The selection survives when its
// entry still exists.
func (s *Session) Rewalk(ctx context.Context) error {
	dirty := s.result.Store.Dirty()
	if err := s.walk(ctx, s.snapshot()); err != nil {
		return err
	}
	if dirty {
		s.dirty = true
	}
	s.sel.Rebind(s)
	return nil
}

// Reload reads the asset again and re-walks it, so edits made to the
// scene outside the session show up with the session's overrides intact.
// On a read error the session keeps its current scene.
func (s *Session) Reload(ctx context.Context) error {
	root, err := scene.ReadFile(s.Asset)
	if err != nil {
		return err
	}
	prev := s.root
	s.root = root
	if err := s.Rewalk(ctx); err != nil {
		s.root = prev
		return err
	}
	s.opts.Logger.Debug("reloaded asset", "asset", s.Asset, "issues", len(s.result.Report.Issues))
	return nil
}

// Result returns the latest walk result.
func (s *Session) Result() *walker.Result { return s.result }

// Store returns the override store of the latest walk.
func (s *Session) Store() *overrides.Store { return s.result.Store }

// Projections returns the tree projections of the latest walk.
func (s *Session) Projections() *projection.Set { return s.result.Projections }

// Issues returns the identity and seeding problems of the latest walk.
func (s *Session) Issues() []walker.Issue { return s.result.Report.Issues }

// AnimationOnly reports whether the session edits only animations.
func (s *Session) AnimationOnly() bool { return s.opts.AnimationOnly }

// Exists implements selection.Lookup.
func (s *Session) Exists(kind identity.Kind, id string) bool {
	return s.result.Store.Has(kind, id)
}

// Bounds implements selection.Lookup. Entries without geometry of their
// own frame the whole scene.
func (s *Session) Bounds(kind identity.Kind, id string) scene.Bounds {
	if e, ok := s.result.Store.Entry(kind, id); ok && !e.Bounds.IsEmpty() {
		return e.Bounds
	}
	return s.result.Bounds
}

// Selection returns the selection controller.
func (s *Session) Selection() *selection.Controller { return s.sel }

// Select makes (kind, id) the current selection.
func (s *Session) Select(kind identity.Kind, id string) error {
	return s.sel.Select(kind, id)
}

// Refresh re-frames the preview on the current selection without a walk.
func (s *Session) Refresh() { s.sel.Refresh() }

// Effective returns the effective settings of an entry.
func (s *Session) Effective(kind identity.Kind, id string) (settings.Bag, error) {
	return s.result.Store.GetEffective(kind, id)
}

// Options returns the option schema of an entry.
func (s *Session) Options(kind identity.Kind, id string) (*settings.Schema, error) {
	return s.result.Store.Options(kind, id)
}

// SetOverride stores an explicit value for one option of an entry.
func (s *Session) SetOverride(kind identity.Kind, id, key string, v settings.Value) error {
	return s.result.Store.SetOverride(kind, id, key, v)
}

// SetOverrideText parses text as the option's kind and stores it.
func (s *Session) SetOverrideText(kind identity.Kind, id, key, text string) error {
	schema, err := s.Options(kind, id)
	if err != nil {
		return err
	}
	o, ok := schema.Lookup(key)
	if !ok {
		return errors.New(errors.ErrCodeUnknownOption, "%s has no option %q", schema.Category, key)
	}
	v, err := settings.Parse(o.Kind, text)
	if err != nil {
		return err
	}
	return s.SetOverride(kind, id, key, v)
}

// ClearOverride removes an explicit value, restoring the default.
// Clearing either export option of an entry cancels its export action.
func (s *Session) ClearOverride(kind identity.Kind, id, key string) error {
	if err := s.result.Store.ClearOverride(kind, id, key); err != nil {
		return err
	}
	ak, ok := reimport.ActionKindFor(kind)
	if !ok || !strings.HasPrefix(key, exportPrefix(ak)+"/") {
		return nil
	}
	if _, ok := s.actions.Get(ak, id); !ok {
		return nil
	}
	return s.CancelAction(ak, id)
}

// Actions returns the action list in order.
func (s *Session) Actions() []reimport.Action { return s.actions.All() }

// BeginAction enqueues a pending action of kind for every entry it
// applies to and returns the actions added. Entries that already have
// such an action keep it.
func (s *Session) BeginAction(kind reimport.ActionKind) ([]reimport.Action, error) {
	if _, err := reimport.ParseActionKind(string(kind)); err != nil {
		return nil, err
	}
	var added []reimport.Action
	for _, e := range s.result.Store.Entries(kind.EntryKind()) {
		if s.actions.Begin(kind, e.ID) {
			added = append(added, reimport.Action{Kind: kind, ID: e.ID})
		}
	}
	if len(added) > 0 {
		s.dirty = true
	}
	return added, nil
}

// SetActionPath assigns the export path of one entry's action, adding the
// action if it was not begun, and records the matching overrides on the
// entry: use_external for materials, save_to_file for meshes and
// animations. Relative paths resolve against the asset's directory.
func (s *Session) SetActionPath(kind reimport.ActionKind, id, path string) error {
	entryKind := kind.EntryKind()
	if entryKind == "" {
		return errors.New(errors.ErrCodeInvalidInput, "unknown action %q", kind)
	}
	if !s.Exists(entryKind, id) {
		return errors.New(errors.ErrCodeUnknownIdentity, "no %s with id %q", entryKind, id)
	}
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := errors.ValidateTargetPath(reimport.ResolvePath(s.BaseDir(), path)); err != nil {
		return err
	}

	prefix := exportPrefix(kind)
	if err := s.SetOverride(entryKind, id, prefix+"/enabled", settings.Bool(true)); err != nil {
		return err
	}
	if err := s.SetOverride(entryKind, id, prefix+"/path", settings.Path(path)); err != nil {
		return err
	}
	s.actions.Put(reimport.Action{Kind: kind, ID: id, Path: path})
	s.dirty = true
	return nil
}

// CancelAction drops the action of kind for one entry and clears the
// export overrides it recorded. It fails with NOT_FOUND when no such
// action exists.
func (s *Session) CancelAction(kind reimport.ActionKind, id string) error {
	if _, err := reimport.ParseActionKind(string(kind)); err != nil {
		return err
	}
	if !s.actions.Remove(kind, id) {
		return errors.New(errors.ErrCodeNotFound, "no %s action for %q", kind, id)
	}
	s.dirty = true

	entryKind, prefix := kind.EntryKind(), exportPrefix(kind)
	if kv := s.result.Retained[entryKind][id]; kv != nil {
		delete(kv, prefix+"/enabled")
		delete(kv, prefix+"/path")
	}
	if !s.Exists(entryKind, id) {
		return nil
	}
	for _, key := range []string{prefix + "/enabled", prefix + "/path"} {
		if err := s.result.Store.ClearOverride(entryKind, id, key); err != nil {
			return err
		}
	}
	return nil
}

// exportPrefix names the option group an action records on its entry:
// use_external for materials, save_to_file for meshes and animations.
func exportPrefix(kind reimport.ActionKind) string {
	if kind == reimport.ActionExtractMaterial {
		return "use_external"
	}
	return "save_to_file"
}

// BaseDir is the directory relative action paths resolve against.
func (s *Session) BaseDir() string { return filepath.Dir(s.Asset) }

// Dirty reports whether the session holds edits not yet re-imported.
func (s *Session) Dirty() bool { return s.dirty || s.result.Store.Dirty() }

// Serialize builds the import configuration of the session. Sections and
// actions of kinds the session does not edit are written back as loaded.
func (s *Session) Serialize() (*reimport.Config, error) {
	return reimport.Serialize(s.result.Store, s.actions.All(), reimport.Options{
		Source:   filepath.Base(s.Asset),
		BaseDir:  s.BaseDir(),
		Retained: s.result.Retained,
		Excluded: s.excluded(),
	})
}

// Reimport serializes the session and fires t. On success the draft is
// dropped and the session is clean.
func (s *Session) Reimport(ctx context.Context, t reimport.Trigger) (*reimport.Config, error) {
	cfg, err := s.Serialize()
	if err != nil {
		return nil, err
	}
	if err := reimport.Run(ctx, t, s.Asset, cfg); err != nil {
		return nil, err
	}
	s.opts.Logger.Info("re-import triggered", "asset", s.Asset, "trigger", t.Name(), "sections", sections(cfg), "actions", len(cfg.Actions))
	if err := s.DiscardDraft(ctx); err != nil {
		s.opts.Logger.Warn("could not drop draft", "asset", s.Asset, "error", err)
	}
	s.result.Store.MarkClean()
	s.dirty = false
	return cfg, nil
}

func sections(cfg *reimport.Config) int {
	n := 0
	for _, byID := range cfg.Subresources {
		n += len(byID)
	}
	return n
}

// Draft returns the unsaved state of the session.
func (s *Session) Draft() *draft.Draft {
	d := &draft.Draft{
		Asset:         s.Asset,
		Session:       s.ID,
		AnimationOnly: s.opts.AnimationOnly,
		Overrides:     s.snapshot(),
		Actions:       s.actions.All(),
	}
	if t, ok := s.sel.Current(); ok {
		d.Selected = &t
	}
	return d
}

// SaveDraft persists the unsaved state. It is a no-op without a draft
// store.
func (s *Session) SaveDraft(ctx context.Context) error {
	if s.opts.Drafts == nil {
		return nil
	}
	return draft.Save(ctx, s.opts.Drafts, s.Draft(), s.opts.DraftTTL)
}

// DiscardDraft removes the stored draft of the asset.
func (s *Session) DiscardDraft(ctx context.Context) error {
	if s.opts.Drafts == nil {
		return nil
	}
	return draft.Drop(ctx, s.opts.Drafts, s.Asset)
}

var _ selection.Lookup = (*Session)(nil)
