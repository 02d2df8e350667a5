package reimport

import (
	"slices"

	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/identity"
)

// ActionKind names a structural export decision.
type ActionKind string

const (
	ActionExtractMaterial ActionKind = "extract_material"
	ActionSaveMesh        ActionKind = "save_mesh"
	ActionSaveAnimation   ActionKind = "save_animation"
)

// ActionKinds lists every action kind.
var ActionKinds = []ActionKind{ActionExtractMaterial, ActionSaveMesh, ActionSaveAnimation}

// ParseActionKind converts an action kind name.
func ParseActionKind(s string) (ActionKind, error) {
	k := ActionKind(s)
	if !slices.Contains(ActionKinds, k) {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown action %q", s)
	}
	return k, nil
}

// EntryKind returns the kind of entry the action applies to.
func (k ActionKind) EntryKind() identity.Kind {
	switch k {
	case ActionExtractMaterial:
		return identity.KindMaterial
	case ActionSaveMesh:
		return identity.KindMesh
	case ActionSaveAnimation:
		return identity.KindAnimation
	}
	return ""
}

// ActionKindFor returns the action that exports entries of kind.
func ActionKindFor(kind identity.Kind) (ActionKind, bool) {
	for _, k := range ActionKinds {
		if k.EntryKind() == kind {
			return k, true
		}
	}
	return "", false
}

// Action assigns an export path to one entry.
type Action struct {
	Kind ActionKind `toml:"kind" json:"kind"`
	ID   string     `toml:"id" json:"id"`
	Path string     `toml:"path" json:"path"`
}

// Pending reports whether the action still lacks a target path.
func (a Action) Pending() bool { return a.Path == "" }

// ActionList is the ordered list of actions of a session. Each
// (kind, id) appears at most once.
type ActionList struct {
	items []Action
}

// NewActionList returns a list holding actions, keeping the last action
// for a repeated (kind, id) at the position of the first.
func NewActionList(actions ...Action) *ActionList {
	l := &ActionList{}
	for _, a := range actions {
		l.Put(a)
	}
	return l
}

func (l *ActionList) index(kind ActionKind, id string) int {
	return slices.IndexFunc(l.items, func(a Action) bool { return a.Kind == kind && a.ID == id })
}

// Put appends a, or replaces the action for the same (kind, id) in place.
func (l *ActionList) Put(a Action) {
	if i := l.index(a.Kind, a.ID); i >= 0 {
		l.items[i] = a
		return
	}
	l.items = append(l.items, a)
}

// Begin enqueues a pending action unless one already exists. It returns
// true when a new action was added.
func (l *ActionList) Begin(kind ActionKind, id string) bool {
	if l.index(kind, id) >= 0 {
		return false
	}
	l.items = append(l.items, Action{Kind: kind, ID: id})
	return true
}

// SetPath fills the target path of an existing action. It fails with
// NOT_FOUND when no such action was begun.
func (l *ActionList) SetPath(kind ActionKind, id, path string) error {
	i := l.index(kind, id)
	if i < 0 {
		return errors.New(errors.ErrCodeNotFound, "no %s action for %q", kind, id)
	}
	l.items[i].Path = path
	return nil
}

// Get returns the action for (kind, id).
func (l *ActionList) Get(kind ActionKind, id string) (Action, bool) {
	if i := l.index(kind, id); i >= 0 {
		return l.items[i], true
	}
	return Action{}, false
}

// Remove drops the action for (kind, id) and reports whether there was
// one.
func (l *ActionList) Remove(kind ActionKind, id string) bool {
	i := l.index(kind, id)
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	return true
}

// All returns the actions in order.
func (l *ActionList) All() []Action { return slices.Clone(l.items) }

// Pending returns the actions without a target path.
func (l *ActionList) Pending() []Action {
	var out []Action
	for _, a := range l.items {
		if a.Pending() {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of actions.
func (l *ActionList) Len() int { return len(l.items) }
