package api

import (
	"net/http"

	"github.com/matzehuels/sceneimport/pkg/buildinfo"
	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/identity"
	"github.com/matzehuels/sceneimport/pkg/overrides"
	"github.com/matzehuels/sceneimport/pkg/projection"
	"github.com/matzehuels/sceneimport/pkg/reimport"
	"github.com/matzehuels/sceneimport/pkg/selection"
	"github.com/matzehuels/sceneimport/pkg/session"
	"github.com/matzehuels/sceneimport/pkg/settings"
	"github.com/matzehuels/sceneimport/pkg/walker"
)

// EntrySummary is one row of an entry listing.
type EntrySummary struct {
	Kind       identity.Kind     `json:"kind"`
	ID         string            `json:"id"`
	Category   settings.Category `json:"category"`
	Path       string            `json:"path"`
	Overridden []string          `json:"overridden,omitempty"`
}

// Setting is one option of an entry with its effective value.
type Setting struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Value       any      `json:"value"`
	Default     any      `json:"default"`
	Overridden  bool     `json:"overridden"`
	Choices     []string `json:"choices,omitempty"`
	Description string   `json:"description,omitempty"`
}

// EntryDetail is an entry with all of its settings.
type EntryDetail struct {
	EntrySummary
	Settings []Setting `json:"settings"`
}

// TreeItem is one node of a projected tree.
type TreeItem struct {
	Handle     projection.Handle `json:"handle"`
	Label      string            `json:"label"`
	Kind       identity.Kind     `json:"kind"`
	ID         string            `json:"id,omitempty"`
	Selectable bool              `json:"selectable"`
	Children   []TreeItem        `json:"children,omitempty"`
}

// SelectionState is the current selection and its camera.
type SelectionState struct {
	Selected *selection.Target `json:"selected"`
	Camera   *selection.Camera `json:"camera,omitempty"`
}

func summarize(e *overrides.Entry) EntrySummary {
	return EntrySummary{
		Kind:       e.Kind,
		ID:         e.ID,
		Category:   e.Category,
		Path:       e.Path,
		Overridden: e.Overrides().Keys(),
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleIssues(w http.ResponseWriter, r *http.Request) {
	var issues []walker.Issue
	s.locked(func(sess *session.Session) { issues = sess.Issues() })
	if issues == nil {
		issues = []walker.Issue{}
	}
	writeJSON(w, http.StatusOK, issues)
}

// handleRewalk reloads the asset from disk and answers with the issues of
// the new walk.
func (s *Server) handleRewalk(w http.ResponseWriter, r *http.Request) {
	var (
		issues []walker.Issue
		err    error
	)
	s.locked(func(sess *session.Session) {
		if err = sess.Reload(r.Context()); err == nil {
			issues = sess.Issues()
		}
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if issues == nil {
		issues = []walker.Issue{}
	}
	writeJSON(w, http.StatusOK, issues)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var (
		cfg *reimport.Config
		err error
	)
	s.locked(func(sess *session.Session) { cfg, err = sess.Serialize() })
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := cfg.Bytes()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/toml")
	_, _ = w.Write(data)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	kind, err := identity.ParseKind(chiParam(r, "kind"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := []EntrySummary{}
	s.locked(func(sess *session.Session) {
		for _, e := range sess.Store().Entries(kind) {
			out = append(out, summarize(e))
		}
	})
	writeJSON(w, http.StatusOK, out)
}

// entryDetail builds the full settings view. Callers hold the lock.
func entryDetail(sess *session.Session, kind identity.Kind, id string) (*EntryDetail, error) {
	e, ok := sess.Store().Entry(kind, id)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownIdentity, "no %s with id %q", kind, id)
	}
	eff, err := sess.Effective(kind, id)
	if err != nil {
		return nil, err
	}
	defaults, err := sess.Store().Defaults(kind, id)
	if err != nil {
		return nil, err
	}
	schema, err := sess.Options(kind, id)
	if err != nil {
		return nil, err
	}

	d := &EntryDetail{EntrySummary: summarize(e)}
	for _, o := range schema.Options() {
		_, overridden := e.Override(o.Name)
		d.Settings = append(d.Settings, Setting{
			Name:        o.Name,
			Kind:        o.Kind.String(),
			Value:       eff[o.Name].Raw(),
			Default:     defaults[o.Name].Raw(),
			Overridden:  overridden,
			Choices:     o.Choices,
			Description: o.Description,
		})
	}
	return d, nil
}

// entryParams reads the kind and id path parameters.
func entryParams(r *http.Request) (identity.Kind, string, error) {
	kind, err := identity.ParseKind(chiParam(r, "kind"))
	if err != nil {
		return "", "", err
	}
	id, err := param(r, "id")
	if err != nil {
		return "", "", err
	}
	return kind, id, nil
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	kind, id, err := entryParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var d *EntryDetail
	s.locked(func(sess *session.Session) { d, err = entryDetail(sess, kind, id) })
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type overrideRequest struct {
	Value any `json:"value"`
}

func (s *Server) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	kind, id, err := entryParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	key, err := param(r, "key")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req overrideRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var d *EntryDetail
	s.locked(func(sess *session.Session) {
		var schema *settings.Schema
		if schema, err = sess.Options(kind, id); err != nil {
			return
		}
		o, ok := schema.Lookup(key)
		if !ok {
			err = errors.New(errors.ErrCodeUnknownOption, "%s has no option %q", schema.Category, key)
			return
		}
		var v settings.Value
		if v, err = settings.FromRaw(o.Kind, req.Value); err != nil {
			return
		}
		if err = sess.SetOverride(kind, id, key, v); err != nil {
			return
		}
		d, err = entryDetail(sess, kind, id)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleClearOverride(w http.ResponseWriter, r *http.Request) {
	kind, id, err := entryParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	key, err := param(r, "key")
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.locked(func(sess *session.Session) { err = sess.ClearOverride(kind, id, key) })
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func selectionState(sess *session.Session) SelectionState {
	var st SelectionState
	if t, ok := sess.Selection().Current(); ok {
		cam := sess.Selection().Camera(t)
		st.Selected = &t
		st.Camera = &cam
	}
	return st
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	var st SelectionState
	s.locked(func(sess *session.Session) { st = selectionState(sess) })
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var t selection.Target
	if err := decodeBody(r, &t); err != nil {
		s.writeError(w, err)
		return
	}
	var (
		st  SelectionState
		err error
	)
	s.locked(func(sess *session.Session) {
		if err = sess.Select(t.Kind, t.ID); err == nil {
			st = selectionState(sess)
		}
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type orbitRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func (s *Server) handleOrbit(w http.ResponseWriter, r *http.Request) {
	var req orbitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	var st SelectionState
	s.locked(func(sess *session.Session) {
		sess.Selection().Orbit(req.DX, req.DY)
		st = selectionState(sess)
	})
	writeJSON(w, http.StatusOK, st)
}

type zoomRequest struct {
	Factor float64 `json:"factor"`
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	var st SelectionState
	s.locked(func(sess *session.Session) {
		sess.Selection().Zoom(req.Factor)
		st = selectionState(sess)
	})
	writeJSON(w, http.StatusOK, st)
}

func buildTree(t *projection.Tree, h projection.Handle) TreeItem {
	it, _ := t.Item(h)
	out := TreeItem{Handle: it.Handle, Label: it.Label, Kind: it.Kind, ID: it.ID, Selectable: it.Selectable}
	for _, c := range t.Children(h) {
		out.Children = append(out.Children, buildTree(t, c))
	}
	return out
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	view, err := projection.ParseView(chiParam(r, "view"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := []TreeItem{}
	s.locked(func(sess *session.Session) {
		t := sess.Projections().Tree(view)
		for _, h := range t.Roots() {
			out = append(out, buildTree(t, h))
		}
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	var actions []reimport.Action
	s.locked(func(sess *session.Session) { actions = sess.Actions() })
	if actions == nil {
		actions = []reimport.Action{}
	}
	writeJSON(w, http.StatusOK, actions)
}

func (s *Server) handleBeginAction(w http.ResponseWriter, r *http.Request) {
	kind, err := reimport.ParseActionKind(chiParam(r, "action"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var added []reimport.Action
	s.locked(func(sess *session.Session) { added, err = sess.BeginAction(kind) })
	if err != nil {
		s.writeError(w, err)
		return
	}
	if added == nil {
		added = []reimport.Action{}
	}
	writeJSON(w, http.StatusOK, added)
}

type actionPathRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleSetActionPath(w http.ResponseWriter, r *http.Request) {
	kind, err := reimport.ParseActionKind(chiParam(r, "action"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	id, err := param(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req actionPathRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.locked(func(sess *session.Session) { err = sess.SetActionPath(kind, id, req.Path) })
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reimport.Action{Kind: kind, ID: id, Path: req.Path})
}

func (s *Server) handleCancelAction(w http.ResponseWriter, r *http.Request) {
	kind, err := reimport.ParseActionKind(chiParam(r, "action"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	id, err := param(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.locked(func(sess *session.Session) { err = sess.CancelAction(kind, id) })
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
