package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/session"
)

// Server exposes one editing session over HTTP. Requests are serialized
// with a mutex because a session is single-threaded.
type Server struct {
	mu     sync.Mutex
	sess   *session.Session
	logger *log.Logger
	router chi.Router
}

// New returns a server for sess. A nil logger discards request logs.
func New(sess *session.Session, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{sess: sess, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/version", s.handleVersion)
	r.Get("/issues", s.handleIssues)
	r.Get("/config", s.handleConfig)
	r.Post("/rewalk", s.handleRewalk)

	r.Route("/entries/{kind}", func(r chi.Router) {
		r.Get("/", s.handleListEntries)
		r.Get("/{id}", s.handleGetEntry)
		r.Put("/{id}/overrides/{key}", s.handleSetOverride)
		r.Delete("/{id}/overrides/{key}", s.handleClearOverride)
	})

	r.Route("/selection", func(r chi.Router) {
		r.Get("/", s.handleGetSelection)
		r.Put("/", s.handleSelect)
		r.Post("/orbit", s.handleOrbit)
		r.Post("/zoom", s.handleZoom)
	})

	r.Get("/trees/{view}", s.handleTree)

	r.Route("/actions", func(r chi.Router) {
		r.Get("/", s.handleListActions)
		r.Post("/{action}", s.handleBeginAction)
		r.Put("/{action}/{id}", s.handleSetActionPath)
		r.Delete("/{action}/{id}", s.handleCancelAction)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// locked runs fn while holding the session lock.
func (s *Server) locked(fn func(*session.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.sess)
}

// param returns an unescaped path parameter. Identities and option keys
// contain slashes, so clients send them path-escaped.
func param(r *http.Request, name string) (string, error) {
	v, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "bad %s parameter", name)
	}
	return v, nil
}

// chiParam returns a path parameter that never needs unescaping.
func chiParam(r *http.Request, name string) string { return chi.URLParam(r, name) }

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps error codes to HTTP status codes. Joined errors map by
// their first coded error.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeUnknownIdentity, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnknownOption, errors.ErrCodeInvalidValue, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidKind:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeIncompleteAction, errors.ErrCodeAmbiguousIdentity:
		return http.StatusConflict
	case errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Code: errors.GetCode(err), Message: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
