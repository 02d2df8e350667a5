package walker

import (
	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/identity"
)

// Issue is one recoverable problem found during a walk.
type Issue struct {
	Code    errors.Code   `json:"code"`
	Kind    identity.Kind `json:"kind"`
	ID      string        `json:"id,omitempty"`
	Path    string        `json:"path,omitempty"`
	Message string        `json:"message"`
}

// Report aggregates the issues of one walk in discovery order.
type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) add(is Issue) { r.Issues = append(r.Issues, is) }

// Count returns the number of issues with code.
func (r Report) Count(code errors.Code) int {
	n := 0
	for _, is := range r.Issues {
		if is.Code == code {
			n++
		}
	}
	return n
}

// Ambiguous reports whether the asset has colliding identities.
func (r Report) Ambiguous() bool { return r.Count(errors.ErrCodeAmbiguousIdentity) > 0 }

// Err joins all issues into one error, or returns nil for a clean walk.
// Callers use it to surface the aggregate after the walk completes.
func (r Report) Err() error {
	errs := make([]error, 0, len(r.Issues))
	for _, is := range r.Issues {
		errs = append(errs, errors.New(is.Code, "%s", is.Message))
	}
	return errors.Join(errs...)
}
