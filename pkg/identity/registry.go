package identity

// Conflict records a second resource resolving to an id already claimed.
type Conflict struct {
	Kind Kind
	ID   string
	// Where describes the losing resource for diagnostics.
	Where string
}

// Registry hands out identities for one walk. The first owner of an id
// keeps it; later distinct owners are recorded as conflicts.
type Registry struct {
	owners    map[Kind]map[string]any
	conflicts []Conflict
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{owners: make(map[Kind]map[string]any, len(Kinds))}
	for _, k := range Kinds {
		r.owners[k] = make(map[string]any)
	}
	return r
}

// Claim registers owner under (kind, id). It returns true when owner holds
// the id afterwards: either the id was free or owner already held it.
// Owners are compared with ==, so pass pointers to shared resources.
func (r *Registry) Claim(kind Kind, id string, owner any, where string) bool {
	m := r.owners[kind]
	if prev, ok := m[id]; ok {
		if prev == owner {
			return true
		}
		r.conflicts = append(r.conflicts, Conflict{Kind: kind, ID: id, Where: where})
		return false
	}
	m[id] = owner
	return true
}

// Owner returns the owner of (kind, id).
func (r *Registry) Owner(kind Kind, id string) (any, bool) {
	o, ok := r.owners[kind][id]
	return o, ok
}

// Len returns the number of ids claimed for kind.
func (r *Registry) Len(kind Kind) int { return len(r.owners[kind]) }

// Conflicts returns the recorded conflicts in claim order.
func (r *Registry) Conflicts() []Conflict {
	return append([]Conflict(nil), r.conflicts...)
}

// Ambiguous reports whether any id was claimed by two owners.
func (r *Registry) Ambiguous() bool { return len(r.conflicts) > 0 }
