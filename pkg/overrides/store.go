package overrides

import (
	"maps"
	"slices"

	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/identity"
	"github.com/matzehuels/sceneimport/pkg/observability"
	"github.com/matzehuels/sceneimport/pkg/settings"
)

// Store holds one mapping per kind from identity to entry.
//
// Store is not safe for concurrent use. A session owns exactly one store
// and mutates it from a single goroutine.
type Store struct {
	resolver *settings.Resolver
	entries  map[identity.Kind]map[string]*Entry
	order    map[identity.Kind][]*Entry
	dirty    bool
}

// New returns an empty store resolving defaults with r. A nil r uses the
// built-in defaults only.
func New(r *settings.Resolver) *Store {
	if r == nil {
		r = settings.DefaultResolver()
	}
	s := &Store{
		resolver: r,
		entries:  make(map[identity.Kind]map[string]*Entry, len(identity.Kinds)),
		order:    make(map[identity.Kind][]*Entry, len(identity.Kinds)),
	}
	for _, k := range identity.Kinds {
		s.entries[k] = make(map[string]*Entry)
	}
	return s
}

// Resolver returns the store's default resolver.
func (s *Store) Resolver() *settings.Resolver { return s.resolver }

// Insert registers e. It fails with AMBIGUOUS_IDENTITY when another entry
// already holds (e.Kind, e.ID); the existing entry is kept.
func (s *Store) Insert(e *Entry) error {
	m, ok := s.entries[e.Kind]
	if !ok {
		return errors.New(errors.ErrCodeInvalidKind, "unknown kind %q", e.Kind)
	}
	if e.ID == "" {
		return errors.New(errors.ErrCodeUnresolvableIdentity, "%s entry without identity", e.Kind)
	}
	if _, ok := settings.SchemaFor(e.Category); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "%s %q: unknown category %q", e.Kind, e.ID, e.Category)
	}
	if prev, dup := m[e.ID]; dup {
		if prev == e {
			return nil
		}
		return errors.New(errors.ErrCodeAmbiguousIdentity, "%s %q already registered", e.Kind, e.ID)
	}
	if e.overrides == nil {
		e.overrides = settings.Bag{}
	}
	m[e.ID] = e
	s.order[e.Kind] = append(s.order[e.Kind], e)
	return nil
}

// Entry returns the entry for (kind, id).
func (s *Store) Entry(kind identity.Kind, id string) (*Entry, bool) {
	e, ok := s.entries[kind][id]
	return e, ok
}

// Has reports whether (kind, id) has an entry.
func (s *Store) Has(kind identity.Kind, id string) bool {
	_, ok := s.entries[kind][id]
	return ok
}

// Entries returns the entries of kind in registration order.
func (s *Store) Entries(kind identity.Kind) []*Entry {
	return append([]*Entry(nil), s.order[kind]...)
}

// Len returns the number of entries of kind.
func (s *Store) Len(kind identity.Kind) int { return len(s.entries[kind]) }

func (s *Store) lookup(kind identity.Kind, id string) (*Entry, error) {
	m, ok := s.entries[kind]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidKind, "unknown kind %q", kind)
	}
	e, ok := m[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownIdentity, "no %s with id %q", kind, id)
	}
	return e, nil
}

// Defaults returns the computed default bag of (kind, id).
func (s *Store) Defaults(kind identity.Kind, id string) (settings.Bag, error) {
	e, err := s.lookup(kind, id)
	if err != nil {
		return nil, err
	}
	return e.defaults(s.resolver), nil
}

// GetEffective returns the defaults of (kind, id) overlaid with its
// explicit overrides. It fails only for an unknown identity.
func (s *Store) GetEffective(kind identity.Kind, id string) (settings.Bag, error) {
	e, err := s.lookup(kind, id)
	if err != nil {
		return nil, err
	}
	return e.effective(s.resolver), nil
}

// Options returns the schema of the entry's category: the full key-set an
// inspector can render.
func (s *Store) Options(kind identity.Kind, id string) (*settings.Schema, error) {
	e, err := s.lookup(kind, id)
	if err != nil {
		return nil, err
	}
	return s.resolver.Schema(e.Category), nil
}

// SetOverride stores an explicit value for key. It fails with
// UNKNOWN_IDENTITY, UNKNOWN_OPTION when key is outside the category
// schema, or INVALID_VALUE when v does not fit the option.
func (s *Store) SetOverride(kind identity.Kind, id, key string, v settings.Value) error {
	e, err := s.lookup(kind, id)
	if err == nil {
		err = s.resolver.Schema(e.Category).Validate(key, v)
	}
	if err != nil {
		observability.Store().OnOverrideRejected(string(kind), id, key, err)
		return err
	}
	e.overrides[key] = v
	s.dirty = true
	observability.Store().OnOverrideSet(string(kind), id, key)
	return nil
}

// ClearOverride removes key from the explicit overrides, reverting it to
// its default. Clearing a key that is not overridden is a no-op but still
// fails for an unknown identity or option.
func (s *Store) ClearOverride(kind identity.Kind, id, key string) error {
	e, err := s.lookup(kind, id)
	if err != nil {
		return err
	}
	if !s.resolver.Schema(e.Category).Has(key) {
		return errors.New(errors.ErrCodeUnknownOption, "%s has no option %q", e.Category, key)
	}
	if _, ok := e.overrides[key]; !ok {
		return nil
	}
	delete(e.overrides, key)
	s.dirty = true
	observability.Store().OnOverrideCleared(string(kind), id, key)
	return nil
}

// Overridden returns the entries of kind with at least one explicit
// override, in registration order.
func (s *Store) Overridden(kind identity.Kind) []*Entry {
	var out []*Entry
	for _, e := range s.order[kind] {
		if e.HasOverrides() {
			out = append(out, e)
		}
	}
	return out
}

// Dirty reports whether any write happened since the last MarkClean.
func (s *Store) Dirty() bool { return s.dirty }

// MarkClean resets the dirty flag, e.g. after serialization.
func (s *Store) MarkClean() { s.dirty = false }

// Seed carries raw override values keyed by kind, identity and option, as
// decoded from an import configuration or a draft. A walk applies a seed
// to the entries it registers.
type Seed map[identity.Kind]map[string]map[string]any

// Set adds one raw value, allocating inner maps as needed.
func (sd Seed) Set(kind identity.Kind, id, key string, raw any) {
	if sd[kind] == nil {
		sd[kind] = make(map[string]map[string]any)
	}
	if sd[kind][id] == nil {
		sd[kind][id] = make(map[string]any)
	}
	sd[kind][id][key] = raw
}

// Apply converts and stores the raw values seeded for e. It returns one
// error per rejected key; accepted keys are stored even when others fail.
func (s *Store) Apply(e *Entry, raw map[string]any) []error {
	schema := s.resolver.Schema(e.Category)
	var errs []error
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		rv := raw[key]
		o, ok := schema.Lookup(key)
		if !ok {
			errs = append(errs, errors.New(errors.ErrCodeUnknownOption, "%s %q: %s has no option %q", e.Kind, e.ID, e.Category, key))
			continue
		}
		v, err := settings.FromRaw(o.Kind, rv)
		if err != nil {
			errs = append(errs, errors.Wrap(errors.ErrCodeInvalidValue, err, "%s %q: option %q", e.Kind, e.ID, key))
			continue
		}
		if err := s.SetOverride(e.Kind, e.ID, key, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Snapshot returns the explicit overrides of every entry as a seed, so a
// later walk can restore them.
func (s *Store) Snapshot() Seed {
	sd := Seed{}
	for _, k := range identity.Kinds {
		for _, e := range s.Overridden(k) {
			for key, v := range e.overrides {
				sd.Set(k, e.ID, key, v.Raw())
			}
		}
	}
	return sd
}
