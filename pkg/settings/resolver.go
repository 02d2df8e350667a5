package settings

import (
	"sort"

	"github.com/matzehuels/sceneimport/pkg/errors"
)

// Resolver computes default bags. It holds the global type defaults taken
// from configuration and is safe for concurrent use once built.
type Resolver struct {
	globals map[Category]Bag
}

// NewResolver returns a resolver layering globals over the built-in
// category defaults. Every global value must fit its category schema.
func NewResolver(globals map[Category]Bag) (*Resolver, error) {
	r := &Resolver{globals: make(map[Category]Bag, len(globals))}
	var errs []error
	for cat, bag := range globals {
		s, ok := SchemaFor(cat)
		if !ok {
			errs = append(errs, errors.New(errors.ErrCodeInvalidInput, "unknown category %q", cat))
			continue
		}
		for _, key := range bag.Keys() {
			if err := s.Validate(key, bag[key]); err != nil {
				errs = append(errs, err)
			}
		}
		r.globals[cat] = bag.Clone()
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return r, nil
}

// DefaultResolver returns a resolver with no global overrides.
func DefaultResolver() *Resolver {
	return &Resolver{globals: map[Category]Bag{}}
}

// Schema returns the schema of cat. It panics on an unknown category,
// which is a programming error.
func (r *Resolver) Schema(cat Category) *Schema {
	s, ok := SchemaFor(cat)
	if !ok {
		panic("settings: unknown category " + string(cat))
	}
	return s
}

// DefaultsFor returns the dense default bag for cat. Layers apply in order,
// later winning: the category base default, the global type default, then
// the ancestor's value for every inheritable option the ancestor carries.
// ancestor may be nil. The result is a fresh bag.
func (r *Resolver) DefaultsFor(cat Category, ancestor Bag) Bag {
	s := r.Schema(cat)
	out := s.Base()
	for k, v := range r.globals[cat] {
		out[k] = v
	}
	for _, o := range s.options {
		if !o.Inheritable {
			continue
		}
		if v, ok := ancestor[o.Name]; ok && o.Check(v) == nil {
			out[o.Name] = v
		}
	}
	return out
}

// Globals returns a copy of the configured global defaults.
func (r *Resolver) Globals() map[Category]Bag {
	out := make(map[Category]Bag, len(r.globals))
	for c, b := range r.globals {
		out[c] = b.Clone()
	}
	return out
}

// GlobalsFromRaw converts decoded configuration tables, keyed by category
// name then option name, into typed global defaults.
func GlobalsFromRaw(raw map[string]map[string]any) (map[Category]Bag, error) {
	out := make(map[Category]Bag, len(raw))
	var errs []error

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cat, err := ParseCategory(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s, _ := SchemaFor(cat)
		bag := Bag{}
		for key, v := range raw[name] {
			o, ok := s.Lookup(key)
			if !ok {
				errs = append(errs, errors.New(errors.ErrCodeUnknownOption, "%s has no option %q", cat, key))
				continue
			}
			val, err := FromRaw(o.Kind, v)
			if err == nil {
				err = o.Check(val)
			}
			if err != nil {
				errs = append(errs, errors.Wrap(errors.ErrCodeInvalidValue, err, "defaults.%s.%s", cat, key))
				continue
			}
			bag[key] = val
		}
		out[cat] = bag
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
