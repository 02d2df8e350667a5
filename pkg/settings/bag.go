package settings

import (
	"maps"
	"slices"
)

// Bag maps option names to values. Default bags are dense over a
// category's schema; override bags are sparse.
type Bag map[string]Value

// Clone returns a shallow copy. Values are immutable so this is a full copy.
func (b Bag) Clone() Bag {
	if b == nil {
		return Bag{}
	}
	return maps.Clone(b)
}

// Keys returns the option names in sorted order.
func (b Bag) Keys() []string {
	return slices.Sorted(maps.Keys(b))
}

// Overlay returns a new bag with the entries of over taking precedence
// key-by-key over b.
func (b Bag) Overlay(over Bag) Bag {
	out := b.Clone()
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Equal reports whether both bags hold the same keys with equal values.
func (b Bag) Equal(o Bag) bool {
	return maps.EqualFunc(b, o, Value.Equal)
}

// Raw converts the bag into plain Go values for encoding.
func (b Bag) Raw() map[string]any {
	out := make(map[string]any, len(b))
	for k, v := range b {
		out[k] = v.Raw()
	}
	return out
}
