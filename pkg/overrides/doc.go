// Package overrides implements the override store: one mapping per kind
// (node, mesh, material, animation) from identity to [Entry].
//
// Each entry owns a sparse override bag. Its default bag is computed on
// demand by the store's [settings.Resolver] from the entry's category and
// the effective settings of its ancestor entry, so an edit to an ancestor's
// inheritable option is visible in every descendant without a re-walk.
//
// Writes are validated against the category schema: an unknown key is
// UNKNOWN_OPTION and is never stored. Any accepted write marks the store
// dirty, which tells the session that the import configuration changed.
//
// Only the walker inserts entries. A new walk builds a new store.
package overrides
