// Package settings defines option values, per-category schemas and the
// default resolver.
//
// # Values
//
// A [Value] is a tagged union over a closed set of kinds: bool, number,
// string, enum, color and path. [FromRaw] converts decoded TOML or JSON
// values and [Parse] converts command-line text; both check the kind, and
// [Option.Check] adds enum membership.
//
// # Schemas
//
// Every sub-resource category (node, mesh_node, animation_node, mesh,
// material, animation) has a fixed [Schema]. The schema is the key-set an
// override bag may use: a key outside it is an UNKNOWN_OPTION error.
//
// # Default resolution
//
// [Resolver.DefaultsFor] computes a dense default bag. Layers apply in
// order, later winning:
//
//  1. the category base default declared by the schema
//  2. the global type default from configuration
//  3. the nearest ancestor's effective value, for inheritable options only
//
// The resolver is pure. Given the same category and ancestor bag it always
// returns an equal bag and never touches the filesystem.
package settings
