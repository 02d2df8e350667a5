// Package projection holds the navigable tree views of an import session.
//
// A walk builds three parallel views over the same entries: the scene
// hierarchy, one item per mesh with its materials, and a flat list of
// materials. Each view is a [Tree] backed by a row-layered [dag.DAG].
//
// Items are addressed by opaque [Handle] values. UI collaborators hold
// handles, never entries; [Set.Resolve] turns a handle from a selection
// event back into a (kind, id) pair and [Set.Refs] goes the other way,
// listing every item that projects an entry so all views can highlight
// it together. Only the walker writes to a [Set].
package projection
