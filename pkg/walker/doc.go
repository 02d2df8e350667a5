// Package walker builds the import settings model from a live scene graph.
//
// [Walk] makes one depth-first pre-order pass. At each node it registers a
// node entry, then the node's mesh, the materials of every surface slot,
// and one entry per animation clip. Meshes and materials are deduplicated
// by resource pointer: a mesh shared by three nodes gets one entry and one
// mesh-view item, but three scene-view items.
//
// The three tree projections are filled during the same pass, so the store
// and the views always describe the same walk. The world bounding box
// starts empty and is extended by every transformed mesh box.
//
// Identity failures do not stop the walk. Unresolvable resources are
// projected as non-selectable items and ambiguous identities keep their
// first owner; both are recorded in the [Report].
//
// Overrides from a previous session can be restored through
// [Options.Seed]. Seeded identities that no longer exist are reported and
// dropped.
package walker
