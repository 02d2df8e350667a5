// Package scene models the live scene graph that an import session
// inspects.
//
// Decoding real mesh and animation data is the job of the engine's import
// pipeline. This package only carries what the import settings model needs
// from it: the node hierarchy with names and transforms, which nodes carry
// geometry or animation clips, the surfaces and material slots of each
// mesh, and each mesh's local bounding box.
//
// # Shared resources
//
// [Mesh], [Material] and [Animation] values are shared: two nodes that
// instance the same geometry hold the same *Mesh. Pointer identity is what
// the walker deduplicates on.
//
// # Scene descriptions
//
// [ReadFile] and [Read] decode a JSON or YAML scene description, the
// hand-off format produced by the external decoder. Resources are declared
// once and referenced by name from nodes.
//
// # Bounds
//
// [Bounds] is an axis-aligned box over [mgl64.Vec3]. [EmptyBounds] is the
// sentinel used to seed accumulators; [Bounds.Extend] treats it as the
// identity element.
package scene
