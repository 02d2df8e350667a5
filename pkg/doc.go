// Package pkg provides the libraries behind sceneimport, the import
// settings editor for 3D scene assets.
//
// # Overview
//
// An import session walks a scene description once, gives every node,
// mesh, material and animation a stable identity, and keeps the settings
// the user overrides for each of them. The overrides are written back as
// an import configuration next to the asset, which the asset pipeline
// re-imports.
//
// The packages follow the data flow of a session:
//
//	scene description (YAML / JSON)
//	         ↓
//	    [scene] package (load the node tree, meshes, materials, animations)
//	         ↓
//	    [walker] package (one walk: identities, defaults, projections)
//	         ↓
//	    [overrides] package (per-entry explicit values over defaults)
//	         ↓
//	    [reimport] package (serialize, actions, trigger the re-import)
//
// # Quick Start
//
// Open a session, override one material option and re-import:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/sceneimport/pkg/identity"
//	    "github.com/matzehuels/sceneimport/pkg/reimport"
//	    "github.com/matzehuels/sceneimport/pkg/session"
//	    "github.com/matzehuels/sceneimport/pkg/settings"
//	)
//
//	s, err := session.Open(ctx, "hero.yaml", session.Options{})
//	if err != nil {
//	    return err
//	}
//	err = s.SetOverride(identity.KindMaterial, "/Root/Body:surface0",
//	    "roughness", settings.Number(0.4))
//	if err != nil {
//	    return err
//	}
//	_, err = s.Reimport(ctx, reimport.FileTrigger{})
//
// # Package Organization
//
// Model:
//
//   - [scene]: scene description loading and bounding boxes
//   - [identity]: identity derivation and the collision registry
//   - [settings]: option schemas, values, bags and the default resolver
//   - [overrides]: the override store keyed by (kind, identity)
//
// Session:
//
//   - [walker]: the single scene walk that populates store and projections
//   - [projection]: scene, mesh and material tree views over one store
//   - [selection]: the selection controller and preview camera
//   - [session]: one editing pass tying the pieces together
//   - [reimport]: import configuration codec, action list and triggers
//
// Infrastructure:
//
//   - [draft]: unsaved-edit persistence (file, SQLite, Redis, MongoDB)
//   - [config]: user configuration file
//   - [dag]: ordered row-layered graph under the projections
//   - [render/nodelink]: text, DOT and SVG rendering of a projection
//   - [errors]: coded errors and path validation
//   - [observability]: hooks for walks, edits, drafts and re-imports
//   - [buildinfo]: version information
//
// [scene]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/scene
// [identity]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/identity
// [settings]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/settings
// [overrides]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/overrides
// [walker]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/walker
// [projection]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/projection
// [selection]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/selection
// [session]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/session
// [reimport]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/reimport
// [draft]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/draft
// [config]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/config
// [dag]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/dag
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/render/nodelink
// [errors]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/sceneimport/pkg/buildinfo
package pkg
