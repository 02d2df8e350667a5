// Package reimport serializes an override store into an import
// configuration and hands it to the re-import pipeline.
//
// # Configuration format
//
// The configuration is a TOML document stored next to the asset as
// <asset>.import.toml:
//
//	source = "hero.glb"
//	version = 1
//
//	[subresources.material."/Root/Body:surface0"]
//	roughness = 0.4
//
//	[[actions]]
//	kind = "extract_material"
//	id = "/Root/Body:surface0"
//	path = "materials/body.tres"
//
// Each subresource table holds only explicitly overridden keys. Actions
// keep their insertion order.
//
// # Round trip
//
// [Config.Seed] turns a decoded configuration back into walk seed
// overrides. Serializing, re-hydrating a session from the result and
// serializing again yields identical bytes.
//
// # Triggers
//
// A [Trigger] starts the external re-import. [FileTrigger] only writes the
// configuration file; [CommandTrigger] also runs a command with the
// configuration on stdin.
package reimport
