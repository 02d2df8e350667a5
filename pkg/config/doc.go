// Package config loads the sceneimport CLI configuration.
//
// The file lives at ~/.config/sceneimport/config.toml (or under
// $XDG_CONFIG_HOME) and is optional:
//
//	[drafts]
//	backend = "sqlite"      # file, sqlite, redis, mongo or none
//	ttl = "720h"
//
//	[reimport]
//	command = "godot --headless --import"
//
//	[serve]
//	addr = "127.0.0.1:8080"
//
//	[defaults.material]
//	roughness = 0.8
//
//	[defaults.mesh]
//	"lods/policy" = "none"
//
// The [defaults.<category>] tables set global type defaults. They apply
// to every entry of the category that has no explicit override and are
// never written into import configurations.
//
// Keys the loader does not know are kept in [Config.Undecoded] so the CLI
// can warn about typos instead of failing.
package config
