// Package draft persists unsaved editing state between commands.
//
// A [Draft] holds what the user changed for one asset but has not yet
// re-imported: explicit overrides, the action list (pending actions
// included, which the import configuration cannot hold) and the current
// selection. The CLI loads the draft of an asset before every edit
// command and saves it afterwards; a successful re-import drops it.
//
// # Backends
//
// Drafts are stored through the [Store] interface:
//
//   - [FileStore]: one JSON file per draft under ~/.cache/sceneimport/drafts
//   - [SQLiteStore]: a single embedded SQLite database
//   - [RedisStore]: shared Redis, expiry via key TTLs
//   - [MongoStore]: a MongoDB collection with a TTL index
//   - [NullStore]: drafts disabled
//
// [Open] picks one from [Options], usually built from the [drafts] table
// of the CLI configuration.
//
// # Usage
//
//	store, err := draft.Open(ctx, draft.Options{Backend: "sqlite"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	d, ok, err := draft.Load(ctx, store, "hero.glb")
//	...
//	err = draft.Save(ctx, store, d, draft.DefaultTTL)
//
// Reads from network backends are retried with backoff on transient
// failures. Load, Save and misses are reported to
// [observability.DraftHooks].
package draft
