package draft

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/sceneimport/pkg/errors"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendFile, BackendSQLite, BackendRedis, BackendMongo, BackendNone}

// Options selects and configures a backend for [Open].
type Options struct {
	Backend string

	// Dir is the file backend directory and the default location of the
	// SQLite database.
	Dir string

	// DSN is the SQLite database path.
	DSN string

	Redis RedisConfig
	Mongo MongoConfig
}

// Open returns the configured store. An empty backend means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Dir)
	case BackendSQLite:
		path := opts.DSN
		if path == "" {
			dir := opts.Dir
			if dir == "" {
				d, err := DefaultDir()
				if err != nil {
					return nil, err
				}
				dir = d
			}
			path = filepath.Join(dir, "drafts.db")
		}
		return NewSQLiteStore(path)
	case BackendRedis:
		return NewRedisStore(ctx, opts.Redis)
	case BackendMongo:
		return NewMongoStore(ctx, opts.Mongo)
	case BackendNone:
		return NewNullStore(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown draft backend %q (want one of %v)", opts.Backend, Backends)
}
