package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sceneimport/pkg/draft"
	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/settings"
)

// appName names the configuration directory.
const appName = "sceneimport"

// FileName is the configuration file name inside the config directory.
const FileName = "config.toml"

// Config is the CLI configuration file.
type Config struct {
	Drafts   Drafts                    `toml:"drafts"`
	Reimport Reimport                  `toml:"reimport"`
	Serve    Serve                     `toml:"serve"`
	Defaults map[string]map[string]any `toml:"defaults"`

	// Undecoded lists keys present in the file that no field matched.
	Undecoded []string `toml:"-"`
}

// Drafts configures draft persistence.
type Drafts struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	DSN     string   `toml:"dsn"`
	TTL     Duration `toml:"ttl"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Reimport configures how re-imports are triggered.
type Reimport struct {
	// Command runs after the import config is written. Empty only writes
	// the file.
	Command string `toml:"command"`
}

// Serve configures the inspector API.
type Serve struct {
	Addr string `toml:"addr"`
}

// Duration decodes TOML strings such as "72h".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidValue, err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Drafts: Drafts{Backend: draft.BackendFile, TTL: Duration{draft.DefaultTTL}},
		Serve:  Serve{Addr: "127.0.0.1:8080"},
	}
}

// Dir returns $XDG_CONFIG_HOME/sceneimport, falling back to
// ~/.config/sceneimport.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the configuration at path over the defaults. A missing file
// at the default location is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a configuration document over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	for _, k := range md.Undecoded() {
		cfg.Undecoded = append(cfg.Undecoded, k.String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the backend name and the global defaults.
func (c *Config) Validate() error {
	var errs []error
	if c.Drafts.Backend != "" && !slices.Contains(draft.Backends, c.Drafts.Backend) {
		errs = append(errs, errors.New(errors.ErrCodeInvalidInput, "drafts.backend %q is not one of %s", c.Drafts.Backend, strings.Join(draft.Backends, ", ")))
	}
	if _, err := settings.GlobalsFromRaw(c.Defaults); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Resolver builds the default resolver from the [defaults] tables.
func (c *Config) Resolver() (*settings.Resolver, error) {
	globals, err := settings.GlobalsFromRaw(c.Defaults)
	if err != nil {
		return nil, err
	}
	return settings.NewResolver(globals)
}

// DraftOptions converts the [drafts] table for draft.Open.
func (c *Config) DraftOptions() draft.Options {
	d := c.Drafts
	return draft.Options{
		Backend: d.Backend,
		Dir:     d.Dir,
		DSN:     d.DSN,
		Redis: draft.RedisConfig{
			Addr:     d.RedisAddr,
			Password: d.RedisPassword,
			DB:       d.RedisDB,
		},
		Mongo: draft.MongoConfig{
			URI:        d.MongoURI,
			Database:   d.MongoDatabase,
			Collection: d.MongoCollection,
		},
	}
}

// DraftTTL returns the configured draft lifetime.
func (c *Config) DraftTTL() time.Duration {
	if c.Drafts.TTL.Duration <= 0 {
		return draft.DefaultTTL
	}
	return c.Drafts.TTL.Duration
}
