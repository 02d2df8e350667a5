package reimport

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/identity"
	"github.com/matzehuels/sceneimport/pkg/overrides"
)

// FormatVersion is written to every import configuration.
const FormatVersion = 1

// ConfigSuffix is appended to an asset path to name its import
// configuration file.
const ConfigSuffix = ".import.toml"

// ConfigPath returns the import configuration path of asset.
func ConfigPath(asset string) string { return asset + ConfigSuffix }

// Config is the persisted import configuration of one asset.
//
// Subresources holds one table per (kind, identity) with only the
// explicitly overridden keys. Defaults are never written, so a changed
// default applies at the next import.
type Config struct {
	Source       string                               `toml:"source" json:"source"`
	Version      int                                  `toml:"version" json:"version"`
	Subresources map[string]map[string]map[string]any `toml:"subresources,omitempty" json:"subresources,omitempty"`
	Actions      []Action                             `toml:"actions,omitempty" json:"actions,omitempty"`
}

// Options configures [Serialize].
type Options struct {
	// Source is recorded in the config, usually the asset's base name.
	Source string

	// BaseDir resolves relative action paths. Empty means the working
	// directory.
	BaseDir string

	// Retained holds sections of kinds the store does not cover. They are
	// written back unchanged.
	Retained overrides.Seed

	// Excluded names the kinds the store does not cover. Actions on these
	// kinds were checked when they were written and pass through as is.
	Excluded []identity.Kind
}

// Serialize flattens the explicit overrides of store and the action list
// into a Config.
//
// Every action must carry a target path that can be written: a pending
// action fails with INCOMPLETE_ACTION, an unusable path with INVALID_PATH,
// and an action for a missing entry with UNKNOWN_IDENTITY. Any failure
// blocks the whole serialization; all failures are returned joined.
// Actions on excluded kinds are kept without checks.
func Serialize(store *overrides.Store, actions []Action, opts Options) (*Config, error) {
	var errs []error
	for _, a := range actions {
		if kind := a.Kind.EntryKind(); kind != "" && slices.Contains(opts.Excluded, kind) {
			continue
		}
		if err := checkAction(store, a, opts.BaseDir); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	cfg := &Config{Source: opts.Source, Version: FormatVersion}
	for _, k := range identity.Kinds {
		for id, kv := range opts.Retained[k] {
			if len(kv) > 0 {
				cfg.section(k)[id] = maps.Clone(kv)
			}
		}
		for _, e := range store.Overridden(k) {
			cfg.section(k)[e.ID] = e.Overrides().Raw()
		}
	}
	if len(actions) > 0 {
		cfg.Actions = append([]Action(nil), actions...)
	}
	return cfg, nil
}

func (c *Config) section(k identity.Kind) map[string]map[string]any {
	if c.Subresources == nil {
		c.Subresources = make(map[string]map[string]map[string]any)
	}
	if c.Subresources[string(k)] == nil {
		c.Subresources[string(k)] = make(map[string]map[string]any)
	}
	return c.Subresources[string(k)]
}

func checkAction(store *overrides.Store, a Action, base string) error {
	kind := a.Kind.EntryKind()
	if kind == "" {
		return errors.New(errors.ErrCodeInvalidInput, "unknown action %q", a.Kind)
	}
	if !store.Has(kind, a.ID) {
		return errors.New(errors.ErrCodeUnknownIdentity, "%s action: no %s with id %q", a.Kind, kind, a.ID)
	}
	if a.Pending() {
		return errors.New(errors.ErrCodeIncompleteAction, "%s action for %q has no target path", a.Kind, a.ID)
	}
	if err := errors.ValidatePath(a.Path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "%s action for %q", a.Kind, a.ID)
	}
	if err := errors.ValidateTargetPath(ResolvePath(base, a.Path)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "%s action for %q", a.Kind, a.ID)
	}
	return nil
}

// ResolvePath joins a relative action path to base.
func ResolvePath(base, path string) string {
	if filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}

// Seed converts the subresource tables into walk seed overrides. Tables
// for unknown kinds are reported and skipped.
func (c *Config) Seed() (overrides.Seed, error) {
	sd := overrides.Seed{}
	var errs []error
	for kindName, byID := range c.Subresources {
		kind, err := identity.ParseKind(kindName)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for id, kv := range byID {
			for key, v := range kv {
				sd.Set(kind, id, key, v)
			}
		}
	}
	return sd, errors.Join(errs...)
}

// Encode writes c as TOML. Map keys are sorted, so equal configs encode
// to identical bytes.
func (c *Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode import config: %w", err)
	}
	return nil
}

// Bytes returns the TOML encoding of c.
func (c *Config) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a TOML import configuration. Unknown top-level keys are
// rejected so typos do not silently drop settings.
func Decode(r io.Reader) (*Config, error) {
	var c Config
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode import config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "import config: unknown keys %v", undecoded)
	}
	if c.Version > FormatVersion {
		return nil, errors.New(errors.ErrCodeUnsupported, "import config version %d is newer than %d", c.Version, FormatVersion)
	}
	for _, a := range c.Actions {
		if _, err := ParseActionKind(string(a.Kind)); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// ReadFile reads the import configuration at path. A missing file returns
// a FILE_NOT_FOUND error.
func ReadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "import config %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile writes c to path through a temporary file and rename.
func (c *Config) WriteFile(path string) error {
	data, err := c.Bytes()
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
