package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/matzehuels/sceneimport/pkg/observability"
	"github.com/matzehuels/sceneimport/pkg/overrides"
	"github.com/matzehuels/sceneimport/pkg/reimport"
	"github.com/matzehuels/sceneimport/pkg/selection"
)

// DefaultTTL is how long an untouched draft is kept.
const DefaultTTL = 30 * 24 * time.Hour

// Store is the interface for draft storage backends. Keys are opaque
// strings built by [Key]; values are encoded drafts.
type Store interface {
	// Name identifies the backend in logs and hook events.
	Name() string

	// Get returns the stored value and whether it was found. Expired
	// values are reported as missing.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Draft is the unsaved editing state of one asset: the explicit
// overrides, the action list including pending actions, and the
// selection.
type Draft struct {
	Asset         string            `json:"asset"`
	Session       string            `json:"session,omitempty"`
	AnimationOnly bool              `json:"animation_only,omitempty"`
	Overrides     overrides.Seed    `json:"overrides,omitempty"`
	Actions       []reimport.Action `json:"actions,omitempty"`
	Selected      *selection.Target `json:"selected,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Key returns the storage key of asset's draft. Relative paths are made
// absolute so the same file always maps to one key.
func Key(asset string) string {
	if abs, err := filepath.Abs(asset); err == nil {
		asset = abs
	}
	return "draft:" + Hash([]byte(asset))
}

// Save encodes d and writes it to s under d.Asset's key.
func Save(ctx context.Context, s Store, d *Draft, ttl time.Duration) error {
	d.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.Set(ctx, Key(d.Asset), data, ttl); err != nil {
		return fmt.Errorf("store draft for %s: %w", d.Asset, err)
	}
	observability.Draft().OnDraftSet(ctx, s.Name(), len(data))
	return nil
}

// Load returns the draft of asset, or false when none is stored. Network
// backends are retried on transient failures. An undecodable draft is
// deleted and reported as missing.
func Load(ctx context.Context, s Store, asset string) (*Draft, bool, error) {
	key := Key(asset)
	var (
		data []byte
		hit  bool
	)
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = s.Get(ctx, key)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("load draft for %s: %w", asset, err)
	}
	if !hit {
		observability.Draft().OnDraftMiss(ctx, s.Name())
		return nil, false, nil
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		_ = s.Delete(ctx, key)
		observability.Draft().OnDraftMiss(ctx, s.Name())
		return nil, false, nil
	}
	observability.Draft().OnDraftHit(ctx, s.Name())
	return &d, true, nil
}

// Drop removes the draft of asset.
func Drop(ctx context.Context, s Store, asset string) error {
	return s.Delete(ctx, Key(asset))
}
