package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sceneimport/pkg/observability"
)

// logHooks reports library events on a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.WalkHooks     = logHooks{}
	_ observability.StoreHooks    = logHooks{}
	_ observability.DraftHooks    = logHooks{}
	_ observability.ReimportHooks = logHooks{}
)

// RegisterHooks routes every observability event to logger. Call it once
// from main before the command runs.
func RegisterHooks(logger *log.Logger) {
	h := logHooks{logger: logger}
	observability.SetWalkHooks(h)
	observability.SetStoreHooks(h)
	observability.SetDraftHooks(h)
	observability.SetReimportHooks(h)
}

func (h logHooks) OnWalkStart(_ context.Context, asset string) {
	h.logger.Debug("walk started", "asset", asset)
}

func (h logHooks) OnWalkComplete(_ context.Context, asset string, stats observability.WalkStats, d time.Duration) {
	h.logger.Debug("walk complete", "asset", asset,
		"nodes", stats.Nodes, "meshes", stats.Meshes, "materials", stats.Materials,
		"animations", stats.Animations, "issues", stats.Issues, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnOverrideSet(kind, id, key string) {
	h.logger.Debug("override set", "kind", kind, "id", id, "key", key)
}

func (h logHooks) OnOverrideCleared(kind, id, key string) {
	h.logger.Debug("override cleared", "kind", kind, "id", id, "key", key)
}

func (h logHooks) OnOverrideRejected(kind, id, key string, err error) {
	h.logger.Debug("override rejected", "kind", kind, "id", id, "key", key, "error", err)
}

func (h logHooks) OnDraftHit(_ context.Context, backend string) {
	h.logger.Debug("draft hit", "backend", backend)
}

func (h logHooks) OnDraftMiss(_ context.Context, backend string) {
	h.logger.Debug("draft miss", "backend", backend)
}

func (h logHooks) OnDraftSet(_ context.Context, backend string, size int) {
	h.logger.Debug("draft stored", "backend", backend, "bytes", size)
}

func (h logHooks) OnReimportStart(_ context.Context, asset, trigger string) {
	h.logger.Debug("re-import started", "asset", asset, "trigger", trigger)
}

func (h logHooks) OnReimportComplete(_ context.Context, asset, trigger string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("re-import failed", "asset", asset, "trigger", trigger, "took", d, "error", err)
		return
	}
	h.logger.Debug("re-import complete", "asset", asset, "trigger", trigger, "took", d)
}
