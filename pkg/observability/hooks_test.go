package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	w := NoopWalkHooks{}
	w.OnWalkStart(ctx, "hero.glb")
	w.OnWalkComplete(ctx, "hero.glb", WalkStats{Nodes: 3}, time.Second)

	s := NoopStoreHooks{}
	s.OnOverrideSet("material", "/Root/Body:surface0", "roughness")
	s.OnOverrideCleared("material", "/Root/Body:surface0", "roughness")
	s.OnOverrideRejected("material", "/Root/Body:surface0", "bogus", errors.New("unknown option"))

	d := NoopDraftHooks{}
	d.OnDraftHit(ctx, "file")
	d.OnDraftMiss(ctx, "redis")
	d.OnDraftSet(ctx, "sqlite", 1024)

	r := NoopReimportHooks{}
	r.OnReimportStart(ctx, "hero.glb", "file")
	r.OnReimportComplete(ctx, "hero.glb", "file", time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Walk().(NoopWalkHooks); !ok {
		t.Error("Walk() should return NoopWalkHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Draft().(NoopDraftHooks); !ok {
		t.Error("Draft() should return NoopDraftHooks by default")
	}
	if _, ok := Reimport().(NoopReimportHooks); !ok {
		t.Error("Reimport() should return NoopReimportHooks by default")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}
	Store().OnOverrideSet("mesh", "m", "k")
	if customStore.sets != 1 {
		t.Errorf("sets = %d, want 1", customStore.sets)
	}

	customDraft := &testDraftHooks{}
	SetDraftHooks(customDraft)
	if Draft() != customDraft {
		t.Error("SetDraftHooks should set custom hooks")
	}

	// nil keeps the current hooks
	SetStoreHooks(nil)
	if Store() != customStore {
		t.Error("SetStoreHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset should restore NoopStoreHooks")
	}
}

type testStoreHooks struct {
	NoopStoreHooks
	sets int
}

func (h *testStoreHooks) OnOverrideSet(string, string, string) { h.sets++ }

type testDraftHooks struct{ NoopDraftHooks }
