package draft

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/sceneimport/pkg/identity"
	"github.com/matzehuels/sceneimport/pkg/observability"
	"github.com/matzehuels/sceneimport/pkg/overrides"
	"github.com/matzehuels/sceneimport/pkg/reimport"
	"github.com/matzehuels/sceneimport/pkg/selection"
)

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()
	defer s.Close()

	if err := s.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := s.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want a miss", data, hit, err)
	}
	if err := s.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := s.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = %v, %v", hit, err)
	}

	if err := s.Set(ctx, "k", []byte("one"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("two"), time.Hour); err != nil {
		t.Fatalf("Set (overwrite) error: %v", err)
	}
	data, hit, err := s.Get(ctx, "k")
	if err != nil || !hit || string(data) != "two" {
		t.Errorf("Get = %q, %v, %v; want two", data, hit, err)
	}

	if err := s.Set(ctx, "stale", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := s.Get(ctx, "stale"); hit {
		t.Error("expired value must be a miss")
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := s.Get(ctx, "k"); hit {
		t.Error("deleted value must be a miss")
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)

	ctx := context.Background()
	_ = s.Set(ctx, "a", []byte("1"), 0)
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := s.Get(ctx, "a"); hit {
		t.Error("Clear must remove drafts")
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d", "drafts.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exerciseStore(t, s)

	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
	ctx := context.Background()
	if err := s.Cleanup(ctx); err != nil {
		t.Errorf("Cleanup error: %v", err)
	}
	_ = s.Set(ctx, "a", []byte("1"), 0)
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := s.Get(ctx, "a"); hit {
		t.Error("Clear must remove drafts")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, backend := range []string{"", BackendFile, BackendSQLite, BackendNone} {
		s, err := Open(ctx, Options{Backend: backend, Dir: dir})
		if err != nil {
			t.Fatalf("Open(%q) error: %v", backend, err)
		}
		if backend != "" && s.Name() != backend {
			t.Errorf("Open(%q).Name() = %q", backend, s.Name())
		}
		s.Close()
	}
	if _, err := Open(ctx, Options{Backend: "tape"}); err == nil {
		t.Error("unknown backend must fail")
	}
}

type countingHooks struct {
	observability.NoopDraftHooks
	hits, misses, sets int
}

func (h *countingHooks) OnDraftHit(context.Context, string)      { h.hits++ }
func (h *countingHooks) OnDraftMiss(context.Context, string)     { h.misses++ }
func (h *countingHooks) OnDraftSet(context.Context, string, int) { h.sets++ }

func TestSaveLoad(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetDraftHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	asset := filepath.Join(t.TempDir(), "hero.glb")

	if _, ok, err := Load(ctx, s, asset); ok || err != nil {
		t.Fatalf("Load(empty) = %v, %v", ok, err)
	}

	seed := overrides.Seed{}
	seed.Set(identity.KindMaterial, "/Root/Body:surface0", "roughness", 0.4)
	d := &Draft{
		Asset:     asset,
		Overrides: seed,
		Actions:   []reimport.Action{{Kind: reimport.ActionSaveMesh, ID: "/Root/Body:mesh"}},
		Selected:  &selection.Target{Kind: identity.KindMesh, ID: "/Root/Body:mesh"},
	}
	if err := Save(ctx, s, d, DefaultTTL); err != nil {
		t.Fatal(err)
	}

	got, ok, err := Load(ctx, s, asset)
	if err != nil || !ok {
		t.Fatalf("Load = %v, %v", ok, err)
	}
	if got.Overrides[identity.KindMaterial]["/Root/Body:surface0"]["roughness"] != 0.4 {
		t.Errorf("overrides = %v", got.Overrides)
	}
	if len(got.Actions) != 1 || !got.Actions[0].Pending() {
		t.Errorf("pending actions must survive a draft: %v", got.Actions)
	}
	if got.Selected == nil || got.Selected.ID != "/Root/Body:mesh" {
		t.Errorf("selection = %v", got.Selected)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("Save must stamp UpdatedAt")
	}

	if err := Drop(ctx, s, asset); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := Load(ctx, s, asset); ok {
		t.Error("dropped draft must be gone")
	}

	if hooks.hits != 1 || hooks.misses != 2 || hooks.sets != 1 {
		t.Errorf("hooks hits=%d misses=%d sets=%d", hooks.hits, hooks.misses, hooks.sets)
	}
}

func TestLoadCorruptDraft(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())
	_ = s.Set(ctx, Key("a.glb"), []byte("{not json"), 0)

	if _, ok, err := Load(ctx, s, "a.glb"); ok || err != nil {
		t.Errorf("Load(corrupt) = %v, %v; want a clean miss", ok, err)
	}
	if _, hit, _ := s.Get(ctx, Key("a.glb")); hit {
		t.Error("corrupt draft must be removed")
	}
}

func TestKeyIsAbsolute(t *testing.T) {
	abs, _ := filepath.Abs("scene.glb")
	if Key("scene.glb") != Key(abs) {
		t.Error("relative and absolute paths of one file must share a key")
	}
	if Key("a.glb") == Key("b.glb") {
		t.Error("different assets must not share a key")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	ctx := context.Background()
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("flaky"))
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	permanent := errors.New("permanent")
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Errorf("permanent: err=%v calls=%d", err, calls)
	}
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) must be nil")
	}
}
