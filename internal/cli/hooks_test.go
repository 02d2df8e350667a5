package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sceneimport/pkg/observability"
)

func TestRegisterHooks(t *testing.T) {
	var buf bytes.Buffer
	RegisterHooks(newLogger(&buf, LogDebug))
	defer observability.Reset()

	ctx := context.Background()
	observability.Walk().OnWalkComplete(ctx, "hero.yaml", observability.WalkStats{Nodes: 3}, time.Millisecond)
	observability.Store().OnOverrideSet("material", "/Root/Body:surface0", "roughness")
	observability.Draft().OnDraftMiss(ctx, "file")
	observability.Reimport().OnReimportComplete(ctx, "hero.yaml", "file", time.Millisecond, errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"walk complete", "nodes=3", "override set", "draft miss", "re-import failed", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output lacks %q:\n%s", want, out)
		}
	}
}

func TestRegisterHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	RegisterHooks(newLogger(&buf, LogInfo))
	defer observability.Reset()

	observability.Store().OnOverrideCleared("node", "/Root", "visible")
	if buf.Len() != 0 {
		t.Errorf("hooks logged at info level: %q", buf.String())
	}
}
