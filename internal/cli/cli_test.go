package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/reimport"
)

const heroYAML = `
root:
  name: Root
  children:
    - {name: Body, mesh: M1}
    - {name: Hat, mesh: M1, materials: [B], translation: [0, 2, 0]}
    - {name: Rig, animations: [idle]}
meshes:
  M1:
    min: [-1, -1, -1]
    max: [1, 1, 1]
    surfaces:
      - materials: [A]
materials:
  A: {}
  B: {}
animations:
  idle: {length: 2}
`

const (
	matA = "/Root/Body:surface0"
	matB = "/Root/Hat:surface0"
)

// fixture is an asset and a config whose drafts live in a temp dir.
type fixture struct {
	asset  string
	config string
	drafts string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		asset:  filepath.Join(dir, "hero.yaml"),
		config: filepath.Join(dir, "config.toml"),
		drafts: filepath.Join(dir, "drafts"),
	}
	if err := os.WriteFile(f.asset, []byte(heroYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := fmt.Sprintf("[drafts]\nbackend = \"file\"\ndir = %q\n", f.drafts)
	if err := os.WriteFile(f.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return f
}

// run executes one command line against a fresh CLI, as separate
// invocations would, and returns its command output.
func (f fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", f.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (f fixture) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := f.run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestEditsAccumulateInDraft(t *testing.T) {
	f := newFixture(t)

	f.mustRun(t, "set", f.asset, "material", matA, "roughness", "0.4")
	f.mustRun(t, "set", f.asset, "mesh", "/Root/Body:mesh", "lods/policy", "none")

	out := f.mustRun(t, "serialize", f.asset)
	for _, want := range []string{
		`[subresources.material."/Root/Body:surface0"]`,
		"roughness = 0.4",
		`"lods/policy" = "none"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("serialize output lacks %q:\n%s", want, out)
		}
	}

	f.mustRun(t, "clear", f.asset, "material", matA, "roughness")
	out = f.mustRun(t, "serialize", f.asset)
	if strings.Contains(out, "roughness") {
		t.Errorf("cleared key still serialized:\n%s", out)
	}
}

func TestShowMarksOverrides(t *testing.T) {
	f := newFixture(t)
	f.mustRun(t, "set", f.asset, "material", matB, "albedo_color", "#ff0000")

	out := f.mustRun(t, "show", f.asset, "material", matB)
	if !strings.Contains(out, "#ff0000ff") {
		t.Errorf("show lacks the override:\n%s", out)
	}
	if !strings.Contains(out, "use_external/enabled") {
		t.Errorf("show lacks schema keys:\n%s", out)
	}
}

func TestNoDraftDoesNotPersist(t *testing.T) {
	f := newFixture(t)
	f.mustRun(t, "--no-draft", "set", f.asset, "material", matA, "roughness", "0.4")

	out := f.mustRun(t, "serialize", f.asset)
	if strings.Contains(out, "subresources") {
		t.Errorf("--no-draft edit was kept:\n%s", out)
	}
}

func TestActionsThenReimport(t *testing.T) {
	f := newFixture(t)

	f.mustRun(t, "action", f.asset, "extract-materials")
	if _, err := f.run(t, "serialize", f.asset); !errors.Is(err, errors.ErrCodeIncompleteAction) {
		t.Fatalf("serialize with pending actions: error = %v", err)
	}
	out := f.mustRun(t, "action", f.asset)
	if strings.Count(out, "extract_material") != 2 {
		t.Errorf("action list:\n%s", out)
	}

	f.mustRun(t, "action-path", f.asset, "material", matA, "a.tres")
	f.mustRun(t, "action-path", f.asset, "material", matB, "b.tres")
	f.mustRun(t, "reimport", f.asset)

	cfg, err := reimport.ReadFile(reimport.ConfigPath(f.asset))
	if err != nil {
		t.Fatalf("import config not written: %v", err)
	}
	if len(cfg.Actions) != 2 {
		t.Errorf("actions = %+v", cfg.Actions)
	}

	// The draft is gone; the config alone restores the state.
	entries, _ := os.ReadDir(f.drafts)
	for _, e := range entries {
		sub, _ := os.ReadDir(filepath.Join(f.drafts, e.Name()))
		if len(sub) != 0 {
			t.Errorf("draft left behind in %s", e.Name())
		}
	}
	out = f.mustRun(t, "--no-draft", "serialize", f.asset)
	if !strings.Contains(out, `use_external/path" = "a.tres"`) {
		t.Errorf("config did not seed the session:\n%s", out)
	}
}

func TestActionCancel(t *testing.T) {
	f := newFixture(t)

	f.mustRun(t, "action", f.asset, "extract-materials")
	f.mustRun(t, "action-path", f.asset, "material", matA, "a.tres")
	if _, err := f.run(t, "serialize", f.asset); !errors.Is(err, errors.ErrCodeIncompleteAction) {
		t.Fatalf("serialize with a pending action: error = %v", err)
	}

	f.mustRun(t, "action-cancel", f.asset, "material", matB)
	out := f.mustRun(t, "serialize", f.asset)
	if strings.Contains(out, matB) {
		t.Errorf("cancelled action still serialized:\n%s", out)
	}
	if !strings.Contains(out, "a.tres") {
		t.Errorf("remaining action lost:\n%s", out)
	}
}

func TestAnimationOnlyKeepsMaterials(t *testing.T) {
	f := newFixture(t)

	f.mustRun(t, "set", f.asset, "material", matA, "roughness", "0.4")
	f.mustRun(t, "reimport", f.asset)
	f.mustRun(t, "--animation-only", "set", f.asset, "animation", "idle", "settings/loop_mode", "linear")

	out := f.mustRun(t, "--animation-only", "serialize", f.asset)
	for _, want := range []string{"roughness = 0.4", `"settings/loop_mode" = "linear"`} {
		if !strings.Contains(out, want) {
			t.Errorf("serialize output lacks %q:\n%s", want, out)
		}
	}
}

func TestReimportCommand(t *testing.T) {
	f := newFixture(t)
	f.mustRun(t, "set", f.asset, "animation", "idle", "settings/loop_mode", "linear")

	out := f.mustRun(t, "reimport", f.asset, "--command", "cat")
	if !strings.Contains(out, `[subresources.animation.idle]`) {
		t.Errorf("command did not receive the config on stdin:\n%s", out)
	}
}

func TestTree(t *testing.T) {
	f := newFixture(t)

	out := f.mustRun(t, "tree", f.asset, "--view", "material", "--detailed")
	if !strings.Contains(out, matA) || !strings.Contains(out, matB) {
		t.Errorf("material view:\n%s", out)
	}

	out = f.mustRun(t, "tree", f.asset, "-f", "dot")
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("dot output:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "scene.txt")
	f.mustRun(t, "tree", f.asset, "-o", path)
	data, err := os.ReadFile(path)
	if err != nil || !strings.HasPrefix(string(data), "Root") {
		t.Errorf("tree -o wrote %q, %v", data, err)
	}
}

func TestAnimationOnlyFlag(t *testing.T) {
	f := newFixture(t)
	if _, err := f.run(t, "--animation-only", "show", f.asset, "material", matA); !errors.Is(err, errors.ErrCodeUnknownIdentity) {
		t.Errorf("material in animation-only mode: error = %v", err)
	}
	f.mustRun(t, "--animation-only", "show", f.asset, "animation", "idle")
}

func TestCommandErrors(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"bad kind", []string{"show", f.asset, "texture", "x"}, errors.ErrCodeInvalidKind},
		{"unknown entry", []string{"show", f.asset, "node", "/Nope"}, errors.ErrCodeUnknownIdentity},
		{"unknown option", []string{"set", f.asset, "material", matA, "shininess", "1"}, errors.ErrCodeUnknownOption},
		{"bad value", []string{"set", f.asset, "material", matA, "roughness", "rough"}, errors.ErrCodeInvalidValue},
		{"bad enum", []string{"set", f.asset, "material", matA, "shading_mode", "toon"}, errors.ErrCodeInvalidValue},
		{"bad action", []string{"action", f.asset, "bake-lights"}, errors.ErrCodeInvalidInput},
		{"node action path", []string{"action-path", f.asset, "node", "/Root", "x.tscn"}, errors.ErrCodeInvalidInput},
		{"traversal", []string{"action-path", f.asset, "material", matA, "../x.tres"}, errors.ErrCodeInvalidPath},
		{"cancel without action", []string{"action-cancel", f.asset, "mesh", "/Root/Body:mesh"}, errors.ErrCodeNotFound},
		{"node action cancel", []string{"action-cancel", f.asset, "node", "/Root"}, errors.ErrCodeInvalidInput},
		{"missing asset", []string{"inspect", filepath.Join(t.TempDir(), "gone.yaml")}, errors.ErrCodeFileNotFound},
		{"unsupported asset", []string{"inspect", f.config}, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.run(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestDraftCommands(t *testing.T) {
	f := newFixture(t)

	out := f.mustRun(t, "draft", "path")
	if strings.TrimSpace(out) != f.drafts {
		t.Errorf("draft path = %q, want %q", out, f.drafts)
	}

	f.mustRun(t, "set", f.asset, "node", "/Root/Body", "shadows/cast", "false")
	f.mustRun(t, "draft", "clear")
	out = f.mustRun(t, "serialize", f.asset)
	if strings.Contains(out, "shadows/cast") {
		t.Errorf("draft clear left the edit:\n%s", out)
	}

	f.mustRun(t, "set", f.asset, "node", "/Root/Body", "shadows/cast", "false")
	f.mustRun(t, "draft", "clear", f.asset)
	out = f.mustRun(t, "serialize", f.asset)
	if strings.Contains(out, "shadows/cast") {
		t.Errorf("draft clear <asset> left the edit:\n%s", out)
	}

	f.mustRun(t, "draft", "prune")
}

func TestMissingExplicitConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.toml"), "draft", "path"})
	if err := root.Execute(); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}
