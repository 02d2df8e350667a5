package reimport

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/identity"
	"github.com/matzehuels/sceneimport/pkg/overrides"
	"github.com/matzehuels/sceneimport/pkg/scene"
	"github.com/matzehuels/sceneimport/pkg/settings"
	"github.com/matzehuels/sceneimport/pkg/walker"
)

const bodyHatYAML = `
root:
  name: Root
  children:
    - {name: Body, mesh: M1}
    - {name: Hat, mesh: M1, materials: [B]}
  animations: [idle]
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

func walkBodyHat(t *testing.T, opts walker.Options) *walker.Result {
	t.Helper()
	root, err := scene.Read(strings.NewReader(bodyHatYAML), scene.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	res, err := walker.Walk(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

const (
	matA = "/Root/Body:surface0"
	matB = "/Root/Hat:surface0"
)

func TestSerializeOnlyExplicitKeys(t *testing.T) {
	res := walkBodyHat(t, walker.Options{})
	if err := res.Store.SetOverride(identity.KindMaterial, matA, "roughness", settings.Number(0.4)); err != nil {
		t.Fatal(err)
	}

	cfg, err := Serialize(res.Store, nil, Options{Source: "hero.glb"})
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}
	mats := cfg.Subresources["material"]
	if len(mats) != 1 {
		t.Fatalf("material sections = %v, want exactly one", mats)
	}
	if got := mats[matA]; len(got) != 1 || got["roughness"] != 0.4 {
		t.Errorf("section for A = %v, want {roughness: 0.4}", got)
	}
	if _, ok := mats[matB]; ok {
		t.Error("no section may be emitted for B")
	}
	if len(cfg.Subresources) != 1 {
		t.Errorf("unexpected sections: %v", cfg.Subresources)
	}

	data, err := cfg.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, `[subresources.material."/Root/Body:surface0"]`) || !strings.Contains(text, "roughness = 0.4") {
		t.Errorf("encoded config:\n%s", text)
	}
	if strings.Contains(text, "metallic") {
		t.Error("defaults must never be serialized")
	}
}

func TestSerializeRoundTripFixedPoint(t *testing.T) {
	dir := t.TempDir()
	first := walkBodyHat(t, walker.Options{})
	s := first.Store
	_ = s.SetOverride(identity.KindMaterial, matA, "albedo_color", settings.RGBA(settings.Color{R: 1, A: 1}))
	_ = s.SetOverride(identity.KindMesh, "/Root/Body:mesh", "lods/normal_merge_angle", settings.Number(60))
	_ = s.SetOverride(identity.KindNode, "/Root/Hat", "import/skip_import", settings.Bool(true))
	_ = s.SetOverride(identity.KindAnimation, "idle", "settings/loop_mode", settings.Enum("linear"))
	actions := []Action{{Kind: ActionSaveMesh, ID: "/Root/Body:mesh", Path: "m1.mesh"}}

	cfg, err := Serialize(s, actions, Options{Source: "hero.glb", BaseDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	out1, _ := cfg.Bytes()

	decoded, err := Decode(bytes.NewReader(out1))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	seed, err := decoded.Seed()
	if err != nil {
		t.Fatal(err)
	}
	second := walkBodyHat(t, walker.Options{Seed: seed})
	if len(second.Report.Issues) != 0 {
		t.Fatalf("re-hydration issues: %+v", second.Report.Issues)
	}
	cfg2, err := Serialize(second.Store, decoded.Actions, Options{Source: "hero.glb", BaseDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	out2, _ := cfg2.Bytes()
	if !bytes.Equal(out1, out2) {
		t.Errorf("serialization is not a fixed point:\n--- first\n%s\n--- second\n%s", out1, out2)
	}
}

func TestSerializeIdempotentRewalk(t *testing.T) {
	res := walkBodyHat(t, walker.Options{})
	_ = res.Store.SetOverride(identity.KindMaterial, matB, "metallic", settings.Number(1))
	cfg1, _ := Serialize(res.Store, nil, Options{})
	out1, _ := cfg1.Bytes()

	again := walkBodyHat(t, walker.Options{Seed: res.Store.Snapshot()})
	cfg2, _ := Serialize(again.Store, nil, Options{})
	out2, _ := cfg2.Bytes()
	if !bytes.Equal(out1, out2) {
		t.Errorf("re-walk changed output:\n%s\nvs\n%s", out1, out2)
	}
}

func TestSerializeActionErrors(t *testing.T) {
	dir := t.TempDir()
	res := walkBodyHat(t, walker.Options{})
	readOnly := filepath.Join(dir, "ro.tres")
	if err := os.WriteFile(readOnly, nil, 0o444); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		action Action
		code   errors.Code
	}{
		{"pending", Action{Kind: ActionExtractMaterial, ID: matA}, errors.ErrCodeIncompleteAction},
		{"unknown entry", Action{Kind: ActionSaveMesh, ID: "/Nope:mesh", Path: "x.mesh"}, errors.ErrCodeUnknownIdentity},
		{"traversal", Action{Kind: ActionExtractMaterial, ID: matA, Path: "../a.tres"}, errors.ErrCodeInvalidPath},
		{"missing dir", Action{Kind: ActionExtractMaterial, ID: matA, Path: "nope/a.tres"}, errors.ErrCodeInvalidPath},
		{"directory", Action{Kind: ActionExtractMaterial, ID: matA, Path: dir}, errors.ErrCodeInvalidPath},
		{"read-only", Action{Kind: ActionExtractMaterial, ID: matA, Path: readOnly}, errors.ErrCodeInvalidPath},
		{"bad kind", Action{Kind: "explode", ID: matA, Path: "a"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Serialize(res.Store, []Action{tt.action}, Options{BaseDir: dir})
			if !errors.Is(err, tt.code) {
				t.Errorf("Serialize() error = %v, want %s", err, tt.code)
			}
			if cfg != nil {
				t.Error("a failed serialization must not return a config")
			}
		})
	}

	// All failures are reported together.
	_, err := Serialize(res.Store, []Action{
		{Kind: ActionExtractMaterial, ID: matA},
		{Kind: ActionSaveAnimation, ID: "idle"},
	}, Options{BaseDir: dir})
	if joined, ok := err.(interface{ Unwrap() []error }); !ok || len(joined.Unwrap()) != 2 {
		t.Errorf("want two joined errors, got %v", err)
	}
}

func TestActionList(t *testing.T) {
	l := NewActionList()
	if !l.Begin(ActionSaveMesh, "m") || l.Begin(ActionSaveMesh, "m") {
		t.Error("Begin must add once")
	}
	l.Begin(ActionExtractMaterial, "a")
	if len(l.Pending()) != 2 {
		t.Errorf("Pending() = %v", l.Pending())
	}
	if err := l.SetPath(ActionSaveMesh, "m", "m.mesh"); err != nil {
		t.Fatal(err)
	}
	if err := l.SetPath(ActionSaveAnimation, "x", "x.anim"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("SetPath(missing) = %v", err)
	}
	l.Put(Action{Kind: ActionSaveMesh, ID: "m", Path: "other.mesh"})
	all := l.All()
	if len(all) != 2 || all[0].Path != "other.mesh" || all[1].ID != "a" {
		t.Errorf("Put must replace in place: %v", all)
	}
	if !l.Remove(ActionSaveMesh, "m") || l.Len() != 1 {
		t.Error("Remove failed")
	}
	if l.Remove(ActionSaveMesh, "m") {
		t.Error("removing a missing action must report false")
	}
	if k, ok := ActionKindFor(identity.KindAnimation); !ok || k != ActionSaveAnimation {
		t.Error("ActionKindFor(animation)")
	}
	if _, ok := ActionKindFor(identity.KindNode); ok {
		t.Error("nodes have no export action")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"malformed", "source = ", errors.ErrCodeInvalidInput},
		{"unknown key", "version = 1\ncolour = 'red'", errors.ErrCodeInvalidInput},
		{"future version", "version = 99", errors.ErrCodeUnsupported},
		{"bad action", "[[actions]]\nkind = 'explode'\nid = 'x'", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.doc)); !errors.Is(err, tt.code) {
				t.Errorf("Decode() error = %v, want %s", err, tt.code)
			}
		})
	}

	cfg := &Config{Subresources: map[string]map[string]map[string]any{"light": {"x": {"k": 1}}}}
	if _, err := cfg.Seed(); !errors.Is(err, errors.ErrCodeInvalidKind) {
		t.Errorf("Seed(unknown kind) = %v", err)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.import.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) = %v", err)
	}
}

func TestFileTrigger(t *testing.T) {
	asset := filepath.Join(t.TempDir(), "hero.glb")
	cfg := &Config{Source: "hero.glb", Version: FormatVersion}
	if err := Run(context.Background(), FileTrigger{}, asset, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(ConfigPath(asset))
	if err != nil {
		t.Fatal(err)
	}
	if got.Source != "hero.glb" || got.Version != FormatVersion {
		t.Errorf("read back %+v", got)
	}
}

func TestCommandTrigger(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	asset := filepath.Join(t.TempDir(), "hero.glb")
	var out bytes.Buffer
	trig := &CommandTrigger{Command: "cat", Stdout: &out}
	cfg := &Config{Source: "hero.glb", Version: FormatVersion}
	if err := Run(context.Background(), trig, asset, cfg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `source = "hero.glb"`) {
		t.Errorf("command stdin = %q", out.String())
	}
	if _, err := os.Stat(ConfigPath(asset)); err != nil {
		t.Error("command trigger must also write the config file")
	}
	if err := (&CommandTrigger{}).Trigger(context.Background(), asset, cfg); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty command error = %v", err)
	}
}

func TestSerializeKeepsExcludedKinds(t *testing.T) {
	dir := t.TempDir()
	seed := overrides.Seed{}
	seed.Set(identity.KindMaterial, matA, "roughness", 0.4)
	seed.Set(identity.KindMesh, "/Root/Body:mesh", "lods/normal_merge_angle", 60.0)
	opts := walker.Options{AnimationOnly: true, Seed: seed}
	res := walkBodyHat(t, opts)
	if len(res.Report.Issues) != 0 {
		t.Fatalf("issues = %v, want none for excluded kinds", res.Report.Issues)
	}
	_ = res.Store.SetOverride(identity.KindAnimation, "idle", "settings/loop_mode", settings.Enum("linear"))
	actions := []Action{{Kind: ActionExtractMaterial, ID: matB, Path: "b.tres"}}

	if _, err := Serialize(res.Store, actions, Options{BaseDir: dir}); !errors.Is(err, errors.ErrCodeUnknownIdentity) {
		t.Fatalf("unchecked excluded action = %v, want UNKNOWN_IDENTITY", err)
	}

	cfg, err := Serialize(res.Store, actions, Options{BaseDir: dir, Retained: res.Retained, Excluded: opts.Excluded()})
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}
	tests := []struct {
		kind, id, key string
		want          any
	}{
		{"material", matA, "roughness", 0.4},
		{"mesh", "/Root/Body:mesh", "lods/normal_merge_angle", 60.0},
		{"animation", "idle", "settings/loop_mode", "linear"},
	}
	for _, tt := range tests {
		if got := cfg.Subresources[tt.kind][tt.id][tt.key]; got != tt.want {
			t.Errorf("%s %s %s = %v, want %v", tt.kind, tt.id, tt.key, got, tt.want)
		}
	}
	if len(cfg.Actions) != 1 || cfg.Actions[0].ID != matB {
		t.Errorf("actions = %v", cfg.Actions)
	}
}
