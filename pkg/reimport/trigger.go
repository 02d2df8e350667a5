package reimport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/observability"
)

// Trigger hands a serialized configuration to the external re-import
// pipeline.
type Trigger interface {
	Name() string
	Trigger(ctx context.Context, asset string, cfg *Config) error
}

// Run fires t for asset, reporting start and completion to the re-import
// hooks.
func Run(ctx context.Context, t Trigger, asset string, cfg *Config) error {
	start := time.Now()
	observability.Reimport().OnReimportStart(ctx, asset, t.Name())
	err := t.Trigger(ctx, asset, cfg)
	observability.Reimport().OnReimportComplete(ctx, asset, t.Name(), time.Since(start), err)
	return err
}

// FileTrigger writes the configuration next to the asset, where a watching
// import pipeline picks it up.
type FileTrigger struct{}

var _ Trigger = FileTrigger{}

// Name implements Trigger.
func (FileTrigger) Name() string { return "file" }

// Trigger implements Trigger.
func (FileTrigger) Trigger(_ context.Context, asset string, cfg *Config) error {
	return cfg.WriteFile(ConfigPath(asset))
}

// CommandTrigger writes the configuration file and then runs an external
// command with the TOML on stdin. The command sees SCENEIMPORT_ASSET and
// SCENEIMPORT_CONFIG in its environment.
type CommandTrigger struct {
	// Command is split on whitespace; the first field is the program.
	Command string

	Stdout io.Writer
	Stderr io.Writer
}

var _ Trigger = (*CommandTrigger)(nil)

// Name implements Trigger.
func (t *CommandTrigger) Name() string { return "command" }

// Trigger implements Trigger.
func (t *CommandTrigger) Trigger(ctx context.Context, asset string, cfg *Config) error {
	fields := strings.Fields(t.Command)
	if len(fields) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "re-import command is empty")
	}
	if err := (FileTrigger{}).Trigger(ctx, asset, cfg); err != nil {
		return err
	}
	data, err := cfg.Bytes()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = t.Stdout
	cmd.Stderr = t.Stderr
	cmd.Env = append(os.Environ(),
		"SCENEIMPORT_ASSET="+asset,
		"SCENEIMPORT_CONFIG="+ConfigPath(asset),
	)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("re-import command %q: %w", fields[0], err)
	}
	return nil
}
