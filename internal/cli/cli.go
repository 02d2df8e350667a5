// Package cli implements the sceneimport command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneimport/pkg/buildinfo"
	"github.com/matzehuels/sceneimport/pkg/config"
	"github.com/matzehuels/sceneimport/pkg/draft"
	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/identity"
	"github.com/matzehuels/sceneimport/pkg/selection"
	"github.com/matzehuels/sceneimport/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "sceneimport"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath    string
	animationOnly bool
	noDraft       bool

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "sceneimport edits the import settings of 3D scene assets",
		Long: `sceneimport walks a scene description, assigns stable identities to its
nodes, meshes, materials and animations, and edits per-entry import settings
that are written to an <asset>.import.toml file next to the asset.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/sceneimport/config.toml)")
	flags.BoolVar(&c.animationOnly, "animation-only", false, "edit only nodes and animations")
	flags.BoolVar(&c.noDraft, "no-draft", false, "neither restore nor store drafts")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.setCommand())
	root.AddCommand(c.clearCommand())
	root.AddCommand(c.actionCommand())
	root.AddCommand(c.actionPathCommand())
	root.AddCommand(c.actionCancelCommand())
	root.AddCommand(c.serializeCommand())
	root.AddCommand(c.reimportCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.draftCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Session Factory
// =============================================================================

// config loads the configuration file once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	for _, key := range cfg.Undecoded {
		c.Logger.Warn("unknown config key", "key", key)
	}
	c.cfg = cfg
	return cfg, nil
}

// openDrafts opens the configured draft store, or a null store with
// --no-draft.
func (c *CLI) openDrafts(ctx context.Context) (draft.Store, error) {
	if c.noDraft {
		return draft.NewNullStore(), nil
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return draft.Open(ctx, cfg.DraftOptions())
}

// workspace is an open session and the draft store behind it.
type workspace struct {
	*session.Session
	drafts draft.Store
}

// Close releases the draft store.
func (w *workspace) Close() error { return w.drafts.Close() }

// openSession reads asset and restores its import config and draft.
// viewport may be nil.
func (c *CLI) openSession(ctx context.Context, asset string, viewport selection.Viewport) (*workspace, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		return nil, err
	}
	drafts, err := c.openDrafts(ctx)
	if err != nil {
		return nil, err
	}

	logger := loggerFromContext(ctx)
	sess, err := session.Open(ctx, asset, session.Options{
		AnimationOnly: c.animationOnly,
		Resolver:      resolver,
		Drafts:        drafts,
		DraftTTL:      cfg.DraftTTL(),
		Viewport:      viewport,
		Logger:        logger,
	})
	if err != nil {
		drafts.Close()
		return nil, err
	}
	logger.Debugf("Opened %s (session %s, drafts: %s)", asset, sess.ID, drafts.Name())
	return &workspace{Session: sess, drafts: drafts}, nil
}

// saveDraft stores the session's edits, warning when drafts are disabled
// because the edit would otherwise be lost.
func (w *workspace) saveDraft(ctx context.Context) error {
	if w.drafts.Name() == draft.BackendNone {
		printWarning("Drafts are disabled; this edit is not kept")
		return nil
	}
	if err := w.SaveDraft(ctx); err != nil {
		return err
	}
	loggerFromContext(ctx).Debugf("Saved draft to %s", w.drafts.Name())
	return nil
}

// =============================================================================
// Argument Helpers
// =============================================================================

// parseTarget converts <kind> <id> arguments.
func parseTarget(kind, id string) (identity.Kind, string, error) {
	k, err := identity.ParseKind(kind)
	if err != nil {
		return "", "", err
	}
	if id == "" {
		return "", "", errors.New(errors.ErrCodeInvalidInput, "empty %s id", k)
	}
	return k, id, nil
}

// kindCompletion completes the <kind> argument.
func kindCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	kinds := make([]string, len(identity.Kinds))
	for i, k := range identity.Kinds {
		kinds[i] = string(k)
	}
	return kinds, cobra.ShellCompDirectiveNoFileComp
}
