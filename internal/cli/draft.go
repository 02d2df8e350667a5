package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneimport/pkg/draft"
	"github.com/matzehuels/sceneimport/pkg/errors"
)

// draftCommand creates the draft management command.
func (c *CLI) draftCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage stored drafts of unsaved edits",
	}

	cmd.AddCommand(c.draftPathCommand())
	cmd.AddCommand(c.draftShowCommand())
	cmd.AddCommand(c.draftClearCommand())
	cmd.AddCommand(c.draftPruneCommand())

	return cmd
}

// draftLocation describes where a store keeps its drafts.
func (c *CLI) draftLocation(s draft.Store) string {
	switch s := s.(type) {
	case *draft.FileStore:
		return s.Dir()
	case *draft.SQLiteStore:
		return s.Path()
	}
	cfg, err := c.config()
	if err != nil {
		return s.Name()
	}
	switch s.Name() {
	case draft.BackendRedis:
		return "redis://" + cfg.DraftOptions().Redis.Addr
	case draft.BackendMongo:
		return cfg.DraftOptions().Mongo.URI
	}
	return s.Name()
}

// draftPathCommand creates the "draft path" subcommand.
func (c *CLI) draftPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the draft store location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openDrafts(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			fmt.Fprintln(cmd.OutOrStdout(), c.draftLocation(s))
			return nil
		},
	}
}

// draftShowCommand creates the "draft show" subcommand.
func (c *CLI) draftShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <asset>",
		Short: "Summarize the stored draft of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openDrafts(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			d, ok, err := draft.Load(ctx, s, args[0])
			if err != nil {
				return err
			}
			if !ok {
				printInfo("No draft for %s", args[0])
				return nil
			}

			keys := 0
			for _, byID := range d.Overrides {
				for _, bag := range byID {
					keys += len(bag)
				}
			}
			printKeyValue("Asset", d.Asset)
			printKeyValue("Session", d.Session)
			printKeyValue("Updated", d.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
			printKeyValue("Overrides", StyleNumber.Render(fmt.Sprint(keys)))
			printKeyValue("Actions", StyleNumber.Render(fmt.Sprint(len(d.Actions))))
			if d.Selected != nil {
				printKeyValue("Selected", fmt.Sprintf("%s %s", d.Selected.Kind, d.Selected.ID))
			}
			return nil
		},
	}
}

// clearer is implemented by stores that can drop every draft at once.
type clearer interface {
	Clear() error
}

// draftClearCommand creates the "draft clear" subcommand.
func (c *CLI) draftClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [asset]",
		Short: "Drop the draft of an asset, or every draft",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openDrafts(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if len(args) == 1 {
				if err := draft.Drop(ctx, s, args[0]); err != nil {
					return err
				}
				abs, _ := filepath.Abs(args[0])
				printSuccess("Dropped draft of %s", abs)
				return nil
			}

			cl, ok := s.(clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "the %s backend drops drafts one asset at a time", s.Name())
			}
			if err := cl.Clear(); err != nil {
				return err
			}
			printSuccess("Cleared all drafts")
			printDetail("Location: %s", c.draftLocation(s))
			return nil
		},
	}
}

// draftPruneCommand creates the "draft prune" subcommand.
func (c *CLI) draftPruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired drafts from an SQLite store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openDrafts(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			db, ok := s.(*draft.SQLiteStore)
			if !ok {
				printInfo("The %s backend expires drafts on its own", s.Name())
				return nil
			}
			if err := db.Cleanup(ctx); err != nil {
				return err
			}
			printSuccess("Pruned expired drafts")
			return nil
		},
	}
}
