package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneimport/pkg/reimport"
)

// serializeCommand creates the serialize command, printing the import
// configuration the session would write.
func (c *CLI) serializeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "serialize <asset>",
		Short: "Print the import configuration of an asset",
		Long: `Print the import configuration of an asset.

Only explicitly overridden keys are written. Serialization fails while any
action lacks a writable target path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.openSession(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			cfg, err := ws.Serialize()
			if err != nil {
				return err
			}
			out, err := openOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer out.Close()
			return cfg.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// reimportCommand creates the reimport command: serialize, write the
// import configuration, optionally run the configured command, and drop
// the draft.
func (c *CLI) reimportCommand() *cobra.Command {
	var command string

	cmd := &cobra.Command{
		Use:   "reimport <asset>",
		Short: "Write the import configuration and trigger a re-import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("command") {
				command = cfg.Reimport.Command
			}

			ws, err := c.openSession(ctx, args[0], nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			var trigger reimport.Trigger = reimport.FileTrigger{}
			var spinner *Spinner
			if command != "" {
				trigger = &reimport.CommandTrigger{Command: command, Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
				spinner = newSpinner(ctx, cmd.ErrOrStderr(), "Running "+command)
				spinner.Start()
			}

			prog := newProgress(loggerFromContext(ctx))
			written, err := ws.Reimport(ctx, trigger)
			if spinner != nil {
				if err != nil {
					spinner.StopWithError("Re-import failed")
				} else {
					spinner.Stop()
				}
			}
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Re-imported %s", ws.Asset))

			printSuccess("Wrote import configuration (%d actions)", len(written.Actions))
			printFile(reimport.ConfigPath(ws.Asset))
			return nil
		},
	}

	cmd.Flags().StringVar(&command, "command", "", "command to run after writing the configuration (default from config)")
	return cmd
}
