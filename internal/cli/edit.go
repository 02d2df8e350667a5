package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/reimport"
	"github.com/matzehuels/sceneimport/pkg/settings"
)

// =============================================================================
// show
// =============================================================================

// showCommand creates the show command, printing the effective settings of
// one entry with overridden keys highlighted.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <asset> <kind> <id>",
		Short:             "Show the effective import settings of an entry",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: kindCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := parseTarget(args[1], args[2])
			if err != nil {
				return err
			}
			ws, err := c.openSession(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			schema, err := ws.Options(kind, id)
			if err != nil {
				return err
			}
			eff, err := ws.Effective(kind, id)
			if err != nil {
				return err
			}
			defaults, err := ws.Store().Defaults(kind, id)
			if err != nil {
				return err
			}
			entry, _ := ws.Store().Entry(kind, id)
			over := entry.Overrides()

			fmt.Fprintln(cmd.OutOrStdout(), StyleTitle.Render(fmt.Sprintf("%s %s", kind, id))+"  "+StyleDim.Render(string(schema.Category)))
			fmt.Fprintln(cmd.OutOrStdout(), settingsTable(schema.Keys(), eff, defaults, over))
			return nil
		},
	}
}

// settingsTable renders one row per option. Overridden rows carry a "*"
// marker and the highlight color.
func settingsTable(keys []string, eff, defaults, over settings.Bag) string {
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		mark := ""
		if _, ok := over[k]; ok {
			mark = "*"
		}
		rows = append(rows, []string{mark, k, eff[k].String(), defaults[k].String()})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Option", "Value", "Default").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(rows) && rows[row][0] != "" {
				return listSelectedStyle
			}
			if col == 3 {
				return listDimStyle
			}
			return listNormalStyle
		})
	return t.Render()
}

// =============================================================================
// set / clear
// =============================================================================

// setCommand creates the set command, storing one override in the draft.
func (c *CLI) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "set <asset> <kind> <id> <key> <value>",
		Short:             "Override one import setting of an entry",
		Args:              cobra.ExactArgs(5),
		ValidArgsFunction: kindCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := parseTarget(args[1], args[2])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ws, err := c.openSession(ctx, args[0], nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			if err := ws.SetOverrideText(kind, id, args[3], args[4]); err != nil {
				return err
			}
			if err := ws.saveDraft(ctx); err != nil {
				return err
			}
			printSuccess("Set %s on %s %s", StyleHighlight.Render(args[3]+" = "+args[4]), kind, id)
			return nil
		},
	}
}

// clearCommand creates the clear command, dropping one override so the
// key follows its default again.
func (c *CLI) clearCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "clear <asset> <kind> <id> <key>",
		Short:             "Restore the default of one import setting",
		Args:              cobra.ExactArgs(4),
		ValidArgsFunction: kindCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := parseTarget(args[1], args[2])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ws, err := c.openSession(ctx, args[0], nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			if err := ws.ClearOverride(kind, id, args[3]); err != nil {
				return err
			}
			if err := ws.saveDraft(ctx); err != nil {
				return err
			}
			printSuccess("Cleared %s on %s %s", StyleHighlight.Render(args[3]), kind, id)
			return nil
		},
	}
}

// =============================================================================
// action / action-path / action-cancel
// =============================================================================

// actionMenu maps the menu names of the actions command to action kinds.
var actionMenu = map[string]reimport.ActionKind{
	"extract-materials": reimport.ActionExtractMaterial,
	"mesh-paths":        reimport.ActionSaveMesh,
	"animation-paths":   reimport.ActionSaveAnimation,
}

// parseActionMenu accepts a menu name or an action kind.
func parseActionMenu(s string) (reimport.ActionKind, error) {
	if k, ok := actionMenu[s]; ok {
		return k, nil
	}
	k, err := reimport.ParseActionKind(s)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown action %q (want extract-materials, mesh-paths or animation-paths)", s)
	}
	return k, nil
}

// actionCommand creates the action command. With a menu name it enqueues
// a pending action for every eligible entry; without one it lists the
// actions.
func (c *CLI) actionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "action <asset> [extract-materials|mesh-paths|animation-paths]",
		Short: "Begin an export action, or list the actions of an asset",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var kind reimport.ActionKind
			if len(args) == 2 {
				var err error
				if kind, err = parseActionMenu(args[1]); err != nil {
					return err
				}
			}
			ws, err := c.openSession(ctx, args[0], nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			if kind == "" {
				writeActions(cmd, ws.Actions())
				return nil
			}

			added, err := ws.BeginAction(kind)
			if err != nil {
				return err
			}
			if len(added) == 0 {
				printInfo("No new %s actions", kind)
				return nil
			}
			if err := ws.saveDraft(ctx); err != nil {
				return err
			}
			printSuccess("Added %d pending %s actions", len(added), kind)
			for _, a := range added {
				printDetail("%s", a.ID)
			}
			printNextStep("Assign a path", appName+" action-path "+ws.Asset+" "+string(kind.EntryKind())+" <id> <path>")
			return nil
		},
	}
}

// writeActions prints one line per action; pending actions show no path.
func writeActions(cmd *cobra.Command, actions []reimport.Action) {
	w := cmd.OutOrStdout()
	if len(actions) == 0 {
		fmt.Fprintln(w, StyleDim.Render("no actions"))
		return
	}
	for _, a := range actions {
		path := a.Path
		if a.Pending() {
			path = StyleWarning.Render("pending")
		}
		fmt.Fprintf(w, "%-18s %s %s %s\n", a.Kind, a.ID, StyleDim.Render(iconArrow), path)
	}
}

// actionPathCommand creates the action-path command, assigning the export
// path of one entry.
func (c *CLI) actionPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "action-path <asset> <material|mesh|animation> <id> <path>",
		Short: "Choose where an entry is extracted or saved",
		Long: `Choose where an entry is extracted or saved.

Materials are extracted to an external file; meshes and animations are saved
as standalone resources. Relative paths resolve against the asset directory.`,
		Args:              cobra.ExactArgs(4),
		ValidArgsFunction: kindCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := parseTarget(args[1], args[2])
			if err != nil {
				return err
			}
			action, ok := reimport.ActionKindFor(kind)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "%s entries have no export action", kind)
			}
			ctx := cmd.Context()
			ws, err := c.openSession(ctx, args[0], nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			if err := ws.SetActionPath(action, id, args[3]); err != nil {
				return err
			}
			if err := ws.saveDraft(ctx); err != nil {
				return err
			}
			printSuccess("%s %s", strings.ReplaceAll(string(action), "_", " "), id)
			printFile(args[3])
			return nil
		},
	}
}

// actionCancelCommand creates the action-cancel command, dropping the
// action of one entry together with the export settings it recorded.
func (c *CLI) actionCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "action-cancel <asset> <material|mesh|animation> <id>",
		Short:             "Cancel the export action of an entry",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: kindCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := parseTarget(args[1], args[2])
			if err != nil {
				return err
			}
			action, ok := reimport.ActionKindFor(kind)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "%s entries have no export action", kind)
			}
			ctx := cmd.Context()
			ws, err := c.openSession(ctx, args[0], nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			if err := ws.CancelAction(action, id); err != nil {
				return err
			}
			if err := ws.saveDraft(ctx); err != nil {
				return err
			}
			printSuccess("Cancelled %s for %s", strings.ReplaceAll(string(action), "_", " "), id)
			return nil
		},
	}
}
