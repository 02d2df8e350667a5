package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneimport/pkg/identity"
	"github.com/matzehuels/sceneimport/pkg/reimport"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <asset>",
		Short: "Walk an asset and summarize its entries and issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := c.openSession(ctx, args[0], nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			res := ws.Result()
			fmt.Println(StyleTitle.Render(ws.Asset))
			printStats(res.Stats, ws.Dirty())
			printNewline()

			printKeyValue("Session", ws.ID)
			cfgPath := reimport.ConfigPath(ws.Asset)
			if _, err := os.Stat(cfgPath); err == nil {
				printKeyValue("Config", cfgPath)
			} else {
				printKeyValue("Config", StyleDim.Render("none"))
			}
			printKeyValue("Bounds", formatBounds(res.Bounds))
			if ws.AnimationOnly() {
				printKeyValue("Mode", "animation only")
			}

			overridden := 0
			for _, k := range identity.Kinds {
				overridden += len(ws.Store().Overridden(k))
			}
			printKeyValue("Overridden", StyleNumber.Render(fmt.Sprint(overridden)))
			printKeyValue("Actions", StyleNumber.Render(fmt.Sprint(len(ws.Actions()))))

			if issues := ws.Issues(); len(issues) > 0 {
				printNewline()
				for _, is := range issues {
					printWarning("%s: %s", is.Code, is.Message)
				}
			}

			printNewline()
			printNextStep("Browse the entries", appName+" browse "+ws.Asset)
			return nil
		},
	}
}
