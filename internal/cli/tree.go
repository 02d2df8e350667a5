package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneimport/pkg/projection"
	"github.com/matzehuels/sceneimport/pkg/render/nodelink"
)

const (
	formatText = "text"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	view     string // scene, mesh or material
	format   string // text, dot or svg
	output   string // output file; stdout when empty
	detailed bool   // show identities
}

// treeCommand creates the tree command for printing a projection view.
func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{view: string(projection.ViewScene), format: formatText}

	cmd := &cobra.Command{
		Use:   "tree <asset>",
		Short: "Print the scene, mesh or material tree of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := projection.ParseView(opts.view)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ws, err := c.openSession(ctx, args[0], nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			tree := ws.Projections().Tree(view)
			ropts := nodelink.Options{Detailed: opts.detailed}

			out, err := openOutput(opts.output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer out.Close()

			switch opts.format {
			case formatText:
				err = nodelink.WriteText(out, tree, ropts)
			case formatDOT:
				_, err = fmt.Fprint(out, nodelink.ToDOT(tree, ropts))
			case formatSVG:
				var svg []byte
				if svg, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(tree, ropts)); err == nil {
					_, err = out.Write(svg)
				}
			default:
				return fmt.Errorf("unknown format %q (want text, dot or svg)", opts.format)
			}
			if err != nil {
				return err
			}
			if opts.output != "" {
				loggerFromContext(ctx).Infof("Generated %s (%d items)", opts.output, tree.Len())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.view, "view", opts.view, "tree view: scene, mesh or material")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show the identity of every item")

	return cmd
}
