package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitscape/pkg/dag/lanes"
	"github.com/matzehuels/gitscape/pkg/graph"
	"github.com/matzehuels/gitscape/pkg/layout"
	"github.com/matzehuels/gitscape/pkg/render"
)

func newRenderCmd() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Render a graph file to SVG, DOT, or PNG",
		Long: `Reads a serialized graph, recomputes lanes and layout, and writes the
rendered result. The format is inferred from the output extension unless
--format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			prog := newProgress(logger)

			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return err
			}
			store, err := graph.ToStore(g)
			if err != nil {
				return err
			}
			store = lanes.Assign(store)

			if output == "" {
				base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
				output = base + "." + formatOrDefault(format, "svg")
			}
			f := formatOrDefault(format, strings.TrimPrefix(filepath.Ext(output), "."))

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("rendering %s", output))
			spinner.Start()

			var data []byte
			switch f {
			case "svg":
				data = render.SVG(layout.Compute(store), store)
			case "dot":
				data = []byte(render.ToDOT(store, render.DOTOptions{Detailed: detailed}))
			case "png":
				data, err = render.DOTToPNG(ctx, render.ToDOT(store, render.DOTOptions{Detailed: detailed}))
			case "dotsvg":
				data, err = render.DOTToSVG(ctx, render.ToDOT(store, render.DOTOptions{Detailed: detailed}))
			default:
				spinner.Stop()
				return fmt.Errorf("unknown format %q (expected svg, dot, png, or dotsvg)", f)
			}
			if err != nil {
				spinner.StopWithError(err.Error())
				return err
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				spinner.StopWithError(err.Error())
				return err
			}
			spinner.Stop()

			res := layout.Compute(store)
			if collisions := layout.FindCollisions(res.Commits); len(collisions) > 0 {
				printWarning("%d overlapping commit pairs", len(collisions))
			}
			printSuccess("wrote %s (%d commits, %d branches)", output, len(store.Commits), len(store.Branches))
			prog.done("render complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name with new extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: svg, dot, png, dotsvg")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include depth/lane detail in DOT labels")

	return cmd
}

func formatOrDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	if fallback != "" {
		return fallback
	}
	return "svg"
}
