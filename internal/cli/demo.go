package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitscape/pkg/dag"
	"github.com/matzehuels/gitscape/pkg/dag/lanes"
	"github.com/matzehuels/gitscape/pkg/dag/mutate"
	"github.com/matzehuels/gitscape/pkg/graph"
	"github.com/matzehuels/gitscape/pkg/layout"
	"github.com/matzehuels/gitscape/pkg/render"
)

func newDemoCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate a showcase graph and render it",
		Long: `Builds a scripted scenario that exercises every mutation: commits on
master, a feature branch, custom commits, a re-parented commit, and a merge.
Writes graph.json, layout.json, and graph.svg to the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			prog := newProgress(logger)

			store, err := buildDemo()
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, "writing demo artifacts")
			spinner.Start()

			g := graph.FromStore(store)
			res := layout.Compute(store)

			graphPath := filepath.Join(outDir, "graph.json")
			if err := graph.WriteGraphFile(g, graphPath); err != nil {
				spinner.StopWithError(err.Error())
				return err
			}
			layoutPath := filepath.Join(outDir, "layout.json")
			if err := graph.WriteLayoutFile(graph.FromLayout(res, store), layoutPath); err != nil {
				spinner.StopWithError(err.Error())
				return err
			}
			svgPath := filepath.Join(outDir, "graph.svg")
			if err := os.WriteFile(svgPath, render.SVG(res, store), 0o644); err != nil {
				spinner.StopWithError(err.Error())
				return err
			}
			spinner.Stop()

			if collisions := layout.FindCollisions(res.Commits); len(collisions) > 0 {
				printWarning("%d overlapping commit pairs", len(collisions))
			}
			printSuccess("wrote %s, %s, %s", graphPath, layoutPath, svgPath)
			printInfo("%d commits across %d branches", len(store.Commits), len(store.Branches))
			prog.done("demo complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "demo", "output directory")

	return cmd
}

// buildDemo scripts a scenario that touches every mutation kind.
func buildDemo() (*dag.Store, error) {
	s := lanes.Assign(dag.New())

	step := func(next *dag.Store, err error) error {
		if err != nil {
			return err
		}
		s = next
		return nil
	}

	// A few commits on master.
	for i := 0; i < 3; i++ {
		if err := step(mutate.AddCommit(s, dag.DefaultBranch)); err != nil {
			return nil, err
		}
	}

	// Branch off an older commit and grow it.
	if err := step(mutate.CreateBranch(s, "c1", "feature-auth")); err != nil {
		return nil, err
	}
	for i := 0; i < 2; i++ {
		if err := step(mutate.AddCommit(s, "feature-auth")); err != nil {
			return nil, err
		}
	}

	// Custom commits hanging off the master head.
	head, ok := s.Head(dag.DefaultBranch)
	if !ok {
		return nil, fmt.Errorf("missing %s head", dag.DefaultBranch)
	}
	if err := step(mutate.AddCustomCommits(s, head.ID, 3)); err != nil {
		return nil, err
	}

	// Re-parent the feature branch root onto a newer master commit.
	if err := step(mutate.MoveCommit(s, "c4", "c2")); err != nil {
		return nil, err
	}

	// Merge the feature branch back.
	if err := step(mutate.MergeBranch(s, dag.DefaultBranch, "feature-auth")); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("demo graph invalid: %w", err)
	}
	return s, nil
}
