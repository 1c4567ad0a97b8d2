package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitscape/pkg/buildinfo"
)

// Execute runs the gitscape CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands (serve, render,
// demo, tui), configures logging based on the --verbose flag, and executes
// the command tree with the given context. The logger travels via context and
// is accessible to all commands through loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "gitscape",
		Short:        "gitscape renders an interactive commit graph playground",
		Long:         `gitscape models a simplified Git-like commit DAG - commits, branches, merges, re-parenting - and lays it out on a lane/depth grid that stays collision-free after every mutation.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newServeCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newDemoCmd())
	root.AddCommand(newTUICmd())

	return root.ExecuteContext(ctx)
}
