package cmd

import (
	"github.com/samzong/gitai/internal/config"
	"github.com/samzong/gitai/internal/workflow"
	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Generate a commit message for the staged changes and commit",
	Args:  cobra.NoArgs,
	RunE:  runCommit,
}

func init() {
	addCommitFlags(commitCmd)
	rootCmd.AddCommand(commitCmd)
}

func addCommitFlags(c *cobra.Command) {
	c.Flags().BoolVar(&noVerify, "no-verify", false, "Skip pre-commit hooks")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "Generate message only, do not commit")
}

func runCommit(cmd *cobra.Command, _ []string) error {
	return runFlow(cmd, "commit",
		func(g workflow.GitClient, l workflow.LLMClient, cfg *config.Config, opts workflow.Options) runnableFlow {
			return workflow.NewCommitFlow(g, l, cfg, opts)
		})
}
