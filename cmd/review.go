package cmd

import (
	"github.com/samzong/gitai/internal/config"
	"github.com/samzong/gitai/internal/workflow"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review the staged changes",
	Long: `Ask the model for a code review of the staged changes. The review can be
saved to code-review-<timestamp>.md in the working directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runFlow(cmd, "review",
			func(g workflow.GitClient, l workflow.LLMClient, cfg *config.Config, opts workflow.Options) runnableFlow {
				return workflow.NewReviewFlow(g, l, cfg, opts)
			})
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
