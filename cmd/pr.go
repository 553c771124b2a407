package cmd

import (
	"github.com/samzong/gitai/internal/config"
	"github.com/samzong/gitai/internal/workflow"
	"github.com/spf13/cobra"
)

var prCmd = &cobra.Command{
	Use:   "pr",
	Short: "Generate a pull request description for the current branch",
	Long: `Describe the commits the current branch adds on top of the trunk branch
(origin/main, origin/master or origin/develop). The description can be saved to
pr-description-<branch>.md in the working directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runFlow(cmd, "pr",
			func(g workflow.GitClient, l workflow.LLMClient, cfg *config.Config, opts workflow.Options) runnableFlow {
				return workflow.NewPRFlow(g, l, cfg, opts)
			})
	},
}

func init() {
	rootCmd.AddCommand(prCmd)
}
