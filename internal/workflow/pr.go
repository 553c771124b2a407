package workflow

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/samzong/gitai/internal/config"
	"github.com/samzong/gitai/internal/stringsutil"
	"go.uber.org/zap"
)

type PRFlow struct {
	flow
}

func NewPRFlow(git GitClient, llm LLMClient, cfg *config.Config, opts Options) *PRFlow {
	return &PRFlow{flow: newFlow("pr", git, llm, cfg, opts)}
}

// Run describes the commits the current branch adds on top of the trunk.
func (f *PRFlow) Run(ctx context.Context) error {
	if err := f.requireRepository(); err != nil {
		return err
	}

	branch, err := f.git.GetCurrentBranch()
	if err != nil {
		return fmt.Errorf("failed to get current branch: %w", err)
	}
	if branch == "" {
		return errors.New("not on a branch (detached HEAD); check out a feature branch first")
	}

	if slices.Contains(f.cfg.TrunkBranches, branch) {
		fmt.Fprintf(f.opts.ErrWriter,
			"Warning: you are on %q. Switch to a feature branch to generate a PR description.\n", branch)
		return nil
	}

	commits, err := f.git.GetBranchCommits(branch)
	if err != nil {
		return fmt.Errorf("failed to get branch commits: %w", err)
	}
	if stringsutil.IsBlank(commits) {
		fmt.Fprintf(f.opts.ErrWriter, "No commits found on %s that are not on the trunk branch.\n", branch)
		return nil
	}

	count := stringsutil.CountNonBlankLines(commits)
	fmt.Fprintf(f.opts.ErrWriter, "Found %d commit(s) on %s\n", count, branch)
	f.logger.Debug("branch commits loaded", zap.String("branch", branch), zap.Int("commits", count))

	diff, err := f.git.GetBranchDiff(branch)
	if err != nil {
		return fmt.Errorf("failed to get branch diff: %w", err)
	}
	if stringsutil.IsBlank(diff) {
		fmt.Fprintf(f.opts.ErrWriter, "No changes found between %s and the trunk branch.\n", branch)
		return nil
	}
	f.logger.Debug("branch diff loaded", zap.String("branch", branch), zap.Int("bytes", len(diff)))

	description, err := f.generate("Generating PR description...", func() (string, error) {
		return f.llm.GeneratePRDescription(ctx, commits, diff, branch, f.cfg.Model)
	})
	if err != nil {
		return fmt.Errorf("failed to generate PR description: %w", err)
	}

	return f.presenter.ConfirmPRDescription(ctx, branch, description)
}
