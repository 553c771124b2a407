package workflow

import (
	"context"
	"fmt"

	"github.com/samzong/gitai/internal/config"
	"github.com/samzong/gitai/internal/stringsutil"
	"go.uber.org/zap"
)

type CommitFlow struct {
	flow
}

func NewCommitFlow(git GitClient, llm LLMClient, cfg *config.Config, opts Options) *CommitFlow {
	return &CommitFlow{flow: newFlow("commit", git, llm, cfg, opts)}
}

// Run generates a message for the staged changes, confirms it and commits.
func (f *CommitFlow) Run(ctx context.Context) error {
	diff, err := f.git.GetStagedDiff()
	if err != nil {
		return fmt.Errorf("failed to get git diff: %w", err)
	}
	if stringsutil.IsBlank(diff) {
		fmt.Fprintln(f.opts.ErrWriter, "No changes detected in the staging area. Stage files with `git add` first.")
		return nil
	}
	f.logger.Debug("staged diff loaded", zap.Int("bytes", len(diff)))

	message, err := f.generate("Generating commit message...", func() (string, error) {
		return f.llm.GenerateCommitMessage(ctx, diff, f.cfg.Model)
	})
	if err != nil {
		return fmt.Errorf("failed to generate commit message: %w", err)
	}

	finalMessage, err := f.presenter.ConfirmCommitMessage(ctx, message)
	if err != nil {
		return err
	}

	return f.performCommit(ctx, finalMessage)
}

func (f *CommitFlow) buildCommitArgs() []string {
	var args []string
	if f.opts.NoVerify {
		args = append(args, "--no-verify")
	}
	return args
}

func (f *CommitFlow) performCommit(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.opts.DryRun {
		fmt.Fprintln(f.opts.ErrWriter, "Dry run mode, no actual commit")
		return nil
	}

	if err := f.git.Commit(message, f.buildCommitArgs()...); err != nil {
		return fmt.Errorf("failed to commit changes: %w", err)
	}

	fmt.Fprintln(f.opts.ErrWriter, "Successfully committed changes!")
	return nil
}
