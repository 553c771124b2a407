package workflow

import (
	"context"
	"fmt"

	"github.com/samzong/gitai/internal/config"
	"github.com/samzong/gitai/internal/stringsutil"
	"go.uber.org/zap"
)

type ReviewFlow struct {
	flow
}

func NewReviewFlow(git GitClient, llm LLMClient, cfg *config.Config, opts Options) *ReviewFlow {
	return &ReviewFlow{flow: newFlow("review", git, llm, cfg, opts)}
}

// Run reviews the staged changes and offers to save the review.
func (f *ReviewFlow) Run(ctx context.Context) error {
	if err := f.requireRepository(); err != nil {
		return err
	}

	diff, err := f.git.GetStagedDiff()
	if err != nil {
		return fmt.Errorf("failed to get git diff: %w", err)
	}
	if stringsutil.IsBlank(diff) {
		fmt.Fprintln(f.opts.ErrWriter, "No staged changes to review. Stage files with `git add` first.")
		return nil
	}
	f.logger.Debug("staged diff loaded", zap.Int("bytes", len(diff)))

	review, err := f.generate("Reviewing staged changes...", func() (string, error) {
		return f.llm.ReviewCode(ctx, diff, f.cfg.Model)
	})
	if err != nil {
		return fmt.Errorf("failed to review code: %w", err)
	}

	return f.presenter.ConfirmCodeReview(ctx, review)
}
