// Package workflow orchestrates the commit, pull-request and review generation flows.
package workflow

import "context"

// GitClient abstracts git operations for testability.
type GitClient interface {
	IsGitRepository() bool
	GetStagedDiff() (string, error)
	Commit(message string, args ...string) error
	GetCurrentBranch() (string, error)
	GetBranchCommits(branch string) (string, error)
	GetBranchDiff(branch string) (string, error)
}

// LLMClient abstracts LLM operations for testability.
type LLMClient interface {
	GenerateCommitMessage(ctx context.Context, diff string, model string) (string, error)
	GeneratePRDescription(ctx context.Context, commits, diff, branch, model string) (string, error)
	ReviewCode(ctx context.Context, diff string, model string) (string, error)
}

// ArtifactStore persists generated Markdown.
type ArtifactStore interface {
	WritePRDescription(branch, content string) (string, error)
	WriteCodeReview(content string) (string, error)
}
