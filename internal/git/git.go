// Package git exposes the version-control operations the generation flows need.
package git

import (
	"strings"

	"github.com/samzong/gitai/internal/gitcmd"
	"github.com/samzong/gitai/internal/gitutil"
	"github.com/samzong/gitai/internal/stringsutil"
	"go.uber.org/zap"
)

// DefaultTrunkBranch is returned when no known trunk ref exists on origin.
const DefaultTrunkBranch = "main"

const (
	fallbackCommitCount = "10"
	fallbackDiffRange   = "HEAD~5..HEAD"
)

// trunkCandidates are checked in priority order against `git branch -r`.
var trunkCandidates = []string{"main", "master", "develop"}

type Options struct {
	Verbose bool
	Dir     string
	Logger  *zap.Logger
}

type Client struct {
	runner gitcmd.Executor
	logger *zap.Logger
}

func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		runner: gitcmd.Runner{Verbose: opts.Verbose, Dir: opts.Dir, Logger: logger},
		logger: logger,
	}
}

// IsGitRepository reports whether the working directory is inside a git work tree.
func (c *Client) IsGitRepository() bool {
	result, err := c.runner.Run("rev-parse", "--is-inside-work-tree")
	return err == nil && result.StdoutString(true) == "true"
}

// GetStagedDiff returns the diff of staged changes, or "" when nothing is staged.
func (c *Client) GetStagedDiff() (string, error) {
	result, err := c.runner.Run("diff", "--cached")
	if err != nil {
		return "", gitutil.WrapGitError("git diff --cached failed", result, err)
	}
	return result.StdoutString(false), nil
}

// Commit records the staged changes with message.
func (c *Client) Commit(message string, args ...string) error {
	commitArgs := append([]string{"commit", "-m", message}, args...)
	result, err := c.runner.Run(commitArgs...)
	if err != nil {
		return gitutil.WrapGitError("git commit failed", result, err)
	}
	return nil
}

// GetCurrentBranch returns the checked-out branch, or "" on a detached HEAD.
func (c *Client) GetCurrentBranch() (string, error) {
	result, err := c.runner.Run("branch", "--show-current")
	if err != nil {
		return "", gitutil.WrapGitError("failed to get current branch", result, err)
	}
	return result.StdoutString(true), nil
}

// GetTrunkBranch picks main, master or develop based on the refs available on origin.
// Any failure yields DefaultTrunkBranch.
func (c *Client) GetTrunkBranch() string {
	result, err := c.runner.Run("branch", "-r")
	if err != nil {
		c.logger.Debug("remote branch listing failed, using default trunk", zap.Error(err))
		return DefaultTrunkBranch
	}
	return detectTrunkBranch(result.StdoutString(false))
}

func detectTrunkBranch(listing string) string {
	refs := make(map[string]struct{})
	for _, line := range stringsutil.NonBlankLines(listing) {
		// "origin/HEAD -> origin/main" names both the symbolic ref and its target.
		for _, field := range strings.Fields(line) {
			if field != "->" {
				refs[field] = struct{}{}
			}
		}
	}

	for _, candidate := range trunkCandidates {
		if _, ok := refs["origin/"+candidate]; ok {
			return candidate
		}
	}
	return DefaultTrunkBranch
}

// GetBranchCommits lists commits on branch that are not on the trunk, one per line.
// When the range cannot be resolved it falls back to the last 10 commits of HEAD.
func (c *Client) GetBranchCommits(branch string) (string, error) {
	trunk := c.GetTrunkBranch()
	revRange, err := gitutil.RevisionRange(trunk, "..", branch)
	if err != nil {
		return "", err
	}

	result, err := c.runner.Run("log", revRange, "--oneline")
	if err == nil {
		return result.StdoutString(false), nil
	}
	c.logger.Debug("branch log failed, falling back to recent commits",
		zap.String("range", revRange), zap.String("stderr", result.StderrString(true)))

	result, err = c.runner.Run("log", "--oneline", "-"+fallbackCommitCount)
	if err != nil {
		return "", gitutil.WrapGitError("failed to get recent commits", result, err)
	}
	return result.StdoutString(false), nil
}

// GetBranchDiff returns the diff between the trunk and branch.
// When the range cannot be resolved it falls back to the diff of the last 5 commits.
func (c *Client) GetBranchDiff(branch string) (string, error) {
	trunk := c.GetTrunkBranch()
	revRange, err := gitutil.RevisionRange(trunk, "...", branch)
	if err != nil {
		return "", err
	}

	result, err := c.runner.Run("diff", revRange)
	if err == nil {
		return result.StdoutString(false), nil
	}
	c.logger.Debug("branch diff failed, falling back to recent diff",
		zap.String("range", revRange), zap.String("stderr", result.StderrString(true)))

	result, err = c.runner.Run("diff", fallbackDiffRange)
	if err != nil {
		return "", gitutil.WrapGitError("failed to get recent diff", result, err)
	}
	return result.StdoutString(false), nil
}
