package gitutil

import (
	"fmt"
	"strings"

	"github.com/samzong/gitai/internal/gitcmd"
)

// WrapGitError builds an error message that prefers git stderr output when present.
func WrapGitError(action string, result gitcmd.Result, err error) error {
	errMsg := result.StderrString(true)
	if errMsg != "" {
		return fmt.Errorf("%s: %s: %w", action, errMsg, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// RevisionRange joins two refs into a git revision range using sep ("..", "...").
// Both refs are validated so neither can be mistaken for a command-line option.
func RevisionRange(from, sep, to string) (string, error) {
	if err := ValidateBranchName(from); err != nil {
		return "", err
	}
	if err := ValidateBranchName(to); err != nil {
		return "", err
	}
	return strings.Join([]string{from, to}, sep), nil
}
