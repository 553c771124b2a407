package gitutil

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateBranchName rejects names git would refuse, and names that would be read as flags.
func ValidateBranchName(name string) error {
	if name == "" {
		return errors.New("branch name cannot be empty")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("branch name cannot start with '-': %s", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("branch name cannot contain '..': %s", name)
	}
	if strings.HasSuffix(name, "/") || strings.HasSuffix(name, ".lock") {
		return fmt.Errorf("branch name has an invalid suffix: %s", name)
	}
	for _, ch := range []string{" ", "~", "^", ":", "?", "*", "[", "\\"} {
		if strings.Contains(name, ch) {
			return fmt.Errorf("branch name contains invalid character %q: %s", ch, name)
		}
	}
	return nil
}
