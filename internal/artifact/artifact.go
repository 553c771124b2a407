// Package artifact names and writes the Markdown files produced by the pr and review flows.
package artifact

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/samzong/gitai/internal/stringsutil"
	"github.com/spf13/afero"
)

const (
	prDescriptionPrefix = "pr-description-"
	codeReviewPrefix    = "code-review-"
	markdownExt         = ".md"

	// isoMillis matches JavaScript's Date.toISOString in UTC.
	isoMillis = "2006-01-02T15:04:05.000Z07:00"
)

// PRDescriptionName returns pr-description-<branch>.md with every non-alphanumeric
// character of branch replaced by '-'.
func PRDescriptionName(branch string) string {
	return prDescriptionPrefix + stringsutil.Slugify(branch) + markdownExt
}

// CodeReviewName returns code-review-<timestamp>.md, where timestamp is t in UTC
// ISO-8601 with ':' and '.' replaced by '-'.
func CodeReviewName(t time.Time) string {
	stamp := t.UTC().Format(isoMillis)
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return codeReviewPrefix + stamp + markdownExt
}

// Store writes artifacts under Dir on Fs.
type Store struct {
	Fs  afero.Fs
	Dir string
	Now func() time.Time
}

// NewStore returns a store rooted at the working directory of the real filesystem.
func NewStore() *Store {
	return &Store{Fs: afero.NewOsFs(), Dir: ".", Now: time.Now}
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Write stores content as name and returns the path written.
func (s *Store) Write(name, content string) (string, error) {
	path := filepath.Join(s.Dir, name)
	if err := afero.WriteFile(s.Fs, path, []byte(content), 0o644); err != nil {
		return path, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WritePRDescription saves a pull-request description for branch.
func (s *Store) WritePRDescription(branch, content string) (string, error) {
	return s.Write(PRDescriptionName(branch), content)
}

// WriteCodeReview saves a code review named after the current time.
func (s *Store) WriteCodeReview(content string) (string, error) {
	return s.Write(CodeReviewName(s.now()), content)
}
