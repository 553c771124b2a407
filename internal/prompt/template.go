// Package prompt renders the instructions sent to the text-generation API.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Kind selects one of the builtin templates.
type Kind string

const (
	KindCommit Kind = "commit"
	KindPR     Kind = "pr"
	KindReview Kind = "review"
)

// Template is the on-disk shape of an override file (<dir>/<kind>.yaml).
type Template struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Template    string `yaml:"template"`
}

// Data is the input every template is rendered with.
type Data struct {
	Diff    string
	Commits string
	Branch  string
}

var builtinTemplates = map[Kind]string{
	KindCommit: `Generate a concise git commit message for the following staged changes.

Follow the Conventional Commits format "type(scope): description", using one of:
feat, fix, docs, style, refactor, perf, test, build, ci, chore, revert.
Write a single line in the imperative mood, at most 72 characters, without a trailing period.
Reply with the commit message only.

Changes:
{{.Diff}}`,

	KindPR: `Write a pull request description for the branch "{{.Branch}}".

Commits on this branch:
{{.Commits}}

Changes:
{{.Diff}}

Use Markdown with these sections:
## Summary
A short paragraph explaining what the pull request does and why.

## Changes
A bulleted list of the notable changes.

## Testing
How the changes were or should be verified.

## Notes
Breaking changes, migrations or follow-ups, or "None".

Reply with the description only.`,

	KindReview: `Review the following staged changes as an experienced software engineer.

Changes:
{{.Diff}}

Structure the review in Markdown with these sections:
## Code Quality
## Potential Bugs
## Security
## Performance
## Style & Readability
## Architecture & Design
## Summary

For each finding, name the file and explain the issue and a concrete fix.
Say so explicitly when a section has no findings.`,
}

var systemMessages = map[Kind]string{
	KindCommit: "You are a professional Git commit message generator, helping developers write commit messages that comply with the Conventional Commits specification.",
	KindPR:     "You are a senior engineer who writes clear, well-structured pull request descriptions.",
	KindReview: "You are a meticulous code reviewer focused on correctness, security and maintainability.",
}

// SystemMessage returns the system instruction for kind.
func SystemMessage(kind Kind) string {
	return systemMessages[kind]
}

// Renderer resolves templates from an optional override directory, then the builtins.
type Renderer struct {
	Dir string
}

// Render executes the template for kind with data.
func (r Renderer) Render(kind Kind, data Data) (string, error) {
	content, err := r.lookup(kind)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(string(kind)).Parse(content)
	if err != nil {
		return "", fmt.Errorf("template parsing error for %s: %w", kind, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template rendering error for %s: %w", kind, err)
	}
	return buf.String(), nil
}

func (r Renderer) lookup(kind Kind) (string, error) {
	if r.Dir != "" {
		content, found, err := readOverride(filepath.Join(r.Dir, string(kind)+".yaml"))
		if err != nil {
			return "", err
		}
		if found {
			return content, nil
		}
	}

	content, ok := builtinTemplates[kind]
	if !ok {
		return "", fmt.Errorf("unknown prompt template: %s", kind)
	}
	return content, nil
}

// readOverride loads a YAML template file. A file that is not a YAML template document
// is used verbatim as template text.
func readOverride(path string) (string, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("unable to read template file %s: %w", path, err)
	}

	var tpl Template
	if err := yaml.Unmarshal(content, &tpl); err != nil || tpl.Template == "" {
		return string(content), true, nil
	}
	return tpl.Template, true, nil
}
