package workflow

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/samzong/gitai/internal/stringsutil"
)

const bannerWidth = 60

var banner = strings.Repeat("=", bannerWidth)

type commitConfirmState int

const (
	stateAwaitingInitialAnswer commitConfirmState = iota
	stateAwaitingReplacementText
	stateCommitResolved
)

type saveState int

const (
	stateAwaitingSaveDecision saveState = iota
	stateSaveResolved
)

// Presenter shows generated text and resolves what the user wants done with it.
// Generated text goes to Out; prompts and status lines go to Err.
type Presenter struct {
	Prompter Prompter
	Store    ArtifactStore
	Out      io.Writer
	Err      io.Writer
}

// ConfirmCommitMessage returns the message to commit with.
// "", y, yes keep message; n, no ask for a replacement (blank keeps message);
// anything else is taken verbatim as the replacement itself.
func (p *Presenter) ConfirmCommitMessage(ctx context.Context, message string) (string, error) {
	fmt.Fprintln(p.Err, "\nGenerated Commit Message:")
	fmt.Fprintln(p.Out, message)

	state := stateAwaitingInitialAnswer
	result := message
	for state != stateCommitResolved {
		switch state {
		case stateAwaitingInitialAnswer:
			answer, err := p.ask(ctx, "\nUse this commit message? [Y/n] (or type your own message): ")
			if err != nil {
				return "", err
			}
			switch {
			case stringsutil.IsBlank(answer) || isYes(answer):
				state = stateCommitResolved
			case isNo(answer):
				state = stateAwaitingReplacementText
			default:
				result = answer
				state = stateCommitResolved
			}

		case stateAwaitingReplacementText:
			replacement, err := p.ask(ctx, "Enter your commit message: ")
			if err != nil {
				return "", err
			}
			if stringsutil.IsBlank(replacement) {
				fmt.Fprintln(p.Err, "Empty message provided, using original message")
			} else {
				result = replacement
			}
			state = stateCommitResolved
		}
	}
	return result, nil
}

// ConfirmPRDescription shows description and saves it to pr-description-<branch>.md
// on y, yes, "" or e, edit. Write failures are reported, not returned.
func (p *Presenter) ConfirmPRDescription(ctx context.Context, branch, description string) error {
	p.showBanner("Pull Request Description", description)

	state := stateAwaitingSaveDecision
	for state != stateSaveResolved {
		answer, err := p.ask(ctx, "Save this description to a file? [Y/n/e] (e=save and edit): ")
		if err != nil {
			return err
		}
		switch {
		case stringsutil.IsBlank(answer) || isYes(answer):
			path, err := p.Store.WritePRDescription(branch, description)
			p.reportSave("PR description", path, err, "")
		case isEdit(answer):
			path, err := p.Store.WritePRDescription(branch, description)
			p.reportSave("PR description", path, err,
				"Edit the file to refine the description before opening the pull request.")
		default:
			fmt.Fprintln(p.Err, "PR description not saved.")
		}
		state = stateSaveResolved
	}
	return nil
}

// ConfirmCodeReview shows review and saves it to code-review-<timestamp>.md on y or yes.
func (p *Presenter) ConfirmCodeReview(ctx context.Context, review string) error {
	p.showBanner("Code Review", review)

	state := stateAwaitingSaveDecision
	for state != stateSaveResolved {
		answer, err := p.ask(ctx, "Save this review to a file? [y/N]: ")
		if err != nil {
			return err
		}
		if isYes(answer) {
			path, err := p.Store.WriteCodeReview(review)
			p.reportSave("code review", path, err, "")
		} else {
			fmt.Fprintln(p.Err, "Code review not saved.")
		}
		state = stateSaveResolved
	}
	return nil
}

// ask reads one answer and fails if ctx was cancelled while waiting, even when a line arrived.
func (p *Presenter) ask(ctx context.Context, prompt string) (string, error) {
	answer, err := p.Prompter.ReadLine(ctx, prompt)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return answer, nil
}

func (p *Presenter) showBanner(title, body string) {
	fmt.Fprintf(p.Err, "\n%s\n", title)
	fmt.Fprintln(p.Out, banner)
	fmt.Fprintln(p.Out, body)
	fmt.Fprintln(p.Out, banner)
}

func (p *Presenter) reportSave(what, path string, err error, hint string) {
	if err != nil {
		fmt.Fprintf(p.Err, "Failed to save %s: %v\n", what, err)
		return
	}
	fmt.Fprintf(p.Err, "Saved %s to %s\n", what, path)
	if hint != "" {
		fmt.Fprintln(p.Err, hint)
	}
}
