package workflow

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter reads one line of user input after showing prompt.
// It returns ctx.Err() when ctx is cancelled before a line arrives.
type Prompter interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// InteractivePrompter reads answers from Stdin (os.Stdin when nil) and writes prompts to ErrWriter.
type InteractivePrompter struct {
	ErrWriter io.Writer
	Stdin     io.Reader

	reader  *bufio.Reader
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// ReadLine returns the next input line without its line terminator.
// A final line without a newline is accepted; EOF with no data is an error.
func (p *InteractivePrompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.reader == nil {
		stdin := p.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		p.reader = bufio.NewReader(stdin)
	}

	if p.ErrWriter != nil {
		fmt.Fprint(p.ErrWriter, prompt)
	}

	// A read left running by a cancelled call is picked up by the next one.
	if p.pending == nil {
		ch := make(chan lineResult, 1)
		go func(r *bufio.Reader) {
			line, err := r.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}(p.reader)
		p.pending = ch
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-p.pending:
		p.pending = nil
		if res.err != nil && !(errors.Is(res.err, io.EOF) && res.line != "") {
			return "", fmt.Errorf("failed to read user input: %w", res.err)
		}
		return strings.TrimRight(res.line, "\r\n"), nil
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func isNo(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "n", "no":
		return true
	}
	return false
}

func isEdit(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "e", "edit":
		return true
	}
	return false
}
