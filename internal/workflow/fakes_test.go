package workflow

import (
	"context"
	"errors"
	"fmt"
)

type fakeGit struct {
	isRepo      bool
	stagedDiff  string
	stagedErr   error
	branch      string
	branchErr   error
	commits     string
	commitsErr  error
	branchDiff  string
	diffErr     error
	commitErr   error
	commitCalls []fakeCommit
	calls       []string
}

type fakeCommit struct {
	message string
	args    []string
}

func (g *fakeGit) IsGitRepository() bool {
	g.calls = append(g.calls, "IsGitRepository")
	return g.isRepo
}

func (g *fakeGit) GetStagedDiff() (string, error) {
	g.calls = append(g.calls, "GetStagedDiff")
	return g.stagedDiff, g.stagedErr
}

func (g *fakeGit) Commit(message string, args ...string) error {
	g.calls = append(g.calls, "Commit")
	g.commitCalls = append(g.commitCalls, fakeCommit{message: message, args: args})
	return g.commitErr
}

func (g *fakeGit) GetCurrentBranch() (string, error) {
	g.calls = append(g.calls, "GetCurrentBranch")
	return g.branch, g.branchErr
}

func (g *fakeGit) GetBranchCommits(branch string) (string, error) {
	g.calls = append(g.calls, "GetBranchCommits:"+branch)
	return g.commits, g.commitsErr
}

func (g *fakeGit) GetBranchDiff(branch string) (string, error) {
	g.calls = append(g.calls, "GetBranchDiff:"+branch)
	return g.branchDiff, g.diffErr
}

type llmCall struct {
	op      string
	diff    string
	commits string
	branch  string
	model   string
}

type fakeLLM struct {
	reply string
	err   error
	calls []llmCall
}

func (l *fakeLLM) GenerateCommitMessage(_ context.Context, diff string, model string) (string, error) {
	l.calls = append(l.calls, llmCall{op: "commit", diff: diff, model: model})
	return l.reply, l.err
}

func (l *fakeLLM) GeneratePRDescription(_ context.Context, commits, diff, branch, model string) (string, error) {
	l.calls = append(l.calls, llmCall{op: "pr", commits: commits, diff: diff, branch: branch, model: model})
	return l.reply, l.err
}

func (l *fakeLLM) ReviewCode(_ context.Context, diff string, model string) (string, error) {
	l.calls = append(l.calls, llmCall{op: "review", diff: diff, model: model})
	return l.reply, l.err
}

// scriptedPrompter answers prompts from a fixed list of lines.
type scriptedPrompter struct {
	answers []string
	prompts []string
}

func (s *scriptedPrompter) ReadLine(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.answers) == 0 {
		return "", errors.New("failed to read user input: EOF")
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

type memStore struct {
	files map[string]string
	err   error
}

func newMemStore() *memStore {
	return &memStore{files: map[string]string{}}
}

func (m *memStore) WritePRDescription(branch, content string) (string, error) {
	return m.write(fmt.Sprintf("pr:%s", branch), content)
}

func (m *memStore) WriteCodeReview(content string) (string, error) {
	return m.write("review", content)
}

func (m *memStore) write(key, content string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.files[key] = content
	return key + ".md", nil
}

// interruptingPrompter cancels the flow's context the way SIGINT does, then answers
// as if the user had pressed Enter.
type interruptingPrompter struct {
	cancel context.CancelFunc
	reads  int
}

func (p *interruptingPrompter) ReadLine(_ context.Context, _ string) (string, error) {
	p.reads++
	p.cancel()
	return "", nil
}
