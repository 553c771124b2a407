package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samzong/gitai/internal/config"
	"github.com/samzong/gitai/internal/workflow"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGit struct {
	isRepo     bool
	stagedDiff string
	branch     string
	commits    string
	branchDiff string
	committed  []string
	commitArgs [][]string
}

func (g *stubGit) IsGitRepository() bool          { return g.isRepo }
func (g *stubGit) GetStagedDiff() (string, error) { return g.stagedDiff, nil }
func (g *stubGit) GetCurrentBranch() (string, error) {
	return g.branch, nil
}
func (g *stubGit) GetBranchCommits(string) (string, error) {
	return g.commits, nil
}
func (g *stubGit) GetBranchDiff(string) (string, error) {
	return g.branchDiff, nil
}

func (g *stubGit) Commit(message string, args ...string) error {
	g.committed = append(g.committed, message)
	g.commitArgs = append(g.commitArgs, args)
	return nil
}

type stubLLM struct {
	reply  string
	models []string
	ops    []string
}

func (l *stubLLM) record(op, model string) (string, error) {
	l.ops = append(l.ops, op)
	l.models = append(l.models, model)
	return l.reply, nil
}

func (l *stubLLM) GenerateCommitMessage(_ context.Context, _ string, model string) (string, error) {
	return l.record("commit", model)
}

func (l *stubLLM) GeneratePRDescription(_ context.Context, _, _, _ string, model string) (string, error) {
	return l.record("pr", model)
}

func (l *stubLLM) ReviewCode(_ context.Context, _ string, model string) (string, error) {
	return l.record("review", model)
}

// setupCommand isolates configuration and the command's flag state, and wires stubs in
// place of git and the LLM client.
func setupCommand(t *testing.T, git *stubGit, llm *stubLLM) {
	t.Helper()

	viper.Reset()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	for _, key := range []string{
		"GITAI_API_KEY", "OPENAI_API_KEY", "GITAI_MODEL", "OPENAI_MODEL",
		"GITAI_API_BASE", "OPENAI_BASE_URL", "GITAI_TIMEOUT", "GITAI_PROMPTS_DIR", "GITAI_TRUNK_BRANCHES",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	testChdir(t, t.TempDir())

	cfgFile, model = "", ""
	verbose, dryRun, noVerify = false, false, false
	configErr = nil

	origGit, origLLM := newGitClient, newLLMClient
	newGitClient = func(*zap.Logger) workflow.GitClient { return git }
	newLLMClient = func(*config.Config) workflow.LLMClient { return llm }
	t.Cleanup(func() {
		newGitClient, newLLMClient = origGit, origLLM
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
}

func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err := Execute(context.Background())
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "gitai [commit|pr|review|help]", rootCmd.Use)
	assert.True(t, rootCmd.SilenceErrors)
	assert.True(t, rootCmd.SilenceUsage)
	assert.NotNil(t, rootCmd.RunE)
	assert.Same(t, rootCmd, RootCmd())

	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"commit", "pr", "review", "config", "completion", "version"} {
		assert.True(t, names[name], "missing subcommand %s", name)
	}
}

func TestFlags(t *testing.T) {
	for _, name := range []string{"model", "config", "verbose"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "V", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)

	for _, c := range []string{"root", "commit"} {
		flags := rootCmd.Flags()
		if c == "commit" {
			flags = commitCmd.Flags()
		}
		assert.NotNil(t, flags.Lookup("dry-run"), c)
		assert.NotNil(t, flags.Lookup("no-verify"), c)
	}
}

func TestVersion(t *testing.T) {
	setupCommand(t, &stubGit{}, &stubLLM{})

	out, _, err := executeCommand(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "gitai version dev (built at unknown)\n", out)
}

func TestRootRunsCommitFlow(t *testing.T) {
	for _, args := range [][]string{nil, {"commit"}, {"whatever"}} {
		t.Run(strings.Join(append([]string{"gitai"}, args...), " "), func(t *testing.T) {
			git := &stubGit{stagedDiff: "+x"}
			llm := &stubLLM{reply: "feat: add x"}
			setupCommand(t, git, llm)

			out, _, err := executeCommand(t, "y\n", args...)
			require.NoError(t, err)
			assert.Contains(t, out, "feat: add x")
			assert.Equal(t, []string{"commit"}, llm.ops)
			assert.Equal(t, []string{config.DefaultModel}, llm.models)
			assert.Equal(t, []string{"feat: add x"}, git.committed)
		})
	}
}

func TestCommitFlags(t *testing.T) {
	git := &stubGit{stagedDiff: "+x"}
	setupCommand(t, git, &stubLLM{reply: "feat: add x"})

	_, errOut, err := executeCommand(t, "\n", "commit", "--dry-run")
	require.NoError(t, err)
	assert.Empty(t, git.committed)
	assert.Contains(t, errOut, "Dry run mode")

	git = &stubGit{stagedDiff: "+x"}
	setupCommand(t, git, &stubLLM{reply: "feat: add x"})

	_, _, err = executeCommand(t, "\n", "--no-verify")
	require.NoError(t, err)
	require.Len(t, git.commitArgs, 1)
	assert.Equal(t, []string{"--no-verify"}, git.commitArgs[0])
}

func TestModelFlagOverridesConfig(t *testing.T) {
	git := &stubGit{isRepo: true, branch: "feature/x", commits: "a1 feat: x", branchDiff: "+x"}
	llm := &stubLLM{reply: "## Summary"}
	setupCommand(t, git, llm)
	t.Setenv("GITAI_MODEL", "from-env")

	_, errOut, err := executeCommand(t, "n\n", "pr", "--model", "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o"}, llm.models)
	assert.Contains(t, errOut, "PR description not saved.")
}

func TestModelFromEnvironment(t *testing.T) {
	llm := &stubLLM{reply: "looks fine"}
	setupCommand(t, &stubGit{isRepo: true, stagedDiff: "+x"}, llm)
	t.Setenv("OPENAI_MODEL", "from-env")

	_, _, err := executeCommand(t, "n\n", "review")
	require.NoError(t, err)
	assert.Equal(t, []string{"from-env"}, llm.models)
}

func TestFlowErrorIsReturnedOnce(t *testing.T) {
	llm := &stubLLM{}
	setupCommand(t, &stubGit{isRepo: false}, llm)

	_, errOut, err := executeCommand(t, "", "review")
	require.ErrorIs(t, err, workflow.ErrNotRepository)
	assert.NotContains(t, errOut, "flow failed")
	assert.NotContains(t, errOut, workflow.ErrNotRepository.Error())
	assert.Empty(t, llm.ops)

	setupCommand(t, &stubGit{isRepo: false}, llm)
	_, errOut, err = executeCommand(t, "", "review", "--verbose")
	require.ErrorIs(t, err, workflow.ErrNotRepository)
	assert.Contains(t, errOut, "flow failed")
	assert.Contains(t, errOut, "review")
}

func TestUnknownFlagPrintsUsage(t *testing.T) {
	llm := &stubLLM{}
	setupCommand(t, &stubGit{stagedDiff: "+x"}, llm)

	_, errOut, err := executeCommand(t, "", "--bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag: --bogus")
	assert.Contains(t, errOut, "Usage:")
	assert.Empty(t, llm.ops)
}

func TestConfigSetAndGet(t *testing.T) {
	setupCommand(t, &stubGit{}, &stubLLM{})
	path := filepath.Join(t.TempDir(), "gitai.yaml")

	out, _, err := executeCommand(t, "", "config", "set", "model", "gpt-4o", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved model to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "model: gpt-4o")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	viper.Reset()
	out, _, err = executeCommand(t, "", "config", "get", "model", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o\n", out)
}

func TestConfigSetAPIKeyFromStdin(t *testing.T) {
	setupCommand(t, &stubGit{}, &stubLLM{})
	path := filepath.Join(t.TempDir(), "gitai.yaml")

	_, _, err := executeCommand(t, "sk-test-123456789\n", "config", "set", "api_key", "--config", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sk-test-123456789")

	out, _, err := executeCommand(t, "", "config", "get", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "********6789")
	assert.NotContains(t, out, "sk-test-123456789")
}

func TestConfigSetRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown key", args: []string{"config", "set", "role", "dev"}, want: "unknown configuration key"},
		{name: "missing value", args: []string{"config", "set", "model"}, want: "missing value for model"},
		{name: "bad timeout", args: []string{"config", "set", "timeout", "soon"}, want: "invalid timeout"},
		{name: "empty trunk list", args: []string{"config", "set", "trunk_branches", " , "}, want: "at least one branch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCommand(t, &stubGit{}, &stubLLM{})
			_, _, err := executeCommand(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseConfigValue(t *testing.T) {
	v, err := parseConfigValue("trunk_branches", "main, trunk ,")
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "trunk"}, v)

	v, err = parseConfigValue("timeout", "30")
	require.NoError(t, err)
	assert.Equal(t, 30, v)

	_, err = parseConfigValue("api_key", "  ")
	assert.Error(t, err)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "<not set>", maskSecret(""))
	assert.Equal(t, "********", maskSecret("short"))
	assert.Equal(t, "********cdef", maskSecret("sk-0123456789abcdef"))
}

func TestCompletion(t *testing.T) {
	setupCommand(t, &stubGit{}, &stubLLM{})

	out, _, err := executeCommand(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "gitai")

	_, _, err = executeCommand(t, "", "completion", "tcsh")
	assert.Error(t, err)
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", dir)
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
}
