// Package gitcmd executes git subprocesses and captures their output.
package gitcmd

import (
	"bytes"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Executor runs a git command and returns its captured output.
type Executor interface {
	Run(args ...string) (Result, error)
}

// Runner executes git commands with shared logging and output handling.
type Runner struct {
	Verbose bool
	Dir     string
	Logger  *zap.Logger
}

// Result contains captured stdout/stderr for a git command.
type Result struct {
	Stdout []byte
	Stderr []byte
}

func (r Result) StdoutString(trim bool) string {
	output := string(r.Stdout)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

func (r Result) StderrString(trim bool) string {
	output := string(r.Stderr)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

func (r Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r Runner) command(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	return cmd
}

// Run executes a git command and captures stdout/stderr.
func (r Runner) Run(args ...string) (Result, error) {
	if r.Verbose {
		r.logger().Debug("running git", zap.String("args", strings.Join(args, " ")), zap.String("dir", r.Dir))
	}

	cmd := r.command(args...)
	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err != nil && r.Verbose {
		r.logger().Debug("git failed",
			zap.String("args", strings.Join(args, " ")),
			zap.String("stderr", strings.TrimSpace(errBuf.String())),
			zap.Error(err))
	}
	return Result{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}, err
}
