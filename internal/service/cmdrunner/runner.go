package cmdrunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/oshokin/fivem-installer/internal/logger"
)

// ErrCommandFailed wraps every non-zero exit.
var ErrCommandFailed = errors.New("command failed")

// Runner executes commands.
type Runner interface {
	// Run executes the command, streaming nothing, and fails on a non-zero exit.
	Run(ctx context.Context, name string, args ...string) error
	// Output executes the command and returns its trimmed combined output.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	sudo bool
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithSudo prefixes commands with sudo unless the process already runs as root.
// It has no effect on Windows.
func WithSudo() Option {
	return func(r *ExecRunner) {
		r.sudo = runtime.GOOS != "windows" && os.Geteuid() != 0
	}
}

// New creates an ExecRunner.
func New(opts ...Option) *ExecRunner {
	r := new(ExecRunner)

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	_, err := r.Output(ctx, name, args...)

	return err
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	if r.sudo {
		args = append([]string{name}, args...)
		name = "sudo"
	}

	commandLine := strings.Join(append([]string{name}, args...), " ")
	logger.DebugKV(ctx, "Running command", "command", commandLine)

	var output bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	trimmed := strings.TrimSpace(output.String())

	if err != nil {
		if trimmed != "" {
			logger.DebugKV(ctx, "Command output", "command", commandLine, "output", trimmed)
		}

		return trimmed, fmt.Errorf("%s: %w: %w", commandLine, ErrCommandFailed, err)
	}

	return trimmed, nil
}
