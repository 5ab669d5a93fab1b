package cmdrunner

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Fake records commands instead of running them.
type Fake struct {
	mu       sync.Mutex
	commands []string
	failures map[string]error
	outputs  map[string]string
}

// NewFake creates an empty Fake.
func NewFake() *Fake {
	return &Fake{
		failures: make(map[string]error),
		outputs:  make(map[string]string),
	}
}

// FailOn makes every command line starting with prefix fail with err.
func (f *Fake) FailOn(prefix string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failures[prefix] = err
}

// Respond sets the output returned for an exact command line.
func (f *Fake) Respond(commandLine, output string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.outputs[commandLine] = output
}

// Commands returns the recorded command lines.
func (f *Fake) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.commands...)
}

// Run implements Runner.
func (f *Fake) Run(ctx context.Context, name string, args ...string) error {
	_, err := f.Output(ctx, name, args...)

	return err
}

// Output implements Runner.
func (f *Fake) Output(_ context.Context, name string, args ...string) (string, error) {
	commandLine := strings.Join(append([]string{name}, args...), " ")

	f.mu.Lock()
	defer f.mu.Unlock()

	f.commands = append(f.commands, commandLine)

	for prefix, err := range f.failures {
		if strings.HasPrefix(commandLine, prefix) {
			return "", fmt.Errorf("%s: %w: %w", commandLine, ErrCommandFailed, err)
		}
	}

	return f.outputs[commandLine], nil
}
