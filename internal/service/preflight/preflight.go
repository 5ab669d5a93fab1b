package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/fivem-installer/internal/logger"
)

// ErrServerRunning is returned when an FXServer process is alive.
var ErrServerRunning = errors.New("FXServer is running, stop it before installing")

// ServerExecutables are the process names of a running server.
//
//nolint:gochecknoglobals // Read-only list.
var ServerExecutables = []string{"FXServer", "FXServer.exe"}

// Checker inspects the process table.
type Checker struct {
	processes func() ([]ps.Process, error)
}

// New creates a Checker reading the live process table.
func New() *Checker {
	return &Checker{processes: ps.Processes}
}

// Check fails with ErrServerRunning when a server process is found.
func (c *Checker) Check(ctx context.Context) error {
	processList, err := c.processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if !isServer(process.Executable()) {
			continue
		}

		logger.WarnKV(ctx, "Found a running server", "pid", process.Pid(), "executable", process.Executable())

		return fmt.Errorf("pid %d: %w", process.Pid(), ErrServerRunning)
	}

	logger.Debugf(ctx, "No running server found among %d processes", len(processList))

	return nil
}

func isServer(executable string) bool {
	for _, name := range ServerExecutables {
		if strings.EqualFold(executable, name) {
			return true
		}
	}

	return false
}
