//go:build !windows

package privilege

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// IsAdmin reports whether the process runs as root.
func IsAdmin() bool {
	return os.Geteuid() == 0
}

func relaunch(executable string, args []string) error {
	sudo, err := exec.LookPath("sudo")
	if err != nil {
		return fmt.Errorf("sudo is required to run without root: %w", err)
	}

	argv := append([]string{"sudo", "--preserve-env", executable}, args...)

	//nolint:gosec // Relaunches this very executable.
	if err = syscall.Exec(sudo, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec sudo: %w", err)
	}

	return ErrRelaunched
}
