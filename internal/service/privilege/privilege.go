package privilege

import (
	"context"
	"errors"
	"os"

	"github.com/oshokin/fivem-installer/internal/logger"
)

// ErrRelaunched is returned after an elevated copy was started in a separate
// process. The caller should exit successfully.
var ErrRelaunched = errors.New("installer relaunched with administrator rights")

// Ensure relaunches the current executable with administrator rights unless it
// already has them. On Unix a successful relaunch replaces the process and
// Ensure does not return.
func Ensure(ctx context.Context) error {
	if IsAdmin() {
		logger.Debugf(ctx, "Running with administrator rights")
		return nil
	}

	executable, err := os.Executable()
	if err != nil {
		return err
	}

	logger.Warn(ctx, "Requesting admin privileges")

	return relaunch(executable, os.Args[1:])
}
