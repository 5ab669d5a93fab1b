package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oshokin/fivem-installer/internal/config"
	"github.com/oshokin/fivem-installer/internal/logger"
	"github.com/oshokin/fivem-installer/internal/service/installer"
	"github.com/oshokin/fivem-installer/internal/service/privilege"
	"github.com/oshokin/fivem-installer/internal/service/prompt"
	"github.com/oshokin/fivem-installer/internal/version"
)

var (
	// answersPath is an optional YAML answers file.
	answersPath string
	// saveAnswersPath receives the answers used for the run.
	saveAnswersPath string
	// platformName overrides platform detection.
	platformName string
	// workDir is the installation directory.
	workDir string
	// noElevate skips the administrator rights request.
	noElevate bool
	// force skips the running server check.
	force bool
	// logLevel is the minimum level of printed records.
	logLevel string
	// logFile receives a copy of every record, empty disables it.
	logFile string

	errUnknownLogLevel = errors.New("unknown log level")

	// rootCmd installs a FiveM server.
	rootCmd = &cobra.Command{
		Use:   "fivem-installer",
		Short: "Install a FiveM server with the latest FXServer build",
		Long: "Downloads the newest FXServer build for this host, optionally sets up MySQL, " +
			"installs the cfx-server-data resources, writes server.cfg and opens the server port.",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogger,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !noElevate {
				err := privilege.Ensure(ctx)
				if errors.Is(err, privilege.ErrRelaunched) {
					logger.Info(ctx, "Continuing in the elevated window")
					return nil
				}

				if err != nil {
					return fmt.Errorf("elevate privileges: %w", err)
				}
			}

			options := &installer.Options{
				AnswersPath:     answersPath,
				SaveAnswersPath: saveAnswersPath,
				Platform:        platformName,
				WorkDir:         workDir,
				Force:           force,
				Progress:        prompt.Interactive(),
			}

			return installer.Run(ctx, options)
		},
	}
)

// Execute runs the fivem-installer CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Errorf(ctx, "%v", err)
	}

	stop()
	logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

// setupLogger applies --log-level and --log-file to the global logger.
func setupLogger(_ *cobra.Command, _ []string) error {
	level, ok := logger.ParseLogLevel(logLevel)
	if !ok {
		return fmt.Errorf("%q: %w", logLevel, errUnknownLogLevel)
	}

	logger.SetLevel(level)
	logger.SetLogger(logger.NewWithFile(nil, logFile, zap.AddCaller(), zap.AddCallerSkip(1)))

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", config.DefaultLogFilename,
		"installation log file, empty disables it")

	flags := rootCmd.Flags()
	flags.StringVarP(&answersPath, "config", "c", "", "answers file; questions are asked interactively when empty")
	flags.StringVar(&saveAnswersPath, "save-answers", "", "save the answers used for this run to a file")
	flags.StringVarP(&platformName, "platform", "p", "", "target platform: windows, ubuntu, debian")
	flags.StringVarP(&workDir, "dir", "d", "", "installation directory (default: current directory)")
	flags.BoolVar(&noElevate, "no-elevate", false, "do not request administrator rights")
	flags.BoolVarP(&force, "force", "f", false, "install even if FXServer is running")

	rootCmd.AddCommand(latestCmd, extractCmd)
}
