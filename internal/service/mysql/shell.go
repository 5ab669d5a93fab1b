package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/oshokin/fivem-installer/internal/domain/database"
	"github.com/oshokin/fivem-installer/internal/logger"
	"github.com/oshokin/fivem-installer/internal/service/cmdrunner"
)

const serviceName = "mysql"

// ShellProvisioner manages MySQL with apt and systemctl.
// The runner is expected to escalate privileges (see cmdrunner.WithSudo).
type ShellProvisioner struct {
	runner cmdrunner.Runner
}

// NewShellProvisioner creates a ShellProvisioner.
func NewShellProvisioner(runner cmdrunner.Runner) *ShellProvisioner {
	return &ShellProvisioner{runner: runner}
}

// EnsureInstalled installs, starts and enables mysql-server unless a client is already present.
func (p *ShellProvisioner) EnsureInstalled(ctx context.Context) error {
	if version, err := p.runner.Output(ctx, "mysql", "--version"); err == nil {
		logger.InfoKV(ctx, "MySQL is already installed", "version", version)
		return nil
	}

	logger.Info(ctx, "Installing MySQL server")

	steps := [][]string{
		{"apt", "update"},
		{"apt", "install", "-y", "mysql-server"},
		{"systemctl", "start", serviceName},
		{"systemctl", "enable", serviceName},
	}

	for _, step := range steps {
		if err := p.runner.Run(ctx, step[0], step[1:]...); err != nil {
			return fmt.Errorf("install mysql: %w", err)
		}
	}

	logger.Info(ctx, "MySQL has been installed and started")

	return nil
}

// CreateDatabase runs the provisioning statements through the mysql client.
func (p *ShellProvisioner) CreateDatabase(ctx context.Context, db database.Config) error {
	logger.InfoKV(ctx, "Creating database", "database", db.Name, "user", db.User)

	if err := p.runner.Run(ctx, "mysql", "-e", strings.Join(Statements(db), " ")); err != nil {
		return fmt.Errorf("create database %s: %w", db.Name, err)
	}

	return nil
}
