package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/oshokin/fivem-installer/internal/config"
	"github.com/oshokin/fivem-installer/internal/domain/database"
	"github.com/oshokin/fivem-installer/internal/domain/platform"
)

var (
	errEmptyAnswer = errors.New("a value is required")
	errNoTerminal  = errors.New("a terminal is required to enter a password, use an answers file")
)

// Collect fills cfg with answers, using its current values as defaults.
// detected is the host platform, empty when the distribution is unknown.
func Collect(ctx context.Context, p Prompter, cfg *config.Config, detected platform.Tag) error {
	if err := choosePlatform(ctx, p, cfg, detected); err != nil {
		return err
	}

	if err := collectDatabase(ctx, p, cfg); err != nil {
		return err
	}

	port, err := p.Input(ctx, "Enter your server port", strconv.Itoa(cfg.Server.Port), validatePort)
	if err != nil {
		return err
	}

	if cfg.Server.Port, err = strconv.Atoi(port); err != nil {
		return fmt.Errorf("port %q: %w", port, config.ErrInvalidPort)
	}

	cfg.TxAdmin, err = p.Confirm(ctx, "Would you like to install your server with txAdmin?", cfg.TxAdmin)
	if err != nil {
		return err
	}

	if !cfg.TxAdmin {
		if cfg.Server.Name, err = p.Input(ctx, "Enter your server name", cfg.Server.Name, nil); err != nil {
			return err
		}

		if cfg.Server.LicenseKey, err = p.Input(ctx, "Enter your license key", cfg.Server.LicenseKey, nil); err != nil {
			return err
		}
	}

	return config.Validate(cfg)
}

func choosePlatform(ctx context.Context, p Prompter, cfg *config.Config, detected platform.Tag) error {
	if cfg.Platform != "" {
		return nil
	}

	if detected.IsWindows() {
		cfg.Platform = string(detected)
		return nil
	}

	distributions := platform.LinuxDistributions()

	options := make([]Option, 0, len(distributions))
	for _, tag := range distributions {
		options = append(options, Option{Label: tag.String(), Value: string(tag)})
	}

	choice, err := p.Select(ctx, "Select your Linux distribution", options, string(detected))
	if err != nil {
		return err
	}

	cfg.Platform = choice

	return nil
}

func collectDatabase(ctx context.Context, p Prompter, cfg *config.Config) error {
	var err error

	cfg.MySQL.Setup, err = p.Confirm(ctx, "Would you like a MySQL database for your FiveM server?", cfg.MySQL.Setup)
	if err != nil {
		return err
	}

	if !cfg.MySQL.Setup {
		cfg.MySQL.CreateDatabase = false
		cfg.MySQL.Database = database.Unset()

		return nil
	}

	cfg.MySQL.CreateDatabase, err = p.Confirm(ctx,
		"Would you like to create a new database for your FiveM server?", cfg.MySQL.CreateDatabase)
	if err != nil {
		return err
	}

	if !cfg.MySQL.CreateDatabase {
		cfg.MySQL.Database = database.Unset()
		return nil
	}

	var db database.Config

	if db.Name, err = p.Input(ctx, "Enter the name for your FiveM database", "", required); err != nil {
		return err
	}

	if db.User, err = p.Input(ctx, "Enter the username for your FiveM database", "", required); err != nil {
		return err
	}

	if db.Password, err = p.Password(ctx, "Enter the password for your FiveM database"); err != nil {
		return err
	}

	cfg.MySQL.Database = db

	return nil
}

func validatePort(s string) error {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return config.ErrInvalidPort
	}

	return nil
}

func required(s string) error {
	if s == "" {
		return errEmptyAnswer
	}

	return nil
}
