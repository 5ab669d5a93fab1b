package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"github.com/oshokin/fivem-installer/internal/domain/database"
	"github.com/oshokin/fivem-installer/internal/logger"
)

const dialTimeout = 10 * time.Second

// SQLProvisioner provisions a reachable server over an administrator connection.
type SQLProvisioner struct {
	cfg *driver.Config
}

// NewSQLProvisioner parses an administrator DSN such as "root:secret@tcp(127.0.0.1:3306)/".
func NewSQLProvisioner(dsn string) (*SQLProvisioner, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse admin dsn: %w", err)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = dialTimeout
	}

	// Statements are sent one per Exec, the schema may not exist yet.
	cfg.DBName = ""

	return &SQLProvisioner{cfg: cfg}, nil
}

// EnsureInstalled checks that the server answers.
func (p *SQLProvisioner) EnsureInstalled(ctx context.Context) error {
	db, err := p.open()
	if err != nil {
		return err
	}

	defer func() {
		_ = db.Close()
	}()

	var version string
	if err = db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		return fmt.Errorf("ping mysql at %s: %w", p.cfg.Addr, err)
	}

	logger.InfoKV(ctx, "MySQL server is reachable", "address", p.cfg.Addr, "version", version)

	return nil
}

// CreateDatabase executes the provisioning statements.
func (p *SQLProvisioner) CreateDatabase(ctx context.Context, cfg database.Config) error {
	db, err := p.open()
	if err != nil {
		return err
	}

	defer func() {
		_ = db.Close()
	}()

	logger.InfoKV(ctx, "Creating database", "database", cfg.Name, "user", cfg.User, "address", p.cfg.Addr)

	for _, statement := range Statements(cfg) {
		if _, err = db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("create database %s: %w", cfg.Name, err)
		}
	}

	return nil
}

func (p *SQLProvisioner) open() (*sql.DB, error) {
	connector, err := driver.NewConnector(p.cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}

	return sql.OpenDB(connector), nil
}
