package mysql

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/fivem-installer/internal/domain/database"
	"github.com/oshokin/fivem-installer/internal/service/cmdrunner"
)

type confirmer struct {
	messages []string
	err      error
}

func (c *confirmer) WaitForConfirmation(_ context.Context, message string) error {
	c.messages = append(c.messages, message)

	return c.err
}

//nolint:gochecknoglobals // Shared fixture.
var db = database.Config{Name: "fivem", User: "fxserver", Password: "s3cr'et"}

// TestStatements quotes identifiers and literals.
func TestStatements(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{
		"CREATE DATABASE IF NOT EXISTS `fivem`;",
		`CREATE USER IF NOT EXISTS 'fxserver'@'localhost' IDENTIFIED BY 's3cr\'et';`,
		"GRANT ALL PRIVILEGES ON `fivem`.* TO 'fxserver'@'localhost';",
		"FLUSH PRIVILEGES;",
	}, Statements(db))
}

// TestQuoteIdentifier doubles embedded backticks.
func TestQuoteIdentifier(t *testing.T) {
	t.Parallel()

	require.Equal(t, "`a``b`", QuoteIdentifier("a`b"))
	require.Equal(t, `'a\\b'`, QuoteLiteral(`a\b`))
}

// TestShellProvisioner_AlreadyInstalled skips installation when the client answers.
func TestShellProvisioner_AlreadyInstalled(t *testing.T) {
	t.Parallel()

	runner := cmdrunner.NewFake()
	require.NoError(t, NewShellProvisioner(runner).EnsureInstalled(context.Background()))
	require.Equal(t, []string{"mysql --version"}, runner.Commands())
}

// TestShellProvisioner_Installs runs the apt and systemctl sequence when mysql is missing.
func TestShellProvisioner_Installs(t *testing.T) {
	t.Parallel()

	runner := cmdrunner.NewFake()
	runner.FailOn("mysql --version", errors.New("not found"))

	require.NoError(t, NewShellProvisioner(runner).EnsureInstalled(context.Background()))
	require.Equal(t, []string{
		"mysql --version",
		"apt update",
		"apt install -y mysql-server",
		"systemctl start mysql",
		"systemctl enable mysql",
	}, runner.Commands())
}

// TestShellProvisioner_InstallFailure stops at the first failing step.
func TestShellProvisioner_InstallFailure(t *testing.T) {
	t.Parallel()

	runner := cmdrunner.NewFake()
	runner.FailOn("mysql --version", errors.New("not found"))
	runner.FailOn("apt install", errors.New("dpkg lock"))

	err := NewShellProvisioner(runner).EnsureInstalled(context.Background())
	require.ErrorIs(t, err, cmdrunner.ErrCommandFailed)
	require.Len(t, runner.Commands(), 3)
}

// TestShellProvisioner_CreateDatabase sends every statement in one client call.
func TestShellProvisioner_CreateDatabase(t *testing.T) {
	t.Parallel()

	runner := cmdrunner.NewFake()
	require.NoError(t, NewShellProvisioner(runner).CreateDatabase(context.Background(), db))

	commands := runner.Commands()
	require.Len(t, commands, 1)
	require.Contains(t, commands[0], "mysql -e CREATE DATABASE IF NOT EXISTS `fivem`;")
	require.Contains(t, commands[0], "FLUSH PRIVILEGES;")
}

// TestManualProvisioner prints instructions and waits twice.
func TestManualProvisioner(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	c := new(confirmer)
	p := NewManualProvisioner(c).WithOutput(&out)

	require.NoError(t, p.EnsureInstalled(context.Background()))
	require.NoError(t, p.CreateDatabase(context.Background(), db))

	require.Len(t, c.messages, 2)
	require.Contains(t, out.String(), "dev.mysql.com")
	require.Contains(t, out.String(), "GRANT ALL PRIVILEGES ON `fivem`.*")
}

// TestManualProvisioner_Canceled propagates a declined confirmation.
func TestManualProvisioner_Canceled(t *testing.T) {
	t.Parallel()

	c := &confirmer{err: context.Canceled}
	err := NewManualProvisioner(c).WithOutput(new(bytes.Buffer)).EnsureInstalled(context.Background())
	require.ErrorIs(t, err, context.Canceled)
}

// TestNewSQLProvisioner_InvalidDSN rejects malformed DSNs.
func TestNewSQLProvisioner_InvalidDSN(t *testing.T) {
	t.Parallel()

	_, err := NewSQLProvisioner("root:secret@tcp(127.0.0.1:3306")
	require.Error(t, err)

	p, err := NewSQLProvisioner("root:secret@tcp(127.0.0.1:3306)/mysql")
	require.NoError(t, err)
	require.Empty(t, p.cfg.DBName)
	require.Equal(t, dialTimeout, p.cfg.Timeout)
}
