package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/oshokin/fivem-installer/internal/domain/database"
)

// Provisioner prepares a MySQL server for FXServer.
type Provisioner interface {
	// EnsureInstalled makes sure a server is installed and running.
	EnsureInstalled(ctx context.Context) error
	// CreateDatabase creates the database and a local user owning it.
	CreateDatabase(ctx context.Context, db database.Config) error
}

// Confirmer blocks until the operator acknowledges a manual step.
type Confirmer interface {
	WaitForConfirmation(ctx context.Context, message string) error
}

// DownloadURLs point Windows operators at MySQL installers.
//
//nolint:gochecknoglobals // Read-only list.
var DownloadURLs = []string{
	"https://www.apachefriends.org/en/index.html",
	"https://dev.mysql.com/downloads/installer/",
}

// Statements returns the SQL creating db and its user, in execution order.
// Identifiers and literals are quoted, so names need no validation.
func Statements(db database.Config) []string {
	name := QuoteIdentifier(db.Name)
	account := QuoteLiteral(db.User) + "@'localhost'"

	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s;", name),
		fmt.Sprintf("CREATE USER IF NOT EXISTS %s IDENTIFIED BY %s;", account, QuoteLiteral(db.Password)),
		fmt.Sprintf("GRANT ALL PRIVILEGES ON %s.* TO %s;", name, account),
		"FLUSH PRIVILEGES;",
	}
}

// QuoteIdentifier quotes a schema name with backticks.
func QuoteIdentifier(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// QuoteLiteral quotes a string literal with single quotes.
func QuoteLiteral(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`)

	return "'" + replacer.Replace(s) + "'"
}
