package mysql

import (
	"context"
	"io"
	"os"

	"github.com/pterm/pterm"

	"github.com/oshokin/fivem-installer/internal/domain/database"
)

// ManualProvisioner asks the operator to do the work.
type ManualProvisioner struct {
	confirmer Confirmer
	out       io.Writer
}

// NewManualProvisioner creates a ManualProvisioner printing to stdout.
func NewManualProvisioner(confirmer Confirmer) *ManualProvisioner {
	return &ManualProvisioner{confirmer: confirmer, out: os.Stdout}
}

// WithOutput redirects printed instructions.
func (p *ManualProvisioner) WithOutput(out io.Writer) *ManualProvisioner {
	p.out = out

	return p
}

// EnsureInstalled points at the installers and waits until MySQL is installed.
func (p *ManualProvisioner) EnsureInstalled(ctx context.Context) error {
	pterm.Warning.WithWriter(p.out).Println("Please install MySQL manually from one of:")

	for _, link := range DownloadURLs {
		pterm.DefaultBasicText.WithWriter(p.out).Println("  " + link)
	}

	return p.confirmer.WaitForConfirmation(ctx, "Press Enter when you have completed the MySQL installation")
}

// CreateDatabase prints the statements to run and waits until they are done.
func (p *ManualProvisioner) CreateDatabase(ctx context.Context, db database.Config) error {
	pterm.Info.WithWriter(p.out).Println("Please run the following commands in your MySQL client:")

	for _, statement := range Statements(db) {
		pterm.DefaultBasicText.WithWriter(p.out).Println("  " + statement)
	}

	return p.confirmer.WaitForConfirmation(ctx, "Press Enter when you have completed these steps")
}
