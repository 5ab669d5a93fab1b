//go:build !linux

package firewall

import (
	"context"
	"fmt"

	"github.com/oshokin/fivem-installer/internal/config"
)

// IPTables is only available on Linux.
type IPTables struct{}

// NewIPTables always fails outside Linux.
func NewIPTables() (*IPTables, error) {
	return nil, fmt.Errorf("%s: %w", config.FirewallIPTables, ErrUnsupportedBackend)
}

// Name implements Opener.
func (*IPTables) Name() string {
	return config.FirewallIPTables
}

// Open implements Opener.
func (*IPTables) Open(context.Context, int) error {
	return ErrUnsupportedBackend
}
