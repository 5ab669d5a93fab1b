package firewall

import (
	"context"
	"fmt"
	"strconv"

	"github.com/coreos/go-iptables/iptables"

	"github.com/oshokin/fivem-installer/internal/config"
)

const (
	filterTable = "filter"
	inputChain  = "INPUT"
)

type ruleAppender interface {
	AppendUnique(table, chain string, rulespec ...string) error
}

// IPTables appends ACCEPT rules to the INPUT chain.
type IPTables struct {
	client ruleAppender
}

// NewIPTables locates the iptables binary.
func NewIPTables() (*IPTables, error) {
	client, err := iptables.New()
	if err != nil {
		return nil, fmt.Errorf("iptables: %w", err)
	}

	return &IPTables{client: client}, nil
}

// Name implements Opener.
func (*IPTables) Name() string {
	return config.FirewallIPTables
}

// Open implements Opener.
func (i *IPTables) Open(ctx context.Context, port int) error {
	return openEach(ctx, i.Name(), port, func(protocol string) error {
		return i.client.AppendUnique(filterTable, inputChain, Rule(protocol, port)...)
	})
}

// Rule returns the rulespec accepting port for protocol.
func Rule(protocol string, port int) []string {
	return []string{"-p", protocol, "--dport", strconv.Itoa(port), "-j", "ACCEPT"}
}
