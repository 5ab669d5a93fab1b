package firewall

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type appender struct {
	rules []string
	err   error
}

func (a *appender) AppendUnique(table, chain string, rulespec ...string) error {
	a.rules = append(a.rules, table+" "+chain+" "+strings.Join(rulespec, " "))

	return a.err
}

// TestIPTables_Open appends one ACCEPT rule per protocol.
func TestIPTables_Open(t *testing.T) {
	t.Parallel()

	client := new(appender)
	opener := &IPTables{client: client}

	require.NoError(t, opener.Open(context.Background(), 30120))
	require.Equal(t, []string{
		"filter INPUT -p tcp --dport 30120 -j ACCEPT",
		"filter INPUT -p udp --dport 30120 -j ACCEPT",
	}, client.rules)
}

// TestIPTables_OpenFailure reports failures for both protocols.
func TestIPTables_OpenFailure(t *testing.T) {
	t.Parallel()

	errLocked := errors.New("xtables lock")
	opener := &IPTables{client: &appender{err: errLocked}}

	err := opener.Open(context.Background(), 30120)
	require.ErrorIs(t, err, errLocked)
	require.Contains(t, err.Error(), "30120/udp")
}
