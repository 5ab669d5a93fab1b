package firewall

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/MakeNowJust/heredoc"
	"github.com/hashicorp/go-multierror"

	"github.com/oshokin/fivem-installer/internal/config"
	"github.com/oshokin/fivem-installer/internal/domain/platform"
	"github.com/oshokin/fivem-installer/internal/logger"
	"github.com/oshokin/fivem-installer/internal/service/cmdrunner"
)

// Protocols opened for the server port.
//
//nolint:gochecknoglobals // Read-only list.
var Protocols = []string{"tcp", "udp"}

// ErrUnsupportedBackend is returned when a backend cannot run on this host.
var ErrUnsupportedBackend = errors.New("firewall backend is not supported on this host")

// Opener allows inbound traffic on a port.
type Opener interface {
	// Name identifies the backend in logs.
	Name() string
	// Open allows the port for every protocol.
	Open(ctx context.Context, port int) error
}

// New selects a backend. FirewallAuto picks netsh on Windows, ufw when it is
// installed and iptables otherwise.
func New(backend string, tag platform.Tag, runner cmdrunner.Runner) (Opener, error) {
	if backend == config.FirewallAuto {
		backend = detect(tag)
	}

	switch backend {
	case config.FirewallNone:
		return Nop{}, nil
	case config.FirewallUFW:
		return &UFW{runner: runner}, nil
	case config.FirewallNetsh:
		return &Netsh{runner: runner}, nil
	case config.FirewallIPTables:
		return NewIPTables()
	default:
		return nil, fmt.Errorf("%q: %w", backend, config.ErrUnknownFirewall)
	}
}

func detect(tag platform.Tag) string {
	if tag.IsWindows() {
		return config.FirewallNetsh
	}

	if _, err := exec.LookPath("ufw"); err == nil {
		return config.FirewallUFW
	}

	return config.FirewallIPTables
}

// ManualInstructions tells the operator what to open by hand.
func ManualInstructions(port int) string {
	return heredoc.Docf(`
		Failed to open ports. Please ensure you have the necessary permissions.
		You may need to open TCP and UDP port %d manually in your firewall.
	`, port)
}

// openEach calls open for every protocol and aggregates the failures.
func openEach(ctx context.Context, backend string, port int, open func(protocol string) error) error {
	var result *multierror.Error

	for _, protocol := range Protocols {
		if err := open(protocol); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s %d/%s: %w", backend, port, protocol, err))
			continue
		}

		logger.InfoKV(ctx, "Port opened", "backend", backend, "port", port, "protocol", protocol)
	}

	return result.ErrorOrNil()
}

// Nop leaves the firewall alone.
type Nop struct{}

// Name implements Opener.
func (Nop) Name() string {
	return config.FirewallNone
}

// Open implements Opener.
func (Nop) Open(ctx context.Context, port int) error {
	logger.Infof(ctx, "Firewall configuration skipped, make sure port %d is reachable", port)

	return nil
}

// UFW opens ports with Uncomplicated Firewall.
type UFW struct {
	runner cmdrunner.Runner
}

// Name implements Opener.
func (*UFW) Name() string {
	return config.FirewallUFW
}

// Open implements Opener.
func (u *UFW) Open(ctx context.Context, port int) error {
	return openEach(ctx, u.Name(), port, func(protocol string) error {
		return u.runner.Run(ctx, "ufw", "allow", strconv.Itoa(port)+"/"+protocol)
	})
}

// Netsh adds Windows Defender Firewall rules.
type Netsh struct {
	runner cmdrunner.Runner
}

// Name implements Opener.
func (*Netsh) Name() string {
	return config.FirewallNetsh
}

// Open implements Opener.
func (n *Netsh) Open(ctx context.Context, port int) error {
	return openEach(ctx, n.Name(), port, func(protocol string) error {
		return n.runner.Run(ctx, "netsh", "advfirewall", "firewall", "add", "rule",
			RuleName(protocol), "dir=in", "action=allow",
			"protocol="+upper(protocol), "localport="+strconv.Itoa(port))
	})
}

// RuleName returns the netsh rule name argument for a protocol.
func RuleName(protocol string) string {
	return "name=FiveM Server (" + upper(protocol) + ")"
}

func upper(protocol string) string {
	switch protocol {
	case "tcp":
		return "TCP"
	case "udp":
		return "UDP"
	default:
		return protocol
	}
}
