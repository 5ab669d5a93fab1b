// Package firewall opens the FXServer port for inbound TCP and UDP traffic.
//
// Backends: ufw and iptables on Linux, netsh on Windows. Both protocols are
// always attempted and failures are reported together.
package firewall
