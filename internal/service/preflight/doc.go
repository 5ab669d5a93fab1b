// Package preflight refuses to install over a running FXServer.
package preflight
