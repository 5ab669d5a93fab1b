// Package cmdrunner runs external commands (package managers, service
// managers, firewall tools) behind an interface that tests can replace.
package cmdrunner
