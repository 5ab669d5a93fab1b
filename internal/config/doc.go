// Package config defines the installation answers (platform, server identity,
// MySQL and firewall choices, download sources) and helpers to load, validate
// and save them in YAML format.
//
// Answers are either collected interactively or read from a file, so a run can
// be repeated unattended.
package config
