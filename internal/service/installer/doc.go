// Package installer runs the FiveM server installation pipeline.
//
// The pipeline resolves answers, refuses to run over a live server, downloads
// and unpacks the newest FXServer build, optionally provisions MySQL, installs
// the cfx-server-data resources with fresh configuration files, opens the
// firewall and prints how to start the server. Every step except the firewall
// is fatal on failure.
package installer
