// Package integration holds end-to-end tests running the installation
// building blocks together in the working directory, the way the CLI does.
package integration
