// Package mysql installs a local MySQL server and creates the FiveM database.
//
// Three provisioners are available:
//   - ShellProvisioner drives apt, systemctl and the mysql client on Debian-based hosts;
//   - ManualProvisioner prints instructions and waits for the operator on Windows;
//   - SQLProvisioner talks to an existing server through an administrator DSN.
package mysql
