// Package privilege detects administrator rights and relaunches the installer
// with them: through sudo on Unix and the UAC "runas" verb on Windows.
package privilege
