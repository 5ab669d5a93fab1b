// Package archive resolves the format of a downloaded file from its name.
package archive
