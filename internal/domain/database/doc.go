// Package database holds the MySQL credentials written into server.cfg.
//
// Credentials are all-or-nothing: either every field is a real value or the
// whole triple is the Unset sentinel.
package database
