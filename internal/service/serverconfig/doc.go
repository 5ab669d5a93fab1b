// Package serverconfig renders server.cfg and resources.cfg.
//
// server.cfg is rewritten on every run. resources.cfg is created once and then
// owned by the server operator. Files are replaced atomically and verified
// against a SHA-256 checksum of the rendered content.
package serverconfig
