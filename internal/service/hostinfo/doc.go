// Package hostinfo maps the running host onto a supported platform tag.
package hostinfo
