// Package version reports which installer build is running.
//
// Version, Commit and BuildTime come from ldflags; binaries built without
// them fall back to the module version and VCS stamp recorded by the Go
// toolchain. UserAgent tags every request made to the artifact server.
package version
