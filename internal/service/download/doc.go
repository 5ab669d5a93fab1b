// Package download streams remote artifacts to local files.
//
// Downloads are never resumed or retried: an existing destination file is
// truncated, and the first failure is returned to the caller.
package download
