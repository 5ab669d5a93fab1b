// Package locator finds the newest FiveM server build on an artifact listing page.
//
// The listing is a plain HTML index. Every link whose name carries the
// platform's build marker is a candidate; candidates are ranked by the first
// run of digits in their name (the build number).
package locator
