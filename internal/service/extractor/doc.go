// Package extractor unpacks downloaded archives into the installation directory.
//
// The archive format comes from the file name. Every member is written over
// existing files except the ignore marker (.gitignore), which is only created
// when missing so a versioned server directory keeps its own rules. Members
// resolving outside the destination are skipped. The archive is deleted after
// a successful extraction and kept on failure.
package extractor
