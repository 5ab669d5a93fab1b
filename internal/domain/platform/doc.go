// Package platform enumerates the hosts the installer supports.
//
// A Tag picks the artifact listing page, the artifact file name and the
// command dialect (apt/ufw versus netsh) used for the rest of the run.
package platform
