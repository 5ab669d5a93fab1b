package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Tag identifies the target host of a run. It is chosen once and never changes.
type Tag string

// Family groups tags sharing the same server build.
type Family string

const (
	// Windows hosts run the Windows server build.
	Windows Tag = "windows"
	// Ubuntu hosts run the Linux build and use apt/ufw.
	Ubuntu Tag = "ubuntu"
	// Debian hosts run the Linux build and use apt/ufw.
	Debian Tag = "debian"
)

const (
	// FamilyWindows is served from the Windows listing page.
	FamilyWindows Family = "windows"
	// FamilyLinux is served from the proot Linux listing page.
	FamilyLinux Family = "linux"
)

const (
	// WindowsListingURL lists the Windows server builds.
	WindowsListingURL = "https://runtime.fivem.net/artifacts/fivem/build_server_windows/master/"
	// LinuxListingURL lists the Linux server builds.
	LinuxListingURL = "https://runtime.fivem.net/artifacts/fivem/build_proot_linux/master/"
)

// ErrUnsupportedPlatform is returned for hosts the installer cannot target.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// All returns every supported tag in prompt order.
func All() []Tag {
	return []Tag{Windows, Ubuntu, Debian}
}

// LinuxDistributions returns the tags offered when the host runs Linux.
func LinuxDistributions() []Tag {
	return []Tag{Ubuntu, Debian}
}

// Parse converts user input into a Tag.
func Parse(s string) (Tag, error) {
	tag := Tag(strings.ToLower(strings.TrimSpace(s)))
	if !tag.Valid() {
		return "", fmt.Errorf("%q: %w", s, ErrUnsupportedPlatform)
	}

	return tag, nil
}

// Valid reports whether t is one of the supported tags.
func (t Tag) Valid() bool {
	switch t {
	case Windows, Ubuntu, Debian:
		return true
	default:
		return false
	}
}

// String returns the display name of the tag.
func (t Tag) String() string {
	switch t {
	case Windows:
		return "Windows"
	case Ubuntu:
		return "Ubuntu"
	case Debian:
		return "Debian"
	default:
		return string(t)
	}
}

// Family returns the build family of the tag.
func (t Tag) Family() Family {
	if t == Windows {
		return FamilyWindows
	}

	return FamilyLinux
}

// IsWindows reports whether commands must use the Windows dialect.
func (t Tag) IsWindows() bool {
	return t.Family() == FamilyWindows
}

// ListingURL returns the default listing page for the family.
func (f Family) ListingURL() string {
	if f == FamilyWindows {
		return WindowsListingURL
	}

	return LinuxListingURL
}

// BuildMarker is the substring a listing entry must contain to be a build of the family.
func (f Family) BuildMarker() string {
	if f == FamilyWindows {
		return "server"
	}

	return "fx.tar"
}

// ArtifactFilename is the local name the downloaded build is saved under.
func (f Family) ArtifactFilename() string {
	if f == FamilyWindows {
		return "server.7z"
	}

	return "fx.tar.xz"
}

// StartCommand is the command printed after a successful installation.
func (f Family) StartCommand() string {
	if f == FamilyWindows {
		return "FXServer.exe +exec server.cfg"
	}

	return "./run.sh +exec server.cfg"
}
