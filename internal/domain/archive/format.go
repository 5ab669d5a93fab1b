package archive

import (
	"errors"
	"fmt"
	"strings"
)

// Format is an archive container the installer knows how to unpack.
type Format int

const (
	// SevenZip is a .7z archive (Windows server builds).
	SevenZip Format = iota + 1
	// TarXZ is an xz-compressed tarball (Linux server builds).
	TarXZ
	// Zip is a .zip archive (cfx-server-data bundle).
	Zip
)

// ErrUnsupportedFormat is returned for file names with no known archive suffix.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// suffixes is ordered by precedence.
//
//nolint:gochecknoglobals // Read-only lookup table.
var suffixes = []struct {
	suffix string
	format Format
}{
	{".7z", SevenZip},
	{".tar.xz", TarXZ},
	{".zip", Zip},
}

// FormatFromName picks the format from the file name suffix alone.
func FormatFromName(name string) (Format, error) {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s.suffix) {
			return s.format, nil
		}
	}

	return 0, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
}

func (f Format) String() string {
	switch f {
	case SevenZip:
		return "7z"
	case TarXZ:
		return "tar.xz"
	case Zip:
		return "zip"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}
