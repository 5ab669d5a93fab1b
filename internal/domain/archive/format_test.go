package archive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFormatFromName maps known suffixes and rejects everything else.
func TestFormatFromName(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]Format{
		"server.7z":           SevenZip,
		"fx.tar.xz":           TarXZ,
		"cfx-server-data.zip": Zip,
		"dir/nested.zip":      Zip,
	} {
		got, err := FormatFromName(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}

	for _, name := range []string{"server.rar", "fx.tar.gz", "fx.xz", "zip", ""} {
		_, err := FormatFromName(name)
		require.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}

// TestFormatString gives every format a readable name.
func TestFormatString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "7z", SevenZip.String())
	require.Equal(t, "tar.xz", TarXZ.String())
	require.Equal(t, "zip", Zip.String())
	require.Equal(t, "Format(0)", Format(0).String())
}
