package extractor

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/oshokin/fivem-installer/internal/domain/archive"
)

type member struct {
	name string
	body string
}

//nolint:gochecknoglobals // Shared fixture.
var members = []member{
	{name: ".gitignore", body: "from-archive\n"},
	{name: "alpine/opt/cfx-server/FXServer", body: "binary"},
	{name: "run.sh", body: "#!/bin/sh\n"},
	{name: "../escaped.txt", body: "outside\n"},
}

func writeZip(t *testing.T, path string) {
	t.Helper()

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.Create(m.name)
		require.NoError(t, err)

		_, err = w.Write([]byte(m.body))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func writeTarXZ(t *testing.T, path string) {
	t.Helper()

	var buf bytes.Buffer

	xw, err := xz.NewWriter(&buf)
	require.NoError(t, err)

	tw := tar.NewWriter(xw)
	for _, m := range members {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     m.name,
			Mode:     0o644,
			Size:     int64(len(m.body)),
			Typeflag: tar.TypeReg,
		}))

		_, err = tw.Write([]byte(m.body))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, xw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

// copySevenZip installs testdata/server.7z, which holds the same members
// stored with the copy method.
func copySevenZip(t *testing.T, path string) {
	t.Helper()

	data, err := os.ReadFile(sevenZipFixture)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func fixtures() map[string]func(*testing.T, string) {
	return map[string]func(*testing.T, string){
		"cfx-server-data.zip": writeZip,
		"fx.tar.xz":           writeTarXZ,
		"server.7z":           copySevenZip,
	}
}

//nolint:gochecknoglobals // Resolved once so tests that change directory can still read it.
var sevenZipFixture = mustAbs(filepath.Join("testdata", "server.7z"))

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}

	return abs
}

// TestExtractAndRemove_KeepsExistingMarker leaves a pre-existing ignore marker untouched.
func TestExtractAndRemove_KeepsExistingMarker(t *testing.T) {
	t.Parallel()

	for name, build := range fixtures() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			archivePath := filepath.Join(t.TempDir(), name)
			build(t, archivePath)

			markerPath := filepath.Join(dir, IgnoreMarker)
			require.NoError(t, os.WriteFile(markerPath, []byte("local rules\n"), 0o600))
			require.NoError(t, os.WriteFile(filepath.Join(dir, "run.sh"), []byte("old"), 0o600))

			err := New(WithDir(dir)).ExtractAndRemove(context.Background(), archivePath)
			require.NoError(t, err)

			marker, err := os.ReadFile(markerPath)
			require.NoError(t, err)
			require.Equal(t, "local rules\n", string(marker))

			// Other members overwrite existing files.
			run, err := os.ReadFile(filepath.Join(dir, "run.sh"))
			require.NoError(t, err)
			require.Equal(t, "#!/bin/sh\n", string(run))

			_, err = os.Stat(archivePath)
			require.ErrorIs(t, err, os.ErrNotExist)
		})
	}
}

// TestExtractAndRemove_CreatesMissingMarker writes the marker from the archive when absent.
func TestExtractAndRemove_CreatesMissingMarker(t *testing.T) {
	t.Parallel()

	for name, build := range fixtures() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			archivePath := filepath.Join(dir, name)
			build(t, archivePath)

			err := New(WithDir(dir)).ExtractAndRemove(context.Background(), archivePath)
			require.NoError(t, err)

			marker, err := os.ReadFile(filepath.Join(dir, IgnoreMarker))
			require.NoError(t, err)
			require.Equal(t, "from-archive\n", string(marker))

			server, err := os.ReadFile(filepath.Join(dir, "alpine", "opt", "cfx-server", "FXServer"))
			require.NoError(t, err)
			require.Equal(t, "binary", string(server))

			require.NoFileExists(t, filepath.Join(dir, "..", "escaped.txt"))

			_, err = os.Stat(archivePath)
			require.ErrorIs(t, err, os.ErrNotExist)
		})
	}
}

// TestExtractAndRemove_WorkingDirectory unpacks into the working directory by default.
func TestExtractAndRemove_WorkingDirectory(t *testing.T) {
	for name, build := range fixtures() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			build(t, filepath.Join(dir, name))
			t.Chdir(dir)

			err := New().ExtractAndRemove(context.Background(), name)
			require.NoError(t, err)

			run, err := os.ReadFile("run.sh")
			require.NoError(t, err)
			require.Equal(t, "#!/bin/sh\n", string(run))

			marker, err := os.ReadFile(IgnoreMarker)
			require.NoError(t, err)
			require.Equal(t, "from-archive\n", string(marker))

			require.FileExists(t, filepath.Join("alpine", "opt", "cfx-server", "FXServer"))
			require.NoFileExists(t, filepath.Join("..", "escaped.txt"))
			require.NoFileExists(t, name)
		})
	}
}

// TestExtract_RelativeDestination resolves a relative destination against the working directory.
func TestExtract_RelativeDestination(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "fx.tar.xz")
	writeTarXZ(t, archivePath)
	t.Chdir(dir)

	err := New(WithDir("./server")).Extract(context.Background(), archivePath, archive.TarXZ)
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(dir, "server", "run.sh"))
	require.FileExists(t, filepath.Join(dir, "server", IgnoreMarker))
	require.FileExists(t, archivePath)
}

// TestExtractAndRemove_UnsupportedFormat rejects unknown suffixes and keeps the input file.
func TestExtractAndRemove_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "server.rar")
	require.NoError(t, os.WriteFile(archivePath, []byte("Rar!"), 0o600))

	err := New(WithDir(dir)).ExtractAndRemove(context.Background(), archivePath)
	require.ErrorIs(t, err, archive.ErrUnsupportedFormat)

	_, err = os.Stat(archivePath)
	require.NoError(t, err)
}

// TestExtractAndRemove_CorruptArchiveIsKept leaves a broken archive on disk for inspection.
func TestExtractAndRemove_CorruptArchiveIsKept(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, name := range []string{"fx.tar.xz", "server.7z"} {
		archivePath := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(archivePath, []byte("definitely not an archive"), 0o600))

		err := New(WithDir(dir)).ExtractAndRemove(context.Background(), archivePath)
		require.Error(t, err, name)

		_, err = os.Stat(archivePath)
		require.NoError(t, err, name)
	}
}

// TestIsIgnoreMarker matches only the top-level marker.
func TestIsIgnoreMarker(t *testing.T) {
	t.Parallel()

	require.True(t, IsIgnoreMarker(".gitignore"))
	require.True(t, IsIgnoreMarker("./.gitignore"))
	require.False(t, IsIgnoreMarker("cfx-server-data-master/.gitignore"))
	require.False(t, IsIgnoreMarker(".gitignore.bak"))
}

// TestSafeJoin rejects members escaping the destination.
func TestSafeJoin(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	got, err := safeJoin(dir, "resources/chat/fxmanifest.lua")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "resources", "chat", "fxmanifest.lua"), got)

	_, err = safeJoin(dir, "../../etc/passwd")
	require.ErrorIs(t, err, errUnsafePath)

	_, err = safeJoin(dir, "..")
	require.ErrorIs(t, err, errUnsafePath)
}

// TestMemberFilter skips escaping members and keeps regular ones.
func TestMemberFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	filter := memberFilter(context.Background(), dir)

	require.Equal(t, "run.sh", filter("run.sh"))
	require.Equal(t, IgnoreMarker, filter(IgnoreMarker))
	require.Empty(t, filter("../../etc/cron.d/evil"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, IgnoreMarker), nil, 0o600))
	require.Empty(t, filter("./.gitignore"))
}
