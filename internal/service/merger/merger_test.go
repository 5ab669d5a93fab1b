package merger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	root      = "cfx-server-data-master"
	namespace = "[FiveM]"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func bundle(t *testing.T, dir string) {
	t.Helper()

	writeFile(t, filepath.Join(dir, root, "resources", "[gameplay]", "chat", "fxmanifest.lua"), "chat")
	writeFile(t, filepath.Join(dir, root, "resources", "[system]", "sessionmanager", "fxmanifest.lua"), "session")
	writeFile(t, filepath.Join(dir, root, "README.md"), "readme")
}

// TestMergeResources_CreatesNamespace moves bundled entries into a fresh resources folder.
func TestMergeResources_CreatesNamespace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bundle(t, dir)

	err := New(WithDir(dir)).MergeResources(context.Background(), root, namespace)
	require.NoError(t, err)

	ns := filepath.Join(dir, "resources", namespace)
	require.Equal(t, "chat", readFile(t, filepath.Join(ns, "[gameplay]", "chat", "fxmanifest.lua")))
	require.Equal(t, "session", readFile(t, filepath.Join(ns, "[system]", "sessionmanager", "fxmanifest.lua")))

	_, err = os.Stat(filepath.Join(dir, root))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestMergeResources_PreservesUnrelatedEntries keeps custom resources next to the namespace.
func TestMergeResources_PreservesUnrelatedEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bundle(t, dir)

	custom := filepath.Join(dir, "resources", "my-resource", "fxmanifest.lua")
	writeFile(t, custom, "mine")

	err := New(WithDir(dir)).MergeResources(context.Background(), root, namespace)
	require.NoError(t, err)

	require.Equal(t, "mine", readFile(t, custom))

	entries, err := os.ReadDir(filepath.Join(dir, "resources"))
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	require.ElementsMatch(t, []string{"my-resource", namespace}, names)
}

// TestMergeResources_ReplacesCollisions overwrites a namespace entry with the bundled one.
func TestMergeResources_ReplacesCollisions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bundle(t, dir)

	stale := filepath.Join(dir, "resources", namespace, "[gameplay]", "old.lua")
	writeFile(t, stale, "stale")

	err := New(WithDir(dir)).MergeResources(context.Background(), root, namespace)
	require.NoError(t, err)

	_, err = os.Stat(stale)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, "chat", readFile(t, filepath.Join(dir, "resources", namespace, "[gameplay]", "chat", "fxmanifest.lua")))
}

// TestMergeResources_MissingSource fails when the bundle has no resources folder.
func TestMergeResources_MissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, root, "README.md"), "readme")

	err := New(WithDir(dir)).MergeResources(context.Background(), root, namespace)
	require.ErrorIs(t, err, errMissingResources)
}

// TestCopyTree copies nested files for the cross-device fallback.
func TestCopyTree(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "chat")
	writeFile(t, filepath.Join(src, "client", "main.lua"), "client")
	writeFile(t, filepath.Join(src, "fxmanifest.lua"), "manifest")

	dst := filepath.Join(t.TempDir(), "chat")
	require.NoError(t, copyTree(src, dst))

	require.Equal(t, "client", readFile(t, filepath.Join(dst, "client", "main.lua")))
	require.Equal(t, "manifest", readFile(t, filepath.Join(dst, "fxmanifest.lua")))
}
