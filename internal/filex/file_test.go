package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateInDir_CreatesNestedDirAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads", "devices")

	f, err := CreateInDir(dir, "abc.bin")
	require.NoError(t, err)
	_, err = f.WriteString("x")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, err := os.ReadFile(filepath.Join(dir, "abc.bin"))
	require.NoError(t, err)
	require.Equal(t, "x", string(got))
}

func TestCreateInDir_RefusesExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.bin"), []byte("old"), 0o600))

	_, err := CreateInDir(dir, "abc.bin")
	require.Error(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "abc.bin"))
	require.NoError(t, err)
	require.Equal(t, "old", string(got))
}

func TestCreateInDir_StripsPathFromName(t *testing.T) {
	dir := t.TempDir()

	f, err := CreateInDir(dir, "../escape.bin")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = os.Stat(filepath.Join(dir, "escape.bin"))
	require.NoError(t, err)
}

func TestCreateInDir_MkdirFails(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := CreateInDir(filepath.Join(blocker, "sub"), "a.bin")
	require.Error(t, err)
}
