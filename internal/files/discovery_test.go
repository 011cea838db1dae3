package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscovery_FindInputFiles(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"a.csv", "b.XLSX", "notes.txt", "c.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	files, err := NewDiscovery(dir).FindInputFiles()
	require.NoError(t, err)

	require.Len(t, files, 2)
	names := []string{files[0].Name, files[1].Name}
	assert.Contains(t, names, "a.csv")
	assert.Contains(t, names, "b.XLSX")
}

func TestDiscovery_Latest(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "older.csv")
	newer := filepath.Join(dir, "newer.csv")
	require.NoError(t, os.WriteFile(older, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("x"), 0644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	latest, err := NewDiscovery(dir).Latest()
	require.NoError(t, err)
	assert.Equal(t, newer, latest)
}

func TestDiscovery_Latest_Empty(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).Latest()
	assert.Error(t, err)
}

func TestDiscovery_MissingDirectory(t *testing.T) {
	_, err := NewDiscovery(filepath.Join(t.TempDir(), "nope")).FindInputFiles()
	assert.Error(t, err)
}
