package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/finance-manager/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "users.yaml")
	require.NoError(t, os.WriteFile(testFile, []byte("version: 1"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.yaml")))
	// directories are not files
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "missing")))

	testFile := filepath.Join(tmpDir, "report.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("x"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "data", "exports")

	require.NoError(t, fileutils.EnsureDirectoryExists(nested))
	assert.True(t, fileutils.DirectoryExists(nested))

	// second call is a no-op
	require.NoError(t, fileutils.EnsureDirectoryExists(nested))
}

func TestEnsureDirectoryExists_BlockedByFile(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	err := fileutils.EnsureDirectoryExists(filepath.Join(blocker, "exports"))
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "reports", "2024", "march.txt")

	require.NoError(t, fileutils.WriteFile(target, []byte("FINANCIAL REPORT"), 0644))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "FINANCIAL REPORT", string(data))

	require.NoError(t, fileutils.WriteFile(target, []byte("replaced"), 0644))
	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))
}
