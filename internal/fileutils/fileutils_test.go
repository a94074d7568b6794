package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/statement-parser/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	err := os.WriteFile(testFile, []byte("test"), 0600)
	require.NoError(t, err)

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	// Directories are not files
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestReadAndWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "nested", "dir", "out.csv")

	require.NoError(t, fileutils.WriteFile(target, []byte("hello"), 0600))

	data, err := fileutils.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	_, err = fileutils.ReadFile(filepath.Join(tmpDir, "missing.pdf"))
	assert.Error(t, err)
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		name string
		path string
		data []byte
		want string
	}{
		{name: "pdf", path: "statement.pdf", data: []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"), want: "application/pdf"},
		{name: "pdf with wrong extension", path: "statement.csv", data: []byte("%PDF-1.7\n"), want: "application/pdf"},
		{name: "csv", path: "statement.csv", data: []byte("date,description,amount\n2023-01-01,Coffee,-4.50\n2023-01-02,Salary,2000\n"), want: "text/csv"},
		{name: "single column csv by extension", path: "statement.csv", data: []byte("amount\n1\n2\n"), want: "text/csv"},
		{name: "png", path: "statement.csv", data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), want: "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fileutils.DetectMIMEType(tt.path, tt.data))
		})
	}
}

func TestListStatementFiles(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.CSV", "notes.txt", "c.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "sub.pdf"), 0750))

	files, err := fileutils.ListStatementFiles(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.CSV"),
		filepath.Join(tmpDir, "b.pdf"),
		filepath.Join(tmpDir, "c.csv"),
	}, files)

	_, err = fileutils.ListStatementFiles(filepath.Join(tmpDir, "missing"))
	assert.Error(t, err)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "january", fileutils.BaseName("/tmp/in/january.pdf"))
	assert.Equal(t, "archive.2023", fileutils.BaseName("archive.2023.csv"))
}
