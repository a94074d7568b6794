// Package fileutils provides the file operations used by the CLI: reading
// statements, sniffing their type and writing exports.
package fileutils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/statement-parser/internal/models"

	"github.com/gabriel-vasile/mimetype"
)

// StatementExtensions lists the file extensions picked up as statements.
var StatementExtensions = []string{".pdf", ".csv"}

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, models.PermissionDirectory); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// ReadFile reads the entire contents of a file and returns it as a byte slice
func ReadFile(filePath string) ([]byte, error) {
	if !FileExists(filePath) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// WriteFile writes data to a file, creating any parent directories if needed
func WriteFile(filePath string, data []byte, perm os.FileMode) error {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, perm); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// DetectMIMEType sniffs the content type of a statement. CSV files are often
// detected as plain text; the .csv extension then decides.
func DetectMIMEType(filePath string, data []byte) string {
	detected := mimetype.Detect(data)

	switch {
	case detected.Is("application/pdf"):
		return "application/pdf"
	case detected.Is("text/csv"):
		return "text/csv"
	case strings.EqualFold(filepath.Ext(filePath), ".csv") && isText(detected):
		return "text/csv"
	}
	return detected.String()
}

func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// ListStatementFiles returns the statement files directly inside dirPath,
// sorted by name. Subdirectories are not searched.
func ListStatementFiles(dirPath string) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.Type()&fs.ModeType != 0 {
			continue
		}
		if isStatement(entry.Name()) {
			files = append(files, filepath.Join(dirPath, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func isStatement(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range StatementExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// BaseName returns the file name without directory and extension.
func BaseName(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
