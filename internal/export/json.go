package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fjacquet/statement-parser/internal/fileutils"
	"fjacquet/statement-parser/internal/models"
	"fjacquet/statement-parser/internal/pipelineerror"
)

// DefaultFilePrefix names export files when no prefix is configured.
const DefaultFilePrefix = "transactions"

// ToJSON renders records as a JSON array indented with two spaces. A ledger
// export parses back with schema.ParseLedger.
func ToJSON[T any](records []T) (string, error) {
	if len(records) == 0 {
		return "", &pipelineerror.ExportError{Kind: pipelineerror.KindEmptyLedger, Format: FormatJSON}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding JSON: %w", err)
	}
	return string(data), nil
}

// FileName returns "<prefix>_<YYYY-MM-DD>.<ext>" using the UTC date of now.
func FileName(prefix, ext string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultFilePrefix
	}
	return fmt.Sprintf("%s_%s.%s", prefix, now.UTC().Format("2006-01-02"), ext)
}

// WriteFile saves content as dir/name and returns the written path.
func WriteFile(dir, name, content string) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, name)
	if err := fileutils.WriteFile(path, []byte(content), os.FileMode(models.PermissionExportFile)); err != nil {
		return "", err
	}
	return path, nil
}
