// Package validation checks user-supplied files and formats before a
// command does any work.
package validation

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fjacquet/finance-manager/internal/report"
	"fjacquet/finance-manager/internal/walleterror"
)

// ImportFile checks that path names an existing regular file.
func ImportFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return walleterror.NewValidationError("file", "cannot be empty")
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return walleterror.NewValidationError("file", fmt.Sprintf("does not exist: %s", path))
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return walleterror.NewValidationError("file", fmt.Sprintf("not a regular file: %s", path))
	}
	return nil
}

// OutputFormat checks that format is one the report generator can render.
// An empty format means text.
func OutputFormat(format string) error {
	switch format {
	case "", report.FormatText, report.FormatJSON, report.FormatYAML:
		return nil
	default:
		return walleterror.NewValidationError("format",
			fmt.Sprintf("unsupported output format '%s', expected text, json or yaml", format))
	}
}

// FilePermissions reports files that others may read or write. User files
// hold password hashes.
func FilePermissions(mode os.FileMode) error {
	if mode.Perm()&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s, recommended 0600", mode.Perm().String())
	}
	return nil
}
