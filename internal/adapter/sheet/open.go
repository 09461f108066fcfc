package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Open loads a .csv or .xlsx file, chosen by extension. opts only applies
// to CSV input.
func Open(path string, opts CSVOptions) (*Table, error) {
	switch ext(path) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return ReadCSV(f, opts)
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported sheet format %q", filepath.Ext(path))
	}
}

// Save writes t to path as .csv or .xlsx, chosen by extension.
func Save(path string, t *Table, opts CSVOptions) error {
	switch ext(path) {
	case ".csv", ".txt":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := WriteCSV(f, t, opts); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case ".xlsx", ".xlsm":
		return WriteXLSX(path, t)
	default:
		return fmt.Errorf("unsupported sheet format %q", filepath.Ext(path))
	}
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
