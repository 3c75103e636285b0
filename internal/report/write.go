// Package report writes analysis results to disk as formatted JSON.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFilename is used when the caller does not name an output file.
const DefaultFilename = "profile_analysis_results.json"

// Write marshals v as indented JSON and writes it to path atomically.
// The data goes to a temporary file in the target directory first and
// is renamed into place, so a failed run never leaves a partial report.
func Write(path string, v any) error {
	if path == "" {
		path = DefaultFilename
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary report file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing report file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("finalizing report: %w", err)
	}
	return nil
}
