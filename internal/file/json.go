package file

// JSON file read/write helpers. Writes go through a temp-file rename so a
// crash mid-write never leaves a truncated list behind.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/helpachild/recordbook/pkg/types"
)

// Store file names inside DataDir.
const (
	recordsFileName = "records.json"
	sheetsFileName  = "sheets.json"
)

func recordsFilePath(dataDir string) string {
	return filepath.Join(dataDir, recordsFileName)
}

func sheetsFilePath(dataDir string) string {
	return filepath.Join(dataDir, sheetsFileName)
}

// ensureListFile creates the file holding an empty JSON array if it does
// not already exist.
func ensureListFile(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return atomic.WriteFile(path, bytes.NewReader([]byte("[]\n")))
}

// readRecords reads and deserializes the full record list. Strict: a missing
// or malformed file surfaces an error wrapping types.ErrStorage.
func readRecords(path string) ([]types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", types.ErrStorage, path, err)
	}
	var records []types.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", types.ErrStorage, path, err)
	}
	return records, nil
}

// writeRecords serializes the full record list and rewrites the file
// atomically. A nil list is written as an empty array.
func writeRecords(path string, records []types.Record) error {
	if records == nil {
		records = []types.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal records: %v", types.ErrStorage, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: write %s: %v", types.ErrStorage, path, err)
	}
	return nil
}

// readSheets reads and deserializes the full sheet list. Strict variant;
// the sheet store's List degrades to empty on error instead of failing.
func readSheets(path string) ([]types.Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", types.ErrStorage, path, err)
	}
	var sheets []types.Sheet
	if err := json.Unmarshal(data, &sheets); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", types.ErrStorage, path, err)
	}
	return sheets, nil
}

// writeSheets serializes the full sheet list and rewrites the file atomically.
func writeSheets(path string, sheets []types.Sheet) error {
	if sheets == nil {
		sheets = []types.Sheet{}
	}
	data, err := json.MarshalIndent(sheets, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal sheets: %v", types.ErrStorage, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: write %s: %v", types.ErrStorage, path, err)
	}
	return nil
}
