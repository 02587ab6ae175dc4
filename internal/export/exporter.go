// Package export derives spreadsheet files from record snapshots. The
// workbook mirrors the record list: one row per record, one column per
// distinct field, the reserved id field excluded.
package export

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/helpachild/recordbook/pkg/types"
)

// File names inside the export directory.
const (
	canonicalFileName = "records.xlsx"
	worksheetName     = "Sheet1"
)

// CanonicalPath returns the path of the full, unfiltered export.
func CanonicalPath(exportDir string) string {
	return filepath.Join(exportDir, canonicalFileName)
}

// SheetPath returns the path of a group-scoped export. The id is
// path-escaped so the file always lands inside exportDir even when the
// id carries separators or parent references.
func SheetPath(exportDir, sheetID string) string {
	return filepath.Join(exportDir, fmt.Sprintf("sheet-%s.xlsx", url.PathEscape(sheetID)))
}

// Exporter writes xlsx workbooks from record snapshots.
type Exporter struct {
	log zerolog.Logger
}

// New creates an Exporter.
func New(log zerolog.Logger) *Exporter {
	return &Exporter{log: log}
}

// Export writes one workbook at path: a header row with the union of field
// names across records (id excluded), then one row per record in list order.
// An empty record list produces a valid workbook with no rows at all. The
// destination directory is created if needed and the file is overwritten.
func (e *Exporter) Export(records []types.Record, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	columns := unionColumns(records)
	if len(columns) > 0 {
		header := make([]any, len(columns))
		for i, col := range columns {
			header[i] = col
		}
		if err := f.SetSheetRow(worksheetName, "A1", &header); err != nil {
			return fmt.Errorf("write header row: %w", err)
		}

		for i, rec := range records {
			row := make([]any, len(columns))
			for j, col := range columns {
				row[j] = cellValue(rec[col])
			}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return fmt.Errorf("row coordinates: %w", err)
			}
			if err := f.SetSheetRow(worksheetName, cell, &row); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	e.log.Debug().Str("path", path).Int("rows", len(records)).Msg("export written")
	return nil
}

// RegenerateHook returns a records-changed hook that rewrites the canonical
// export after every record mutation. Export failures are logged, not
// surfaced: the record write already succeeded and the next mutation will
// rewrite the workbook anyway.
func (e *Exporter) RegenerateHook(exportDir string) func([]types.Record) {
	path := CanonicalPath(exportDir)
	return func(records []types.Record) {
		if err := e.Export(records, path); err != nil {
			e.log.Error().Err(err).Str("path", path).Msg("export regeneration failed")
		}
	}
}

// unionColumns collects the distinct field names across records in
// first-appearance order (keys within one record ordered alphabetically),
// excluding the reserved id field.
func unionColumns(records []types.Record) []string {
	var columns []string
	seen := make(map[string]bool)
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if k == types.FieldID || seen[k] {
				continue
			}
			seen[k] = true
			columns = append(columns, k)
		}
	}
	return columns
}

// cellValue maps a record field to a spreadsheet cell. Scalars pass through;
// composite values are JSON-encoded; absent fields become empty cells.
func cellValue(v any) any {
	switch v := v.(type) {
	case nil:
		return ""
	case string, bool, float64, float32, int, int64, json.Number:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
