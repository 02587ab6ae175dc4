package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/helpachild/recordbook/pkg/types"
)

// Compile-time interface check.
var _ types.SheetStore = (*sheetStore)(nil)

// sheetStore implements types.SheetStore over the sheets table.
type sheetStore struct {
	backend *Backend
}

// List returns every sheet in insertion order (rowid order). Scan failures
// degrade to an empty list, matching the lenient file-backend behavior.
func (s *sheetStore) List() ([]types.Sheet, error) {
	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}

	sheets, err := listSheets(b.db)
	if err != nil {
		b.log.Warn().Err(err).Msg("sheet list unreadable, treating as empty")
		return []types.Sheet{}, nil
	}
	return sheets, nil
}

// Create stores a new sheet and returns it.
func (s *sheetStore) Create(name string) (types.Sheet, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.Sheet{}, types.ErrDetached
	}

	sheet := types.NewSheet(newID(), name)
	_, err := b.db.Exec(
		"INSERT INTO sheets (sheet_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		sheet.SheetID, sheet.Name,
		sheet.CreatedAt.Format(time.RFC3339Nano),
		sheet.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return types.Sheet{}, fmt.Errorf("insert sheet: %w", err)
	}
	return sheet, nil
}

// Rename updates the sheet name (blank trimmed names keep the old name) and
// refreshes its updatedAt timestamp.
func (s *sheetStore) Rename(id, name string) (types.Sheet, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.Sheet{}, types.ErrDetached
	}

	sheet, err := getSheet(b.db, id)
	if err != nil {
		return types.Sheet{}, err
	}
	sheet.Rename(name)

	_, err = b.db.Exec(
		"UPDATE sheets SET name = ?, updated_at = ? WHERE sheet_id = ?",
		sheet.Name, sheet.UpdatedAt.Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return types.Sheet{}, fmt.Errorf("update sheet: %w", err)
	}
	return sheet, nil
}

// Delete removes the sheet and its records in a single transaction, so the
// cascade cannot leave orphaned records behind.
func (s *sheetStore) Delete(id string) error {
	snapshot, err := s.backend.mutateRecords(func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM sheets WHERE sheet_id = ?", id)
		if err != nil {
			return fmt.Errorf("delete sheet: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return types.ErrNotFound
		}
		if _, err := tx.Exec("DELETE FROM records WHERE sheet_id = ?", id); err != nil {
			return fmt.Errorf("cascade delete records: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.backend.notifyRecordsChanged(snapshot)
	return nil
}

// getSheet loads a single sheet by id.
func getSheet(db *sql.DB, id string) (types.Sheet, error) {
	row := db.QueryRow(
		"SELECT sheet_id, name, created_at, updated_at FROM sheets WHERE sheet_id = ?", id,
	)
	sheet, err := scanSheet(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Sheet{}, types.ErrNotFound
	}
	if err != nil {
		return types.Sheet{}, fmt.Errorf("get sheet %s: %w", id, err)
	}
	return sheet, nil
}

// listSheets loads every sheet in insertion order.
func listSheets(db *sql.DB) ([]types.Sheet, error) {
	rows, err := db.Query("SELECT sheet_id, name, created_at, updated_at FROM sheets ORDER BY rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("query sheets: %w", err)
	}
	defer rows.Close()

	sheets := make([]types.Sheet, 0)
	for rows.Next() {
		sheet, err := scanSheet(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan sheet: %w", err)
		}
		sheets = append(sheets, sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sheets: %w", err)
	}
	return sheets, nil
}

// scanSheet hydrates one sheet row, parsing the RFC 3339 timestamps.
func scanSheet(scan func(dest ...any) error) (types.Sheet, error) {
	var sheet types.Sheet
	var createdAt, updatedAt string
	if err := scan(&sheet.SheetID, &sheet.Name, &createdAt, &updatedAt); err != nil {
		return types.Sheet{}, err
	}
	var err error
	if sheet.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return types.Sheet{}, fmt.Errorf("parse created_at: %w", err)
	}
	if sheet.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return types.Sheet{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return sheet, nil
}
