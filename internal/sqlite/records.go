package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/helpachild/recordbook/pkg/types"
)

// Compile-time interface check.
var _ types.RecordStore = (*recordStore)(nil)

// recordStore implements types.RecordStore over the records table.
type recordStore struct {
	backend *Backend
}

// ReadAll returns the full record list, newest first.
func (s *recordStore) ReadAll() ([]types.Record, error) {
	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	return readAllRecords(b.db)
}

// Append stores rec at the head of the list with a freshly generated id.
func (s *recordStore) Append(rec types.Record) (types.Record, error) {
	stored := rec.Clone()
	stored.SetID(newID())

	snapshot, err := s.backend.mutateRecords(func(tx *sql.Tx) error {
		payload, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		// Head insertion: one less than the current minimum sequence.
		_, err = tx.Exec(
			"INSERT INTO records (record_id, sheet_id, seq, payload) VALUES (?, ?, (SELECT COALESCE(MIN(seq), 1) - 1 FROM records), ?)",
			stored.ID(), nullableSheetID(stored), string(payload),
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.backend.notifyRecordsChanged(snapshot)
	return stored.Clone(), nil
}

// Replace substitutes the record with the given id, keeping its position.
func (s *recordStore) Replace(id string, rec types.Record) (types.Record, error) {
	stored := rec.Clone()
	stored.SetID(id)

	snapshot, err := s.backend.mutateRecords(func(tx *sql.Tx) error {
		payload, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		res, err := tx.Exec(
			"UPDATE records SET sheet_id = ?, payload = ? WHERE record_id = ?",
			nullableSheetID(stored), string(payload), id,
		)
		if err != nil {
			return fmt.Errorf("update record: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return types.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.backend.notifyRecordsChanged(snapshot)
	return stored.Clone(), nil
}

// Delete removes the record with the given id.
func (s *recordStore) Delete(id string) error {
	snapshot, err := s.backend.mutateRecords(func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM records WHERE record_id = ?", id)
		if err != nil {
			return fmt.Errorf("delete record: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return types.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.backend.notifyRecordsChanged(snapshot)
	return nil
}

// DeleteAll removes every record.
func (s *recordStore) DeleteAll() error {
	snapshot, err := s.backend.mutateRecords(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM records"); err != nil {
			return fmt.Errorf("delete all records: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.backend.notifyRecordsChanged(snapshot)
	return nil
}

// BySheet returns the records whose sheetId equals sheetID, newest first.
// An empty sheetID selects the ungrouped records, which are stored with a
// NULL sheet_id.
func (s *recordStore) BySheet(sheetID string) ([]types.Record, error) {
	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}

	query := "SELECT payload FROM records WHERE sheet_id = ? ORDER BY seq ASC"
	args := []any{sheetID}
	if sheetID == "" {
		query = "SELECT payload FROM records WHERE sheet_id IS NULL ORDER BY seq ASC"
		args = nil
	}
	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query records by sheet: %v", types.ErrStorage, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// DeleteBySheet removes every record whose sheetId equals sheetID.
// Removing zero records is not an error. An empty sheetID removes the
// ungrouped records, matching BySheet.
func (s *recordStore) DeleteBySheet(sheetID string) error {
	snapshot, err := s.backend.mutateRecords(func(tx *sql.Tx) error {
		query := "DELETE FROM records WHERE sheet_id = ?"
		args := []any{sheetID}
		if sheetID == "" {
			query = "DELETE FROM records WHERE sheet_id IS NULL"
			args = nil
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("delete records by sheet: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.backend.notifyRecordsChanged(snapshot)
	return nil
}

// mutateRecords runs mutate inside a transaction under the backend lock and
// returns the post-mutation snapshot. The caller fires the change hook with
// the snapshot after this returns, outside the lock.
func (b *Backend) mutateRecords(mutate func(tx *sql.Tx) error) ([]types.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := mutate(tx); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return readAllRecords(b.db)
}

// readAllRecords loads every record ordered newest first.
func readAllRecords(db *sql.DB) ([]types.Record, error) {
	rows, err := db.Query("SELECT payload FROM records ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: query records: %v", types.ErrStorage, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// scanRecords unmarshals payload rows into records.
func scanRecords(rows *sql.Rows) ([]types.Record, error) {
	records := make([]types.Record, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("%w: scan record: %v", types.ErrStorage, err)
		}
		var rec types.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("%w: parse record payload: %v", types.ErrStorage, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate records: %v", types.ErrStorage, err)
	}
	return records, nil
}

// nullableSheetID returns the record's sheetId or NULL when unset, keeping
// the index usable for the cascade.
func nullableSheetID(rec types.Record) any {
	if sheetID := rec.SheetID(); sheetID != "" {
		return sheetID
	}
	return nil
}
