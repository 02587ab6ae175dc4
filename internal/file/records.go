package file

import (
	"github.com/helpachild/recordbook/pkg/types"
)

// Compile-time interface check.
var _ types.RecordStore = (*recordStore)(nil)

// recordStore implements types.RecordStore over records.json.
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
	records, err := readRecords(b.recordsPath)
	if err != nil {
		return nil, err
	}
	return cloneRecords(records), nil
}

// Append stores rec at the head of the list with a freshly generated id,
// overwriting any id the caller supplied.
func (s *recordStore) Append(rec types.Record) (types.Record, error) {
	stored := rec.Clone()
	stored.SetID(newID())

	_, err := s.backend.mutateRecords(func(records []types.Record) ([]types.Record, error) {
		return append([]types.Record{stored}, records...), nil
	})
	if err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

// Replace substitutes the record with the given id in place, forcing the
// stored id onto rec.
func (s *recordStore) Replace(id string, rec types.Record) (types.Record, error) {
	stored := rec.Clone()
	stored.SetID(id)

	_, err := s.backend.mutateRecords(func(records []types.Record) ([]types.Record, error) {
		for i, r := range records {
			if r.ID() == id {
				records[i] = stored
				return records, nil
			}
		}
		return nil, types.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

// Delete removes the record with the given id.
func (s *recordStore) Delete(id string) error {
	_, err := s.backend.mutateRecords(func(records []types.Record) ([]types.Record, error) {
		kept := records[:0]
		for _, r := range records {
			if r.ID() != id {
				kept = append(kept, r)
			}
		}
		if len(kept) == len(records) {
			return nil, types.ErrNotFound
		}
		return kept, nil
	})
	return err
}

// DeleteAll unconditionally rewrites the list as empty. It does not read the
// current state first, so it succeeds even over a malformed file.
func (s *recordStore) DeleteAll() error {
	b := s.backend
	b.mu.Lock()
	if !b.attached {
		b.mu.Unlock()
		return types.ErrDetached
	}
	if err := writeRecords(b.recordsPath, nil); err != nil {
		b.mu.Unlock()
		return err
	}
	hook := b.onRecordsChanged
	b.mu.Unlock()

	if hook != nil {
		hook([]types.Record{})
	}
	return nil
}

// BySheet returns the records whose sheetId equals sheetID, in list order.
func (s *recordStore) BySheet(sheetID string) ([]types.Record, error) {
	all, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	matched := make([]types.Record, 0)
	for _, r := range all {
		if r.SheetID() == sheetID {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// DeleteBySheet removes every record whose sheetId equals sheetID. Removing
// zero records is not an error.
func (s *recordStore) DeleteBySheet(sheetID string) error {
	_, err := s.backend.mutateRecords(func(records []types.Record) ([]types.Record, error) {
		return dropBySheet(records, sheetID), nil
	})
	return err
}

// mutateRecords runs a full read-modify-write cycle under the backend lock:
// read the complete list, apply mutate, persist the result, then fire the
// records-changed hook outside the lock. If mutate returns an error nothing
// is written. Returns the persisted snapshot.
func (b *Backend) mutateRecords(mutate func(records []types.Record) ([]types.Record, error)) ([]types.Record, error) {
	b.mu.Lock()
	if !b.attached {
		b.mu.Unlock()
		return nil, types.ErrDetached
	}

	records, err := readRecords(b.recordsPath)
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}

	updated, err := mutate(records)
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}

	if err := writeRecords(b.recordsPath, updated); err != nil {
		b.mu.Unlock()
		return nil, err
	}

	snapshot := cloneRecords(updated)
	hook := b.onRecordsChanged
	b.mu.Unlock()

	if hook != nil {
		hook(snapshot)
	}
	return snapshot, nil
}

// dropBySheet returns records with every entry belonging to sheetID removed.
func dropBySheet(records []types.Record, sheetID string) []types.Record {
	kept := records[:0]
	for _, r := range records {
		if r.SheetID() != sheetID {
			kept = append(kept, r)
		}
	}
	return kept
}

// cloneRecords copies each record so callers cannot alias the stored maps.
func cloneRecords(records []types.Record) []types.Record {
	out := make([]types.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
