package file

import (
	"github.com/helpachild/recordbook/pkg/types"
)

// Compile-time interface check.
var _ types.SheetStore = (*sheetStore)(nil)

// sheetStore implements types.SheetStore over sheets.json.
type sheetStore struct {
	backend *Backend
}

// List returns every sheet in insertion order. A missing or unparseable
// sheet file degrades to an empty list rather than an error.
func (s *sheetStore) List() ([]types.Sheet, error) {
	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	return s.listLocked(), nil
}

// listLocked reads the sheet list leniently. The caller must hold b.mu.
func (s *sheetStore) listLocked() []types.Sheet {
	sheets, err := readSheets(s.backend.sheetsPath)
	if err != nil {
		s.backend.log.Warn().Err(err).Msg("sheet list unreadable, treating as empty")
		return []types.Sheet{}
	}
	if sheets == nil {
		sheets = []types.Sheet{}
	}
	return sheets
}

// Create stores a new sheet at the tail of the list and returns it.
func (s *sheetStore) Create(name string) (types.Sheet, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.Sheet{}, types.ErrDetached
	}

	sheet := types.NewSheet(newID(), name)
	sheets := append(s.listLocked(), sheet)
	if err := writeSheets(b.sheetsPath, sheets); err != nil {
		return types.Sheet{}, err
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

	sheets := s.listLocked()
	for i := range sheets {
		if sheets[i].SheetID == id {
			sheets[i].Rename(name)
			if err := writeSheets(b.sheetsPath, sheets); err != nil {
				return types.Sheet{}, err
			}
			return sheets[i], nil
		}
	}
	return types.Sheet{}, types.ErrNotFound
}

// Delete removes the sheet and cascades to its records. The two writes are
// not atomic: a crash after the sheet list is persisted but before the
// record cascade leaves records referencing a sheet that no longer exists.
func (s *sheetStore) Delete(id string) error {
	b := s.backend
	b.mu.Lock()

	if !b.attached {
		b.mu.Unlock()
		return types.ErrDetached
	}

	sheets := s.listLocked()
	kept := sheets[:0]
	for _, sh := range sheets {
		if sh.SheetID != id {
			kept = append(kept, sh)
		}
	}
	if len(kept) == len(sheets) {
		b.mu.Unlock()
		return types.ErrNotFound
	}
	if err := writeSheets(b.sheetsPath, kept); err != nil {
		b.mu.Unlock()
		return err
	}
	b.mu.Unlock()

	return s.backend.records.DeleteBySheet(id)
}
