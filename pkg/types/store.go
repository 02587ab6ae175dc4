package types

import "errors"

// Store is the backend-agnostic persistence interface. Callers attach to a
// backend, access the record and sheet stores, and detach when done. Every
// operation works on the full persisted state: backends read the complete
// list, mutate it, and write the complete new list back (or the equivalent
// inside an embedded database).
type Store interface {
	// Attach connects the store to the backing data described by config,
	// creating the data directory and empty stores on first use and running
	// the one-time identifier backfill for legacy records. Returns
	// ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. After Detach,
	// store operations return ErrDetached.
	Detach() error

	// Records returns the record store. Valid only while attached.
	Records() RecordStore

	// Sheets returns the sheet store. Valid only while attached.
	Sheets() SheetStore
}

// RecordStore provides CRUD access to the ordered record list.
// The list is newest-first: Append inserts at the head.
type RecordStore interface {
	// ReadAll returns every record, newest first. Every returned record has
	// a non-empty id. Fails with an error wrapping ErrStorage if the backing
	// data is absent or malformed.
	ReadAll() ([]Record, error)

	// Append stores a new record at the head of the list. A fresh id is
	// generated, overwriting any caller-supplied id. Returns the stored
	// record.
	Append(rec Record) (Record, error)

	// Replace substitutes the record with the given id wholesale, keeping
	// its position. The id in rec is ignored and forced to id. Returns
	// ErrNotFound if no record matches.
	Replace(id string, rec Record) (Record, error)

	// Delete removes the record with the given id.
	// Returns ErrNotFound if no record matches.
	Delete(id string) error

	// DeleteAll unconditionally replaces the list with an empty one.
	DeleteAll() error

	// BySheet returns the records whose sheetId equals sheetID,
	// preserving list order. An empty sheetID selects the records that
	// belong to no sheet.
	BySheet(sheetID string) ([]Record, error)

	// DeleteBySheet removes every record whose sheetId equals sheetID
	// (an empty sheetID selects the ungrouped records, matching BySheet).
	// Removing zero records is not an error; this is the cascade half of
	// sheet deletion.
	DeleteBySheet(sheetID string) error
}

// SheetStore provides CRUD access to the sheet list. Sheets are kept in
// insertion order: Create appends at the tail.
type SheetStore interface {
	// List returns every sheet. A missing or unparseable backing list
	// degrades to an empty result rather than an error.
	List() ([]Sheet, error)

	// Create stores a new sheet with the given name (trimmed; blank names
	// become DefaultSheetName) and returns it.
	Create(name string) (Sheet, error)

	// Rename updates the sheet name (blank trimmed names leave the old name
	// in place) and refreshes its updatedAt timestamp.
	// Returns ErrNotFound if no sheet matches.
	Rename(id, name string) (Sheet, error)

	// Delete removes the sheet and cascades to every record whose sheetId
	// references it. Returns ErrNotFound if no sheet matches.
	Delete(id string) error
}

// Store lifecycle errors.
var (
	ErrDetached        = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Operation errors.
var (
	// ErrNotFound reports that no entity matches the requested id.
	ErrNotFound = errors.New("not found")

	// ErrStorage reports that the backing data is unreadable, unwritable,
	// or malformed where strict parsing is required.
	ErrStorage = errors.New("storage error")
)
