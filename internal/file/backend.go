// Package file implements the flat-file storage backend for recordbook.
// Records live in records.json (a JSON array, newest first) and sheets in
// sheets.json (insertion order). Every mutation reads the complete list,
// changes it in memory, and rewrites the whole file atomically.
package file

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/helpachild/recordbook/pkg/types"
)

// Backend implements types.Store on top of two JSON files in DataDir.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	log      zerolog.Logger

	recordsPath string
	sheetsPath  string

	records *recordStore
	sheets  *sheetStore

	// onRecordsChanged receives the full record snapshot after every
	// successful record mutation, including sheet-delete cascades. The hook
	// runs outside the backend lock and must not call back into the store.
	onRecordsChanged func([]types.Record)
}

// NewBackend creates a new file backend instance. The backend is not
// attached; call Attach with a Config to initialize.
func NewBackend(log zerolog.Logger) *Backend {
	b := &Backend{log: log}
	b.records = &recordStore{backend: b}
	b.sheets = &sheetStore{backend: b}
	return b
}

// SetRecordsChangedHook registers a callback invoked with the new record
// snapshot after each record mutation. Pass nil to clear.
func (b *Backend) SetRecordsChangedHook(fn func([]types.Record)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onRecordsChanged = fn
}

// Attach initializes the backend with the given configuration. Creates
// DataDir and empty store files if they do not exist, then runs the one-time
// identifier backfill over the record list. Returns ErrAlreadyAttached if
// already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	b.recordsPath = recordsFilePath(dataDir)
	b.sheetsPath = sheetsFilePath(dataDir)

	if err := ensureListFile(b.recordsPath); err != nil {
		return fmt.Errorf("init records file: %w", err)
	}
	if err := ensureListFile(b.sheetsPath); err != nil {
		return fmt.Errorf("init sheets file: %w", err)
	}

	if err := b.backfillIDs(); err != nil {
		return fmt.Errorf("backfill record ids: %w", err)
	}

	b.config = config
	b.attached = true
	return nil
}

// Detach releases the backend. Idempotent: multiple calls succeed. After
// Detach, store operations return ErrDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attached = false
	return nil
}

// Records returns the record store.
func (b *Backend) Records() types.RecordStore { return b.records }

// Sheets returns the sheet store.
func (b *Backend) Sheets() types.SheetStore { return b.sheets }

// backfillIDs assigns a fresh id to every stored record that lacks one and
// persists the patched list. Running once at attach time keeps the backfill
// out of the read path; a record is patched at most once because the result
// is written back immediately. The caller must hold b.mu.
func (b *Backend) backfillIDs() error {
	records, err := readRecords(b.recordsPath)
	if err != nil {
		return err
	}

	patched := 0
	for _, rec := range records {
		if rec.ID() == "" {
			rec.SetID(newID())
			patched++
		}
	}
	if patched == 0 {
		return nil
	}

	if err := writeRecords(b.recordsPath, records); err != nil {
		return err
	}
	b.log.Info().Int("count", patched).Msg("backfilled missing record ids")
	return nil
}

// newID generates a UUID v7 string, falling back to v4 if v7 fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
