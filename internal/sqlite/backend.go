// Package sqlite implements the embedded-database storage backend for
// recordbook. It keeps the same Store contract as the flat-file backend but
// persists records and sheets in a SQLite database, which makes the
// sheet-delete cascade a single transaction instead of two file rewrites.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/helpachild/recordbook/pkg/types"
)

// dbFileName is the database file created inside DataDir.
const dbFileName = "recordbook.db"

// Backend implements types.Store using SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      zerolog.Logger

	records *recordStore
	sheets  *sheetStore

	// onRecordsChanged receives the full record snapshot after every
	// successful record mutation. Runs outside the backend lock.
	onRecordsChanged func([]types.Record)
}

// NewBackend creates a new SQLite backend instance. The backend is not
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

// Attach opens (or creates) the database under config.DataDir and applies
// the schema. Returns ErrAlreadyAttached if already attached.
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

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("apply schema: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent. After Detach, store operations
// return ErrDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Records returns the record store.
func (b *Backend) Records() types.RecordStore { return b.records }

// Sheets returns the sheet store.
func (b *Backend) Sheets() types.SheetStore { return b.sheets }

// notifyRecordsChanged fires the change hook with a fresh snapshot read
// inside fn's transaction scope. The caller must NOT hold b.mu.
func (b *Backend) notifyRecordsChanged(snapshot []types.Record) {
	b.mu.RLock()
	hook := b.onRecordsChanged
	b.mu.RUnlock()
	if hook != nil {
		hook(snapshot)
	}
}

// newID generates a UUID v7 string, falling back to v4 if v7 fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
