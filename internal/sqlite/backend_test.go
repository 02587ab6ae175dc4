package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/helpachild/recordbook/pkg/types"
)

func testBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	tmpDir := t.TempDir()

	b := NewBackend(zerolog.Nop())
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b, tmpDir
}

func TestBackend_Attach(t *testing.T) {
	b, tmpDir := testBackend(t)

	if _, err := os.Stat(filepath.Join(tmpDir, dbFileName)); os.IsNotExist(err) {
		t.Errorf("%s not created", dbFileName)
	}

	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir})
	if err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}
}

func TestBackend_Detach(t *testing.T) {
	b, _ := testBackend(t)

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	if _, err := b.Records().ReadAll(); err != types.ErrDetached {
		t.Errorf("expected ErrDetached, got %v", err)
	}
	if _, err := b.Sheets().Create("x"); err != types.ErrDetached {
		t.Errorf("expected ErrDetached, got %v", err)
	}
}

func TestBackend_DataSurvivesReattach(t *testing.T) {
	b, tmpDir := testBackend(t)
	rec, err := b.Records().Append(types.Record{"name": "Amina"})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	sheet, err := b.Sheets().Create("Math")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	b.Detach()

	b2 := NewBackend(zerolog.Nop())
	if err := b2.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}); err != nil {
		t.Fatalf("re-attach failed: %v", err)
	}
	defer b2.Detach()

	records, err := b2.Records().ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(records) != 1 || records[0].ID() != rec.ID() {
		t.Errorf("record did not survive re-attach: %v", records)
	}

	sheets, err := b2.Sheets().List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sheets) != 1 || sheets[0].SheetID != sheet.SheetID {
		t.Errorf("sheet did not survive re-attach: %v", sheets)
	}
}
