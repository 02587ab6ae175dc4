package types

import "testing"

func TestRecord_IDAccessors(t *testing.T) {
	r := Record{"name": "Amina"}

	if r.ID() != "" {
		t.Errorf("expected empty id, got %q", r.ID())
	}

	r.SetID("r-1")
	if r.ID() != "r-1" {
		t.Errorf("expected id r-1, got %q", r.ID())
	}

	// Non-string id values read as empty.
	r[FieldID] = 42
	if r.ID() != "" {
		t.Errorf("expected empty id for non-string value, got %q", r.ID())
	}
}

func TestRecord_SheetIDAccessors(t *testing.T) {
	r := Record{}

	if r.SheetID() != "" {
		t.Errorf("expected empty sheetId, got %q", r.SheetID())
	}

	r.SetSheetID("s-1")
	if r.SheetID() != "s-1" {
		t.Errorf("expected sheetId s-1, got %q", r.SheetID())
	}
}

func TestRecord_Clone(t *testing.T) {
	r := Record{"id": "r-1", "score": 90}
	cp := r.Clone()

	cp.SetID("r-2")
	cp["score"] = 10

	if r.ID() != "r-1" {
		t.Errorf("clone mutation leaked into original id: %q", r.ID())
	}
	if r["score"] != 90 {
		t.Errorf("clone mutation leaked into original field: %v", r["score"])
	}
}
