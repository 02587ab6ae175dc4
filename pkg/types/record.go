package types

// Reserved record field names. Every other field is caller-defined.
const (
	FieldID      = "id"
	FieldSheetID = "sheetId"
)

// Record is a single stored submission. The schema is open-ended: callers
// decide the fields. Two keys are reserved: "id" (unique, assigned by the
// store, immutable) and "sheetId" (optional reference to a Sheet).
type Record map[string]any

// ID returns the record identifier, or "" if none is set.
func (r Record) ID() string {
	s, _ := r[FieldID].(string)
	return s
}

// SetID assigns the record identifier, overwriting any existing value.
func (r Record) SetID(id string) {
	r[FieldID] = id
}

// SheetID returns the owning sheet identifier, or "" if the record
// belongs to no sheet.
func (r Record) SheetID() string {
	s, _ := r[FieldSheetID].(string)
	return s
}

// SetSheetID assigns the owning sheet identifier.
func (r Record) SetSheetID(sheetID string) {
	r[FieldSheetID] = sheetID
}

// Clone returns a shallow copy of the record. Reserved fields are copied
// along with everything else; nested values are shared.
func (r Record) Clone() Record {
	cp := make(Record, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}
