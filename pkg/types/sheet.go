package types

import (
	"strings"
	"time"
)

// DefaultSheetName is substituted when a sheet is created with a blank name.
const DefaultSheetName = "Untitled"

// Sheet is a named group that partitions records by their sheetId field.
type Sheet struct {
	SheetID   string    `json:"id"`        // Unique identifier, assigned at creation.
	Name      string    `json:"name"`      // Display name, mutable via rename.
	CreatedAt time.Time `json:"createdAt"` // Set once at creation.
	UpdatedAt time.Time `json:"updatedAt"` // Refreshed on rename.
}

// NewSheet constructs a sheet with the given id and name, trimming the name
// and substituting DefaultSheetName if it is blank. CreatedAt and UpdatedAt
// are both set to now.
func NewSheet(id, name string) Sheet {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultSheetName
	}
	now := time.Now().UTC()
	return Sheet{
		SheetID:   id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename updates the sheet name if the trimmed value is non-empty and
// refreshes UpdatedAt unconditionally.
func (s *Sheet) Rename(name string) {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		s.Name = trimmed
	}
	s.UpdatedAt = time.Now().UTC()
}
