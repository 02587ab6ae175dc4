package sqlite

// schemaSQL defines the records and sheets tables. The payload column holds
// the full record object (including id and sheetId) so the open-ended field
// set survives untouched; record_id and sheet_id are lifted out for lookups
// and the cascade. seq orders the list: lower values are newer, so appends
// take MIN(seq)-1 and a SELECT ordered by seq ascending is newest first.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
    record_id TEXT PRIMARY KEY,
    sheet_id  TEXT,
    seq       INTEGER NOT NULL,
    payload   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_sheet_id ON records(sheet_id);
CREATE INDEX IF NOT EXISTS idx_records_seq ON records(seq);

CREATE TABLE IF NOT EXISTS sheets (
    sheet_id   TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`
