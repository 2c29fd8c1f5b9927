package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS credentials (
    provider             TEXT PRIMARY KEY,
    fields               TEXT NOT NULL,
    saved_at             TEXT NOT NULL
);
`
