package store

const schema = `
CREATE TABLE IF NOT EXISTS items (
    id           TEXT PRIMARY KEY,
    source       TEXT NOT NULL,
    external_id  TEXT NOT NULL,
    title        TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    url          TEXT NOT NULL DEFAULT '',
    date         TEXT NOT NULL DEFAULT '',
    intent       TEXT NOT NULL DEFAULT '',
    metadata     TEXT NOT NULL DEFAULT '{}',
    collected_at DATETIME NOT NULL,
    UNIQUE(source, external_id)
);

CREATE INDEX IF NOT EXISTS idx_items_source ON items(source);
CREATE INDEX IF NOT EXISTS idx_items_collected_at ON items(collected_at);

CREATE TABLE IF NOT EXISTS trends (
    id               TEXT PRIMARY KEY,
    title            TEXT NOT NULL,
    validation_score INTEGER NOT NULL DEFAULT 0,
    source_count     INTEGER NOT NULL DEFAULT 0,
    is_validated     BOOLEAN NOT NULL DEFAULT 0,
    intent           TEXT NOT NULL DEFAULT '',
    first_seen       TEXT NOT NULL DEFAULT '',
    last_seen        TEXT NOT NULL DEFAULT '',
    payload          TEXT NOT NULL DEFAULT '{}',
    alerted          BOOLEAN NOT NULL DEFAULT 0,
    detected_at      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trends_score ON trends(validation_score);
CREATE INDEX IF NOT EXISTS idx_trends_validated ON trends(is_validated);
`
