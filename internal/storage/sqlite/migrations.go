package sqlite

import "database/sql"

// schema sets up the database. It runs on every startup, so every statement
// must be idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS payment_split_methods (
    id TEXT PRIMARY KEY,
    label TEXT NOT NULL,
    weight INTEGER NOT NULL DEFAULT 0,
    status INTEGER NOT NULL DEFAULT 1,
    locked INTEGER NOT NULL DEFAULT 0,
    plugin_id TEXT NOT NULL,
    settings TEXT NOT NULL DEFAULT '{}',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS admins (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payment_split_methods_weight ON payment_split_methods(weight, label);

INSERT OR IGNORE INTO payment_split_methods (id, label, weight, status, locked, plugin_id, settings, created_at, updated_at)
VALUES ('free_order', 'No payment required', 0, 1, 1, 'free_order', '{}', strftime('%s','now'), strftime('%s','now'));
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
