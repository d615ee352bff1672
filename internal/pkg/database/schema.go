package database

import (
	"context"
	"fmt"
)

// schema creates the tables the service reads. Uploads are written by the
// dashboard's upload flow; this service only reads them.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS uploaded_files (
		id          UUID PRIMARY KEY,
		file_name   TEXT NOT NULL,
		uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS uploaded_rows (
		id      BIGSERIAL PRIMARY KEY,
		file_id UUID NOT NULL REFERENCES uploaded_files(id) ON DELETE CASCADE,
		data    JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_uploaded_rows_file_id ON uploaded_rows(file_id)`,
	`CREATE TABLE IF NOT EXISTS app_config (
		key        VARCHAR(255) PRIMARY KEY,
		value      TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates missing tables.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
