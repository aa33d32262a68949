// Package storagetest opens migrated in-memory databases for tests.
package storagetest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/nutrikeeper/internal/migrations"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// OpenDB returns a fresh in-memory SQLite database with the schema applied
// and foreign keys enforced. A single connection keeps every statement on the
// same in-memory database.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}
