package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestUp_CreatesTablesAndIsRepeatable(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, Up(ctx, db))
	require.NoError(t, Up(ctx, db), "second run must be a no-op")

	for _, table := range []string{"scans", "consumptions", "settings"} {
		var n int
		err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestUp_PortionCheckConstraint(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Up(context.Background(), db))

	_, err = db.Exec(`INSERT INTO scans (barcode, scanned_at, last_scanned_at) VALUES ('1', 0, 0)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO consumptions (id, barcode, portion_grams, consumed_at) VALUES ('c', '1', 0, 0)`)
	require.Error(t, err)
}
