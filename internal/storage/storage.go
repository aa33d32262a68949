// Package storage opens the SQLite database behind the local store, applies
// the schema and hands out the repositories bound to it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/nutrikeeper/internal/filex"
	"github.com/dmitrijs2005/nutrikeeper/internal/logging"
	"github.com/dmitrijs2005/nutrikeeper/internal/migrations"
	"github.com/dmitrijs2005/nutrikeeper/internal/repositories/consumptions"
	"github.com/dmitrijs2005/nutrikeeper/internal/repositories/scans"
	"github.com/dmitrijs2005/nutrikeeper/internal/repositories/settings"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

type Repositories struct {
	Scans        scans.Repository
	Consumptions consumptions.Repository
	Settings     settings.Repository
}

// NewRepositories binds every repository to db.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Scans:        scans.NewSQLiteRepository(db),
		Consumptions: consumptions.NewSQLiteRepository(db),
		Settings:     settings.NewSQLiteRepository(db),
	}
}

// DSN builds a modernc.org/sqlite data source name for path with foreign
// keys on and the given busy timeout. File databases also use WAL.
func DSN(path string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	q.Add("_pragma", "foreign_keys(1)")
	if path == MemoryPath {
		return "file::memory:?" + q.Encode()
	}
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}

// Open opens (creating if needed) the database at path and migrates it.
// The pool holds a single connection, so a read never runs inside another
// caller's open transaction.
func Open(ctx context.Context, path string, busyTimeout time.Duration, log logging.Logger) (*sql.DB, error) {
	if path != MemoryPath {
		expanded, err := filex.ExpandHome(path)
		if err != nil {
			return nil, err
		}
		path = expanded
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", DSN(path, busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug(ctx, "database ready", "path", path)
	return db, nil
}
