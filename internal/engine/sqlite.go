package engine

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"sltrun/internal/config"
	"sltrun/internal/domain"
)

// SQLite runs every file against a private in-memory database
type SQLite struct {
	cfg *config.Config
}

// NewSQLite creates the sqlite engine
func NewSQLite(cfg *config.Config) *SQLite {
	return &SQLite{cfg: cfg}
}

func (s *SQLite) Name() string { return SQLiteName }

func (s *SQLite) NewDriver(ctx context.Context, file domain.TestFile, progress Progress) (Driver, error) {
	if err := checkFixtures(s.cfg, file); err != nil {
		return nil, err
	}

	// Each :memory: connection is a separate database, the driver pins one
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, errors.Wrapf(err, "sqlite: open database for %s", file.DisplayName())
	}
	db.SetMaxOpenConns(1)

	d, err := newSQLDriver(ctx, SQLiteName, db, db.Close)
	if err != nil {
		db.Close()
		return nil, err
	}
	return Track(d, progress), nil
}
