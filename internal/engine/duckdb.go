package engine

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/pkg/errors"

	"sltrun/internal/config"
	"sltrun/internal/domain"
)

// DuckDB runs every file against a private in-memory database
type DuckDB struct {
	cfg     *config.Config
	threads int
}

// NewDuckDB creates the duckdb engine. Threads are split across the files
// that may run concurrently.
func NewDuckDB(cfg *config.Config) *DuckDB {
	threads := runtime.NumCPU() / cfg.Parallelism()
	if threads < 1 {
		threads = 1
	}
	return &DuckDB{cfg: cfg, threads: threads}
}

func (e *DuckDB) Name() string { return DuckDBName }

func (e *DuckDB) NewDriver(ctx context.Context, file domain.TestFile, progress Progress) (Driver, error) {
	if err := checkFixtures(e.cfg, file); err != nil {
		return nil, err
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrapf(err, "duckdb: open database for %s", file.DisplayName())
	}

	d, err := newSQLDriver(ctx, DuckDBName, db, db.Close)
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := d.conn.ExecContext(ctx, fmt.Sprintf("SET threads=%d", e.threads)); err != nil {
		d.Close()
		return nil, errors.Wrap(err, "duckdb: configure threads")
	}
	return Track(d, progress), nil
}
