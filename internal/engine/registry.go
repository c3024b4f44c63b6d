package engine

import (
	"github.com/pkg/errors"

	"sltrun/internal/config"
)

// Engine names accepted by New
const (
	SQLiteName   = "sqlite"
	DuckDBName   = "duckdb"
	PostgresName = "postgres"
	MySQLName    = "mysql"
)

// New returns the named engine. Reference engines need a DSN and are
// reported as unsupported without one.
func New(name string, cfg *config.Config) (Engine, error) {
	switch name {
	case SQLiteName:
		return NewSQLite(cfg), nil
	case DuckDBName:
		return NewDuckDB(cfg), nil
	case PostgresName:
		if cfg.ReferenceDSN == "" {
			return nil, errors.Wrapf(ErrUnsupported, "%s reference engine requires a DSN (set %s)", name, config.EnvReferenceDSN)
		}
		return NewPostgres(cfg.ReferenceDSN), nil
	case MySQLName:
		dsn := MySQLDSN(cfg)
		if dsn == "" {
			return nil, errors.Wrapf(ErrUnsupported, "%s reference engine requires a DSN (set %s or DB_HOST)", name, config.EnvReferenceDSN)
		}
		return NewMySQL(dsn), nil
	default:
		return nil, errors.Wrapf(ErrUnsupported, "engine %q", name)
	}
}
