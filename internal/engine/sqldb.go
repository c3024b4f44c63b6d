package engine

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	logger "github.com/rs/zerolog/log"

	"sltrun/internal/parser"
)

// sqlDriver runs records on one pinned database/sql connection so that
// session state survives between records of a file
type sqlDriver struct {
	name    string
	conn    *sql.Conn
	cleanup func() error
}

func newSQLDriver(ctx context.Context, name string, db *sql.DB, cleanup func() error) (*sqlDriver, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: acquire connection", name)
	}
	return &sqlDriver{name: name, conn: conn, cleanup: cleanup}, nil
}

func (d *sqlDriver) Run(ctx context.Context, rec *parser.Record) (*Output, error) {
	logger.Debug().Str("engine", d.name).Int("line", rec.Line).Str("kind", rec.Kind.String()).Msg("run record")

	if rec.Kind == parser.KindQuery {
		return d.query(ctx, rec.SQL)
	}
	return d.exec(ctx, rec.SQL)
}

func (d *sqlDriver) exec(ctx context.Context, query string) (*Output, error) {
	res, err := d.conn.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	return &Output{RowsAffected: affected}, nil
}

func (d *sqlDriver) query(ctx context.Context, query string) (*Output, error) {
	rows, err := d.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: column types", d.name)
	}

	out := &Output{Types: make([]ColumnType, len(colTypes))}
	for i, ct := range colTypes {
		out.Types[i] = TypeOfName(ct.DatabaseTypeName())
	}

	for rows.Next() {
		values := make([]any, len(colTypes))
		ptrs := make([]any, len(colTypes))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrapf(err, "%s: scan row", d.name)
		}
		if len(out.Rows) == 0 {
			inferTypes(out.Types, values)
		}
		out.Rows = append(out.Rows, RenderRow(values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *sqlDriver) Close() error {
	err := d.conn.Close()
	if d.cleanup != nil {
		if cerr := d.cleanup(); err == nil {
			err = cerr
		}
	}
	return err
}

// inferTypes fills unknown column types from the first row's values
func inferTypes(types []ColumnType, values []any) {
	for i, t := range types {
		if t == TypeAny {
			types[i] = TypeOfValue(values[i])
		}
	}
}
