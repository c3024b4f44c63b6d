package engine

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	logger "github.com/rs/zerolog/log"

	"sltrun/internal/domain"
	"sltrun/internal/parser"
)

// Postgres is the reference engine backed by an external server. Every file
// runs in its own schema on a dedicated pooled connection.
type Postgres struct {
	dsn  string
	pool *pgxpool.Pool
}

// NewPostgres creates the postgres engine for a DSN
func NewPostgres(dsn string) *Postgres {
	return &Postgres{dsn: dsn}
}

func (p *Postgres) Name() string { return PostgresName }

// Start connects the pool and checks the server is reachable
func (p *Postgres) Start(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, p.dsn)
	if err != nil {
		return errors.Wrap(err, "postgres: failed to connect to db")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return errors.Wrap(err, "postgres: failed to ping server")
	}
	p.pool = pool
	logger.Info().Msg("postgres reference engine started")
	return nil
}

// Stop closes the pool
func (p *Postgres) Stop(ctx context.Context) error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}

func (p *Postgres) NewDriver(ctx context.Context, file domain.TestFile, progress Progress) (Driver, error) {
	if p.pool == nil {
		return nil, errors.New("postgres: engine not started")
	}

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "postgres: acquire connection for %s", file.DisplayName())
	}

	schema := isolatedName(file.Stem())
	ident := pgx.Identifier{schema}.Sanitize()
	if _, err := conn.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", ident)); err != nil {
		conn.Release()
		return nil, errors.Wrapf(err, "postgres: create schema %s", schema)
	}
	if _, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", ident)); err != nil {
		conn.Exec(ctx, fmt.Sprintf("DROP SCHEMA %s CASCADE", ident))
		conn.Release()
		return nil, errors.Wrapf(err, "postgres: set search_path %s", schema)
	}

	d := &pgDriver{conn: conn, ident: ident}
	return Track(d, progress), nil
}

type pgDriver struct {
	conn  *pgxpool.Conn
	ident string
}

func (d *pgDriver) Run(ctx context.Context, rec *parser.Record) (*Output, error) {
	logger.Debug().Str("engine", PostgresName).Int("line", rec.Line).Str("kind", rec.Kind.String()).Msg("run record")

	if rec.Kind != parser.KindQuery {
		tag, err := d.conn.Exec(ctx, rec.SQL)
		if err != nil {
			return nil, err
		}
		return &Output{RowsAffected: tag.RowsAffected()}, nil
	}

	rows, err := d.conn.Query(ctx, rec.SQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := &Output{Types: make([]ColumnType, len(fields))}
	for i, f := range fields {
		out.Types[i] = pgType(f.DataTypeOID)
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, errors.Wrap(err, "postgres: decode row")
		}
		out.Rows = append(out.Rows, RenderRow(values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close drops the file's schema and returns the connection to the pool
func (d *pgDriver) Close() error {
	ctx := context.Background()
	_, err := d.conn.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", d.ident))
	if err == nil {
		_, err = d.conn.Exec(ctx, "RESET search_path")
	}
	d.conn.Release()
	return errors.Wrap(err, "postgres: drop schema")
}

func pgType(oid uint32) ColumnType {
	switch oid {
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID:
		return TypeInteger
	case pgtype.Float4OID, pgtype.Float8OID, pgtype.NumericOID:
		return TypeReal
	case pgtype.BoolOID:
		return TypeBool
	case pgtype.TextOID, pgtype.VarcharOID, pgtype.BPCharOID, pgtype.NameOID:
		return TypeText
	case pgtype.DateOID, pgtype.TimestampOID, pgtype.TimestamptzOID:
		return TypeDateTime
	default:
		return TypeAny
	}
}
