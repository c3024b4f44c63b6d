package engine

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	logger "github.com/rs/zerolog/log"

	"sltrun/internal/config"
	"sltrun/internal/domain"
)

// MySQL is the reference engine backed by an external MySQL server. Every
// file runs in its own database on a pinned connection.
type MySQL struct {
	dsn string
	db  *sql.DB
}

// NewMySQL creates the mysql engine for a server DSN (no database selected)
func NewMySQL(dsn string) *MySQL {
	return &MySQL{dsn: dsn}
}

// MySQLDSN returns the configured DSN, or one built from the DB_* variables
// when DB_HOST is set. Empty means not configured.
func MySQLDSN(cfg *config.Config) string {
	if cfg.ReferenceDSN != "" {
		return cfg.ReferenceDSN
	}

	// Get database connection info from environment or use defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return ""
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "3306"
	}
	dbUser := os.Getenv("DB_USERNAME")
	if dbUser == "" {
		dbUser = "root"
	}
	dbPassword := os.Getenv("DB_PASSWORD")

	// Connect to MySQL server (without specifying database)
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/", dbUser, dbPassword, dbHost, dbPort)
}

func (m *MySQL) Name() string { return MySQLName }

// Start opens the server connection pool and checks the server is reachable
func (m *MySQL) Start(ctx context.Context) error {
	db, err := sql.Open("mysql", m.dsn)
	if err != nil {
		return errors.Wrap(err, "mysql: failed to connect to database server")
	}

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return errors.Wrap(err, "mysql: failed to ping database server")
	}
	m.db = db
	logger.Info().Msg("mysql reference engine started")
	return nil
}

// Stop closes the connection pool
func (m *MySQL) Stop(ctx context.Context) error {
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

func (m *MySQL) NewDriver(ctx context.Context, file domain.TestFile, progress Progress) (Driver, error) {
	if m.db == nil {
		return nil, errors.New("mysql: engine not started")
	}

	dbName := isolatedName(file.Stem())
	if err := m.createDatabase(ctx, dbName); err != nil {
		return nil, errors.Wrapf(err, "mysql: failed to create database %s", dbName)
	}

	drop := func() error { return m.dropDatabase(dbName) }
	d, err := newSQLDriver(ctx, MySQLName, m.db, drop)
	if err != nil {
		drop()
		return nil, err
	}
	if _, err := d.conn.ExecContext(ctx, fmt.Sprintf("USE `%s`", dbName)); err != nil {
		d.Close()
		return nil, errors.Wrapf(err, "mysql: select database %s", dbName)
	}
	return Track(d, progress), nil
}

// createDatabase creates a new database
func (m *MySQL) createDatabase(ctx context.Context, dbName string) error {
	// Sanitize database name to prevent SQL injection
	if !isValidDatabaseName(dbName) {
		return fmt.Errorf("invalid database name: %s", dbName)
	}

	query := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", dbName)
	_, err := m.db.ExecContext(ctx, query)
	return err
}

func (m *MySQL) dropDatabase(dbName string) error {
	if !isValidDatabaseName(dbName) {
		return fmt.Errorf("invalid database name: %s", dbName)
	}
	_, err := m.db.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", dbName))
	return err
}
