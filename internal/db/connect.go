package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type CopyCapable interface {
	CopyFromSlice(ctx context.Context, table string, columns []string, length int, next func(int) ([]any, error)) (int64, error)
}

type Database struct {
	driver string
	db     *sql.DB
	pool   *pgxpool.Pool
}

// NewDatabaseConnection opens and pings a database. Postgres connections also
// get a pgx pool for COPY.
func NewDatabaseConnection(ctx context.Context, driver string, domainStringName string) (*Database, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, domainStringName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	database := &Database{driver: driver, db: db}
	if driver != DriverPostgres {
		return database, nil
	}

	pool, err := pgxpool.New(ctx, domainStringName)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = db.Close()
		return nil, fmt.Errorf("pgxpool ping: %w", err)
	}

	database.pool = pool
	return database, nil
}

func (db *Database) Driver() string {
	return db.driver
}

func (db *Database) Close() error {
	if db == nil || db.db == nil {
		return nil
	}
	if db.pool != nil {
		db.pool.Close()
	}
	return db.db.Close()
}

func (db *Database) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, db.Rebind(query), args...)
}

func (db *Database) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, db.Rebind(query), args...)
}

func (db *Database) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, db.Rebind(query), args...)
}

func (db *Database) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, db: db}, nil
}

// Rebind turns the ? placeholders queries are written with into $n for
// Postgres.
func (db *Database) Rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var builder strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			builder.WriteString("$" + strconv.Itoa(n))
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// CopyFromSlice bulk-loads rows with COPY. Only Postgres connections have a
// pool to copy through.
func (db *Database) CopyFromSlice(ctx context.Context, table string, columns []string, length int, next func(int) ([]any, error)) (int64, error) {
	if db.pool == nil {
		return 0, fmt.Errorf("COPY is not available for driver %s", db.driver)
	}
	count, err := db.pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromSlice(length, next))
	if err != nil {
		return 0, fmt.Errorf("failed to copy into %s: %w", table, err)
	}
	return count, nil
}

// Tx is a transaction that rebinds placeholders like its Database.
type Tx struct {
	tx *sql.Tx
	db *Database
}

func (tx *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return tx.tx.ExecContext(ctx, tx.db.Rebind(query), args...)
}

func (tx *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return tx.tx.QueryContext(ctx, tx.db.Rebind(query), args...)
}

func (tx *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return tx.tx.QueryRowContext(ctx, tx.db.Rebind(query), args...)
}

func (tx *Tx) Commit() error {
	return tx.tx.Commit()
}

func (tx *Tx) Rollback() error {
	return tx.tx.Rollback()
}
