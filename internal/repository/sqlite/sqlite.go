// Package sqlite opens the embedded SQLite backend of the store.
//
// SQLite is the default backend: a single database file, no server.
// modernc.org/sqlite is a pure Go translation of the SQLite C code, so the
// build needs no CGo.
//
// PRAGMAS IN THE DSN:
// PRAGMA foreign_keys is a per-connection setting and database/sql keeps a
// pool of connections. Running "PRAGMA foreign_keys=ON" once would only
// configure whichever connection happened to run it. The _pragma DSN
// parameters are applied by the driver to every new connection instead.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/buscadorpelut/buscadorpelut/internal/model"
	"github.com/buscadorpelut/buscadorpelut/internal/repository/sqlstore"
)

// MemoryPath opens a private in-memory database. Used by tests.
const MemoryPath = ":memory:"

// Dialect is the sqlstore dialect for SQLite: "?" placeholders, dates as
// "YYYY-MM-DD" text, constraint errors recognised by extended result code.
var Dialect = sqlstore.Dialect{
	Name:                  "sqlite",
	NumberedPlaceholders:  false,
	DateArg:               func(d model.Date) any { return d.String() },
	IsUniqueViolation:     isUniqueViolation,
	IsForeignKeyViolation: isForeignKeyViolation,
}

// Open opens (creating if needed) the database at path, applies the schema
// and returns a ready Store.
//
// path examples:
//   - "data/buscadorpelut.db" -> file-based database (persistent)
//   - ":memory:"              -> in-memory database (tests, lost on close)
func Open(ctx context.Context, path string) (*sqlstore.Store, error) {
	memory := path == MemoryPath
	if !memory {
		// os.MkdirAll is a no-op when the directory already exists.
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path, memory))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if memory {
		// Every connection to ":memory:" is a separate, empty database.
		// Pin the pool to one connection so all queries see the same data.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return sqlstore.New(db, Dialect), nil
}

func dsn(path string, memory bool) string {
	pragmas := []string{
		"_pragma=foreign_keys(1)",
		// Wait for a competing writer instead of failing with SQLITE_BUSY.
		"_pragma=busy_timeout(5000)",
	}
	if !memory {
		// WAL allows concurrent reads while a write is in progress.
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}
	return path + "?" + strings.Join(pragmas, "&")
}

// migrations run in order on every start. Each statement is idempotent.
//
// data_neix is TEXT holding "YYYY-MM-DD": a declared DATE type would make
// the driver hand back time.Time values in the local zone.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS protectora (
		codi_prot   INTEGER PRIMARY KEY AUTOINCREMENT,
		nom_prot    TEXT NOT NULL,
		adresa      TEXT NOT NULL DEFAULT '',
		codi_postal TEXT NOT NULL DEFAULT '',
		localitat   TEXT NOT NULL DEFAULT '',
		provincia   TEXT NOT NULL DEFAULT '',
		url         TEXT NOT NULL DEFAULT '',
		longitud    REAL NOT NULL DEFAULT 0,
		latitud     REAL NOT NULL DEFAULT 0,
		tlf_prot    TEXT NOT NULL DEFAULT '',
		email_prot  TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS animal (
		num_id      INTEGER PRIMARY KEY AUTOINCREMENT,
		nom_an      TEXT NOT NULL,
		sexe        TEXT NOT NULL DEFAULT '',
		especie     TEXT NOT NULL DEFAULT '',
		data_neix   TEXT,
		num_xip     INTEGER UNIQUE,
		adoptat     INTEGER NOT NULL DEFAULT 0,
		descripcio  TEXT NOT NULL DEFAULT '',
		foto_perfil TEXT UNIQUE,
		codi_prot   INTEGER REFERENCES protectora(codi_prot) ON DELETE SET NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_animal_especie ON animal(especie)`,
	`CREATE INDEX IF NOT EXISTS idx_animal_codi_prot ON animal(codi_prot)`,
	`CREATE TABLE IF NOT EXISTS usuari (
		codi_us  INTEGER PRIMARY KEY AUTOINCREMENT,
		nom_us   TEXT NOT NULL,
		cognom1  TEXT NOT NULL DEFAULT '',
		cognom2  TEXT NOT NULL DEFAULT '',
		email_us  TEXT NOT NULL,
		email_key TEXT NOT NULL,
		clau_pas TEXT NOT NULL,
		rol_us   TEXT NOT NULL DEFAULT 'ADOPTANT' CHECK (rol_us IN ('ADMIN', 'ADOPTANT'))
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_usuari_email_key ON usuari(email_key)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// constraintCode extracts the extended result code of a constraint error.
// ok is false when err is not a SQLite constraint failure.
func constraintCode(err error) (code int, msg string, ok bool) {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return 0, "", false
	}
	// The low byte of an extended result code is the primary code.
	if se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return 0, "", false
	}
	return se.Code(), se.Error(), true
}

func isUniqueViolation(err error) bool {
	code, msg, ok := constraintCode(err)
	if !ok {
		return false
	}
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	code, msg, ok := constraintCode(err)
	if !ok {
		return false
	}
	return code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}
