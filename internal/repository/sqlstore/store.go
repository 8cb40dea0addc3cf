// Package sqlstore implements the repository interfaces on database/sql.
//
// ONE IMPLEMENTATION, TWO DATABASES:
// The queries here are plain SQL understood by both SQLite and PostgreSQL.
// The differences that remain are captured by a Dialect:
//   - placeholders: SQLite takes "?", PostgreSQL takes "$1, $2..."
//   - how a date argument is bound (text for SQLite, time.Time for pgx)
//   - how a unique or foreign-key violation is recognised in a driver error
//
// The sqlite and postgres packages open the connection, create the schema
// and hand a *Store back to the caller.
package sqlstore

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/buscadorpelut/buscadorpelut/internal/model"
	"github.com/buscadorpelut/buscadorpelut/internal/repository"
)

// Dialect describes the per-database behaviour of a Store.
type Dialect struct {
	Name string
	// NumberedPlaceholders rewrites "?" into "$1", "$2"... before execution.
	NumberedPlaceholders bool
	// DateArg converts a date into a value the driver binds to a date column.
	DateArg func(model.Date) any
	// IsUniqueViolation and IsForeignKeyViolation classify driver errors.
	IsUniqueViolation     func(error) bool
	IsForeignKeyViolation func(error) bool
}

// rebind rewrites "?" placeholders for dialects that number them.
// Queries in this package never contain a literal question mark.
func (d Dialect) rebind(query string) string {
	if !d.NumberedPlaceholders {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (d Dialect) dateArg(date *model.Date) any {
	if date == nil {
		return nil
	}
	return d.DateArg(*date)
}

// Store owns a connection pool and exposes one repository per table.
type Store struct {
	db      *sql.DB
	dialect Dialect

	animals     *AnimalRepo
	protectores *ProtectoraRepo
	usuaris     *UsuarioRepo
}

// New wraps an open, migrated pool.
func New(db *sql.DB, d Dialect) *Store {
	s := &Store{db: db, dialect: d}
	s.animals = &AnimalRepo{s: s}
	s.protectores = &ProtectoraRepo{s: s}
	s.usuaris = &UsuarioRepo{s: s}
	return s
}

func (s *Store) Animals() repository.AnimalRepository         { return s.animals }
func (s *Store) Protectores() repository.ProtectoraRepository { return s.protectores }
func (s *Store) Usuaris() repository.UsuarioRepository        { return s.usuaris }

// DB exposes the pool; the health endpoint pings it.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect reports which database the store talks to.
func (s *Store) Dialect() string { return s.dialect.Name }

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
