package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/buscadorpelut/buscadorpelut/internal/model"
)

// nullDate scans a nullable date column.
//
// Drivers disagree on what a date column looks like: pgx returns a
// time.Time for DATE, while SQLite stores text and modernc hands back a
// string (or a time.Time when the declared type looks like a date).
// nullDate accepts all three.
type nullDate struct {
	Date  model.Date
	Valid bool
}

func (n *nullDate) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		n.Valid = false
		return nil
	case time.Time:
		n.Date, n.Valid = model.DateOf(x), true
		return nil
	case string:
		return n.parse(x)
	case []byte:
		return n.parse(string(x))
	default:
		return fmt.Errorf("sqlstore: cannot scan %T into a date", v)
	}
}

func (n *nullDate) parse(s string) error {
	// Tolerate timestamps written by other tools ("2021-03-14 00:00:00").
	if len(s) > len(model.DateLayout) {
		s = s[:len(model.DateLayout)]
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return fmt.Errorf("sqlstore: %w", err)
	}
	n.Date, n.Valid = d, true
	return nil
}

func (n nullDate) ptr() *model.Date {
	if !n.Valid {
		return nil
	}
	d := n.Date
	return &d
}

// nullIfEmpty stores "" as NULL. Used for unique text columns where an
// empty value means "none" and must not collide with other empty values.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func ptrArg(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
