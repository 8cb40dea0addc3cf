// Package repository declares the storage contracts used by the service
// layer.
//
// Services depend on these interfaces, never on a concrete database. The
// SQL store (sqlstore, backed by SQLite or PostgreSQL) satisfies them in
// production; hand-written fakes satisfy them in service tests.
//
// NOT-FOUND CONTRACT:
// Every single-row method returns an error wrapping apperror.ErrNotFound
// when no row matches. A nil pointer with a nil error is never returned.
package repository

import (
	"context"

	"github.com/buscadorpelut/buscadorpelut/internal/model"
)

// AnimalFilter selects animals. Zero-valued fields do not filter. All set
// fields are ANDed together.
type AnimalFilter struct {
	// Adopted filters on the adoption flag when non-nil.
	Adopted *bool
	// Species is an exact, case- and accent-sensitive match.
	Species string
	// ExcludeSpecies drops animals whose species is in the set.
	ExcludeSpecies []string
	// Location matches the owning shelter's province OR its postal code.
	// Animals without a shelter never match.
	Location string
}

// ProtectoraFilter selects shelters by exact equality on every set field.
type ProtectoraFilter struct {
	Name       string
	Address    string
	PostalCode string
	Locality   string
	Province   string
	Email      string
	Longitude  *float64
	Latitude   *float64
}

type AnimalRepository interface {
	// List returns matching animals ordered by id, each joined with its shelter.
	List(ctx context.Context, f AnimalFilter) ([]model.Animal, error)
	GetByID(ctx context.Context, id int64) (*model.Animal, error)
	// Create assigns a.ID.
	Create(ctx context.Context, a *model.Animal) error
	Update(ctx context.Context, a *model.Animal) error
	Delete(ctx context.Context, id int64) error
}

type ProtectoraRepository interface {
	List(ctx context.Context, f ProtectoraFilter) ([]model.Protectora, error)
	// First returns the lowest-id shelter matching f.
	First(ctx context.Context, f ProtectoraFilter) (*model.Protectora, error)
	GetByID(ctx context.Context, id int64) (*model.Protectora, error)
	Create(ctx context.Context, p *model.Protectora) error
	Update(ctx context.Context, p *model.Protectora) error
	// Delete detaches the shelter's animals (their shelter becomes null).
	Delete(ctx context.Context, id int64) error
}

type UsuarioRepository interface {
	List(ctx context.Context) ([]model.Usuario, error)
	GetByID(ctx context.Context, id int64) (*model.Usuario, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*model.Usuario, error)
	// Create and Update return an error wrapping apperror.ErrConflict when
	// the email is already taken.
	Create(ctx context.Context, u *model.Usuario) error
	Update(ctx context.Context, u *model.Usuario) error
	Delete(ctx context.Context, id int64) error
}
