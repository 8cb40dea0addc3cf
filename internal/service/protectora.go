package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/buscadorpelut/buscadorpelut/internal/apperror"
	"github.com/buscadorpelut/buscadorpelut/internal/model"
	"github.com/buscadorpelut/buscadorpelut/internal/repository"
)

// ProtectoraSearch carries the query parameters of GET /api/protectores.
// Coordinates are pointers so "absent" differs from 0.0.
type ProtectoraSearch struct {
	Name       string
	Address    string
	PostalCode string
	Locality   string
	Province   string
	Email      string
	Longitude  *float64
	Latitude   *float64
}

// ProtectoraResult is the outcome of a search. Exactly one field is set:
// One for the single-result lookups (name, coordinates, email), Many for
// the others.
type ProtectoraResult struct {
	One  *model.Protectora
	Many []model.Protectora
}

// ProtectoraService handles shelters.
type ProtectoraService struct {
	repo   repository.ProtectoraRepository
	logger *slog.Logger
}

func NewProtectoraService(repo repository.ProtectoraRepository, logger *slog.Logger) *ProtectoraService {
	return &ProtectoraService{repo: repo, logger: logger}
}

func (s *ProtectoraService) List(ctx context.Context) ([]model.Protectora, error) {
	return s.list(ctx, repository.ProtectoraFilter{})
}

// GetByID returns the shelter with id. A nil id is not found.
func (s *ProtectoraService) GetByID(ctx context.Context, id *int64) (*model.Protectora, error) {
	if id == nil {
		return nil, apperror.NotFound("protectora", "null")
	}
	p, err := s.repo.GetByID(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("getting protectora: %w", err)
	}
	return p, nil
}

func (s *ProtectoraService) GetByName(ctx context.Context, name string) (*model.Protectora, error) {
	return s.first(ctx, repository.ProtectoraFilter{Name: name}, "name", name)
}

func (s *ProtectoraService) GetByEmail(ctx context.Context, email string) (*model.Protectora, error) {
	return s.first(ctx, repository.ProtectoraFilter{Email: email}, "email", email)
}

// GetByCoordinates matches both coordinates with exact float equality.
func (s *ProtectoraService) GetByCoordinates(ctx context.Context, lon, lat float64) (*model.Protectora, error) {
	f := repository.ProtectoraFilter{Longitude: &lon, Latitude: &lat}
	return s.first(ctx, f, "coordinates", fmt.Sprintf("(%v, %v)", lon, lat))
}

func (s *ProtectoraService) ListByAddress(ctx context.Context, address string) ([]model.Protectora, error) {
	return s.list(ctx, repository.ProtectoraFilter{Address: address})
}

func (s *ProtectoraService) ListByPostalCode(ctx context.Context, postalCode string) ([]model.Protectora, error) {
	return s.list(ctx, repository.ProtectoraFilter{PostalCode: postalCode})
}

func (s *ProtectoraService) ListByLocality(ctx context.Context, locality string) ([]model.Protectora, error) {
	return s.list(ctx, repository.ProtectoraFilter{Locality: locality})
}

func (s *ProtectoraService) ListByProvince(ctx context.Context, province string) ([]model.Protectora, error) {
	return s.list(ctx, repository.ProtectoraFilter{Province: province})
}

// Search picks one lookup from the parameters that are set, in this order:
// nomProt, adresa, codiPostal, localitat, provincia, longitud+latitud,
// emailProt. Later parameters are ignored once one matches. With no
// parameter every shelter is listed. Only one coordinate is a validation
// error.
func (s *ProtectoraService) Search(ctx context.Context, q ProtectoraSearch) (ProtectoraResult, error) {
	one := func(p *model.Protectora, err error) (ProtectoraResult, error) {
		if err != nil {
			return ProtectoraResult{}, err
		}
		return ProtectoraResult{One: p}, nil
	}
	many := func(ps []model.Protectora, err error) (ProtectoraResult, error) {
		if err != nil {
			return ProtectoraResult{}, err
		}
		return ProtectoraResult{Many: ps}, nil
	}

	switch {
	case q.Name != "":
		return one(s.GetByName(ctx, q.Name))
	case q.Address != "":
		return many(s.ListByAddress(ctx, q.Address))
	case q.PostalCode != "":
		return many(s.ListByPostalCode(ctx, q.PostalCode))
	case q.Locality != "":
		return many(s.ListByLocality(ctx, q.Locality))
	case q.Province != "":
		return many(s.ListByProvince(ctx, q.Province))
	case q.Longitude != nil && q.Latitude != nil:
		return one(s.GetByCoordinates(ctx, *q.Longitude, *q.Latitude))
	case q.Longitude != nil || q.Latitude != nil:
		return ProtectoraResult{}, apperror.ValidationFailed("longitud",
			"longitud and latitud must be given together")
	case q.Email != "":
		return one(s.GetByEmail(ctx, q.Email))
	default:
		return many(s.List(ctx))
	}
}

func (s *ProtectoraService) Create(ctx context.Context, p *model.Protectora) (*model.Protectora, error) {
	if err := validateProtectora(p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating protectora: %w", err)
	}
	s.logger.Info("protectora created", slog.Int64("id", p.ID), slog.String("name", p.Name))
	return p, nil
}

func (s *ProtectoraService) Update(ctx context.Context, id int64, p *model.Protectora) (*model.Protectora, error) {
	if err := validateProtectora(p); err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating protectora %d: %w", id, err)
	}
	s.logger.Info("protectora updated", slog.Int64("id", id))
	return p, nil
}

// Delete removes the shelter and leaves its animals without one.
func (s *ProtectoraService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting protectora %d: %w", id, err)
	}
	s.logger.Info("protectora deleted", slog.Int64("id", id))
	return nil
}

func (s *ProtectoraService) list(ctx context.Context, f repository.ProtectoraFilter) ([]model.Protectora, error) {
	ps, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing protectores: %w", err)
	}
	return ps, nil
}

func (s *ProtectoraService) first(ctx context.Context, f repository.ProtectoraFilter, key string, value any) (*model.Protectora, error) {
	p, err := s.repo.First(ctx, f)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFoundBy("protectora", key, value)
		}
		return nil, fmt.Errorf("finding protectora by %s: %w", key, err)
	}
	return p, nil
}

func validateProtectora(p *model.Protectora) error {
	if p == nil {
		return apperror.ValidationFailed("", "protectora body is required")
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperror.ValidationFailed("nomProt", "protectora name is required")
	}
	return nil
}
