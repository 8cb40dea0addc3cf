// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     -> parses requests, writes responses
//	Service (Business layer) -> validates, picks filters, hashes passwords
//	Repository (Data layer)  -> reads/writes the database
//
// Services receive repository interfaces, never a concrete store. Tests
// pass in-memory fakes (see fakes_test.go); production passes the SQL
// store. Services return apperror values and never know about HTTP status
// codes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/buscadorpelut/buscadorpelut/internal/apperror"
	"github.com/buscadorpelut/buscadorpelut/internal/model"
	"github.com/buscadorpelut/buscadorpelut/internal/repository"
)

// ExoticSpecies is the reserved species value that selects every species
// except the common ones (see commonSpecies). No animal is stored with it.
const ExoticSpecies = "Exòtic"

// commonSpecies is the exclusion set of the exotic filter. Matching is
// exact: "gos" or "Gos " are exotic.
var commonSpecies = []string{"Gos", "Gat"}

// AnimalSearch carries the optional query parameters of the public
// animal listing.
type AnimalSearch struct {
	Species  string
	Location string
}

// AnimalService handles the animal catalogue.
type AnimalService struct {
	repo   repository.AnimalRepository
	logger *slog.Logger
	now    func() time.Time // age reference point, replaced in tests
}

func NewAnimalService(repo repository.AnimalRepository, logger *slog.Logger) *AnimalService {
	return &AnimalService{repo: repo, logger: logger, now: time.Now}
}

func ptr[T any](v T) *T { return &v }

// list runs one repository query and derives each animal's age.
func (s *AnimalService) list(ctx context.Context, f repository.AnimalFilter) ([]model.Animal, error) {
	animals, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing animals: %w", err)
	}
	now := s.now()
	for i := range animals {
		animals[i].FillAge(now)
	}
	return animals, nil
}

// ListAll returns every animal regardless of adoption status.
func (s *AnimalService) ListAll(ctx context.Context) ([]model.Animal, error) {
	return s.list(ctx, repository.AnimalFilter{})
}

// ListAvailable returns the animals still waiting for a home.
func (s *AnimalService) ListAvailable(ctx context.Context) ([]model.Animal, error) {
	return s.list(ctx, repository.AnimalFilter{Adopted: ptr(false)})
}

func (s *AnimalService) ListAdopted(ctx context.Context) ([]model.Animal, error) {
	return s.list(ctx, repository.AnimalFilter{Adopted: ptr(true)})
}

// ListBySpecies matches species exactly, accents and case included.
func (s *AnimalService) ListBySpecies(ctx context.Context, species string, onlyAvailable bool) ([]model.Animal, error) {
	return s.list(ctx, repository.AnimalFilter{Adopted: availability(onlyAvailable), Species: species})
}

// ListExotic returns animals whose species is neither "Gos" nor "Gat".
func (s *AnimalService) ListExotic(ctx context.Context, onlyAvailable bool) ([]model.Animal, error) {
	return s.list(ctx, repository.AnimalFilter{Adopted: availability(onlyAvailable), ExcludeSpecies: commonSpecies})
}

// ListByLocation returns available animals whose shelter's province or
// postal code equals location.
func (s *AnimalService) ListByLocation(ctx context.Context, location string) ([]model.Animal, error) {
	return s.list(ctx, repository.AnimalFilter{Adopted: ptr(false), Location: location})
}

// ListBySpeciesAndLocation combines the species filter (or the exotic
// exclusion for ExoticSpecies) with the location filter. Available
// animals only.
func (s *AnimalService) ListBySpeciesAndLocation(ctx context.Context, species, location string) ([]model.Animal, error) {
	f := repository.AnimalFilter{Adopted: ptr(false), Location: location}
	if species == ExoticSpecies {
		f.ExcludeSpecies = commonSpecies
	} else {
		f.Species = species
	}
	return s.list(ctx, f)
}

// Search serves GET /api/animals. Precedence:
//  1. species and location
//  2. species alone (ExoticSpecies selects the exotic filter)
//  3. location alone
//  4. nothing: every available animal
func (s *AnimalService) Search(ctx context.Context, q AnimalSearch) ([]model.Animal, error) {
	switch {
	case q.Species != "" && q.Location != "":
		return s.ListBySpeciesAndLocation(ctx, q.Species, q.Location)
	case q.Species == ExoticSpecies:
		return s.ListExotic(ctx, true)
	case q.Species != "":
		return s.ListBySpecies(ctx, q.Species, true)
	case q.Location != "":
		return s.ListByLocation(ctx, q.Location)
	default:
		return s.ListAvailable(ctx)
	}
}

// GetByIDWithShelter returns one animal with its shelter. A nil id is
// reported as not found without touching storage.
func (s *AnimalService) GetByIDWithShelter(ctx context.Context, id *int64) (*model.Animal, error) {
	if id == nil {
		return nil, apperror.NotFound("animal", "null")
	}
	a, err := s.repo.GetByID(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("getting animal: %w", err)
	}
	a.FillAge(s.now())
	return a, nil
}

// Create stores a new animal and returns it as stored, shelter included.
func (s *AnimalService) Create(ctx context.Context, a *model.Animal) (*model.Animal, error) {
	if err := validateAnimal(a); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("creating animal: %w", err)
	}

	s.logger.Info("animal created",
		slog.Int64("id", a.ID),
		slog.String("name", a.Name),
		slog.String("species", a.Species),
	)
	return s.GetByIDWithShelter(ctx, &a.ID)
}

// Update replaces every field of animal id. Toggling Adopted is how an
// adoption is recorded.
func (s *AnimalService) Update(ctx context.Context, id int64, a *model.Animal) (*model.Animal, error) {
	if err := validateAnimal(a); err != nil {
		return nil, err
	}
	a.ID = id
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating animal %d: %w", id, err)
	}

	s.logger.Info("animal updated", slog.Int64("id", id), slog.Bool("adopted", a.Adopted))
	return s.GetByIDWithShelter(ctx, &id)
}

func (s *AnimalService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting animal %d: %w", id, err)
	}
	s.logger.Info("animal deleted", slog.Int64("id", id))
	return nil
}

func availability(onlyAvailable bool) *bool {
	if onlyAvailable {
		return ptr(false)
	}
	return nil
}

func validateAnimal(a *model.Animal) error {
	if a == nil {
		return apperror.ValidationFailed("", "animal body is required")
	}
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return apperror.ValidationFailed("nomAn", "animal name is required")
	}
	if a.Species == ExoticSpecies {
		return apperror.ValidationFailed("especie",
			fmt.Sprintf("%q is a search category, not a species", ExoticSpecies))
	}
	return nil
}
