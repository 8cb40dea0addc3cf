package sqlstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buscadorpelut/buscadorpelut/internal/apperror"
	"github.com/buscadorpelut/buscadorpelut/internal/model"
	"github.com/buscadorpelut/buscadorpelut/internal/repository"
	"github.com/buscadorpelut/buscadorpelut/internal/repository/sqlite"
	"github.com/buscadorpelut/buscadorpelut/internal/repository/sqlstore"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" creates a fresh database that exists only for this test. It
// runs the same queries as production and needs no server.
func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createShelter(t *testing.T, s *sqlstore.Store, name, province, postalCode string) *model.Protectora {
	t.Helper()
	p := &model.Protectora{Name: name, Province: province, PostalCode: postalCode, Longitude: 2.1, Latitude: 41.3}
	require.NoError(t, s.Protectores().Create(context.Background(), p))
	return p
}

func createAnimal(t *testing.T, s *sqlstore.Store, name, species string, adopted bool, shelter *model.Protectora) *model.Animal {
	t.Helper()
	a := &model.Animal{Name: name, Species: species, Adopted: adopted, Shelter: shelter}
	require.NoError(t, s.Animals().Create(context.Background(), a))
	return a
}

func names(animals []model.Animal) []string {
	out := make([]string, len(animals))
	for i, a := range animals {
		out[i] = a.Name
	}
	return out
}

// =========================================================================
// ANIMAL TESTS
// =========================================================================

func TestAnimal_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	shelter := createShelter(t, s, "Protectora de Girona", "Girona", "17001")

	birth := model.NewDate(2019, time.April, 2)
	chip := int64(941000024681357)
	a := &model.Animal{
		Name: "Dark", Sex: "Mascle", Species: "Gos", BirthDate: &birth,
		ChipNumber: &chip, Description: "Molt juganer", PhotoURL: "https://img/dark.jpg",
		Shelter: &model.Protectora{ID: shelter.ID, Name: "ignored on write"},
	}
	require.NoError(t, s.Animals().Create(ctx, a))
	require.NotZero(t, a.ID)

	got, err := s.Animals().GetByID(ctx, a.ID)
	require.NoError(t, err)

	assert.Equal(t, "Dark", got.Name)
	require.NotNil(t, got.BirthDate)
	assert.Equal(t, "2019-04-02", got.BirthDate.String())
	require.NotNil(t, got.ChipNumber)
	assert.Equal(t, chip, *got.ChipNumber)
	assert.False(t, got.Adopted)
	require.NotNil(t, got.Shelter, "the shelter is joined on read")
	assert.Equal(t, "Protectora de Girona", got.Shelter.Name)
}

func TestAnimal_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Animals().GetByID(context.Background(), 999)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestAnimal_NullableColumns(t *testing.T) {
	s := newTestStore(t)
	a := createAnimal(t, s, "Sense dades", "Gat", false, nil)

	got, err := s.Animals().GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BirthDate)
	assert.Nil(t, got.ChipNumber)
	assert.Nil(t, got.Shelter)
	assert.Empty(t, got.PhotoURL)
}

func TestAnimal_ListFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	girona := createShelter(t, s, "Girona", "Girona", "17001")
	bcn := createShelter(t, s, "Barcelona", "Barcelona", "08001")

	createAnimal(t, s, "Dark", "Gos", false, girona)
	createAnimal(t, s, "Mixa", "Gat", false, bcn)
	createAnimal(t, s, "Rocky", "Conill", false, girona)
	createAnimal(t, s, "Polly", "Lloro", true, bcn)
	createAnimal(t, s, "Orfe", "Gos", false, nil)

	no, yes := false, true
	tests := []struct {
		name   string
		filter repository.AnimalFilter
		want   []string
	}{
		{"all", repository.AnimalFilter{}, []string{"Dark", "Mixa", "Rocky", "Polly", "Orfe"}},
		{"available", repository.AnimalFilter{Adopted: &no}, []string{"Dark", "Mixa", "Rocky", "Orfe"}},
		{"adopted", repository.AnimalFilter{Adopted: &yes}, []string{"Polly"}},
		{"species exact", repository.AnimalFilter{Species: "Gos"}, []string{"Dark", "Orfe"}},
		{"species is case sensitive", repository.AnimalFilter{Species: "gos"}, []string{}},
		{"exotic", repository.AnimalFilter{ExcludeSpecies: []string{"Gos", "Gat"}}, []string{"Rocky", "Polly"}},
		{"exotic available", repository.AnimalFilter{Adopted: &no, ExcludeSpecies: []string{"Gos", "Gat"}}, []string{"Rocky"}},
		{"location by province", repository.AnimalFilter{Location: "Girona"}, []string{"Dark", "Rocky"}},
		{"location by postal code", repository.AnimalFilter{Location: "08001"}, []string{"Mixa", "Polly"}},
		{"species and location", repository.AnimalFilter{Species: "Gos", Location: "17001"}, []string{"Dark"}},
		{"no match", repository.AnimalFilter{Location: "Lleida"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Animals().List(ctx, tt.filter)
			require.NoError(t, err)
			require.NotNil(t, got, "empty results are empty slices, not nil")
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestAnimal_UpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := createAnimal(t, s, "Dark", "Gos", false, nil)

	a.Adopted = true
	require.NoError(t, s.Animals().Update(ctx, a))

	got, err := s.Animals().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Adopted)

	require.NoError(t, s.Animals().Delete(ctx, a.ID))
	assert.True(t, errors.Is(s.Animals().Delete(ctx, a.ID), apperror.ErrNotFound))
	assert.True(t, errors.Is(s.Animals().Update(ctx, a), apperror.ErrNotFound))
}

func TestAnimal_UniqueAndForeignKeyViolations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chip := int64(123)
	require.NoError(t, s.Animals().Create(ctx, &model.Animal{Name: "A", ChipNumber: &chip}))
	err := s.Animals().Create(ctx, &model.Animal{Name: "B", ChipNumber: &chip})
	assert.True(t, errors.Is(err, apperror.ErrConflict), "duplicate chip: %v", err)

	// Two animals without photo must not collide on the unique photo column.
	require.NoError(t, s.Animals().Create(ctx, &model.Animal{Name: "C"}))
	require.NoError(t, s.Animals().Create(ctx, &model.Animal{Name: "D"}))

	err = s.Animals().Create(ctx, &model.Animal{Name: "E", Shelter: &model.Protectora{ID: 404}})
	assert.True(t, errors.Is(err, apperror.ErrValidation), "unknown shelter: %v", err)
}

// =========================================================================
// PROTECTORA TESTS
// =========================================================================

func TestProtectora_FirstAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	first := createShelter(t, s, "Dup", "Girona", "17001")
	createShelter(t, s, "Dup", "Girona", "17002")

	got, err := s.Protectores().First(ctx, repository.ProtectoraFilter{Name: "Dup"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID, "the lowest id wins")

	list, err := s.Protectores().List(ctx, repository.ProtectoraFilter{Province: "Girona"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	lon, lat := 2.1, 41.3
	byCoords, err := s.Protectores().First(ctx, repository.ProtectoraFilter{Longitude: &lon, Latitude: &lat})
	require.NoError(t, err)
	assert.Equal(t, first.ID, byCoords.ID)

	off := 2.1000001
	_, err = s.Protectores().First(ctx, repository.ProtectoraFilter{Longitude: &off, Latitude: &lat})
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "coordinates compare exactly")
}

func TestProtectora_DeleteDetachesAnimals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	shelter := createShelter(t, s, "Tancada", "Lleida", "25001")
	a := createAnimal(t, s, "Dark", "Gos", false, shelter)

	require.NoError(t, s.Protectores().Delete(ctx, shelter.ID))

	got, err := s.Animals().GetByID(ctx, a.ID)
	require.NoError(t, err, "the animal survives its shelter")
	assert.Nil(t, got.Shelter)

	assert.True(t, errors.Is(s.Protectores().Delete(ctx, shelter.ID), apperror.ErrNotFound))
}

// =========================================================================
// USUARIO TESTS
// =========================================================================

func TestUsuario_EmailIsUniqueCaseInsensitively(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	anna := &model.Usuario{Name: "Anna", Email: "anna@pelut.cat", PasswordHash: "x"}
	require.NoError(t, s.Usuaris().Create(ctx, anna))
	assert.Equal(t, model.RolAdoptant, anna.Rol)

	err := s.Usuaris().Create(ctx, &model.Usuario{Name: "Impostora", Email: "ANNA@pelut.cat", PasswordHash: "y"})
	assert.True(t, errors.Is(err, apperror.ErrConflict))

	got, err := s.Usuaris().GetByEmail(ctx, "Anna@Pelut.Cat")
	require.NoError(t, err)
	assert.Equal(t, anna.ID, got.ID)

	_, err = s.Usuaris().GetByEmail(ctx, "ningu@pelut.cat")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestUsuario_NonASCIIEmailIsUniqueCaseInsensitively(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	elia := &model.Usuario{Name: "Èlia", Email: "ÈLIA@pelut.cat", PasswordHash: "x"}
	require.NoError(t, s.Usuaris().Create(ctx, elia))

	err := s.Usuaris().Create(ctx, &model.Usuario{Name: "Impostora", Email: "èlia@pelut.cat", PasswordHash: "y"})
	assert.True(t, errors.Is(err, apperror.ErrConflict), "accented letters fold too")

	got, err := s.Usuaris().GetByEmail(ctx, "èlia@PELUT.cat")
	require.NoError(t, err)
	assert.Equal(t, elia.ID, got.ID)
	assert.Equal(t, "ÈLIA@pelut.cat", got.Email, "the address is stored as typed")

	other := &model.Usuario{Name: "Ona", Email: "ona@pelut.cat", PasswordHash: "z"}
	require.NoError(t, s.Usuaris().Create(ctx, other))
	other.Email = "Èlia@pelut.cat"
	assert.True(t, errors.Is(s.Usuaris().Update(ctx, other), apperror.ErrConflict))
}

func TestUsuario_UpdateConflictAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &model.Usuario{Name: "A", Email: "a@pelut.cat", PasswordHash: "x", Rol: model.RolAdmin}
	b := &model.Usuario{Name: "B", Email: "b@pelut.cat", PasswordHash: "x"}
	require.NoError(t, s.Usuaris().Create(ctx, a))
	require.NoError(t, s.Usuaris().Create(ctx, b))

	b.Email = "A@pelut.cat"
	assert.True(t, errors.Is(s.Usuaris().Update(ctx, b), apperror.ErrConflict))

	got, err := s.Usuaris().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RolAdmin, got.Rol, "role round-trips as its name")

	list, err := s.Usuaris().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.Usuaris().Delete(ctx, b.ID))
	_, err = s.Usuaris().GetByID(ctx, b.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestUsuario_UnknownRoleInStorageIsRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &model.Usuario{Name: "A", Email: "a@pelut.cat", PasswordHash: "x"}
	require.NoError(t, s.Usuaris().Create(ctx, u))

	// Bypass the CHECK constraint to simulate a row written by another tool.
	_, err := s.DB().ExecContext(ctx, `PRAGMA ignore_check_constraints = ON`)
	require.NoError(t, err)
	_, err = s.DB().ExecContext(ctx, `UPDATE usuari SET rol_us = 'GUEST' WHERE codi_us = ?`, u.ID)
	require.NoError(t, err)

	_, err = s.Usuaris().GetByID(ctx, u.ID)
	assert.True(t, errors.Is(err, model.ErrUnknownRol))
}
