package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buscadorpelut/buscadorpelut/internal/apperror"
	"github.com/buscadorpelut/buscadorpelut/internal/model"
)

func newTestAnimalService(t *testing.T) (*AnimalService, *fakeAnimalRepo) {
	t.Helper()
	repo := newFakeAnimalRepo()
	svc := NewAnimalService(repo, discardLogger())
	svc.now = func() time.Time { return time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func seedAnimals(t *testing.T, repo *fakeAnimalRepo) {
	t.Helper()
	girona := &model.Protectora{ID: 1, Province: "Girona", PostalCode: "17001"}
	bcn := &model.Protectora{ID: 2, Province: "Barcelona", PostalCode: "08001"}
	for _, a := range []model.Animal{
		{Name: "Dark", Species: "Gos", Shelter: girona},
		{Name: "Mixa", Species: "Gat", Shelter: bcn},
		{Name: "Rocky", Species: "Conill", Shelter: girona},
		{Name: "Polly", Species: "Lloro", Adopted: true, Shelter: bcn},
		{Name: "Pelut", Species: "gos", Shelter: bcn},
	} {
		a := a
		require.NoError(t, repo.Create(context.Background(), &a))
	}
}

func animalNames(animals []model.Animal) []string {
	out := make([]string, 0, len(animals))
	for _, a := range animals {
		out = append(out, a.Name)
	}
	return out
}

func TestAnimalSearch_Precedence(t *testing.T) {
	tests := []struct {
		name string
		q    AnimalSearch
		want []string
	}{
		{"no parameters lists available", AnimalSearch{}, []string{"Dark", "Mixa", "Rocky", "Pelut"}},
		{"species only", AnimalSearch{Species: "Gos"}, []string{"Dark"}},
		{"exotic sentinel", AnimalSearch{Species: ExoticSpecies}, []string{"Rocky", "Pelut"}},
		{"location only", AnimalSearch{Location: "Barcelona"}, []string{"Mixa", "Pelut"}},
		{"species and location", AnimalSearch{Species: "Gat", Location: "08001"}, []string{"Mixa"}},
		{"exotic and location", AnimalSearch{Species: ExoticSpecies, Location: "Girona"}, []string{"Rocky"}},
		{"no match is empty, not an error", AnimalSearch{Species: "Tortuga"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestAnimalService(t)
			seedAnimals(t, repo)

			got, err := svc.Search(context.Background(), tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, animalNames(got))
		})
	}
}

func TestListExotic_NeverReturnsDogsOrCats(t *testing.T) {
	svc, repo := newTestAnimalService(t)
	seedAnimals(t, repo)

	for _, onlyAvailable := range []bool{true, false} {
		got, err := svc.ListExotic(context.Background(), onlyAvailable)
		require.NoError(t, err)
		for _, a := range got {
			assert.NotEqual(t, "Gos", a.Species)
			assert.NotEqual(t, "Gat", a.Species)
		}
		assert.Contains(t, animalNames(got), "Pelut", "lowercase gos is exotic: matching is exact")
	}

	all, err := svc.ListExotic(context.Background(), false)
	require.NoError(t, err)
	assert.Contains(t, animalNames(all), "Polly", "adopted exotics are included when not filtering")
	assert.Equal(t, []string{"Gos", "Gat"}, repo.lastFilter.ExcludeSpecies)
	assert.Nil(t, repo.lastFilter.Adopted)
}

func TestListAdopted(t *testing.T) {
	svc, repo := newTestAnimalService(t)
	seedAnimals(t, repo)

	got, err := svc.ListAdopted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Polly"}, animalNames(got))

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestGetByIDWithShelter_NilIDSkipsStorage(t *testing.T) {
	svc, repo := newTestAnimalService(t)

	_, err := svc.GetByIDWithShelter(context.Background(), nil)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.Zero(t, repo.calls, "a nil id must not reach the repository")

	missing := int64(99)
	_, err = svc.GetByIDWithShelter(context.Background(), &missing)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestGetByIDWithShelter_FillsAge(t *testing.T) {
	svc, repo := newTestAnimalService(t)
	birth := model.NewDate(2022, time.March, 20)
	a := &model.Animal{Name: "Dark", Species: "Gos", BirthDate: &birth}
	require.NoError(t, repo.Create(context.Background(), a))

	got, err := svc.GetByIDWithShelter(context.Background(), &a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Age)
	assert.Equal(t, model.Age{Years: 2, Months: 2, Days: 26}, *got.Age)
}

func TestAnimalCreateUpdateDelete(t *testing.T) {
	svc, _ := newTestAnimalService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.Animal{Name: "   "})
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = svc.Create(ctx, &model.Animal{Name: "X", Species: ExoticSpecies})
	assert.True(t, errors.Is(err, apperror.ErrValidation), "the sentinel is not a storable species")

	created, err := svc.Create(ctx, &model.Animal{Name: " Dark ", Species: "Gos"})
	require.NoError(t, err)
	assert.Equal(t, "Dark", created.Name)

	created.Adopted = true
	updated, err := svc.Update(ctx, created.ID, created)
	require.NoError(t, err)
	assert.True(t, updated.Adopted)

	_, err = svc.Update(ctx, 404, &model.Animal{Name: "Ghost"})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, created.ID), apperror.ErrNotFound))
}
