package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/buscadorpelut/buscadorpelut/internal/apperror"
	"github.com/buscadorpelut/buscadorpelut/internal/model"
	"github.com/buscadorpelut/buscadorpelut/internal/repository"
)

// =========================================================================
// FAKE REPOSITORIES
// =========================================================================
//
// Hand-written in-memory implementations of the repository interfaces.
// The animal and shelter fakes record the filter they receive, because
// what those services decide is WHICH filter to run. The user fake behaves
// like the real table, case-insensitive unique email included.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAnimalRepo struct {
	animals    map[int64]model.Animal
	nextID     int64
	lastFilter *repository.AnimalFilter
	calls      int
}

func newFakeAnimalRepo() *fakeAnimalRepo {
	return &fakeAnimalRepo{animals: make(map[int64]model.Animal)}
}

func (f *fakeAnimalRepo) List(_ context.Context, filter repository.AnimalFilter) ([]model.Animal, error) {
	f.calls++
	f.lastFilter = &filter
	out := make([]model.Animal, 0, len(f.animals))
	for id := int64(1); id <= f.nextID; id++ {
		if a, ok := f.animals[id]; ok && matches(a, filter) {
			out = append(out, a)
		}
	}
	return out, nil
}

// matches mirrors the SQL predicates closely enough for service tests.
func matches(a model.Animal, f repository.AnimalFilter) bool {
	if f.Adopted != nil && a.Adopted != *f.Adopted {
		return false
	}
	if f.Species != "" && a.Species != f.Species {
		return false
	}
	for _, ex := range f.ExcludeSpecies {
		if a.Species == ex {
			return false
		}
	}
	if f.Location != "" {
		if a.Shelter == nil || (a.Shelter.Province != f.Location && a.Shelter.PostalCode != f.Location) {
			return false
		}
	}
	return true
}

func (f *fakeAnimalRepo) GetByID(_ context.Context, id int64) (*model.Animal, error) {
	f.calls++
	a, ok := f.animals[id]
	if !ok {
		return nil, apperror.NotFound("animal", id)
	}
	return &a, nil
}

func (f *fakeAnimalRepo) Create(_ context.Context, a *model.Animal) error {
	f.calls++
	f.nextID++
	a.ID = f.nextID
	f.animals[a.ID] = *a
	return nil
}

func (f *fakeAnimalRepo) Update(_ context.Context, a *model.Animal) error {
	f.calls++
	if _, ok := f.animals[a.ID]; !ok {
		return apperror.NotFound("animal", a.ID)
	}
	f.animals[a.ID] = *a
	return nil
}

func (f *fakeAnimalRepo) Delete(_ context.Context, id int64) error {
	f.calls++
	if _, ok := f.animals[id]; !ok {
		return apperror.NotFound("animal", id)
	}
	delete(f.animals, id)
	return nil
}

type fakeProtectoraRepo struct {
	shelters   []model.Protectora
	lastFilter *repository.ProtectoraFilter
	lastMethod string
}

func (f *fakeProtectoraRepo) List(_ context.Context, filter repository.ProtectoraFilter) ([]model.Protectora, error) {
	f.lastFilter, f.lastMethod = &filter, "List"
	return append([]model.Protectora{}, f.shelters...), nil
}

func (f *fakeProtectoraRepo) First(_ context.Context, filter repository.ProtectoraFilter) (*model.Protectora, error) {
	f.lastFilter, f.lastMethod = &filter, "First"
	if len(f.shelters) == 0 {
		return nil, apperror.NotFound("protectora", "?")
	}
	p := f.shelters[0]
	return &p, nil
}

func (f *fakeProtectoraRepo) GetByID(_ context.Context, id int64) (*model.Protectora, error) {
	f.lastMethod = "GetByID"
	for _, p := range f.shelters {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, apperror.NotFound("protectora", id)
}

func (f *fakeProtectoraRepo) Create(_ context.Context, p *model.Protectora) error {
	p.ID = int64(len(f.shelters) + 1)
	f.shelters = append(f.shelters, *p)
	return nil
}

func (f *fakeProtectoraRepo) Update(_ context.Context, p *model.Protectora) error {
	for i := range f.shelters {
		if f.shelters[i].ID == p.ID {
			f.shelters[i] = *p
			return nil
		}
	}
	return apperror.NotFound("protectora", p.ID)
}

func (f *fakeProtectoraRepo) Delete(_ context.Context, id int64) error {
	for i := range f.shelters {
		if f.shelters[i].ID == id {
			f.shelters = append(f.shelters[:i], f.shelters[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("protectora", id)
}

// fakeUsuarioRepo is safe for concurrent use so it can back the
// concurrent registration test.
type fakeUsuarioRepo struct {
	mu     sync.Mutex
	users  map[int64]model.Usuario
	nextID int64
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{users: make(map[int64]model.Usuario)}
}

func (f *fakeUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Usuario, 0, len(f.users))
	for id := int64(1); id <= f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsuarioRepo) GetByID(_ context.Context, id int64) (*model.Usuario, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("usuari", id)
	}
	return &u, nil
}

func (f *fakeUsuarioRepo) GetByEmail(_ context.Context, email string) (*model.Usuario, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if model.EmailKey(u.Email) == model.EmailKey(email) {
			return &u, nil
		}
	}
	return nil, apperror.NotFoundBy("usuari", "email", email)
}

func (f *fakeUsuarioRepo) emailUsedByOther(email string, id int64) bool {
	for _, u := range f.users {
		if u.ID != id && model.EmailKey(u.Email) == model.EmailKey(email) {
			return true
		}
	}
	return false
}

func (f *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emailUsedByOther(u.Email, 0) {
		return apperror.Conflict("usuari", "email")
	}
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return apperror.NotFound("usuari", u.ID)
	}
	if f.emailUsedByOther(u.Email, u.ID) {
		return apperror.Conflict("usuari", "email")
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUsuarioRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return apperror.NotFound("usuari", id)
	}
	delete(f.users, id)
	return nil
}
