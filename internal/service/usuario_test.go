package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buscadorpelut/buscadorpelut/internal/apperror"
	"github.com/buscadorpelut/buscadorpelut/internal/auth"
	"github.com/buscadorpelut/buscadorpelut/internal/model"
)

func newTestUsuarioService(t *testing.T) (*UsuarioService, *fakeUsuarioRepo) {
	t.Helper()
	repo := newFakeUsuarioRepo()
	return NewUsuarioService(repo, auth.NewPasswordServiceForTest(), discardLogger()), repo
}

func register(t *testing.T, svc *UsuarioService, email, password string) *model.Usuario {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Name: "Anna", Surname1: "Puig", Email: email, Password: password,
	})
	require.NoError(t, err)
	return u
}

// =========================================================================
// REGISTER + AUTHENTICATE
// =========================================================================

func TestRegister_ThenAuthenticate(t *testing.T) {
	svc, repo := newTestUsuarioService(t)
	ctx := context.Background()

	u := register(t, svc, "anna@pelut.cat", "gossos-i-gats")
	assert.Equal(t, model.RolAdoptant, u.Rol)

	stored := repo.users[u.ID]
	assert.NotEqual(t, "gossos-i-gats", stored.PasswordHash, "plaintext must never be stored")

	ok, err := svc.Authenticate(ctx, "anna@pelut.cat", "gossos-i-gats")
	require.NoError(t, err)
	assert.True(t, ok)

	for _, wrong := range []string{"", "gossos-i-gat", "GOSSOS-I-GATS"} {
		ok, err := svc.Authenticate(ctx, "anna@pelut.cat", wrong)
		require.NoError(t, err)
		assert.False(t, ok, "password %q must not authenticate", wrong)
	}

	ok, err = svc.Authenticate(ctx, "ningu@pelut.cat", "gossos-i-gats")
	require.NoError(t, err)
	assert.False(t, ok, "unknown email is a plain false")
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestUsuarioService(t)

	tests := []struct {
		name      string
		in        RegisterInput
		wantField string
	}{
		{"missing name", RegisterInput{Surname1: "P", Email: "a@b.cat", Password: "x"}, "nomUs"},
		{"missing surname", RegisterInput{Name: "A", Email: "a@b.cat", Password: "x"}, "cognom1"},
		{"missing email", RegisterInput{Name: "A", Surname1: "P", Password: "x"}, "emailUs"},
		{"bad email", RegisterInput{Name: "A", Surname1: "P", Email: "nope", Password: "x"}, "emailUs"},
		{"missing password", RegisterInput{Name: "A", Surname1: "P", Email: "a@b.cat"}, "clauPas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.True(t, errors.Is(err, apperror.ErrValidation))
			assert.Equal(t, tt.wantField, appErr.Field)
		})
	}
}

func TestRegister_DuplicateEmailIsConflict(t *testing.T) {
	svc, _ := newTestUsuarioService(t)
	register(t, svc, "anna@pelut.cat", "x")

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Altra", Surname1: "Anna", Email: "ANNA@pelut.cat", Password: "y",
	})
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	svc, _ := newTestUsuarioService(t)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Register(context.Background(), RegisterInput{
				Name: fmt.Sprintf("U%d", i), Surname1: "S", Email: "same@pelut.cat", Password: "x",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperror.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestUsuarioService(t)
	u := register(t, svc, "anna@pelut.cat", "secret")

	dto, err := svc.Login(context.Background(), "anna@pelut.cat", "secret")
	require.NoError(t, err)
	require.NotNil(t, dto.ID)
	assert.Equal(t, u.ID, *dto.ID)
	assert.Equal(t, "ADOPTANT", dto.Rol)
	assert.Empty(t, dto.Password)

	_, err = svc.Login(context.Background(), "anna@pelut.cat", "wrong")
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
}

// =========================================================================
// UPDATE PROFILE
// =========================================================================

func TestUpdateProfile_EmailClashLeavesRecordUnchanged(t *testing.T) {
	svc, repo := newTestUsuarioService(t)
	anna := register(t, svc, "anna@pelut.cat", "x")
	register(t, svc, "joan@pelut.cat", "y")
	before := repo.users[anna.ID]

	_, err := svc.UpdateProfile(context.Background(), anna.ID, model.UsuarioDTO{
		Name: "Changed", Surname1: "Changed", Email: "JOAN@pelut.cat",
	})
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, before, repo.users[anna.ID])
}

func TestUpdateProfile_EmptyPasswordKeepsHash(t *testing.T) {
	svc, repo := newTestUsuarioService(t)
	anna := register(t, svc, "anna@pelut.cat", "first-secret")
	oldHash := repo.users[anna.ID].PasswordHash

	dto, err := svc.UpdateProfile(context.Background(), anna.ID, model.UsuarioDTO{
		Name: "Anna Maria", Surname1: "Puig", Surname2: "Vila",
	})
	require.NoError(t, err)
	assert.Equal(t, "Anna Maria", dto.Name)
	assert.Equal(t, "anna@pelut.cat", dto.Email, "absent email keeps the stored one")
	assert.Equal(t, oldHash, repo.users[anna.ID].PasswordHash)

	ok, err := svc.Authenticate(context.Background(), "anna@pelut.cat", "first-secret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateProfile_NewPasswordAndEmail(t *testing.T) {
	svc, _ := newTestUsuarioService(t)
	anna := register(t, svc, "anna@pelut.cat", "first-secret")
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, anna.ID, model.UsuarioDTO{
		Name: "Anna", Surname1: "Puig", Email: "anna.puig@pelut.cat", Password: "nova",
	})
	require.NoError(t, err)

	ok, _ := svc.Authenticate(ctx, "anna.puig@pelut.cat", "nova")
	assert.True(t, ok)
	ok, _ = svc.Authenticate(ctx, "anna.puig@pelut.cat", "first-secret")
	assert.False(t, ok)
}

func TestUpdateProfile_CaseOnlyEmailChangeIsIgnored(t *testing.T) {
	svc, _ := newTestUsuarioService(t)
	anna := register(t, svc, "anna@pelut.cat", "x")

	dto, err := svc.UpdateProfile(context.Background(), anna.ID, model.UsuarioDTO{Name: "Anna", Email: "ANNA@PELUT.CAT"})
	require.NoError(t, err)
	assert.Equal(t, "anna@pelut.cat", dto.Email)
}

func TestUpdateProfile_NotFound(t *testing.T) {
	svc, _ := newTestUsuarioService(t)

	_, err := svc.UpdateProfile(context.Background(), 42, model.UsuarioDTO{Name: "X"})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

// =========================================================================
// DTO + ADMIN
// =========================================================================

func TestFromDTO_Roles(t *testing.T) {
	u, err := FromDTO(model.UsuarioDTO{Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, model.RolAdoptant, u.Rol, "empty role defaults to ADOPTANT")

	u, err = FromDTO(model.UsuarioDTO{Name: "A", Rol: "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, model.RolAdmin, u.Rol)

	_, err = FromDTO(model.UsuarioDTO{Name: "A", Rol: "ROOT"})
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestToDTO_NeverExposesHash(t *testing.T) {
	dto := ToDTO(&model.Usuario{ID: 3, Email: "a@b.cat", PasswordHash: "$2a$04$secret", Rol: model.RolAdmin})
	assert.Empty(t, dto.Password)
	assert.Equal(t, "ADMIN", dto.Rol)
	require.NotNil(t, dto.ID)
	assert.Equal(t, int64(3), *dto.ID)
}

func TestSave_CreateAndUpdate(t *testing.T) {
	svc, repo := newTestUsuarioService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, model.UsuarioDTO{Name: "Admin", Email: "admin@pelut.cat"})
	assert.True(t, errors.Is(err, apperror.ErrValidation), "create needs a password")

	created, err := svc.Save(ctx, model.UsuarioDTO{Name: "Admin", Email: "admin@pelut.cat", Password: "pw", Rol: "ADMIN"})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	hash := repo.users[*created.ID].PasswordHash

	created.Rol = "ADOPTANT"
	updated, err := svc.Save(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "ADOPTANT", updated.Rol)
	assert.Equal(t, hash, repo.users[*created.ID].PasswordHash, "no password keeps the hash")

	missing := int64(77)
	_, err = svc.Save(ctx, model.UsuarioDTO{ID: &missing, Name: "X", Email: "x@pelut.cat"})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestEnsureAdmin(t *testing.T) {
	svc, _ := newTestUsuarioService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "admin@pelut.cat", "pw")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "ADMIN@pelut.cat", "other")
	require.NoError(t, err)
	assert.False(t, created, "second run is a no-op")

	u, err := svc.AuthenticateUser(ctx, "admin@pelut.cat", "pw")
	require.NoError(t, err)
	assert.Equal(t, model.RolAdmin, u.Rol)
}

func TestUpdateProfile_BlankNameRejected(t *testing.T) {
	svc, repo := newTestUsuarioService(t)
	anna := register(t, svc, "anna@pelut.cat", "x")
	before := repo.users[anna.ID]

	_, err := svc.UpdateProfile(context.Background(), anna.ID, model.UsuarioDTO{Name: "   ", Surname1: "Puig"})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "nomUs", appErr.Field)
	assert.Equal(t, before, repo.users[anna.ID])
}

func TestUpdateProfile_TrimsNames(t *testing.T) {
	svc, _ := newTestUsuarioService(t)
	anna := register(t, svc, "anna@pelut.cat", "x")

	dto, err := svc.UpdateProfile(context.Background(), anna.ID, model.UsuarioDTO{Name: " Anna ", Surname1: " Puig "})
	require.NoError(t, err)
	assert.Equal(t, "Anna", dto.Name)
	assert.Equal(t, "Puig", dto.Surname1)
}

func TestRegister_OverlongPasswordIsValidation(t *testing.T) {
	svc, _ := newTestUsuarioService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Anna", Surname1: "Puig", Email: "anna@pelut.cat", Password: strings.Repeat("p", 73),
	})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, "clauPas", appErr.Field)
}

func TestUpdateProfile_NonASCIICaseOnlyChangeIsIgnored(t *testing.T) {
	svc, _ := newTestUsuarioService(t)
	elia := register(t, svc, "èlia@pelut.cat", "x")

	dto, err := svc.UpdateProfile(context.Background(), elia.ID, model.UsuarioDTO{Name: "Èlia", Email: "ÈLIA@pelut.cat"})
	require.NoError(t, err)
	assert.Equal(t, "èlia@pelut.cat", dto.Email)
}
