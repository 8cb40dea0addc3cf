package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/buscadorpelut/buscadorpelut/internal/apperror"
	"github.com/buscadorpelut/buscadorpelut/internal/auth"
	"github.com/buscadorpelut/buscadorpelut/internal/model"
	"github.com/buscadorpelut/buscadorpelut/internal/repository"
)

// RegisterInput is the self-service sign-up form.
type RegisterInput struct {
	Name     string
	Surname1 string
	Surname2 string
	Email    string
	Password string
}

// UsuarioService handles accounts: registration, credential checks,
// profile updates and the admin CRUD.
//
// DEPENDENCIES (injected via NewUsuarioService):
//   - repo       repository.UsuarioRepository -> read/write user records
//   - passwords  *auth.PasswordService        -> bcrypt with the configured cost
//   - logger     *slog.Logger
type UsuarioService struct {
	repo      repository.UsuarioRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

var _ auth.Authenticator = (*UsuarioService)(nil)

func NewUsuarioService(repo repository.UsuarioRepository, passwords *auth.PasswordService, logger *slog.Logger) *UsuarioService {
	return &UsuarioService{repo: repo, passwords: passwords, logger: logger}
}

// Register creates an ADOPTANT account. The plaintext password is hashed
// before it reaches storage; every other field is stored as given.
//
// A duplicate email is rejected by the storage unique index and comes back
// as apperror.ErrConflict. There is no pre-check here: two concurrent
// registrations would both pass one anyway.
func (s *UsuarioService) Register(ctx context.Context, in RegisterInput) (*model.Usuario, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname1 = strings.TrimSpace(in.Surname1)
	in.Email = strings.TrimSpace(in.Email)

	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	switch {
	case in.Surname1 == "":
		return nil, apperror.ValidationFailed("cognom1", "first surname is required")
	case in.Email == "":
		return nil, apperror.ValidationFailed("emailUs", "email is required")
	case !strings.Contains(in.Email, "@"):
		return nil, apperror.ValidationFailed("emailUs", "email is not valid")
	case in.Password == "":
		return nil, apperror.ValidationFailed("clauPas", "password is required")
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &model.Usuario{
		Name:         in.Name,
		Surname1:     in.Surname1,
		Surname2:     strings.TrimSpace(in.Surname2),
		Email:        in.Email,
		PasswordHash: hash,
		Rol:          model.RolAdoptant,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("registering usuari: %w", err)
	}

	s.logger.Info("usuari registered", slog.Int64("id", u.ID))
	return u, nil
}

// AuthenticateUser returns the user owning email when password matches.
// Unknown email and wrong password both yield apperror.ErrUnauthorized, so
// callers cannot tell which one failed.
//
// TIMING:
// An unknown email returns right after the lookup, while a known one pays
// for a bcrypt comparison. Response time therefore reveals whether an
// email is registered. This is known and left as is.
func (s *UsuarioService) AuthenticateUser(ctx context.Context, email, password string) (*model.Usuario, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("authenticating: %w", err)
	}

	if err := s.passwords.Verify(u.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrInvalidPassword) {
			// A malformed stored hash can never match; log it for repair.
			s.logger.Warn("stored password hash is unusable",
				slog.Int64("id", u.ID),
				slog.String("error", err.Error()),
			)
		}
		return nil, apperror.Unauthorized("invalid credentials")
	}
	return u, nil
}

// Authenticate reports whether email and password match a stored account.
// Only storage failures are returned as errors.
func (s *UsuarioService) Authenticate(ctx context.Context, email, password string) (bool, error) {
	_, err := s.AuthenticateUser(ctx, email, password)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Login authenticates and returns the caller's profile.
func (s *UsuarioService) Login(ctx context.Context, email, password string) (model.UsuarioDTO, error) {
	u, err := s.AuthenticateUser(ctx, email, password)
	if err != nil {
		return model.UsuarioDTO{}, err
	}
	return ToDTO(u), nil
}

// UpdateProfile applies a self-service profile edit to user id.
//
// RULES:
//   - email: only considered when present and different, ignoring case,
//     from the stored one; it must then not belong to another account
//   - names: always overwritten with the given values; nomUs must not be
//     blank, as in Register
//   - password: re-hashed only when non-empty; empty means "keep"
//   - role: never changed here
//
// CHECK-THEN-ACT:
// The email check and the write are two separate statements with no lock.
// Two concurrent edits to the same new email can both pass the check; the
// unique index then rejects the second write with ErrConflict.
func (s *UsuarioService) UpdateProfile(ctx context.Context, id int64, dto model.UsuarioDTO) (model.UsuarioDTO, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.UsuarioDTO{}, fmt.Errorf("updating profile: %w", err)
	}

	name := strings.TrimSpace(dto.Name)
	if err := requireName(name); err != nil {
		return model.UsuarioDTO{}, err
	}

	newEmail := strings.TrimSpace(dto.Email)
	if newEmail != "" && model.EmailKey(newEmail) != model.EmailKey(u.Email) {
		taken, err := s.emailTaken(ctx, newEmail)
		if err != nil {
			return model.UsuarioDTO{}, err
		}
		if taken {
			return model.UsuarioDTO{}, apperror.ValidationFailed("emailUs", "email already in use")
		}
		u.Email = newEmail
	}

	u.Name = name
	u.Surname1 = strings.TrimSpace(dto.Surname1)
	u.Surname2 = strings.TrimSpace(dto.Surname2)

	if dto.Password != "" {
		if u.PasswordHash, err = s.hash(dto.Password); err != nil {
			return model.UsuarioDTO{}, err
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return model.UsuarioDTO{}, fmt.Errorf("updating profile %d: %w", id, err)
	}

	s.logger.Info("usuari profile updated", slog.Int64("id", id))
	return ToDTO(u), nil
}

func (s *UsuarioService) List(ctx context.Context) ([]model.UsuarioDTO, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing usuaris: %w", err)
	}
	out := make([]model.UsuarioDTO, len(users))
	for i := range users {
		out[i] = ToDTO(&users[i])
	}
	return out, nil
}

// GetByID returns the profile of user id. A nil id is not found.
func (s *UsuarioService) GetByID(ctx context.Context, id *int64) (model.UsuarioDTO, error) {
	if id == nil {
		return model.UsuarioDTO{}, apperror.NotFound("usuari", "null")
	}
	u, err := s.repo.GetByID(ctx, *id)
	if err != nil {
		return model.UsuarioDTO{}, fmt.Errorf("getting usuari: %w", err)
	}
	return ToDTO(u), nil
}

// Save is the admin create-or-update. Without an id it creates a user and
// requires a password. With an id it replaces every field of the existing
// user, role included, and keeps the stored hash when no password is given.
func (s *UsuarioService) Save(ctx context.Context, dto model.UsuarioDTO) (model.UsuarioDTO, error) {
	u, err := FromDTO(dto)
	if err != nil {
		return model.UsuarioDTO{}, err
	}
	if u.Name == "" {
		return model.UsuarioDTO{}, apperror.ValidationFailed("nomUs", "name is required")
	}
	if u.Email == "" {
		return model.UsuarioDTO{}, apperror.ValidationFailed("emailUs", "email is required")
	}

	if dto.ID == nil {
		if dto.Password == "" {
			return model.UsuarioDTO{}, apperror.ValidationFailed("clauPas", "password is required")
		}
		if u.PasswordHash, err = s.hash(dto.Password); err != nil {
			return model.UsuarioDTO{}, err
		}
		if err := s.repo.Create(ctx, &u); err != nil {
			return model.UsuarioDTO{}, fmt.Errorf("creating usuari: %w", err)
		}
		s.logger.Info("usuari created by admin", slog.Int64("id", u.ID), slog.String("rol", u.Rol.String()))
		return ToDTO(&u), nil
	}

	existing, err := s.repo.GetByID(ctx, u.ID)
	if err != nil {
		return model.UsuarioDTO{}, fmt.Errorf("saving usuari: %w", err)
	}
	u.PasswordHash = existing.PasswordHash
	if dto.Password != "" {
		if u.PasswordHash, err = s.hash(dto.Password); err != nil {
			return model.UsuarioDTO{}, err
		}
	}
	if err := s.repo.Update(ctx, &u); err != nil {
		return model.UsuarioDTO{}, fmt.Errorf("saving usuari %d: %w", u.ID, err)
	}
	s.logger.Info("usuari updated by admin", slog.Int64("id", u.ID), slog.String("rol", u.Rol.String()))
	return ToDTO(&u), nil
}

func (s *UsuarioService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting usuari %d: %w", id, err)
	}
	s.logger.Info("usuari deleted", slog.Int64("id", id))
	return nil
}

// EnsureAdmin creates an ADMIN account for email unless one with that
// email exists already. An existing account is left untouched, whatever
// its role. Reports whether an account was created.
func (s *UsuarioService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		if existing.Rol != model.RolAdmin {
			s.logger.Warn("bootstrap admin email belongs to a non-admin account", slog.Int64("id", existing.ID))
		}
		return false, nil
	}
	if !isNotFound(err) {
		return false, fmt.Errorf("checking bootstrap admin: %w", err)
	}

	hash, err := s.hash(password)
	if err != nil {
		return false, err
	}
	u := &model.Usuario{Name: "Admin", Email: email, PasswordHash: hash, Rol: model.RolAdmin}
	if err := s.repo.Create(ctx, u); err != nil {
		return false, fmt.Errorf("creating bootstrap admin: %w", err)
	}
	s.logger.Info("bootstrap admin created", slog.Int64("id", u.ID))
	return true, nil
}

// ToDTO maps a user to its transfer shape. The password hash is never
// copied out.
func ToDTO(u *model.Usuario) model.UsuarioDTO {
	id := u.ID
	return model.UsuarioDTO{
		ID:       &id,
		Name:     u.Name,
		Surname1: u.Surname1,
		Surname2: u.Surname2,
		Email:    u.Email,
		Rol:      u.Rol.String(),
	}
}

// FromDTO maps a transfer shape back to a user. An empty role means
// ADOPTANT; any other value must be exactly "ADMIN" or "ADOPTANT". The
// password is left for the caller to hash.
func FromDTO(dto model.UsuarioDTO) (model.Usuario, error) {
	rol := model.RolAdoptant
	if dto.Rol != "" {
		parsed, err := model.ParseRol(dto.Rol)
		if err != nil {
			return model.Usuario{}, apperror.ValidationFailed("rolUs",
				fmt.Sprintf("rolUs must be %s or %s", model.RolAdmin, model.RolAdoptant))
		}
		rol = parsed
	}

	u := model.Usuario{
		Name:     strings.TrimSpace(dto.Name),
		Surname1: strings.TrimSpace(dto.Surname1),
		Surname2: strings.TrimSpace(dto.Surname2),
		Email:    strings.TrimSpace(dto.Email),
		Rol:      rol,
	}
	if dto.ID != nil {
		u.ID = *dto.ID
	}
	return u, nil
}

// emailTaken reports whether any account uses email, ignoring case.
func (s *UsuarioService) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("checking email: %w", err)
	}
}

// hash wraps PasswordService.Hash. Only an over-long password is the
// client's fault; any other failure stays an internal error.
func (s *UsuarioService) hash(plaintext string) (string, error) {
	h, err := s.passwords.Hash(plaintext)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", apperror.ValidationFailed("clauPas", "password must be 72 bytes or fewer")
		}
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return h, nil
}

func requireName(name string) error {
	if name == "" {
		return apperror.ValidationFailed("nomUs", "name is required")
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
