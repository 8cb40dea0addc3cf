package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/buscadorpelut/buscadorpelut/internal/apperror"
	"github.com/buscadorpelut/buscadorpelut/internal/model"
	"github.com/buscadorpelut/buscadorpelut/internal/repository"
)

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// UsuarioRepo reads and writes the usuari table.
//
// EMAIL UNIQUENESS:
// email_key holds model.EmailKey(email_us) and carries a unique index.
// That index, not any check in application code, is what guarantees that two concurrent
// registrations with the same address cannot both succeed. The loser's
// INSERT fails with a unique violation, reported as apperror.ErrConflict.
type UsuarioRepo struct {
	s *Store
}

const usuarioSelect = `
	SELECT codi_us, nom_us, cognom1, cognom2, email_us, clau_pas, rol_us
	FROM usuari`

func scanUsuario(row rowScanner) (model.Usuario, error) {
	var (
		u   model.Usuario
		rol string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Surname1, &u.Surname2, &u.Email, &u.PasswordHash, &rol)
	if err != nil {
		return model.Usuario{}, err
	}
	// A role outside the enum means the row was written by something else;
	// refuse it instead of guessing.
	if u.Rol, err = model.ParseRol(rol); err != nil {
		return model.Usuario{}, fmt.Errorf("usuari %d: %w", u.ID, err)
	}
	return u, nil
}

func (r *UsuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	rows, err := r.s.db.QueryContext(ctx, usuarioSelect+" ORDER BY codi_us")
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing usuaris: %w", err)
	}
	defer rows.Close()

	out := make([]model.Usuario, 0)
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: scanning usuari row: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating usuari rows: %w", err)
	}
	return out, nil
}

func (r *UsuarioRepo) GetByID(ctx context.Context, id int64) (*model.Usuario, error) {
	u, err := scanUsuario(r.s.db.QueryRowContext(ctx, r.s.dialect.rebind(usuarioSelect+" WHERE codi_us = ?"), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("usuari", id)
		}
		return nil, fmt.Errorf("sqlstore: getting usuari %d: %w", id, err)
	}
	return &u, nil
}

func (r *UsuarioRepo) GetByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	query := r.s.dialect.rebind(usuarioSelect + " WHERE email_key = ?")

	u, err := scanUsuario(r.s.db.QueryRowContext(ctx, query, model.EmailKey(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFoundBy("usuari", "email", email)
		}
		return nil, fmt.Errorf("sqlstore: getting usuari by email: %w", err)
	}
	return &u, nil
}

func (r *UsuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	query := r.s.dialect.rebind(`
		INSERT INTO usuari (nom_us, cognom1, cognom2, email_us, email_key, clau_pas, rol_us)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING codi_us`)

	err := r.s.db.QueryRowContext(ctx, query,
		u.Name, u.Surname1, u.Surname2, u.Email, model.EmailKey(u.Email), u.PasswordHash, u.Rol.String(),
	).Scan(&u.ID)
	if err != nil {
		if r.s.dialect.IsUniqueViolation(err) {
			return apperror.Conflict("usuari", "email")
		}
		return fmt.Errorf("sqlstore: creating usuari: %w", err)
	}
	return nil
}

func (r *UsuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	query := r.s.dialect.rebind(`
		UPDATE usuari
		SET nom_us = ?, cognom1 = ?, cognom2 = ?, email_us = ?, email_key = ?, clau_pas = ?, rol_us = ?
		WHERE codi_us = ?`)

	res, err := r.s.db.ExecContext(ctx, query,
		u.Name, u.Surname1, u.Surname2, u.Email, model.EmailKey(u.Email), u.PasswordHash, u.Rol.String(), u.ID,
	)
	if err != nil {
		if r.s.dialect.IsUniqueViolation(err) {
			return apperror.Conflict("usuari", "email")
		}
		return fmt.Errorf("sqlstore: updating usuari %d: %w", u.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("usuari", u.ID)
	}
	return nil
}

func (r *UsuarioRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.s.db.ExecContext(ctx, r.s.dialect.rebind(`DELETE FROM usuari WHERE codi_us = ?`), id)
	if err != nil {
		return fmt.Errorf("sqlstore: deleting usuari %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("usuari", id)
	}
	return nil
}
