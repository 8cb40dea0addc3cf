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

var _ repository.ProtectoraRepository = (*ProtectoraRepo)(nil)

// ProtectoraRepo reads and writes the protectora table.
type ProtectoraRepo struct {
	s *Store
}

const protectoraSelect = `
	SELECT codi_prot, nom_prot, adresa, codi_postal, localitat, provincia,
	       url, longitud, latitud, tlf_prot, email_prot
	FROM protectora`

func scanProtectora(row rowScanner) (model.Protectora, error) {
	var p model.Protectora
	err := row.Scan(
		&p.ID, &p.Name, &p.Address, &p.PostalCode, &p.Locality, &p.Province,
		&p.URL, &p.Longitude, &p.Latitude, &p.Phone, &p.Email,
	)
	return p, err
}

func (r *ProtectoraRepo) List(ctx context.Context, f repository.ProtectoraFilter) ([]model.Protectora, error) {
	where, args := protectoraWhere(f)
	query := r.s.dialect.rebind(protectoraSelect + where + " ORDER BY codi_prot")

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing protectores: %w", err)
	}
	defer rows.Close()

	out := make([]model.Protectora, 0)
	for rows.Next() {
		p, err := scanProtectora(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: scanning protectora row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating protectora rows: %w", err)
	}
	return out, nil
}

// First returns the lowest-id match. Name, email and coordinates are not
// unique columns, so a lookup on them could match several shelters; the
// first one wins.
func (r *ProtectoraRepo) First(ctx context.Context, f repository.ProtectoraFilter) (*model.Protectora, error) {
	where, args := protectoraWhere(f)
	query := r.s.dialect.rebind(protectoraSelect + where + " ORDER BY codi_prot LIMIT 1")

	p, err := scanProtectora(r.s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "protectora not found"}
		}
		return nil, fmt.Errorf("sqlstore: finding protectora: %w", err)
	}
	return &p, nil
}

func (r *ProtectoraRepo) GetByID(ctx context.Context, id int64) (*model.Protectora, error) {
	query := r.s.dialect.rebind(protectoraSelect + " WHERE codi_prot = ?")

	p, err := scanProtectora(r.s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("protectora", id)
		}
		return nil, fmt.Errorf("sqlstore: getting protectora %d: %w", id, err)
	}
	return &p, nil
}

func (r *ProtectoraRepo) Create(ctx context.Context, p *model.Protectora) error {
	query := r.s.dialect.rebind(`
		INSERT INTO protectora (nom_prot, adresa, codi_postal, localitat, provincia,
		                        url, longitud, latitud, tlf_prot, email_prot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING codi_prot`)

	if err := r.s.db.QueryRowContext(ctx, query, protectoraArgs(p)...).Scan(&p.ID); err != nil {
		return fmt.Errorf("sqlstore: creating protectora: %w", err)
	}
	return nil
}

func (r *ProtectoraRepo) Update(ctx context.Context, p *model.Protectora) error {
	query := r.s.dialect.rebind(`
		UPDATE protectora
		SET nom_prot = ?, adresa = ?, codi_postal = ?, localitat = ?, provincia = ?,
		    url = ?, longitud = ?, latitud = ?, tlf_prot = ?, email_prot = ?
		WHERE codi_prot = ?`)

	res, err := r.s.db.ExecContext(ctx, query, append(protectoraArgs(p), p.ID)...)
	if err != nil {
		return fmt.Errorf("sqlstore: updating protectora %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("protectora", p.ID)
	}
	return nil
}

// Delete removes the shelter. The ON DELETE SET NULL foreign key on
// animal.codi_prot detaches its animals instead of deleting them.
func (r *ProtectoraRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.s.db.ExecContext(ctx, r.s.dialect.rebind(`DELETE FROM protectora WHERE codi_prot = ?`), id)
	if err != nil {
		return fmt.Errorf("sqlstore: deleting protectora %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("protectora", id)
	}
	return nil
}

func protectoraArgs(p *model.Protectora) []any {
	return []any{
		p.Name, p.Address, p.PostalCode, p.Locality, p.Province,
		p.URL, p.Longitude, p.Latitude, p.Phone, p.Email,
	}
}
