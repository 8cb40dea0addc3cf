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

var _ repository.AnimalRepository = (*AnimalRepo)(nil)

// AnimalRepo reads and writes the animal table.
type AnimalRepo struct {
	s *Store
}

// animalSelect LEFT JOINs the shelter so every read returns the animal
// together with its shelter in one round trip. Shelter columns are all
// NULL for unassigned animals.
const animalSelect = `
	SELECT a.num_id, a.nom_an, a.sexe, a.especie, a.data_neix, a.num_xip,
	       a.adoptat, a.descripcio, a.foto_perfil,
	       p.codi_prot, p.nom_prot, p.adresa, p.codi_postal, p.localitat,
	       p.provincia, p.url, p.longitud, p.latitud, p.tlf_prot, p.email_prot
	FROM animal a
	LEFT JOIN protectora p ON p.codi_prot = a.codi_prot`

func scanAnimal(row rowScanner) (model.Animal, error) {
	var (
		a     model.Animal
		birth nullDate
		chip  sql.NullInt64
		photo sql.NullString

		pID                                                  sql.NullInt64
		pName, pAddr, pCP, pLocality, pProv, pURL, pTel, pEm sql.NullString
		pLon, pLat                                           sql.NullFloat64
	)
	err := row.Scan(
		&a.ID, &a.Name, &a.Sex, &a.Species, &birth, &chip,
		&a.Adopted, &a.Description, &photo,
		&pID, &pName, &pAddr, &pCP, &pLocality,
		&pProv, &pURL, &pLon, &pLat, &pTel, &pEm,
	)
	if err != nil {
		return model.Animal{}, err
	}

	a.BirthDate = birth.ptr()
	a.ChipNumber = int64Ptr(chip)
	a.PhotoURL = photo.String
	if pID.Valid {
		a.Shelter = &model.Protectora{
			ID:         pID.Int64,
			Name:       pName.String,
			Address:    pAddr.String,
			PostalCode: pCP.String,
			Locality:   pLocality.String,
			Province:   pProv.String,
			URL:        pURL.String,
			Longitude:  pLon.Float64,
			Latitude:   pLat.Float64,
			Phone:      pTel.String,
			Email:      pEm.String,
		}
	}
	return a, nil
}

// List returns the animals matching f, ordered by id. An empty result is
// an empty (non-nil) slice.
func (r *AnimalRepo) List(ctx context.Context, f repository.AnimalFilter) ([]model.Animal, error) {
	where, args := animalWhere(f)
	query := r.s.dialect.rebind(animalSelect + where + " ORDER BY a.num_id")

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing animals: %w", err)
	}
	defer rows.Close()

	animals := make([]model.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: scanning animal row: %w", err)
		}
		animals = append(animals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating animal rows: %w", err)
	}
	return animals, nil
}

func (r *AnimalRepo) GetByID(ctx context.Context, id int64) (*model.Animal, error) {
	query := r.s.dialect.rebind(animalSelect + " WHERE a.num_id = ?")

	a, err := scanAnimal(r.s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("animal", id)
		}
		return nil, fmt.Errorf("sqlstore: getting animal %d: %w", id, err)
	}
	return &a, nil
}

// Create inserts a and sets a.ID from the generated key. Only the shelter
// id is written; the rest of a.Shelter is ignored.
func (r *AnimalRepo) Create(ctx context.Context, a *model.Animal) error {
	query := r.s.dialect.rebind(`
		INSERT INTO animal (nom_an, sexe, especie, data_neix, num_xip, adoptat,
		                    descripcio, foto_perfil, codi_prot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING num_id`)

	err := r.s.db.QueryRowContext(ctx, query, r.writeArgs(a)...).Scan(&a.ID)
	if err != nil {
		return r.classify(err, "creating animal", a)
	}
	return nil
}

func (r *AnimalRepo) Update(ctx context.Context, a *model.Animal) error {
	query := r.s.dialect.rebind(`
		UPDATE animal
		SET nom_an = ?, sexe = ?, especie = ?, data_neix = ?, num_xip = ?,
		    adoptat = ?, descripcio = ?, foto_perfil = ?, codi_prot = ?
		WHERE num_id = ?`)

	args := append(r.writeArgs(a), a.ID)
	res, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return r.classify(err, fmt.Sprintf("updating animal %d", a.ID), a)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("animal", a.ID)
	}
	return nil
}

func (r *AnimalRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.s.db.ExecContext(ctx, r.s.dialect.rebind(`DELETE FROM animal WHERE num_id = ?`), id)
	if err != nil {
		return fmt.Errorf("sqlstore: deleting animal %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("animal", id)
	}
	return nil
}

func (r *AnimalRepo) writeArgs(a *model.Animal) []any {
	return []any{
		a.Name,
		a.Sex,
		a.Species,
		r.s.dialect.dateArg(a.BirthDate),
		ptrArg(a.ChipNumber),
		a.Adopted,
		a.Description,
		nullIfEmpty(a.PhotoURL),
		ptrArg(a.ShelterID()),
	}
}

// classify turns constraint violations into client errors.
func (r *AnimalRepo) classify(err error, action string, a *model.Animal) error {
	switch {
	case r.s.dialect.IsUniqueViolation(err):
		return apperror.Conflict("animal", "chip number or profile photo")
	case r.s.dialect.IsForeignKeyViolation(err):
		return apperror.ValidationFailed("protectora",
			fmt.Sprintf("protectora %d does not exist", derefOrZero(a.ShelterID())))
	default:
		return fmt.Errorf("sqlstore: %s: %w", action, err)
	}
}

func derefOrZero(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
