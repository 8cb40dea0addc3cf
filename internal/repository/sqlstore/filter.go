package sqlstore

import (
	"strings"

	"github.com/buscadorpelut/buscadorpelut/internal/repository"
)

// PREDICATE BUILDING:
// Each filter field has its own named function returning a SQL fragment
// and its arguments. The where* functions apply them in a fixed order and
// AND the non-empty fragments together. Values always travel as
// placeholders; only column names (constants in this file) are spliced
// into the SQL text.

type predicate struct {
	sql  string
	args []any
}

func (p predicate) empty() bool { return p.sql == "" }

// whereClause joins non-empty predicates into " WHERE a AND b".
func whereClause(preds ...predicate) (string, []any) {
	var parts []string
	var args []any
	for _, p := range preds {
		if p.empty() {
			continue
		}
		parts = append(parts, p.sql)
		args = append(args, p.args...)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func adoptedPredicate(adopted *bool) predicate {
	if adopted == nil {
		return predicate{}
	}
	return predicate{sql: "a.adoptat = ?", args: []any{*adopted}}
}

func speciesPredicate(species string) predicate {
	if species == "" {
		return predicate{}
	}
	return predicate{sql: "a.especie = ?", args: []any{species}}
}

func excludedSpeciesPredicate(excluded []string) predicate {
	if len(excluded) == 0 {
		return predicate{}
	}
	args := make([]any, len(excluded))
	for i, s := range excluded {
		args[i] = s
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(excluded)), ", ")
	return predicate{sql: "a.especie NOT IN (" + marks + ")", args: args}
}

// locationPredicate matches a province OR a postal code with one value.
// A value that is a province for one shelter and a postal code for
// another matches both.
func locationPredicate(location string) predicate {
	if location == "" {
		return predicate{}
	}
	return predicate{
		sql:  "(p.provincia = ? OR p.codi_postal = ?)",
		args: []any{location, location},
	}
}

func animalWhere(f repository.AnimalFilter) (string, []any) {
	return whereClause(
		adoptedPredicate(f.Adopted),
		speciesPredicate(f.Species),
		excludedSpeciesPredicate(f.ExcludeSpecies),
		locationPredicate(f.Location),
	)
}

func textEquals(column, value string) predicate {
	if value == "" {
		return predicate{}
	}
	return predicate{sql: column + " = ?", args: []any{value}}
}

// floatEquals compares with exact equality. Coordinates must round-trip
// bit-for-bit to match.
func floatEquals(column string, value *float64) predicate {
	if value == nil {
		return predicate{}
	}
	return predicate{sql: column + " = ?", args: []any{*value}}
}

func protectoraWhere(f repository.ProtectoraFilter) (string, []any) {
	return whereClause(
		textEquals("nom_prot", f.Name),
		textEquals("adresa", f.Address),
		textEquals("codi_postal", f.PostalCode),
		textEquals("localitat", f.Locality),
		textEquals("provincia", f.Province),
		textEquals("email_prot", f.Email),
		floatEquals("longitud", f.Longitude),
		floatEquals("latitud", f.Latitude),
	)
}
