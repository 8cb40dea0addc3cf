// Package model defines the data structures used throughout the application.
// Types here are plain records with no behaviour beyond small helpers such
// as parsing and formatting.
package model

import (
	"errors"
	"fmt"
)

// Rol is the role of a Usuario. It is a closed enumeration with exactly
// two values; anything else is rejected at the boundary where it arrives
// (JSON body or database row).
//
// ParseRol is the only way in from text.
//
// The zero value is RolAdoptant, which is also the default role for new users.
type Rol uint8

const (
	RolAdoptant Rol = iota
	RolAdmin
)

// ErrUnknownRol is returned (wrapped) when a string is not a valid role name.
var ErrUnknownRol = errors.New("unknown role")

// String returns the persisted name of the role ("ADMIN" or "ADOPTANT").
func (r Rol) String() string {
	switch r {
	case RolAdmin:
		return "ADMIN"
	case RolAdoptant:
		return "ADOPTANT"
	default:
		return fmt.Sprintf("Rol(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the two defined roles.
func (r Rol) Valid() bool {
	return r == RolAdmin || r == RolAdoptant
}

// ParseRol converts a role name into a Rol. Matching is exact, the same way
// the names are stored in the rol_us column.
func ParseRol(s string) (Rol, error) {
	switch s {
	case "ADMIN":
		return RolAdmin, nil
	case "ADOPTANT":
		return RolAdoptant, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRol, s)
	}
}

// MarshalText implements encoding.TextMarshaler, so Rol encodes as "ADMIN"/"ADOPTANT" in JSON.
func (r Rol) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRol, uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rol) UnmarshalText(b []byte) error {
	parsed, err := ParseRol(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
