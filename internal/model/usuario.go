package model

import "strings"

// Usuario is a registered account.
//
// Email is the login key and is unique regardless of letter case.
// PasswordHash always holds a bcrypt hash, never a plaintext password.
//
// Usuario has no JSON tags on purpose: it never leaves the service layer
// as-is. Handlers exchange UsuarioDTO instead, which omits the hash.
type Usuario struct {
	ID           int64
	Name         string
	Surname1     string
	Surname2     string
	Email        string
	PasswordHash string
	Rol          Rol
}

// UsuarioDTO is the transfer shape of a Usuario, used both for responses
// and for admin/profile request bodies.
//
// Password is input-only: responses leave it empty and omitempty drops it.
// Rol is a string here because it arrives unchecked from clients; the
// service converts it with ParseRol and rejects unknown names.
type UsuarioDTO struct {
	ID       *int64 `json:"codiUs"`
	Name     string `json:"nomUs"`
	Surname1 string `json:"cognom1"`
	Surname2 string `json:"cognom2"`
	Email    string `json:"emailUs"`
	Password string `json:"clauPas,omitempty"`
	Rol      string `json:"rolUs"`
}

// EmailKey is the normalised form of an email used for uniqueness and
// lookups. Folding happens here rather than in SQL, since SQLite's lower()
// only folds ASCII.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
