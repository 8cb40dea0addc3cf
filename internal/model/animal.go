package model

import "time"

// Animal is an animal listed for adoption.
//
// JSON FIELD NAMES:
// The tags keep the Catalan names the web front-end already consumes
// (nomAn, especie, esAdoptat...), while the Go fields use English names.
// Renaming a Go field never changes the API; renaming a tag does.
//
// NULLABLE COLUMNS:
// BirthDate, ChipNumber and Shelter are pointers because "no value" is a
// legitimate state for them (unknown birth date, no microchip, not assigned
// to a shelter). A nil pointer encodes as JSON null.
type Animal struct {
	ID          int64       `json:"numId"`
	Name        string      `json:"nomAn"`
	Sex         string      `json:"sexe"`
	Species     string      `json:"especie"`
	BirthDate   *Date       `json:"dataNeix"`
	Age         *Age        `json:"edat"` // derived on read, never stored
	ChipNumber  *int64      `json:"numXip"`
	Adopted     bool        `json:"esAdoptat"`
	Description string      `json:"descripcio"`
	PhotoURL    string      `json:"fotoPerfil"`
	Shelter     *Protectora `json:"protectora"`
}

// ShelterID returns the id of the owning shelter, or nil when the animal
// is not assigned to one. Write paths only look at the id; the other
// shelter fields in a request body are ignored.
func (a *Animal) ShelterID() *int64 {
	if a.Shelter == nil || a.Shelter.ID == 0 {
		return nil
	}
	id := a.Shelter.ID
	return &id
}

// FillAge sets Age from BirthDate as of now. Animals without a birth date
// get a nil Age.
func (a *Animal) FillAge(now time.Time) {
	if a.BirthDate == nil {
		a.Age = nil
		return
	}
	age := AgeAt(*a.BirthDate, now)
	a.Age = &age
}
