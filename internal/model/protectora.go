package model

// Protectora is an animal shelter. It owns zero or more Animals.
//
// Longitude and Latitude are two independent float64 columns rather than a
// composite point type. Lookups by coordinates compare them with exact
// floating-point equality, so a client must send back the exact values it
// received.
type Protectora struct {
	ID         int64   `json:"codiProt"`
	Name       string  `json:"nomProt"`
	Address    string  `json:"adresa"`
	PostalCode string  `json:"codiPostal"`
	Locality   string  `json:"localitat"`
	Province   string  `json:"provincia"`
	URL        string  `json:"url"`
	Longitude  float64 `json:"longitud"`
	Latitude   float64 `json:"latitud"`
	Phone      string  `json:"tlfProt"`
	Email      string  `json:"emailProt"`
}
