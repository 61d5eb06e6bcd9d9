package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Pet representa el perfil básico de una mascota registrada en el sistema.
type Pet struct {
	ID      string
	OwnerID string

	Name    string
	Species string // dog, cat
	Breed   string
	Sex     string // male, female, unknown

	BirthDate *time.Time
	WeightKg  *float64

	ImagePath string // path relativo en el bucket de archivos
	Notes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}
