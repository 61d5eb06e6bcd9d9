package vetcontacts

import "time"

// VetContact es un contacto de veterinaria del usuario.
// Los eventos de calendario pueden referenciarlo por id.
type VetContact struct {
	ID      string
	OwnerID string

	Name    string // nombre de la clínica (requerido)
	Doctor  string
	Phone   string
	Address string

	IsPrimary bool
	Notes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}
