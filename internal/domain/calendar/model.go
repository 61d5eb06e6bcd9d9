package calendar

import "time"

// PetEvent es una entrada del calendario de una mascota
// (cita con el vet, medicación, nota, etc.).
type PetEvent struct {
	ID      string
	PetID   string
	OwnerID string

	Title       string
	Description string
	Type        string // tag libre: "vet", "medication", ...

	StartAt time.Time
	EndAt   time.Time // si no viene, se iguala a StartAt
	AllDay  bool

	ReminderMinutes *int
	VetContactID    *string
	ExternalSource  *string // reservado para sync con calendarios externos

	CreatedAt time.Time
}
