package notifications

import "time"

type Type string

const (
	TypeSystem        Type = "system"
	TypeChat          Type = "chat"
	TypeEventReminder Type = "event_reminder"
)

// Notification es una notificación in-app dirigida a un usuario.
// Para los reminders de calendario sender y receiver son el mismo usuario.
type Notification struct {
	ID string

	SenderID   string
	ReceiverID string

	Type  Type
	Title string
	Body  string

	// Vínculo al evento de calendario (solo para event_reminder).
	PetEventID *string
	PetID      *string

	// Payload libre para deep-link desde la UI (screen, pet_id, date...).
	Payload map[string]any

	CreatedAt time.Time
	ReadAt    *time.Time
}
