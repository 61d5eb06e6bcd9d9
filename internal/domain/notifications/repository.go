package notifications

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, n Notification) error

	// ListByReceiver devuelve notificaciones del usuario, excluyendo chat,
	// ordenadas por created_at desc. Cursor (keyset): solo filas con
	// created_at < *before.
	ListByReceiver(ctx context.Context, receiverID string, limit int, before *time.Time) ([]Notification, error)

	MarkRead(ctx context.Context, id, receiverID string, at time.Time) (Notification, error)
	MarkAllRead(ctx context.Context, receiverID string, at time.Time) (int, error)

	// DeleteEventReminders borra toda notificación event_reminder ligada
	// al evento. No es error que no exista ninguna.
	DeleteEventReminders(ctx context.Context, petEventID string) error

	// ListEventReminders existe para poder verificar la invariante
	// "exactamente un reminder por evento" (tests / debug).
	ListEventReminders(ctx context.Context, petEventID string) ([]Notification, error)
}
