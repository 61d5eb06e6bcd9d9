package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pet-calendar/internal/domain/notifications"
)

type NotificationsRepo struct {
	db *sql.DB
}

func NewNotificationsRepo(db *sql.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

const notificationColumns = `
	id, sender_id, receiver_id,
	type, title, body,
	pet_event_id, pet_id, payload,
	created_at, read_at
`

func (r *NotificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	var payload []byte
	if n.Payload != nil {
		b, err := json.Marshal(n.Payload)
		if err != nil {
			return err
		}
		payload = b
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, sender_id, receiver_id,
			type, title, body,
			pet_event_id, pet_id, payload,
			created_at, read_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		n.ID,
		n.SenderID,
		n.ReceiverID,
		string(n.Type),
		n.Title,
		n.Body,
		n.PetEventID,
		n.PetID,
		payload,
		n.CreatedAt,
		n.ReadAt,
	)
	return err
}

func (r *NotificationsRepo) ListByReceiver(ctx context.Context, receiverID string, limit int, before *time.Time) ([]notifications.Notification, error) {
	receiverID = strings.TrimSpace(receiverID)
	if receiverID == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 30
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE receiver_id = $1
		  AND type <> 'chat'
	`)

	args := []any{receiverID}
	argN := 2

	// keyset: created_at < cursor
	if before != nil {
		sb.WriteString(" AND created_at < $2")
		args = append(args, *before)
		argN++
	}

	sb.WriteString(" ORDER BY created_at DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotifications(rows)
}

func (r *NotificationsRepo) MarkRead(ctx context.Context, id, receiverID string, at time.Time) (notifications.Notification, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return notifications.Notification{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE notifications
		SET read_at = $3
		WHERE id = $1 AND receiver_id = $2
		RETURNING `+notificationColumns+`
	`, id, receiverID, at)

	n, err := scanNotification(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return notifications.Notification{}, ErrNotFound
		}
		return notifications.Notification{}, err
	}
	return n, nil
}

func (r *NotificationsRepo) MarkAllRead(ctx context.Context, receiverID string, at time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET read_at = $2
		WHERE receiver_id = $1 AND read_at IS NULL
	`, receiverID, at)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *NotificationsRepo) DeleteEventReminders(ctx context.Context, petEventID string) error {
	petEventID = strings.TrimSpace(petEventID)
	if petEventID == "" {
		return nil
	}

	// Incondicional: no es error que no hubiera ninguno.
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM notifications
		WHERE pet_event_id = $1 AND type = 'event_reminder'
	`, petEventID)
	return err
}

func (r *NotificationsRepo) ListEventReminders(ctx context.Context, petEventID string) ([]notifications.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE pet_event_id = $1 AND type = 'event_reminder'
		ORDER BY created_at DESC
	`, petEventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotifications(rows)
}

func scanNotification(row rowScanner) (notifications.Notification, error) {
	var n notifications.Notification
	var typ string
	var payload []byte

	err := row.Scan(
		&n.ID,
		&n.SenderID,
		&n.ReceiverID,
		&typ,
		&n.Title,
		&n.Body,
		&n.PetEventID,
		&n.PetID,
		&payload,
		&n.CreatedAt,
		&n.ReadAt,
	)
	if err != nil {
		return notifications.Notification{}, err
	}

	n.Type = notifications.Type(typ)
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &n.Payload); err != nil {
			return notifications.Notification{}, err
		}
	}
	return n, nil
}

func scanNotifications(rows *sql.Rows) ([]notifications.Notification, error) {
	out := make([]notifications.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
