package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pet-calendar/internal/domain/notifications"
)

type notificationsRepo struct {
	mu   sync.RWMutex
	byID map[string]notifications.Notification
}

func NewNotificationsRepo() notifications.Repository {
	return &notificationsRepo{
		byID: make(map[string]notifications.Notification),
	}
}

func (r *notificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		return errors.New("notification id required")
	}
	if _, exists := r.byID[n.ID]; exists {
		return errors.New("notification already exists")
	}

	r.byID[n.ID] = n
	return nil
}

func (r *notificationsRepo) ListByReceiver(ctx context.Context, receiverID string, limit int, before *time.Time) ([]notifications.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 30
	}

	out := make([]notifications.Notification, 0)
	for _, n := range r.byID {
		if n.ReceiverID != receiverID {
			continue
		}
		if n.Type == notifications.TypeChat {
			continue
		}
		if before != nil && !n.CreatedAt.Before(*before) {
			continue
		}
		out = append(out, n)
	}

	// Más reciente primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *notificationsRepo) MarkRead(ctx context.Context, id, receiverID string, at time.Time) (notifications.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok || n.ReceiverID != receiverID {
		return notifications.Notification{}, ErrNotFound
	}
	n.ReadAt = &at
	r.byID[id] = n
	return n, nil
}

func (r *notificationsRepo) MarkAllRead(ctx context.Context, receiverID string, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, n := range r.byID {
		if n.ReceiverID != receiverID || n.ReadAt != nil {
			continue
		}
		n.ReadAt = &at
		r.byID[id] = n
		count++
	}
	return count, nil
}

func (r *notificationsRepo) DeleteEventReminders(ctx context.Context, petEventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Incondicional: borrar cero filas no es error.
	for id, n := range r.byID {
		if n.Type != notifications.TypeEventReminder {
			continue
		}
		if n.PetEventID == nil || *n.PetEventID != petEventID {
			continue
		}
		delete(r.byID, id)
	}
	return nil
}

func (r *notificationsRepo) ListEventReminders(ctx context.Context, petEventID string) ([]notifications.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notifications.Notification, 0)
	for _, n := range r.byID {
		if n.Type != notifications.TypeEventReminder {
			continue
		}
		if n.PetEventID == nil || *n.PetEventID != petEventID {
			continue
		}
		out = append(out, n)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
