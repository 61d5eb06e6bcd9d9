package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pet-calendar/internal/domain/calendar"
)

var ErrNotFound = errors.New("not found")

type calendarRepo struct {
	mu   sync.RWMutex
	byID map[string]calendar.PetEvent
}

func NewCalendarRepo() calendar.Repository {
	return &calendarRepo{
		byID: make(map[string]calendar.PetEvent),
	}
}

func (r *calendarRepo) Create(ctx context.Context, e calendar.PetEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("event already exists")
	}

	r.byID[e.ID] = e
	return nil
}

func (r *calendarRepo) GetByID(ctx context.Context, id string) (calendar.PetEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return calendar.PetEvent{}, ErrNotFound
	}
	return e, nil
}

func (r *calendarRepo) ListByPetRange(ctx context.Context, petID string, from, to time.Time) ([]calendar.PetEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]calendar.PetEvent, 0)
	for _, e := range r.byID {
		if e.PetID != petID {
			continue
		}
		// [from, to): start_at >= from && start_at < to
		if e.StartAt.Before(from) || !e.StartAt.Before(to) {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartAt.Before(out[j].StartAt)
	})

	return out, nil
}

func (r *calendarRepo) Update(ctx context.Context, e calendar.PetEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[e.ID]; !ok {
		return ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

func (r *calendarRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
