package calendar

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e PetEvent) error
	GetByID(ctx context.Context, id string) (PetEvent, error)

	// ListByPetRange devuelve eventos con start_at en [from, to),
	// ordenados ascendente por start_at.
	ListByPetRange(ctx context.Context, petID string, from, to time.Time) ([]PetEvent, error)

	Update(ctx context.Context, e PetEvent) error
	Delete(ctx context.Context, id string) error
}
