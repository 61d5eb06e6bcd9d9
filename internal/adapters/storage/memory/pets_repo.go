package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-calendar/internal/domain/pets"
)

type petsRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetsRepo() pets.Repository {
	return &petsRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petsRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}

	r.byID[p.ID] = p
	return nil
}

func (r *petsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *petsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *petsRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}
