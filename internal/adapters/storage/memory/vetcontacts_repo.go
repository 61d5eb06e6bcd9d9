package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-calendar/internal/domain/vetcontacts"
)

type vetContactsRepo struct {
	mu   sync.RWMutex
	byID map[string]vetcontacts.VetContact
}

func NewVetContactsRepo() vetcontacts.Repository {
	return &vetContactsRepo{
		byID: make(map[string]vetcontacts.VetContact),
	}
}

func (r *vetContactsRepo) Create(ctx context.Context, v vetcontacts.VetContact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == "" {
		return errors.New("vet contact id required")
	}
	if _, exists := r.byID[v.ID]; exists {
		return errors.New("vet contact already exists")
	}

	r.byID[v.ID] = v
	return nil
}

func (r *vetContactsRepo) GetByID(ctx context.Context, id string) (vetcontacts.VetContact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return vetcontacts.VetContact{}, ErrNotFound
	}
	return v, nil
}

func (r *vetContactsRepo) ListByOwner(ctx context.Context, ownerID string) ([]vetcontacts.VetContact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vetcontacts.VetContact, 0)
	for _, v := range r.byID {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}

	// Primarios primero, después por fecha de alta.
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *vetContactsRepo) Update(ctx context.Context, v vetcontacts.VetContact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[v.ID]; !ok {
		return ErrNotFound
	}
	r.byID[v.ID] = v
	return nil
}

func (r *vetContactsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
