package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pet-calendar/internal/domain/users"
)

type usersRepo struct {
	mu   sync.RWMutex
	byID map[string]users.User
}

func NewUsersRepo() users.Repository {
	return &usersRepo{
		byID: make(map[string]users.User),
	}
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) Update(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[u.ID]; !ok {
		return ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *usersRepo) Upsert(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[u.ID] = u
	return nil
}

func (r *usersRepo) FindByUsername(ctx context.Context, username string) ([]users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]users.User, 0)
	for _, u := range r.byID {
		if strings.EqualFold(u.Username, username) {
			out = append(out, u)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Username < out[j].Username
	})
	return out, nil
}
