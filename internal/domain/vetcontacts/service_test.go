package vetcontacts

import (
	"context"
	"errors"
	"sort"
	"testing"
)

type testRepo struct {
	byID map[string]VetContact
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]VetContact{}}
}

var errRepoNotFound = errors.New("repo: not found")

func (r *testRepo) Create(ctx context.Context, v VetContact) error {
	r.byID[v.ID] = v
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (VetContact, error) {
	v, ok := r.byID[id]
	if !ok {
		return VetContact{}, errRepoNotFound
	}
	return v, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerID string) ([]VetContact, error) {
	out := make([]VetContact, 0)
	for _, v := range r.byID {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, v VetContact) error {
	if _, ok := r.byID[v.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[v.ID] = v
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "owner-1", ContactInput{Phone: "+51 999"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListByOwner_PrimaryFirst(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "owner-1", ContactInput{Name: "Clínica B"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "owner-1", ContactInput{Name: "Clínica A", IsPrimary: true}); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := svc.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || !items[0].IsPrimary {
		t.Fatalf("expected primary contact first, got %+v", items)
	}
}

func TestUpdateAndDelete_OwnerOnly(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	v, err := svc.Create(ctx, "owner-1", ContactInput{Name: "Clínica San Roque"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(ctx, v.ID, "owner-2", ContactInput{Name: "x"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden updating foreign contact, got %v", err)
	}
	if err := svc.Delete(ctx, v.ID, "owner-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden deleting foreign contact, got %v", err)
	}

	updated, err := svc.Update(ctx, v.ID, "owner-1", ContactInput{
		Name:   "Clínica San Roque",
		Doctor: "Dra. Flores",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Doctor != "Dra. Flores" {
		t.Fatalf("expected doctor updated, got %q", updated.Doctor)
	}

	if err := svc.Delete(ctx, v.ID, "owner-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, v.ID, "owner-1"); !errors.Is(err, errRepoNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
