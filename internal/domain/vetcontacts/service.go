package vetcontacts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type ContactInput struct {
	Name      string
	Doctor    string
	Phone     string
	Address   string
	IsPrimary bool
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerID string, in ContactInput) (VetContact, error) {
	if strings.TrimSpace(ownerID) == "" {
		return VetContact{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return VetContact{}, ErrInvalidInput
	}

	now := s.now()
	v := VetContact{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(in.Name),
		Doctor:    strings.TrimSpace(in.Doctor),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		IsPrimary: in.IsPrimary,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return VetContact{}, err
	}
	return v, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]VetContact, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// Update reemplaza los campos del contacto. Solo el dueño puede editar.
func (s *Service) Update(ctx context.Context, id, ownerID string, in ContactInput) (VetContact, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.TrimSpace(ownerID) == "" {
		return VetContact{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return VetContact{}, ErrInvalidInput
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return VetContact{}, err
	}
	if v.OwnerID != ownerID {
		return VetContact{}, ErrForbidden
	}

	v.Name = strings.TrimSpace(in.Name)
	v.Doctor = strings.TrimSpace(in.Doctor)
	v.Phone = strings.TrimSpace(in.Phone)
	v.Address = strings.TrimSpace(in.Address)
	v.IsPrimary = in.IsPrimary
	v.Notes = strings.TrimSpace(in.Notes)
	v.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, v); err != nil {
		return VetContact{}, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	id = strings.TrimSpace(id)
	if id == "" || strings.TrimSpace(ownerID) == "" {
		return ErrInvalidInput
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v.OwnerID != ownerID {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}
