package pets

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

type CreateInput struct {
	Name      string
	Species   string
	Breed     string
	Sex       string
	BirthDate *time.Time
	WeightKg  *float64
	ImagePath string
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(in.Name),
		Species:   strings.TrimSpace(in.Species),
		Breed:     strings.TrimSpace(in.Breed),
		Sex:       strings.TrimSpace(in.Sex),
		BirthDate: in.BirthDate,
		WeightKg:  in.WeightKg,
		ImagePath: strings.TrimSpace(in.ImagePath),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string
	Species   *string
	Breed     *string
	Sex       *string
	BirthDate *time.Time
	WeightKg  *float64
	ImagePath *string
	Notes     *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		p.Species = strings.TrimSpace(*in.Species)
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		p.Sex = strings.TrimSpace(*in.Sex)
	}
	if in.BirthDate != nil {
		p.BirthDate = in.BirthDate
	}
	if in.WeightKg != nil {
		p.WeightKg = in.WeightKg
	}
	if in.ImagePath != nil {
		p.ImagePath = strings.TrimSpace(*in.ImagePath)
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}
