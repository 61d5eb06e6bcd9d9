package users

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
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

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string
	Username  *string
	ImagePath *string
	Bio       *string
	Address   *string
	Phone     *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Username != nil {
		u.Username = strings.TrimSpace(*in.Username)
	}
	if in.ImagePath != nil {
		u.ImagePath = strings.TrimSpace(*in.ImagePath)
	}
	if in.Bio != nil {
		u.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Address != nil {
		u.Address = strings.TrimSpace(*in.Address)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}

	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Upsert crea la fila del usuario si no existe todavía (primer login) o
// la actualiza si ya está.
func (s *Service) Upsert(ctx context.Context, u User) (User, error) {
	u.ID = strings.TrimSpace(u.ID)
	if u.ID == "" {
		return User{}, ErrInvalidInput
	}

	now := s.now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	if err := s.repo.Upsert(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) FindByUsername(ctx context.Context, username string) ([]User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.FindByUsername(ctx, username)
}
