package calendar

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
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

// EventInput son los campos editables de un evento.
// Create y Update usan el mismo input: Update es full replace, no patch.
type EventInput struct {
	Title       string
	Description string
	Type        string

	StartAt time.Time
	EndAt   *time.Time
	AllDay  bool

	ReminderMinutes *int
	VetContactID    *string
	ExternalSource  *string
}

func (in EventInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrInvalidInput
	}
	if in.StartAt.IsZero() {
		return ErrInvalidInput
	}
	// end >= start queda como responsabilidad del caller (no se valida acá).
	return nil
}

func (s *Service) Create(ctx context.Context, petID, ownerID string, in EventInput) (PetEvent, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(ownerID) == "" {
		return PetEvent{}, ErrInvalidInput
	}
	if err := in.validate(); err != nil {
		return PetEvent{}, err
	}

	end := in.StartAt
	if in.EndAt != nil {
		end = *in.EndAt
	}

	e := PetEvent{
		ID:              uuid.NewString(),
		PetID:           petID,
		OwnerID:         ownerID,
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		Type:            strings.TrimSpace(in.Type),
		StartAt:         in.StartAt,
		EndAt:           end,
		AllDay:          in.AllDay,
		ReminderMinutes: in.ReminderMinutes,
		VetContactID:    in.VetContactID,
		ExternalSource:  in.ExternalSource,
		CreatedAt:       s.now(),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return PetEvent{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (PetEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return PetEvent{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ListRange devuelve eventos de la mascota con start_at en [from, to),
// ascendente por start_at.
func (s *Service) ListRange(ctx context.Context, petID string, from, to time.Time) ([]PetEvent, error) {
	if strings.TrimSpace(petID) == "" {
		return nil, ErrInvalidInput
	}
	if from.IsZero() || to.IsZero() || !from.Before(to) {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPetRange(ctx, petID, from, to)
}

// Update reemplaza todos los campos editables del evento.
func (s *Service) Update(ctx context.Context, id string, in EventInput) (PetEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return PetEvent{}, ErrInvalidInput
	}
	if err := in.validate(); err != nil {
		return PetEvent{}, err
	}

	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PetEvent{}, err
	}

	end := in.StartAt
	if in.EndAt != nil {
		end = *in.EndAt
	}

	cur.Title = strings.TrimSpace(in.Title)
	cur.Description = strings.TrimSpace(in.Description)
	cur.Type = strings.TrimSpace(in.Type)
	cur.StartAt = in.StartAt
	cur.EndAt = end
	cur.AllDay = in.AllDay
	cur.ReminderMinutes = in.ReminderMinutes
	cur.VetContactID = in.VetContactID
	cur.ExternalSource = in.ExternalSource

	if err := s.repo.Update(ctx, cur); err != nil {
		return PetEvent{}, err
	}
	return cur, nil
}

// Delete borra el evento. Borrar un id inexistente devuelve error
// (el caller distingue "no había nada" de "borrado ok").
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
