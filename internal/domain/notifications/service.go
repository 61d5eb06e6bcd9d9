package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	defaultListLimit = 30
	maxListLimit     = 100
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

type SendInput struct {
	SenderID   string
	ReceiverID string
	Type       Type
	Title      string
	Body       string
	PetEventID *string
	PetID      *string
	Payload    map[string]any
}

// Send crea una notificación genérica (type default: system).
func (s *Service) Send(ctx context.Context, in SendInput) (Notification, error) {
	if strings.TrimSpace(in.SenderID) == "" || strings.TrimSpace(in.ReceiverID) == "" {
		return Notification{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" {
		return Notification{}, ErrInvalidInput
	}

	typ := in.Type
	if typ == "" {
		typ = TypeSystem
	}

	n := Notification{
		ID:         uuid.NewString(),
		SenderID:   strings.TrimSpace(in.SenderID),
		ReceiverID: strings.TrimSpace(in.ReceiverID),
		Type:       typ,
		Title:      strings.TrimSpace(in.Title),
		Body:       in.Body,
		PetEventID: in.PetEventID,
		PetID:      in.PetID,
		Payload:    in.Payload,
		CreatedAt:  s.now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// List devuelve las notificaciones del usuario (sin chat), más recientes
// primero. Cursor = created_at de la última fila de la página anterior.
func (s *Service) List(ctx context.Context, receiverID string, limit int, before *time.Time) ([]Notification, error) {
	if strings.TrimSpace(receiverID) == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.ListByReceiver(ctx, receiverID, limit, before)
}

func (s *Service) MarkRead(ctx context.Context, id, receiverID string) (Notification, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.TrimSpace(receiverID) == "" {
		return Notification{}, ErrInvalidInput
	}
	return s.repo.MarkRead(ctx, id, receiverID, s.now())
}

func (s *Service) MarkAllRead(ctx context.Context, receiverID string) (int, error) {
	if strings.TrimSpace(receiverID) == "" {
		return 0, ErrInvalidInput
	}
	return s.repo.MarkAllRead(ctx, receiverID, s.now())
}

// EventSnapshot es lo mínimo que el linker necesita saber de un evento
// para derivar su reminder. Se pasa como snapshot para no acoplar este
// paquete al dominio calendar.
type EventSnapshot struct {
	EventID string
	PetID   string
	StartAt time.Time
	AllDay  bool
}

// ReconcileReminder re-deriva el reminder de un evento: borra los que
// existan y crea uno nuevo. Delete-then-insert a propósito: el schema no
// garantiza unicidad por evento, así que un upsert no alcanza para evitar
// duplicados acumulados entre ediciones.
//
// El caller lo invoca SIEMPRE después de que el write del evento ya quedó
// confirmado, y trata cualquier error como best-effort (log, no rollback).
func (s *Service) ReconcileReminder(ctx context.Context, userID string, snap EventSnapshot) (Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || strings.TrimSpace(snap.EventID) == "" || strings.TrimSpace(snap.PetID) == "" {
		return Notification{}, ErrInvalidInput
	}
	if snap.StartAt.IsZero() {
		return Notification{}, ErrInvalidInput
	}

	// 1) Borrado incondicional de reminders previos del evento.
	if err := s.repo.DeleteEventReminders(ctx, snap.EventID); err != nil {
		return Notification{}, fmt.Errorf("delete previous reminders: %w", err)
	}

	// 2) Texto derivado del start + all_day.
	title, body := reminderText(snap.StartAt, snap.AllDay)

	// 3) Insert del reminder nuevo (sender = receiver = usuario que guardó).
	n := Notification{
		ID:         uuid.NewString(),
		SenderID:   userID,
		ReceiverID: userID,
		Type:       TypeEventReminder,
		Title:      title,
		Body:       body,
		PetEventID: &snap.EventID,
		PetID:      &snap.PetID,
		Payload: map[string]any{
			"screen": "calendar",
			"pet_id": snap.PetID,
			"date":   snap.StartAt.UTC().Format(time.RFC3339),
		},
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return Notification{}, fmt.Errorf("insert reminder: %w", err)
	}
	return n, nil
}

// RemoveReminder borra los reminders del evento (al borrar el evento).
// Misma política best-effort que ReconcileReminder.
func (s *Service) RemoveReminder(ctx context.Context, petEventID string) error {
	petEventID = strings.TrimSpace(petEventID)
	if petEventID == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteEventReminders(ctx, petEventID)
}

// EventReminders expone los reminders de un evento (verificación/tests).
func (s *Service) EventReminders(ctx context.Context, petEventID string) ([]Notification, error) {
	petEventID = strings.TrimSpace(petEventID)
	if petEventID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListEventReminders(ctx, petEventID)
}

// reminderText arma título/cuerpo del reminder.
// All-day: solo la fecha. Con hora: fecha + HH:MM.
func reminderText(start time.Time, allDay bool) (title, body string) {
	d := start.UTC()
	if allDay {
		return "All-day pet event", d.Format("2006-01-02")
	}
	return "Upcoming pet event", d.Format("2006-01-02") + " • " + d.Format("15:04")
}
