package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-calendar/internal/domain/calendar"
)

type CalendarRepo struct {
	db *sql.DB
}

func NewCalendarRepo(db *sql.DB) *CalendarRepo {
	return &CalendarRepo{db: db}
}

const eventColumns = `
	id, pet_id, owner_id,
	title, description, type,
	start_at, end_at, all_day,
	reminder_minutes, vet_contact_id, external_source,
	created_at
`

func (r *CalendarRepo) Create(ctx context.Context, e calendar.PetEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_events (
			id, pet_id, owner_id,
			title, description, type,
			start_at, end_at, all_day,
			reminder_minutes, vet_contact_id, external_source,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		e.ID,
		e.PetID,
		e.OwnerID,
		e.Title,
		e.Description,
		e.Type,
		e.StartAt,
		e.EndAt,
		e.AllDay,
		e.ReminderMinutes,
		e.VetContactID,
		e.ExternalSource,
		e.CreatedAt,
	)
	return err
}

func (r *CalendarRepo) GetByID(ctx context.Context, id string) (calendar.PetEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return calendar.PetEvent{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM pet_events
		WHERE id = $1
	`, id)

	e, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return calendar.PetEvent{}, ErrNotFound
		}
		return calendar.PetEvent{}, err
	}
	return e, nil
}

func (r *CalendarRepo) ListByPetRange(ctx context.Context, petID string, from, to time.Time) ([]calendar.PetEvent, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	// Rango semiabierto [from, to): >= y <, igual que la carga del mes.
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM pet_events
		WHERE pet_id = $1
		  AND start_at >= $2
		  AND start_at < $3
		ORDER BY start_at ASC
	`, petID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]calendar.PetEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *CalendarRepo) Update(ctx context.Context, e calendar.PetEvent) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pet_events
		SET title = $2,
		    description = $3,
		    type = $4,
		    start_at = $5,
		    end_at = $6,
		    all_day = $7,
		    reminder_minutes = $8,
		    vet_contact_id = $9,
		    external_source = $10
		WHERE id = $1
	`,
		e.ID,
		e.Title,
		e.Description,
		e.Type,
		e.StartAt,
		e.EndAt,
		e.AllDay,
		e.ReminderMinutes,
		e.VetContactID,
		e.ExternalSource,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CalendarRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM pet_events
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (calendar.PetEvent, error) {
	var e calendar.PetEvent
	err := row.Scan(
		&e.ID,
		&e.PetID,
		&e.OwnerID,
		&e.Title,
		&e.Description,
		&e.Type,
		&e.StartAt,
		&e.EndAt,
		&e.AllDay,
		&e.ReminderMinutes,
		&e.VetContactID,
		&e.ExternalSource,
		&e.CreatedAt,
	)
	return e, err
}
