package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-calendar/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, owner_id,
	name, species, breed, sex,
	birth_date, weight_kg,
	image_path, notes,
	created_at, updated_at
`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, owner_id,
			name, species, breed, sex,
			birth_date, weight_kg,
			image_path, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		p.ID,
		p.OwnerID,
		p.Name,
		p.Species,
		p.Breed,
		p.Sex,
		p.BirthDate,
		p.WeightKg,
		p.ImagePath,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE id = $1
	`, id)

	p, err := scanPet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_id = $1
		ORDER BY name ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET name = $2,
		    species = $3,
		    breed = $4,
		    sex = $5,
		    birth_date = $6,
		    weight_kg = $7,
		    image_path = $8,
		    notes = $9,
		    updated_at = $10
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Species,
		p.Breed,
		p.Sex,
		p.BirthDate,
		p.WeightKg,
		p.ImagePath,
		p.Notes,
		p.UpdatedAt,
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

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Species,
		&p.Breed,
		&p.Sex,
		&p.BirthDate,
		&p.WeightKg,
		&p.ImagePath,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
