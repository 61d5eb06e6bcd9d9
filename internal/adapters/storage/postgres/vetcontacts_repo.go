package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-calendar/internal/domain/vetcontacts"
)

type VetContactsRepo struct {
	db *sql.DB
}

func NewVetContactsRepo(db *sql.DB) *VetContactsRepo {
	return &VetContactsRepo{db: db}
}

const vetColumns = `
	id, owner_id,
	name, doctor, phone, address,
	is_primary, notes,
	created_at, updated_at
`

func (r *VetContactsRepo) Create(ctx context.Context, v vetcontacts.VetContact) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vet_contacts (
			id, owner_id,
			name, doctor, phone, address,
			is_primary, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		v.ID,
		v.OwnerID,
		v.Name,
		v.Doctor,
		v.Phone,
		v.Address,
		v.IsPrimary,
		v.Notes,
		v.CreatedAt,
		v.UpdatedAt,
	)
	return err
}

func (r *VetContactsRepo) GetByID(ctx context.Context, id string) (vetcontacts.VetContact, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return vetcontacts.VetContact{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+vetColumns+`
		FROM vet_contacts
		WHERE id = $1
	`, id)

	v, err := scanVetContact(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return vetcontacts.VetContact{}, ErrNotFound
		}
		return vetcontacts.VetContact{}, err
	}
	return v, nil
}

func (r *VetContactsRepo) ListByOwner(ctx context.Context, ownerID string) ([]vetcontacts.VetContact, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, nil
	}

	// Primarios primero, después por fecha de alta (igual que la app).
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+vetColumns+`
		FROM vet_contacts
		WHERE owner_id = $1
		ORDER BY is_primary DESC, created_at ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vetcontacts.VetContact, 0)
	for rows.Next() {
		v, err := scanVetContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VetContactsRepo) Update(ctx context.Context, v vetcontacts.VetContact) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vet_contacts
		SET name = $2,
		    doctor = $3,
		    phone = $4,
		    address = $5,
		    is_primary = $6,
		    notes = $7,
		    updated_at = $8
		WHERE id = $1
	`,
		v.ID,
		v.Name,
		v.Doctor,
		v.Phone,
		v.Address,
		v.IsPrimary,
		v.Notes,
		v.UpdatedAt,
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

func (r *VetContactsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM vet_contacts
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

func scanVetContact(row rowScanner) (vetcontacts.VetContact, error) {
	var v vetcontacts.VetContact
	err := row.Scan(
		&v.ID,
		&v.OwnerID,
		&v.Name,
		&v.Doctor,
		&v.Phone,
		&v.Address,
		&v.IsPrimary,
		&v.Notes,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	return v, err
}
