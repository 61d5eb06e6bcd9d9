package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-calendar/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `
	id, name, username,
	image_path, bio, address, phone,
	created_at, updated_at
`

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.User{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, ErrNotFound
		}
		return users.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2,
		    username = $3,
		    image_path = $4,
		    bio = $5,
		    address = $6,
		    phone = $7,
		    updated_at = $8
		WHERE id = $1
	`,
		u.ID,
		u.Name,
		u.Username,
		u.ImagePath,
		u.Bio,
		u.Address,
		u.Phone,
		u.UpdatedAt,
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

func (r *UsersRepo) Upsert(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, name, username,
			image_path, bio, address, phone,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			username = EXCLUDED.username,
			image_path = EXCLUDED.image_path,
			bio = EXCLUDED.bio,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
	`,
		u.ID,
		u.Name,
		u.Username,
		u.ImagePath,
		u.Bio,
		u.Address,
		u.Phone,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

func (r *UsersRepo) FindByUsername(ctx context.Context, username string) ([]users.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username ILIKE $1
		ORDER BY username ASC
	`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row rowScanner) (users.User, error) {
	var u users.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Username,
		&u.ImagePath,
		&u.Bio,
		&u.Address,
		&u.Phone,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}
