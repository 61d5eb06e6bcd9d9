package users

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (User, error)
	Update(ctx context.Context, u User) error

	// Upsert inserta o reemplaza la fila por id (primer login).
	Upsert(ctx context.Context, u User) error

	// FindByUsername busca por username (case-insensitive, match exacto).
	FindByUsername(ctx context.Context, username string) ([]User, error)
}
