package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)

	// ListByOwner devuelve las mascotas del usuario ordenadas por nombre.
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)

	Update(ctx context.Context, p Pet) error
}
