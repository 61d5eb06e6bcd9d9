package vetcontacts

import "context"

type Repository interface {
	Create(ctx context.Context, v VetContact) error
	GetByID(ctx context.Context, id string) (VetContact, error)

	// ListByOwner devuelve los contactos del usuario: primarios primero,
	// después por created_at asc.
	ListByOwner(ctx context.Context, ownerID string) ([]VetContact, error)

	Update(ctx context.Context, v VetContact) error
	Delete(ctx context.Context, id string) error
}
