package pets

import (
	"context"
	"strings"
)

// OwnerOf expone el ownerID de una mascota.
// Se usa desde handlers de otros módulos (calendar) sin acoplar structs.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerID, nil
}

// IsOwner chequea que el usuario sea dueño de la mascota.
// Esta app no tiene delegados: todo acceso por mascota es owner-only.
func (s *Service) IsOwner(ctx context.Context, petID, userID string) (bool, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(userID) == "" {
		return false, ErrInvalidInput
	}
	owner, err := s.OwnerOf(ctx, petID)
	if err != nil {
		return false, err
	}
	return owner == userID, nil
}
