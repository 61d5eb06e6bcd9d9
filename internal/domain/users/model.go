package users

import "time"

// User es el perfil público del usuario. El ID viene del proveedor de
// auth (no se genera acá): la fila se crea con Upsert en el primer login.
type User struct {
	ID string

	Name     string
	Username string

	ImagePath string
	Bio       string
	Address   string
	Phone     string

	CreatedAt time.Time
	UpdatedAt time.Time
}
