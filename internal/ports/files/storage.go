package files

import "context"

// Storage abstrae el bucket de archivos (imágenes de perfil y mascotas).
type Storage interface {
	// Upload sube el contenido al path indicado (sobrescribe si existe)
	// y devuelve el path guardado.
	Upload(ctx context.Context, path string, contentType string, data []byte) (string, error)

	// PublicURL arma la URL pública de un path ya subido.
	PublicURL(path string) string
}
