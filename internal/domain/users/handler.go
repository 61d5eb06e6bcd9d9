package users

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"pet-calendar/internal/middleware"
	"pet-calendar/internal/ports/files"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Límite de tamaño para la imagen de perfil (bytes).
const maxImageBytes = 5 << 20

func RegisterRoutes(r chi.Router, svc *Service, storage files.Storage) {
	r.Route("/me", func(mr chi.Router) {
		mr.Get("/", getMeHandler(svc))
		mr.Patch("/", updateMeHandler(svc))
		mr.Put("/", upsertMeHandler(svc))
		mr.Post("/image", uploadImageHandler(svc, storage))
	})

	r.Get("/users/{userID}", getUserHandler(svc))
	r.Get("/users", findByUsernameHandler(svc))
}

type userRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string `json:"name"`
	Username  *string `json:"username"`
	ImagePath *string `json:"image_path"`
	Bio       *string `json:"bio"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	ImagePath string    `json:"image_path,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Bio       string    `json:"bio"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// getMeHandler godoc
// @Summary Mi perfil
// @Tags users
// @Produce json
// @Success 200 {object} userResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "user not found"
// @Router /me [get]
func getMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u, nil))
	}
}

// updateMeHandler godoc
// @Summary Actualizar mi perfil (PATCH)
// @Description Actualiza solo los campos enviados.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body userRequest true "Campos a modificar"
// @Success 200 {object} userResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "user not found"
// @Router /me [patch]
func updateMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req userRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.Update(r.Context(), claims.UserID, UpdateInput{
			Name:      req.Name,
			Username:  req.Username,
			ImagePath: req.ImagePath,
			Bio:       req.Bio,
			Address:   req.Address,
			Phone:     req.Phone,
		})
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "not found") {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u, nil))
	}
}

// upsertMeHandler godoc
// @Summary Crear o reemplazar mi perfil
// @Description Usado en el primer login: crea la fila del usuario si no existe todavía.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body userRequest true "Datos del perfil"
// @Success 200 {object} userResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Router /me [put]
func upsertMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req userRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u := User{ID: claims.UserID}
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Username != nil {
			u.Username = *req.Username
		}
		if req.ImagePath != nil {
			u.ImagePath = *req.ImagePath
		}
		if req.Bio != nil {
			u.Bio = *req.Bio
		}
		if req.Address != nil {
			u.Address = *req.Address
		}
		if req.Phone != nil {
			u.Phone = *req.Phone
		}

		// Si ya existe, conservar created_at original.
		if cur, err := svc.GetByID(r.Context(), claims.UserID); err == nil {
			u.CreatedAt = cur.CreatedAt
		}

		out, err := svc.Upsert(r.Context(), u)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(out, nil))
	}
}

// uploadImageHandler godoc
// @Summary Subir imagen de perfil
// @Description Sube el body crudo (Content-Type image/*) al bucket de archivos y actualiza image_path del perfil.
// @Tags users
// @Accept octet-stream
// @Produce json
// @Success 200 {object} userResponse
// @Failure 400 {string} string "body vacío o content-type no soportado"
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "upload failed"
// @Router /me/image [post]
func uploadImageHandler(svc *Service, storage files.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		contentType := r.Header.Get("Content-Type")
		ext, err := imageExt(contentType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		data, err := io.ReadAll(io.LimitReader(r.Body, maxImageBytes+1))
		if err != nil || len(data) == 0 {
			http.Error(w, "empty body", http.StatusBadRequest)
			return
		}
		if len(data) > maxImageBytes {
			http.Error(w, "image too large", http.StatusBadRequest)
			return
		}

		path := "profiles/" + claims.UserID + "-" + uuid.NewString() + ext
		stored, err := storage.Upload(r.Context(), path, contentType, data)
		if err != nil {
			http.Error(w, "upload failed", http.StatusBadGateway)
			return
		}

		u, err := svc.Update(r.Context(), claims.UserID, UpdateInput{ImagePath: &stored})
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u, storage))
	}
}

// getUserHandler godoc
// @Summary Perfil público de un usuario
// @Tags users
// @Produce json
// @Param userID path string true "ID del usuario"
// @Success 200 {object} userResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "user not found"
// @Router /users/{userID} [get]
func getUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		u, err := svc.GetByID(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u, nil))
	}
}

// findByUsernameHandler godoc
// @Summary Buscar usuarios por username
// @Tags users
// @Produce json
// @Param username query string true "Username (case-insensitive)"
// @Success 200 {array} userResponse
// @Failure 400 {string} string "username requerido"
// @Failure 401 {string} string "unauthorized"
// @Router /users [get]
func findByUsernameHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		username := strings.TrimSpace(r.URL.Query().Get("username"))
		items, err := svc.FindByUsername(r.Context(), username)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "username required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUserResponse(u, nil))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func imageExt(contentType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", errors.New("content-type must be image/jpeg, image/png or image/webp")
	}
}

func toUserResponse(u User, storage files.Storage) userResponse {
	out := userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		ImagePath: u.ImagePath,
		Bio:       u.Bio,
		Address:   u.Address,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if storage != nil && u.ImagePath != "" {
		out.ImageURL = storage.PublicURL(u.ImagePath)
	}
	return out
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
