package pets

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

// Límite de tamaño para la foto de la mascota (bytes).
const maxImageBytes = 5 << 20

func RegisterRoutes(r chi.Router, svc *Service, storage files.Storage) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
		pr.Post("/{petID}/image", uploadPetImageHandler(svc, storage))
	})
}

type createPetRequest struct {
	Name      string   `json:"name"`
	Species   string   `json:"species"`
	Breed     string   `json:"breed"`
	Sex       string   `json:"sex"`
	BirthDate string   `json:"birth_date"` // YYYY-MM-DD opcional
	WeightKg  *float64 `json:"weight_kg"`
	ImagePath string   `json:"image_path"`
	Notes     string   `json:"notes"`
}

type petResponse struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed"`
	Sex       string     `json:"sex"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	WeightKg  *float64   `json:"weight_kg,omitempty"`
	ImagePath string     `json:"image_path,omitempty"`
	ImageURL  string     `json:"image_url,omitempty"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string  `json:"name"`
	Species   *string  `json:"species"`
	Breed     *string  `json:"breed"`
	Sex       *string  `json:"sex"`
	BirthDate *string  `json:"birth_date"` // YYYY-MM-DD
	WeightKg  *float64 `json:"weight_kg"`
	ImagePath *string  `json:"image_path"`
	Notes     *string  `json:"notes"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description Crea una mascota para el usuario autenticado. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid json / nombre vacío"
// @Failure 401 {string} string "unauthorized"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			WeightKg:  req.WeightKg,
			ImagePath: req.ImagePath,
			Notes:     req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p, nil))
	}
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Description Mascotas del usuario autenticado, ordenadas por nombre.
// @Tags pets
// @Produce json
// @Success 200 {array} petResponse
// @Failure 401 {string} string "unauthorized"
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p, nil))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Perfil de mascota
// @Description Devuelve el perfil. Solo el dueño puede verlo.
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		p, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if p.OwnerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p, nil))
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota (PATCH)
// @Description Actualiza solo los campos enviados. Solo el dueño.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a modificar"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid json / nombre vacío"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		cur, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if cur.OwnerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req updatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if req.BirthDate != nil && strings.TrimSpace(*req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", *req.BirthDate)
			if err != nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		p, err := svc.Update(r.Context(), petID, UpdateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			WeightKg:  req.WeightKg,
			ImagePath: req.ImagePath,
			Notes:     req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p, nil))
	}
}

// uploadPetImageHandler godoc
// @Summary Subir foto de la mascota
// @Description Sube el body crudo (Content-Type image/*) al bucket de archivos y actualiza image_path de la mascota. Solo el dueño.
// @Tags pets
// @Accept octet-stream
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "body vacío o content-type no soportado"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 502 {string} string "upload failed"
// @Router /pets/{petID}/image [post]
func uploadPetImageHandler(svc *Service, storage files.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		cur, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if cur.OwnerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
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

		// Las fotos van bajo la carpeta del dueño, no de la mascota.
		path := "pets/" + claims.UserID + "/" + uuid.NewString() + ext
		stored, err := storage.Upload(r.Context(), path, contentType, data)
		if err != nil {
			http.Error(w, "upload failed", http.StatusBadGateway)
			return
		}

		p, err := svc.Update(r.Context(), petID, UpdateInput{ImagePath: &stored})
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p, storage))
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

func toPetResponse(p Pet, storage files.Storage) petResponse {
	out := petResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Sex:       p.Sex,
		BirthDate: p.BirthDate,
		WeightKg:  p.WeightKg,
		ImagePath: p.ImagePath,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if storage != nil && p.ImagePath != "" {
		out.ImageURL = storage.PublicURL(p.ImagePath)
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
