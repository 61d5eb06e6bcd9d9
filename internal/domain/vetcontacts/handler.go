package vetcontacts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-calendar/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/vets", func(vr chi.Router) {
		vr.Post("/", createVetHandler(svc))
		vr.Get("/", listVetsHandler(svc))
		vr.Put("/{vetID}", updateVetHandler(svc))
		vr.Delete("/{vetID}", deleteVetHandler(svc))
	})
}

type vetRequest struct {
	Name      string `json:"name"`
	Doctor    string `json:"doctor"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	IsPrimary bool   `json:"is_primary"`
	Notes     string `json:"notes"`
}

type vetResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Doctor    string    `json:"doctor"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	IsPrimary bool      `json:"is_primary"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// createVetHandler godoc
// @Summary Crear contacto de veterinaria
// @Tags vets
// @Accept json
// @Produce json
// @Param payload body vetRequest true "Datos del contacto"
// @Success 201 {object} vetResponse
// @Failure 400 {string} string "invalid json / nombre vacío"
// @Failure 401 {string} string "unauthorized"
// @Router /vets [post]
func createVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req vetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		v, err := svc.Create(r.Context(), claims.UserID, toContactInput(req))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toVetResponse(v))
	}
}

// listVetsHandler godoc
// @Summary Listar contactos de veterinaria
// @Description Contactos del usuario: primarios primero, después por fecha de alta.
// @Tags vets
// @Produce json
// @Success 200 {array} vetResponse
// @Failure 401 {string} string "unauthorized"
// @Router /vets [get]
func listVetsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]vetResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVetResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// updateVetHandler godoc
// @Summary Editar contacto de veterinaria (full replace)
// @Tags vets
// @Accept json
// @Produce json
// @Param vetID path string true "ID del contacto"
// @Param payload body vetRequest true "Datos completos del contacto"
// @Success 200 {object} vetResponse
// @Failure 400 {string} string "invalid json / nombre vacío"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "vet contact not found"
// @Router /vets/{vetID} [put]
func updateVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req vetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		v, err := svc.Update(r.Context(), chi.URLParam(r, "vetID"), claims.UserID, toContactInput(req))
		if err != nil {
			writeVetError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toVetResponse(v))
	}
}

// deleteVetHandler godoc
// @Summary Borrar contacto de veterinaria
// @Tags vets
// @Param vetID path string true "ID del contacto"
// @Success 204 {string} string ""
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "vet contact not found"
// @Router /vets/{vetID} [delete]
func deleteVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "vetID"), claims.UserID); err != nil {
			writeVetError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeVetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case strings.Contains(strings.ToLower(err.Error()), "not found"):
		http.Error(w, "vet contact not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toContactInput(req vetRequest) ContactInput {
	return ContactInput{
		Name:      req.Name,
		Doctor:    req.Doctor,
		Phone:     req.Phone,
		Address:   req.Address,
		IsPrimary: req.IsPrimary,
		Notes:     req.Notes,
	}
}

func toVetResponse(v VetContact) vetResponse {
	return vetResponse{
		ID:        v.ID,
		OwnerID:   v.OwnerID,
		Name:      v.Name,
		Doctor:    v.Doctor,
		Phone:     v.Phone,
		Address:   v.Address,
		IsPrimary: v.IsPrimary,
		Notes:     v.Notes,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
