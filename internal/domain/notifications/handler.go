package notifications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-calendar/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me/notifications", listNotificationsHandler(svc))
	r.Post("/me/notifications/read-all", markAllReadHandler(svc))
	r.Post("/notifications/{notificationID}/read", markReadHandler(svc))
}

// notificationResponse representa una notificación devuelta por la API.
type notificationResponse struct {
	ID         string         `json:"id"`
	SenderID   string         `json:"sender_id"`
	ReceiverID string         `json:"receiver_id"`
	Type       Type           `json:"type"`
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	PetEventID *string        `json:"pet_event_id,omitempty"`
	PetID      *string        `json:"pet_id,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	ReadAt     *time.Time     `json:"read_at,omitempty"`
}

// listNotificationsHandler godoc
// @Summary Listar notificaciones del usuario
// @Description Notificaciones del usuario autenticado (sin chat), más recientes primero. Paginación keyset: `cursor` = created_at (RFC3339Nano) de la última fila de la página anterior.
// @Tags notifications
// @Produce json
// @Param limit query int false "Máximo de filas (1-100). Por defecto 30"
// @Param cursor query string false "created_at de la última fila vista (RFC3339Nano)"
// @Success 200 {array} notificationResponse
// @Failure 400 {string} string "cursor inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /me/notifications [get]
func listNotificationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		var before *time.Time
		if v := strings.TrimSpace(r.URL.Query().Get("cursor")); v != "" {
			t, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				http.Error(w, "cursor must be RFC3339Nano", http.StatusBadRequest)
				return
			}
			before = &t
		}

		items, err := svc.List(r.Context(), claims.UserID, limit, before)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, toNotificationResponse(n))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// markReadHandler godoc
// @Summary Marcar notificación como leída
// @Description Setea read_at de una notificación del usuario autenticado.
// @Tags notifications
// @Produce json
// @Param notificationID path string true "ID de la notificación"
// @Success 200 {object} notificationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "notification not found"
// @Router /notifications/{notificationID}/read [post]
func markReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "notificationID")
		n, err := svc.MarkRead(r.Context(), id, claims.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) || strings.Contains(strings.ToLower(err.Error()), "not found") {
				http.Error(w, "notification not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toNotificationResponse(n))
	}
}

// markAllReadHandler godoc
// @Summary Marcar todas como leídas
// @Description Setea read_at de todas las notificaciones no leídas del usuario.
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]int "cantidad marcada"
// @Failure 401 {string} string "unauthorized"
// @Router /me/notifications/read-all [post]
func markAllReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		n, err := svc.MarkAllRead(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]int{"marked": n})
	}
}

func toNotificationResponse(n Notification) notificationResponse {
	return notificationResponse{
		ID:         n.ID,
		SenderID:   n.SenderID,
		ReceiverID: n.ReceiverID,
		Type:       n.Type,
		Title:      n.Title,
		Body:       n.Body,
		PetEventID: n.PetEventID,
		PetID:      n.PetID,
		Payload:    n.Payload,
		CreatedAt:  n.CreatedAt,
		ReadAt:     n.ReadAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
