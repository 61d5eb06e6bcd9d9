package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-calendar/internal/domain/notifications"
	"pet-calendar/internal/domain/pets"
	"pet-calendar/internal/middleware"
	"pet-calendar/internal/platform/logger"
	"pet-calendar/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service, notifSvc *notifications.Service, log logger.Logger) {
	r.Route("/pets/{petID}/events", func(er chi.Router) {
		er.Post("/", createEventHandler(svc, petsSvc, notifSvc, log))
		er.Get("/", listEventsHandler(svc, petsSvc))
		er.Put("/{eventID}", updateEventHandler(svc, petsSvc, notifSvc, log))
		er.Delete("/{eventID}", deleteEventHandler(svc, petsSvc, notifSvc, log))
	})

	// Vista mensual (marked days + agenda del día seleccionado)
	r.Get("/pets/{petID}/calendar", monthViewHandler(svc, petsSvc))
}

// eventRequest es el cuerpo para crear/editar un evento (full replace en PUT).
type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`

	StartAt string  `json:"start_at"`         // RFC3339
	EndAt   *string `json:"end_at,omitempty"` // RFC3339; default = start_at
	AllDay  bool    `json:"all_day"`

	ReminderMinutes *int    `json:"reminder_minutes,omitempty"`
	VetContactID    *string `json:"vet_contact_id,omitempty"`
	ExternalSource  *string `json:"external_source,omitempty"`
}

// eventResponse representa un evento de calendario devuelto por la API.
type eventResponse struct {
	ID      string `json:"id"`
	PetID   string `json:"pet_id"`
	OwnerID string `json:"owner_id"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`

	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	AllDay  bool      `json:"all_day"`

	ReminderMinutes *int    `json:"reminder_minutes,omitempty"`
	VetContactID    *string `json:"vet_contact_id,omitempty"`
	ExternalSource  *string `json:"external_source,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// monthViewResponse es la proyección del mes para la UI de calendario.
type monthViewResponse struct {
	Month       string                 `json:"month"` // YYYY-MM
	SelectedDay string                 `json:"selected_day,omitempty"`
	Events      []eventResponse        `json:"events"`
	MarkedDays  map[string]dayFlagsDTO `json:"marked_days"`
	DayEvents   []eventResponse        `json:"day_events"`
}

type dayFlagsDTO struct {
	Selected bool `json:"selected"`
	HasEvent bool `json:"has_event"`
}

// createEventHandler godoc
// @Summary Crear evento de calendario
// @Description Crea un evento de calendario para la mascota. Solo el dueño. Después del write se re-deriva el reminder (best-effort: si falla, el evento igual quedó guardado). Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags calendar
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body eventRequest true "Datos del evento; start_at/end_at en RFC3339"
// @Success 201 {object} eventResponse
// @Failure 400 {string} string "invalid json / título vacío / start_at inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/events [post]
func createEventHandler(svc *Service, petsSvc *pets.Service, notifSvc *notifications.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireOwner(w, r, petsSvc)
		if !ok {
			return
		}
		petID := chi.URLParam(r, "petID")

		in, err := decodeEventRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		e, err := svc.Create(r.Context(), petID, claims.UserID, in)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// El write del evento ya está confirmado; el reminder se reconcilia
		// después y nunca tumba la respuesta.
		reconcileReminder(r, notifSvc, log, claims.UserID, e)

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

// listEventsHandler godoc
// @Summary Listar eventos de una mascota
// @Description Lista eventos con start_at en [from, to) ascendente. Alternativa: `month=YYYY-MM` arma el rango del mes. Solo el dueño.
// @Tags calendar
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param from query string false "Inicio del rango (RFC3339, inclusivo)"
// @Param to query string false "Fin del rango (RFC3339, exclusivo)"
// @Param month query string false "Mes YYYY-MM, atajo para from/to"
// @Success 200 {array} eventResponse
// @Failure 400 {string} string "rango inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/events [get]
func listEventsHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := requireOwner(w, r, petsSvc)
		if !ok {
			return
		}
		petID := chi.URLParam(r, "petID")

		from, to, err := parseRange(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListRange(r.Context(), petID, from, to)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "invalid range", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// updateEventHandler godoc
// @Summary Editar evento (full replace)
// @Description Reemplaza todos los campos editables del evento y re-deriva su reminder (best-effort). Solo el dueño.
// @Tags calendar
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param eventID path string true "ID del evento"
// @Param payload body eventRequest true "Campos editables completos"
// @Success 200 {object} eventResponse
// @Failure 400 {string} string "invalid json / título vacío"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "event not found"
// @Router /pets/{petID}/events/{eventID} [put]
func updateEventHandler(svc *Service, petsSvc *pets.Service, notifSvc *notifications.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireOwner(w, r, petsSvc)
		if !ok {
			return
		}
		petID := chi.URLParam(r, "petID")
		eventID := chi.URLParam(r, "eventID")

		// Evento existe y pertenece al pet
		cur, err := svc.GetByID(r.Context(), eventID)
		if err != nil || cur.PetID != petID {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}

		in, err := decodeEventRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		e, err := svc.Update(r.Context(), eventID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if strings.Contains(strings.ToLower(err.Error()), "not found") {
				http.Error(w, "event not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		reconcileReminder(r, notifSvc, log, claims.UserID, e)

		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// deleteEventHandler godoc
// @Summary Borrar evento
// @Description Borra el evento y su reminder (best-effort). Borrar un id inexistente devuelve 404, no silencio. Solo el dueño.
// @Tags calendar
// @Param petID path string true "ID de la mascota"
// @Param eventID path string true "ID del evento"
// @Success 204 {string} string ""
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "event not found"
// @Router /pets/{petID}/events/{eventID} [delete]
func deleteEventHandler(svc *Service, petsSvc *pets.Service, notifSvc *notifications.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := requireOwner(w, r, petsSvc)
		if !ok {
			return
		}
		petID := chi.URLParam(r, "petID")
		eventID := chi.URLParam(r, "eventID")

		cur, err := svc.GetByID(r.Context(), eventID)
		if err != nil || cur.PetID != petID {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}

		if err := svc.Delete(r.Context(), eventID); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "not found") {
				http.Error(w, "event not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Cascada al reminder, best-effort.
		if err := notifSvc.RemoveReminder(r.Context(), eventID); err != nil {
			log.Warn("remove event reminder failed", map[string]any{
				"event_id": eventID,
				"err":      err.Error(),
			})
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// monthViewHandler godoc
// @Summary Vista mensual del calendario
// @Description Devuelve los eventos del mes, el mapa de días marcados (selected/has_event) y la agenda del día seleccionado. Proyección pura sobre los eventos cargados.
// @Tags calendar
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param month query string true "Mes YYYY-MM"
// @Param day query string false "Día seleccionado YYYY-MM-DD"
// @Success 200 {object} monthViewResponse
// @Failure 400 {string} string "month inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/calendar [get]
func monthViewHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := requireOwner(w, r, petsSvc)
		if !ok {
			return
		}
		petID := chi.URLParam(r, "petID")

		month := strings.TrimSpace(r.URL.Query().Get("month"))
		anchor, err := time.Parse("2006-01", month)
		if err != nil {
			http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
			return
		}
		selectedDay := strings.TrimSpace(r.URL.Query().Get("day"))
		if selectedDay != "" {
			if _, err := time.Parse("2006-01-02", selectedDay); err != nil {
				http.Error(w, "day must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
		}

		from, to := MonthRange(anchor)
		items, err := svc.ListRange(r.Context(), petID, from, to)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		events := make([]eventResponse, 0, len(items))
		for _, e := range items {
			events = append(events, toEventResponse(e))
		}

		marks := make(map[string]dayFlagsDTO)
		for day, f := range MarkedDays(items, selectedDay) {
			marks[day] = dayFlagsDTO{Selected: f.Selected, HasEvent: f.HasEvent}
		}

		dayItems := EventsForDay(items, selectedDay)
		dayEvents := make([]eventResponse, 0, len(dayItems))
		for _, e := range dayItems {
			dayEvents = append(dayEvents, toEventResponse(e))
		}

		writeJSON(w, http.StatusOK, monthViewResponse{
			Month:       month,
			SelectedDay: selectedDay,
			Events:      events,
			MarkedDays:  marks,
			DayEvents:   dayEvents,
		})
	}
}

// requireOwner corta con 401/404/403 según corresponda y devuelve claims.
// Esta app no tiene delegados: todo acceso por mascota es owner-only.
func requireOwner(w http.ResponseWriter, r *http.Request, petsSvc *pets.Service) (auth.Claims, bool) {
	claims, has := middleware.GetClaims(r.Context())
	if !has || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, false
	}

	petID := chi.URLParam(r, "petID")
	p, err := petsSvc.GetByID(r.Context(), petID)
	if err != nil {
		http.Error(w, "pet not found", http.StatusNotFound)
		return auth.Claims{}, false
	}
	if p.OwnerID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return auth.Claims{}, false
	}

	return claims, true
}

func decodeEventRequest(r *http.Request) (EventInput, error) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return EventInput{}, errors.New("invalid json")
	}

	start, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return EventInput{}, errors.New("start_at must be RFC3339")
	}

	var end *time.Time
	if req.EndAt != nil && strings.TrimSpace(*req.EndAt) != "" {
		t, err := time.Parse(time.RFC3339, *req.EndAt)
		if err != nil {
			return EventInput{}, errors.New("end_at must be RFC3339")
		}
		end = &t
	}

	return EventInput{
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		StartAt:         start,
		EndAt:           end,
		AllDay:          req.AllDay,
		ReminderMinutes: req.ReminderMinutes,
		VetContactID:    req.VetContactID,
		ExternalSource:  req.ExternalSource,
	}, nil
}

// parseRange arma [from, to) desde query params. month=YYYY-MM es el atajo
// que usa la UI de calendario; from/to explícitos sirven para sync.
func parseRange(r *http.Request) (time.Time, time.Time, error) {
	if m := strings.TrimSpace(r.URL.Query().Get("month")); m != "" {
		anchor, err := time.Parse("2006-01", m)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("month must be YYYY-MM")
		}
		from, to := MonthRange(anchor)
		return from, to, nil
	}

	from, err := time.Parse(time.RFC3339, strings.TrimSpace(r.URL.Query().Get("from")))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("from must be RFC3339")
	}
	to, err := time.Parse(time.RFC3339, strings.TrimSpace(r.URL.Query().Get("to")))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("to must be RFC3339")
	}
	return from, to, nil
}

// reconcileReminder dispara la reconciliación del reminder después de un
// save exitoso. Los errores se loguean y no se propagan: el evento ya
// quedó guardado y la respuesta al cliente sigue siendo success.
func reconcileReminder(r *http.Request, notifSvc *notifications.Service, log logger.Logger, userID string, e PetEvent) {
	_, err := notifSvc.ReconcileReminder(r.Context(), userID, notifications.EventSnapshot{
		EventID: e.ID,
		PetID:   e.PetID,
		StartAt: e.StartAt,
		AllDay:  e.AllDay,
	})
	if err != nil {
		log.Warn("event reminder reconcile failed", map[string]any{
			"event_id": e.ID,
			"pet_id":   e.PetID,
			"err":      err.Error(),
		})
	}
}

func toEventResponse(e PetEvent) eventResponse {
	return eventResponse{
		ID:              e.ID,
		PetID:           e.PetID,
		OwnerID:         e.OwnerID,
		Title:           e.Title,
		Description:     e.Description,
		Type:            e.Type,
		StartAt:         e.StartAt,
		EndAt:           e.EndAt,
		AllDay:          e.AllDay,
		ReminderMinutes: e.ReminderMinutes,
		VetContactID:    e.VetContactID,
		ExternalSource:  e.ExternalSource,
		CreatedAt:       e.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
