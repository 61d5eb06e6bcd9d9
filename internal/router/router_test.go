package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-calendar/internal/router"
)

type eventDTO struct {
	ID      string    `json:"id"`
	PetID   string    `json:"pet_id"`
	Title   string    `json:"title"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	AllDay  bool      `json:"all_day"`
}

type monthViewDTO struct {
	Month       string `json:"month"`
	SelectedDay string `json:"selected_day"`
	Events      []eventDTO `json:"events"`
	MarkedDays  map[string]struct {
		Selected bool `json:"selected"`
		HasEvent bool `json:"has_event"`
	} `json:"marked_days"`
	DayEvents []eventDTO `json:"day_events"`
}

type notificationDTO struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	PetEventID *string   `json:"pet_event_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func TestHTTP_EndToEnd_CalendarAndReminders(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "owner-1"
	strangerID := "stranger-1"

	// 1) Owner crea mascota
	petID := createPet(t, ts.URL, ownerID, map[string]any{
		"name":    "Milo",
		"species": "dog",
	})

	// 2) Sin auth => 401; otro usuario => 403
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID+"/events?month=2024-06", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without auth, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID+"/events?month=2024-06", strangerID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for non-owner, got %d", st)
		}
	}

	// 3) Título vacío => 400, no se guarda nada
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/events", ownerID, map[string]any{
			"title":    "   ",
			"start_at": "2024-06-10T09:00:00Z",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for empty title, got %d", st)
		}
	}

	// 4) Owner crea evento con hora y evento all-day (fuera de orden a propósito)
	allDayID := createEvent(t, ts.URL, ownerID, petID, map[string]any{
		"title":    "Grooming day",
		"start_at": "2024-06-15T00:00:00Z",
		"all_day":  true,
	})
	timedID := createEvent(t, ts.URL, ownerID, petID, map[string]any{
		"title":    "Vet visit",
		"type":     "vet",
		"start_at": "2024-06-10T09:00:00Z",
	})

	// 5) Lista del mes: ascendente por start_at, end_at defaulteado
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/events?month=2024-06", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list events, got %d body=%s", st, string(body))
		}
		var items []eventDTO
		if err := json.Unmarshal(body, &items); err != nil {
			t.Fatalf("unmarshal list: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 events, got %d", len(items))
		}
		if items[0].ID != timedID || items[1].ID != allDayID {
			t.Fatalf("expected ascending order (vet first), got %s,%s", items[0].ID, items[1].ID)
		}
		if !items[0].EndAt.Equal(items[0].StartAt) {
			t.Fatalf("expected end_at defaulted to start_at, got %v", items[0].EndAt)
		}
	}

	// 6) Vista mensual: marked days + agenda del día seleccionado
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/calendar?month=2024-06&day=2024-06-10", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 month view, got %d body=%s", st, string(body))
		}
		var mv monthViewDTO
		if err := json.Unmarshal(body, &mv); err != nil {
			t.Fatalf("unmarshal month view: %v", err)
		}
		if f := mv.MarkedDays["2024-06-10"]; !f.Selected || !f.HasEvent {
			t.Fatalf("2024-06-10 should be selected + has_event, got %+v", f)
		}
		if f := mv.MarkedDays["2024-06-15"]; f.Selected || !f.HasEvent {
			t.Fatalf("2024-06-15 should only have has_event, got %+v", f)
		}
		if len(mv.DayEvents) != 1 || mv.DayEvents[0].Title != "Vet visit" {
			t.Fatalf("expected day agenda with Vet visit, got %+v", mv.DayEvents)
		}
	}

	// 7) El guardado derivó reminders: uno por evento, en /me/notifications
	{
		items := listNotifications(t, ts.URL, ownerID)
		reminders := filterReminders(items)
		if len(reminders) != 2 {
			t.Fatalf("expected 2 reminders (one per event), got %d", len(reminders))
		}
	}

	// 8) Editar el evento con hora: full replace + reminder re-derivado (sigue habiendo uno)
	{
		st, body := doReq(t, ts.URL, "PUT", "/pets/"+petID+"/events/"+timedID, ownerID, map[string]any{
			"title":    "Vaccination",
			"start_at": "2024-06-11T10:30:00Z",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update event, got %d body=%s", st, string(body))
		}

		reminders := remindersForEvent(t, ts.URL, ownerID, timedID)
		if len(reminders) != 1 {
			t.Fatalf("expected exactly 1 reminder after edit, got %d", len(reminders))
		}
		if reminders[0].Body != "2024-06-11 • 10:30" {
			t.Fatalf("expected reminder body for new start, got %q", reminders[0].Body)
		}
	}

	// 9) El reminder del all-day usa solo la fecha
	{
		reminders := remindersForEvent(t, ts.URL, ownerID, allDayID)
		if len(reminders) != 1 {
			t.Fatalf("expected 1 all-day reminder, got %d", len(reminders))
		}
		if reminders[0].Title != "All-day pet event" || reminders[0].Body != "2024-06-15" {
			t.Fatalf("all-day reminder wrong: %q / %q", reminders[0].Title, reminders[0].Body)
		}
	}

	// 10) Borrar el all-day: 204, desaparece del mes y su reminder también
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID+"/events/"+allDayID, ownerID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete event, got %d", st)
		}

		_, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/calendar?month=2024-06", ownerID, nil)
		var mv monthViewDTO
		_ = json.Unmarshal(body, &mv)
		if _, ok := mv.MarkedDays["2024-06-15"]; ok {
			t.Fatal("expected 2024-06-15 unmarked after delete")
		}

		if got := remindersForEvent(t, ts.URL, ownerID, allDayID); len(got) != 0 {
			t.Fatalf("expected reminder gone after delete, got %d", len(got))
		}
	}

	// 11) Borrar de nuevo => 404 (no silencio)
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID+"/events/"+allDayID, ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 deleting missing event, got %d", st)
		}
	}

	// 12) Marcar leído y marcar todo leído
	{
		items := listNotifications(t, ts.URL, ownerID)
		if len(items) == 0 {
			t.Fatal("precondition: inbox not empty")
		}
		st, body := doReq(t, ts.URL, "POST", "/notifications/"+items[0].ID+"/read", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 mark read, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "POST", "/me/notifications/read-all", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 mark all read, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_PetImageUpload(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "owner-1"
	petID := createPet(t, ts.URL, ownerID, map[string]any{"name": "Milo"})

	// 1) Otro usuario no puede subir foto ajena
	{
		st, _ := doUpload(t, ts.URL, "/pets/"+petID+"/image", "stranger-1", "image/jpeg", []byte("fake-jpg"))
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for non-owner upload, got %d", st)
		}
	}

	// 2) Content-type no soportado => 400
	{
		st, _ := doUpload(t, ts.URL, "/pets/"+petID+"/image", ownerID, "application/pdf", []byte("%PDF"))
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unsupported content-type, got %d", st)
		}
	}

	// 3) Upload válido: 200, image_path bajo la carpeta del dueño
	{
		st, body := doUpload(t, ts.URL, "/pets/"+petID+"/image", ownerID, "image/jpeg", []byte("fake-jpg"))
		if st != http.StatusOK {
			t.Fatalf("expected 200 upload, got %d body=%s", st, string(body))
		}
		var resp struct {
			ImagePath string `json:"image_path"`
			ImageURL  string `json:"image_url"`
		}
		_ = json.Unmarshal(body, &resp)
		if !strings.HasPrefix(resp.ImagePath, "pets/"+ownerID+"/") {
			t.Fatalf("expected image_path under pets/%s/, got %q", ownerID, resp.ImagePath)
		}
		if resp.ImageURL == "" {
			t.Fatal("expected public image_url in response")
		}

		// 4) El perfil de la mascota refleja el path subido
		st, body = doReq(t, ts.URL, "GET", "/pets/"+petID, ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get pet, got %d", st)
		}
		var pet struct {
			ImagePath string `json:"image_path"`
		}
		_ = json.Unmarshal(body, &pet)
		if pet.ImagePath != resp.ImagePath {
			t.Fatalf("expected pet image_path %q, got %q", resp.ImagePath, pet.ImagePath)
		}
	}
}

func TestHTTP_MonthView_RejectsBadMonth(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "owner-1"
	petID := createPet(t, ts.URL, ownerID, map[string]any{"name": "Milo"})

	st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID+"/calendar?month=junio", ownerID, nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad month, got %d", st)
	}
}

func TestHTTP_VetContacts_CRUD(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "owner-1"

	// 1) Crear contacto
	st, body := doReq(t, ts.URL, "POST", "/vets", ownerID, map[string]any{
		"name":       "Clínica San Roque",
		"doctor":     "Dra. Flores",
		"phone":      "+51 999 111 222",
		"is_primary": true,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create vet, got %d body=%s", st, string(body))
	}
	var vet struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &vet)
	if vet.ID == "" {
		t.Fatalf("create vet: missing id body=%s", string(body))
	}

	// 2) Otro usuario no lo ve ni lo puede tocar
	{
		st, body := doReq(t, ts.URL, "GET", "/vets", "stranger-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing own vets, got %d", st)
		}
		var items []any
		_ = json.Unmarshal(body, &items)
		if len(items) != 0 {
			t.Fatalf("expected empty list for stranger, got %d", len(items))
		}

		st, _ = doReq(t, ts.URL, "DELETE", "/vets/"+vet.ID, "stranger-1", nil)
		if st == http.StatusNoContent {
			t.Fatal("stranger must not delete foreign vet contact")
		}
	}

	// 3) Owner edita y borra
	{
		st, body := doReq(t, ts.URL, "PUT", "/vets/"+vet.ID, ownerID, map[string]any{
			"name":  "Clínica San Roque",
			"phone": "+51 999 333 444",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update vet, got %d body=%s", st, string(body))
		}

		st, _ = doReq(t, ts.URL, "DELETE", "/vets/"+vet.ID, ownerID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete vet, got %d", st)
		}
	}
}

func createPet(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func createEvent(t *testing.T, baseURL, userID, petID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets/"+petID+"/events", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create event, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create event: missing id body=%s", string(body))
	}
	return resp.ID
}

func listNotifications(t *testing.T, baseURL, userID string) []notificationDTO {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/me/notifications", userID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list notifications, got %d body=%s", st, string(body))
	}
	var items []notificationDTO
	if err := json.Unmarshal(body, &items); err != nil {
		t.Fatalf("unmarshal notifications: %v", err)
	}
	return items
}

func filterReminders(items []notificationDTO) []notificationDTO {
	out := make([]notificationDTO, 0)
	for _, n := range items {
		if n.Type == "event_reminder" {
			out = append(out, n)
		}
	}
	return out
}

func remindersForEvent(t *testing.T, baseURL, userID, eventID string) []notificationDTO {
	t.Helper()

	out := make([]notificationDTO, 0)
	for _, n := range filterReminders(listNotifications(t, baseURL, userID)) {
		if n.PetEventID != nil && *n.PetEventID == eventID {
			out = append(out, n)
		}
	}
	return out
}

func doUpload(t *testing.T, baseURL, path, debugUserID, contentType string, data []byte) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest("POST", baseURL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", contentType)
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
