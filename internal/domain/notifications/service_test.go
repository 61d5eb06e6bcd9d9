package notifications

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Notification
	seq  int
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Notification{}}
}

func (r *testRepo) Create(ctx context.Context, n Notification) error {
	if _, ok := r.byID[n.ID]; ok {
		return errors.New("repo: already exists")
	}
	// created_at monotónico para que el keyset sea determinista en tests.
	r.seq++
	n.CreatedAt = n.CreatedAt.Add(time.Duration(r.seq) * time.Millisecond)
	r.byID[n.ID] = n
	return nil
}

func (r *testRepo) ListByReceiver(ctx context.Context, receiverID string, limit int, before *time.Time) ([]Notification, error) {
	out := make([]Notification, 0)
	for _, n := range r.byID {
		if n.ReceiverID != receiverID || n.Type == TypeChat {
			continue
		}
		if before != nil && !n.CreatedAt.Before(*before) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *testRepo) MarkRead(ctx context.Context, id, receiverID string, at time.Time) (Notification, error) {
	n, ok := r.byID[id]
	if !ok || n.ReceiverID != receiverID {
		return Notification{}, ErrNotFound
	}
	if n.ReadAt == nil {
		n.ReadAt = &at
		r.byID[id] = n
	}
	return n, nil
}

func (r *testRepo) MarkAllRead(ctx context.Context, receiverID string, at time.Time) (int, error) {
	count := 0
	for id, n := range r.byID {
		if n.ReceiverID != receiverID || n.ReadAt != nil {
			continue
		}
		n.ReadAt = &at
		r.byID[id] = n
		count++
	}
	return count, nil
}

func (r *testRepo) DeleteEventReminders(ctx context.Context, petEventID string) error {
	for id, n := range r.byID {
		if n.Type == TypeEventReminder && n.PetEventID != nil && *n.PetEventID == petEventID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *testRepo) ListEventReminders(ctx context.Context, petEventID string) ([]Notification, error) {
	out := make([]Notification, 0)
	for _, n := range r.byID {
		if n.Type == TypeEventReminder && n.PetEventID != nil && *n.PetEventID == petEventID {
			out = append(out, n)
		}
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return ts
}

func TestReconcileReminder_CreatesExactlyOne(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	snap := EventSnapshot{
		EventID: "ev-1",
		PetID:   "pet-1",
		StartAt: mustTime(t, "2024-06-10T09:00:00Z"),
	}

	n, err := svc.ReconcileReminder(ctx, "user-1", snap)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if n.Type != TypeEventReminder {
		t.Fatalf("expected type event_reminder, got %q", n.Type)
	}
	if n.SenderID != "user-1" || n.ReceiverID != "user-1" {
		t.Fatal("expected sender = receiver = acting user")
	}
	if n.PetEventID == nil || *n.PetEventID != "ev-1" {
		t.Fatal("expected reminder linked to event")
	}
	if n.Payload["screen"] != "calendar" || n.Payload["pet_id"] != "pet-1" {
		t.Fatalf("unexpected payload: %v", n.Payload)
	}
	if n.Payload["date"] != "2024-06-10T09:00:00Z" {
		t.Fatalf("expected RFC3339 date in payload, got %v", n.Payload["date"])
	}

	got, _ := svc.EventReminders(ctx, "ev-1")
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 reminder, got %d", len(got))
	}
}

func TestReconcileReminder_RepeatedEditsLeaveOneReminder(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	snap := EventSnapshot{
		EventID: "ev-1",
		PetID:   "pet-1",
		StartAt: mustTime(t, "2024-06-10T09:00:00Z"),
	}

	// Tres guardadas seguidas del mismo evento (crear + dos ediciones).
	for i := 0; i < 3; i++ {
		snap.StartAt = snap.StartAt.Add(time.Hour)
		if _, err := svc.ReconcileReminder(ctx, "user-1", snap); err != nil {
			t.Fatalf("reconcile #%d: %v", i, err)
		}
	}

	got, _ := svc.EventReminders(ctx, "ev-1")
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 reminder after repeated edits, got %d", len(got))
	}
	// El reminder refleja el último start, no el primero.
	if got[0].Body != "2024-06-10 • 12:00" {
		t.Fatalf("expected body for latest start, got %q", got[0].Body)
	}
}

func TestReconcileReminder_DoesNotTouchOtherEvents(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a := EventSnapshot{EventID: "ev-a", PetID: "pet-1", StartAt: mustTime(t, "2024-06-10T09:00:00Z")}
	b := EventSnapshot{EventID: "ev-b", PetID: "pet-1", StartAt: mustTime(t, "2024-06-15T00:00:00Z"), AllDay: true}

	if _, err := svc.ReconcileReminder(ctx, "user-1", a); err != nil {
		t.Fatalf("reconcile a: %v", err)
	}
	if _, err := svc.ReconcileReminder(ctx, "user-1", b); err != nil {
		t.Fatalf("reconcile b: %v", err)
	}

	if err := svc.RemoveReminder(ctx, "ev-a"); err != nil {
		t.Fatalf("remove a: %v", err)
	}

	gotA, _ := svc.EventReminders(ctx, "ev-a")
	gotB, _ := svc.EventReminders(ctx, "ev-b")
	if len(gotA) != 0 {
		t.Fatalf("expected ev-a reminders gone, got %d", len(gotA))
	}
	if len(gotB) != 1 {
		t.Fatalf("expected ev-b reminder untouched, got %d", len(gotB))
	}
}

func TestReminderText(t *testing.T) {
	start := mustTime(t, "2024-06-10T15:30:00Z")

	title, body := reminderText(start, false)
	if title != "Upcoming pet event" || body != "2024-06-10 • 15:30" {
		t.Fatalf("timed: got %q / %q", title, body)
	}

	title, body = reminderText(start, true)
	if title != "All-day pet event" || body != "2024-06-10" {
		t.Fatalf("all-day: got %q / %q", title, body)
	}

	// Horas en otra zona se normalizan a UTC.
	lima := time.FixedZone("-05", -5*3600)
	_, body = reminderText(start.In(lima), false)
	if body != "2024-06-10 • 15:30" {
		t.Fatalf("expected UTC-normalized body, got %q", body)
	}
}

func TestReconcileReminder_RejectsIncompleteSnapshot(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	cases := []EventSnapshot{
		{PetID: "pet-1", StartAt: mustTime(t, "2024-06-10T09:00:00Z")}, // sin event
		{EventID: "ev-1", StartAt: mustTime(t, "2024-06-10T09:00:00Z")}, // sin pet
		{EventID: "ev-1", PetID: "pet-1"},                               // sin start
	}
	for i, snap := range cases {
		if _, err := svc.ReconcileReminder(ctx, "user-1", snap); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
	if _, err := svc.ReconcileReminder(ctx, "", EventSnapshot{
		EventID: "ev-1", PetID: "pet-1", StartAt: mustTime(t, "2024-06-10T09:00:00Z"),
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty user, got %v", err)
	}
}

func TestList_ExcludesChatAndPaginatesByCursor(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Send(ctx, SendInput{
			SenderID:   "user-2",
			ReceiverID: "user-1",
			Type:       TypeSystem,
			Title:      "sys",
		}); err != nil {
			t.Fatalf("send #%d: %v", i, err)
		}
	}
	if _, err := svc.Send(ctx, SendInput{
		SenderID:   "user-2",
		ReceiverID: "user-1",
		Type:       TypeChat,
		Title:      "hola",
	}); err != nil {
		t.Fatalf("send chat: %v", err)
	}

	page1, err := svc.List(ctx, "user-1", 3, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page1) != 3 {
		t.Fatalf("expected first page of 3, got %d", len(page1))
	}
	for _, n := range page1 {
		if n.Type == TypeChat {
			t.Fatal("chat must not appear in the inbox")
		}
	}

	cursor := page1[len(page1)-1].CreatedAt
	page2, err := svc.List(ctx, "user-1", 3, &cursor)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("expected 2 remaining (chat excluded), got %d", len(page2))
	}
	for _, n := range page2 {
		if !n.CreatedAt.Before(cursor) {
			t.Fatal("page 2 must be strictly older than the cursor")
		}
	}
}

func TestMarkRead_AndMarkAllRead(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	var first Notification
	for i := 0; i < 3; i++ {
		n, err := svc.Send(ctx, SendInput{
			SenderID:   "user-2",
			ReceiverID: "user-1",
			Title:      "sys",
		})
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if i == 0 {
			first = n
		}
	}

	read, err := svc.MarkRead(ctx, first.ID, "user-1")
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if read.ReadAt == nil {
		t.Fatal("expected read_at set")
	}

	// Otro usuario no puede marcar lo ajeno.
	if _, err := svc.MarkRead(ctx, first.ID, "user-9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for foreign receiver, got %v", err)
	}

	count, err := svc.MarkAllRead(ctx, "user-1")
	if err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 remaining unread marked, got %d", count)
	}
}
