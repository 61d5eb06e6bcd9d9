package calendar

import (
	"testing"
	"time"
)

func TestMonthRange_HalfOpen(t *testing.T) {
	anchor := mustTime(t, "2024-06-17T13:45:00Z")
	from, to := MonthRange(anchor)

	if !from.Equal(mustTime(t, "2024-06-01T00:00:00Z")) {
		t.Fatalf("expected from = first of month, got %v", from)
	}
	if !to.Equal(mustTime(t, "2024-07-01T00:00:00Z")) {
		t.Fatalf("expected to = first of next month, got %v", to)
	}
}

func TestMonthRange_DecemberWraps(t *testing.T) {
	from, to := MonthRange(mustTime(t, "2024-12-05T00:00:00Z"))
	if !from.Equal(mustTime(t, "2024-12-01T00:00:00Z")) || !to.Equal(mustTime(t, "2025-01-01T00:00:00Z")) {
		t.Fatalf("december range wrong: %v .. %v", from, to)
	}
}

func TestDayOf_NormalizesToUTC(t *testing.T) {
	// 23:30 del 9 en Lima es 04:30 del 10 en UTC.
	lima := time.FixedZone("-05", -5*3600)
	ts := time.Date(2024, 6, 9, 23, 30, 0, 0, lima)
	if got := DayOf(ts); got != "2024-06-10" {
		t.Fatalf("expected UTC day 2024-06-10, got %q", got)
	}
}

func TestMarkedDays_FlagsPerDay(t *testing.T) {
	events := []PetEvent{
		{ID: "a", StartAt: mustTime(t, "2024-06-10T09:00:00Z")},
		{ID: "b", StartAt: mustTime(t, "2024-06-10T15:00:00Z")},
		{ID: "c", StartAt: mustTime(t, "2024-06-15T00:00:00Z"), AllDay: true},
	}

	marks := MarkedDays(events, "2024-06-20")

	if len(marks) != 3 {
		t.Fatalf("expected 3 marked days, got %d", len(marks))
	}
	if f := marks["2024-06-10"]; !f.HasEvent || f.Selected {
		t.Fatalf("2024-06-10: got %+v", f)
	}
	if f := marks["2024-06-15"]; !f.HasEvent || f.Selected {
		t.Fatalf("2024-06-15: got %+v", f)
	}
	if f := marks["2024-06-20"]; f.HasEvent || !f.Selected {
		t.Fatalf("2024-06-20: got %+v", f)
	}
}

func TestMarkedDays_SelectedDayWithEventsHasBothFlags(t *testing.T) {
	events := []PetEvent{
		{ID: "a", StartAt: mustTime(t, "2024-06-10T09:00:00Z")},
	}
	marks := MarkedDays(events, "2024-06-10")

	f := marks["2024-06-10"]
	if !f.Selected || !f.HasEvent {
		t.Fatalf("expected both flags on selected day with events, got %+v", f)
	}
}

func TestMarkedDays_RecomputeDropsRemovedEvent(t *testing.T) {
	// Escenario: "Vet visit" el 10 y un all-day el 15; se borra el del 15
	// y se reproyecta. La marca del 15 desaparece sola porque la vista se
	// recalcula entera, no se parchea.
	events := []PetEvent{
		{ID: "a", Title: "Vet visit", StartAt: mustTime(t, "2024-06-10T09:00:00Z")},
		{ID: "b", StartAt: mustTime(t, "2024-06-15T00:00:00Z"), AllDay: true},
	}

	before := MarkedDays(events, "")
	if !before["2024-06-15"].HasEvent {
		t.Fatal("precondition: 2024-06-15 marked")
	}

	after := MarkedDays(events[:1], "")
	if _, ok := after["2024-06-15"]; ok {
		t.Fatal("expected 2024-06-15 unmarked after recompute")
	}
	if !after["2024-06-10"].HasEvent {
		t.Fatal("expected 2024-06-10 still marked")
	}
}

func TestMarkedDays_NoSelection(t *testing.T) {
	marks := MarkedDays(nil, "")
	if len(marks) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(marks))
	}
}

func TestEventsForDay(t *testing.T) {
	events := []PetEvent{
		{ID: "a", StartAt: mustTime(t, "2024-06-10T09:00:00Z")},
		{ID: "b", StartAt: mustTime(t, "2024-06-10T15:00:00Z")},
		{ID: "c", StartAt: mustTime(t, "2024-06-15T00:00:00Z")},
	}

	got := EventsForDay(events, "2024-06-10")
	if len(got) != 2 {
		t.Fatalf("expected 2 events on 2024-06-10, got %d", len(got))
	}
	// Conserva el orden del slice de entrada (ascendente del load mensual).
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("expected input order preserved, got %s,%s", got[0].ID, got[1].ID)
	}

	if got := EventsForDay(events, "2024-06-11"); len(got) != 0 {
		t.Fatalf("expected empty slice for day without events, got %d", len(got))
	}
}
