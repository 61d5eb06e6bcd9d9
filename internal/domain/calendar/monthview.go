package calendar

import "time"

// Formato de día usado en toda la vista mensual (YYYY-MM-DD, UTC).
const dayLayout = "2006-01-02"

// DayFlags son los flags de presentación de un día del calendario.
// Ambos pueden estar activos a la vez.
type DayFlags struct {
	Selected bool
	HasEvent bool
}

// DayOf devuelve la parte fecha (UTC) de un timestamp.
func DayOf(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// MonthRange devuelve el rango semiabierto [primero del mes, primero del mes siguiente)
// para el mes del anchor.
func MonthRange(anchor time.Time) (time.Time, time.Time) {
	a := anchor.UTC()
	from := time.Date(a.Year(), a.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// MarkedDays proyecta los eventos cargados del mes + día seleccionado
// en flags por día. Es función pura: se recalcula entero en cada cambio,
// nunca se parchea incrementalmente.
func MarkedDays(events []PetEvent, selectedDay string) map[string]DayFlags {
	marks := make(map[string]DayFlags)
	if selectedDay != "" {
		marks[selectedDay] = DayFlags{Selected: true}
	}
	for _, e := range events {
		day := DayOf(e.StartAt)
		f := marks[day]
		f.HasEvent = true
		marks[day] = f
	}
	return marks
}

// EventsForDay filtra los eventos cuyo start_at cae en el día dado.
// El orden ascendente viene heredado del load del mes.
func EventsForDay(events []PetEvent, day string) []PetEvent {
	out := make([]PetEvent, 0)
	for _, e := range events {
		if DayOf(e.StartAt) == day {
			out = append(out, e)
		}
	}
	return out
}
