package orders

import (
	"fmt"
	"regexp"
	"time"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// TimeWindow - política de horario de pedidos. Todo se evalúa en la zona
// horaria configurada; el reloj es inyectable para las pruebas.
type TimeWindow struct {
	loc    *time.Location
	cutoff time.Duration // segundos desde medianoche, ej 17h
	closed *Error        // HORARIO_CERRADO con la hora de corte configurada
	now    func() time.Time
}

func NewTimeWindow(timezone, cutoff string) (*TimeWindow, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("zona horaria inválida %q: %w", timezone, err)
	}
	t, err := time.Parse("15:04:05", cutoff)
	if err != nil {
		return nil, fmt.Errorf("hora de corte inválida %q: %w", cutoff, err)
	}
	return &TimeWindow{
		loc:    loc,
		cutoff: time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second,
		closed: errOrdersClosedAt(t.Format("15:04")),
		now:    time.Now,
	}, nil
}

// WithClock reemplaza el reloj (pruebas).
func (w *TimeWindow) WithClock(now func() time.Time) *TimeWindow {
	cp := *w
	cp.now = now
	return &cp
}

func (w *TimeWindow) Location() *time.Location { return w.loc }

// Today devuelve la fecha actual YYYY-MM-DD en la zona configurada.
func (w *TimeWindow) Today() string {
	return w.now().In(w.loc).Format("2006-01-02")
}

// Now devuelve la hora actual en la zona configurada.
func (w *TimeWindow) Now() time.Time {
	return w.now().In(w.loc)
}

// ValidateDate valida el formato estricto YYYY-MM-DD y que sea una fecha de
// calendario real. Se rechaza antes que cualquier otra validación.
func (w *TimeWindow) ValidateDate(date string) *Error {
	if !dateRe.MatchString(date) {
		return errDateFormat
	}
	if _, err := time.ParseInLocation("2006-01-02", date, w.loc); err != nil {
		return errDateFormat
	}
	return nil
}

// Check aplica la política de ventana sobre una fecha ya validada:
//   - fecha < hoy            -> FECHA_PASADA, a cualquier hora
//   - fecha == hoy y reloj >= corte -> HORARIO_CERRADO (comparación HH:MM:SS completa)
//   - si no, permitido; para hoy se informa el tiempo restante (solo informativo)
func (w *TimeWindow) Check(date string) (remaining string, err *Error) {
	now := w.now().In(w.loc)
	today := now.Format("2006-01-02")

	// Las fechas YYYY-MM-DD se comparan lexicográficamente sin ambigüedad
	if date < today {
		return "", errPastDate
	}

	clock := time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second

	if date == today {
		if clock >= w.cutoff {
			return "", w.closed
		}
		return formatRemaining(w.cutoff - clock), nil
	}

	return "", nil
}

// Closed indica si el servicio ya cerró para hoy (estado-servicio).
func (w *TimeWindow) Closed() bool {
	_, err := w.Check(w.Today())
	return err != nil
}

// formatRemaining - "2 hora(s) y 15 minuto(s)" / "40 minuto(s)".
func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0 minutos"
	}
	hours := int(d / time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%d hora(s) y %d minuto(s)", hours, minutes)
	}
	return fmt.Sprintf("%d minuto(s)", minutes)
}
