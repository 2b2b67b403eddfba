package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWindow(t *testing.T, clock time.Time) *TimeWindow {
	t.Helper()
	w, err := NewTimeWindow("America/Bogota", "17:00:00")
	require.NoError(t, err)
	return w.WithClock(func() time.Time { return clock })
}

func bogota(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	return loc
}

func TestNewTimeWindowInvalid(t *testing.T) {
	_, err := NewTimeWindow("No/Existe", "17:00:00")
	assert.Error(t, err)

	_, err = NewTimeWindow("America/Bogota", "25:00")
	assert.Error(t, err)
}

func TestValidateDate(t *testing.T) {
	w := testWindow(t, time.Now())

	assert.Nil(t, w.ValidateDate("2026-09-01"))

	for _, bad := range []string{"", "2026-9-1", "01-09-2026", "2026/09/01", "2026-13-40", "hoy"} {
		err := w.ValidateDate(bad)
		require.NotNil(t, err, "fecha %q debería rechazarse", bad)
		assert.Equal(t, "INVALID_DATE_FORMAT", err.Code)
	}
}

func TestCheckBeforeCutoff(t *testing.T) {
	loc := bogota(t)
	w := testWindow(t, time.Date(2026, 9, 1, 14, 45, 0, 0, loc))

	remaining, err := w.Check("2026-09-01")
	require.Nil(t, err)
	assert.Equal(t, "2 hora(s) y 15 minuto(s)", remaining)
}

func TestCheckOneSecondBeforeCutoff(t *testing.T) {
	loc := bogota(t)
	w := testWindow(t, time.Date(2026, 9, 1, 16, 59, 59, 0, loc))

	remaining, err := w.Check("2026-09-01")
	require.Nil(t, err)
	assert.Equal(t, "0 minutos", remaining)
}

func TestCheckAtCutoff(t *testing.T) {
	loc := bogota(t)
	w := testWindow(t, time.Date(2026, 9, 1, 17, 0, 0, 0, loc))

	_, err := w.Check("2026-09-01")
	require.NotNil(t, err)
	assert.Equal(t, "HORARIO_CERRADO", err.Code)
}

func TestCheckAfterCutoff(t *testing.T) {
	loc := bogota(t)
	w := testWindow(t, time.Date(2026, 9, 1, 21, 30, 0, 0, loc))

	_, err := w.Check("2026-09-01")
	require.NotNil(t, err)
	assert.Equal(t, "HORARIO_CERRADO", err.Code)
}

// El mensaje de cierre informa la hora de corte configurada, no una fija.
func TestClosedMessageUsesConfiguredCutoff(t *testing.T) {
	loc := bogota(t)
	w, err := NewTimeWindow("America/Bogota", "20:30:00")
	require.NoError(t, err)
	w = w.WithClock(func() time.Time { return time.Date(2026, 9, 1, 21, 0, 0, 0, loc) })

	_, werr := w.Check("2026-09-01")
	require.NotNil(t, werr)
	assert.Equal(t, "HORARIO_CERRADO", werr.Code)
	assert.Contains(t, werr.Message, "20:30")

	_, werr = testWindow(t, time.Date(2026, 9, 1, 18, 0, 0, 0, loc)).Check("2026-09-01")
	require.NotNil(t, werr)
	assert.Contains(t, werr.Message, "17:00")
}

func TestCheckPastDate(t *testing.T) {
	loc := bogota(t)
	// Aun de madrugada, ayer ya es fecha pasada
	w := testWindow(t, time.Date(2026, 9, 1, 0, 5, 0, 0, loc))

	_, err := w.Check("2026-08-31")
	require.NotNil(t, err)
	assert.Equal(t, "FECHA_PASADA", err.Code)
}

func TestCheckFutureDateIgnoresCutoff(t *testing.T) {
	loc := bogota(t)
	// Pasadas las 17:00 todavía se puede pedir para mañana
	w := testWindow(t, time.Date(2026, 9, 1, 19, 0, 0, 0, loc))

	remaining, err := w.Check("2026-09-02")
	require.Nil(t, err)
	assert.Empty(t, remaining)
}

func TestTodayUsesConfiguredZone(t *testing.T) {
	// 02:00 UTC del día 2 = 21:00 del día 1 en Bogotá
	w := testWindow(t, time.Date(2026, 9, 2, 2, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-09-01", w.Today())
}

func TestClosed(t *testing.T) {
	loc := bogota(t)

	assert.False(t, testWindow(t, time.Date(2026, 9, 1, 10, 0, 0, 0, loc)).Closed())
	assert.True(t, testWindow(t, time.Date(2026, 9, 1, 17, 0, 1, 0, loc)).Closed())
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "0 minutos", formatRemaining(0))
	assert.Equal(t, "0 minutos", formatRemaining(30*time.Second))
	assert.Equal(t, "40 minuto(s)", formatRemaining(40*time.Minute))
	assert.Equal(t, "1 hora(s) y 0 minuto(s)", formatRemaining(time.Hour))
	assert.Equal(t, "3 hora(s) y 25 minuto(s)", formatRemaining(3*time.Hour+25*time.Minute+59*time.Second))
}
