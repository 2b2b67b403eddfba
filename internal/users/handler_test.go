package users

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Post("/api/admin/usuarios", CreateUserHandler(db))
	return app, mock
}

func postUser(t *testing.T, app *fiber.App, payload string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/usuarios", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	return res
}

// La validación corre completa antes de cualquier consulta: ninguno de estos
// casos debe tocar la base.
func TestCreateUserValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"campos faltantes", `{"identificacion":"123","nombre":"Ana"}`},
		{"email sin arroba", `{"identificacion":"123","nombre":"Ana","email":"ana.acme.com","password":"secreto1","perfil":"trabajador","empresa_id":1}`},
		{"password corta", `{"identificacion":"123","nombre":"Ana","email":"ana@acme.com","password":"abc","perfil":"trabajador","empresa_id":1}`},
		{"perfil inválido", `{"identificacion":"123","nombre":"Ana","email":"ana@acme.com","password":"secreto1","perfil":"gerente"}`},
		{"trabajador sin empresa", `{"identificacion":"123","nombre":"Ana","email":"ana@acme.com","password":"secreto1","perfil":"trabajador"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, mock := testApp(t)

			res := postUser(t, app, tc.payload)
			assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateUserRejectsDuplicateIdentification(t *testing.T) {
	app, mock := testApp(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	res := postUser(t, app, `{"identificacion":"123","nombre":"Ana","email":"ana@acme.com","password":"secreto1","perfil":"trabajador","empresa_id":1}`)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
