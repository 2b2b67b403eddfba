package audit

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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
	return db, mock
}

func TestWriteSerializesDetails(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`INSERT INTO "activity_logs"`).
		WithArgs(sqlmock.AnyArg(), uint(5), "Ana Torres", "PEDIDO_CREADO", "pedido", uint(7), `{"fecha":"2026-09-01"}`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	err := Write(db, Entry{
		UserID:     5,
		UserName:   "Ana Torres",
		Action:     "PEDIDO_CREADO",
		EntityType: "pedido",
		EntityID:   7,
		Details:    map[string]string{"fecha": "2026-09-01"},
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Sin detalles el jsonb recibe "null", nunca cadena vacía.
func TestWriteNilDetails(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`INSERT INTO "activity_logs"`).
		WithArgs(sqlmock.AnyArg(), uint(0), "", "USUARIO_CREADO", "usuario", uint(9), "null").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	err := Write(db, Entry{
		Action:     "USUARIO_CREADO",
		EntityType: "usuario",
		EntityID:   9,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
