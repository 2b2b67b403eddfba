package orders

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error - error de negocio del flujo de pedidos. Cada uno lleva un código
// estable para el frontend además del mensaje y el status HTTP.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"codigo"`
	Message string `json:"error"`
}

func (e *Error) Error() string { return e.Message }

func newError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

var (
	// Validación de entrada
	errWorkerIDRequired = newError(fiber.StatusBadRequest, "PARAM_MISSING", "El parámetro trabajador_id es requerido")
	errPlaceParams      = newError(fiber.StatusBadRequest, "PARAM_MISSING", "Los parámetros trabajador_id y opcion_id son requeridos")
	errDateFormat       = newError(fiber.StatusBadRequest, "INVALID_DATE_FORMAT", "Formato de fecha inválido. Use YYYY-MM-DD")

	// Ventana de tiempo
	errPastDate = newError(fiber.StatusBadRequest, "FECHA_PASADA", "No se pueden crear pedidos para fechas pasadas")

	// Trabajador
	errWorkerNotFound = newError(fiber.StatusNotFound, "USER_NOT_FOUND", "Trabajador no encontrado")
	errInvalidProfile = newError(fiber.StatusForbidden, "INVALID_PROFILE", "Solo usuarios con perfil trabajador pueden hacer pedidos")
	errWorkerInactive = newError(fiber.StatusForbidden, "USER_INACTIVE", "El trabajador está inactivo")
	errNoCompany      = newError(fiber.StatusForbidden, "NO_EMPRESA", "El trabajador no tiene empresa asignada")

	// Opción y menú
	errOptionNotFound    = newError(fiber.StatusNotFound, "OPCION_NOT_FOUND", "Opción de menú no encontrada")
	errMenuInactive      = newError(fiber.StatusForbidden, "MENU_INACTIVE", "El menú seleccionado no está activo")
	errOptionUnavailable = newError(fiber.StatusForbidden, "OPCION_UNAVAILABLE", "La opción seleccionada no está disponible")
	errCompanyMismatch   = newError(fiber.StatusForbidden, "EMPRESA_MISMATCH", "Esta opción no está disponible para tu empresa")

	// Pedido
	errOrderNotFound = newError(fiber.StatusNotFound, "PEDIDO_NOT_FOUND", "No se encontró pedido para cancelar o ya estaba cancelado")

	// Persistencia
	errStore = newError(fiber.StatusInternalServerError, "DB_ERROR", "Error al acceder a la base de datos")
)

// errOrdersClosedAt - el mensaje lleva la hora de corte configurada, no un
// valor fijo.
func errOrdersClosedAt(cutoff string) *Error {
	return newError(fiber.StatusBadRequest, "HORARIO_CERRADO",
		fmt.Sprintf("El horario de pedidos ha cerrado. Los pedidos cierran a las %s", cutoff))
}
