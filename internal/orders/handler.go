package orders

import (
	"github.com/gofiber/fiber/v2"
)

type PlaceOrderRequest struct {
	WorkerID uint   `json:"trabajador_id"`
	OptionID uint   `json:"opcion_id"`
	Date     string `json:"fecha"` // opcional, default hoy
	Notes    string `json:"observaciones"`
}

type CancelOrderRequest struct {
	WorkerID uint   `json:"trabajador_id"`
	Date     string `json:"fecha"` // opcional, default hoy
}

func respondError(c *fiber.Ctx, err *Error) error {
	return c.Status(err.Status).JSON(fiber.Map{
		"error":  err.Message,
		"codigo": err.Code,
	})
}

// GET /api/pedidos/mio?trabajador_id=&fecha=
func QueryOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		workerID := uint(c.QueryInt("trabajador_id"))
		date := c.Query("fecha")

		view, err := svc.Query(c.Context(), workerID, date)
		if err != nil {
			return respondError(c, err)
		}

		if !view.HasOrder {
			return c.JSON(fiber.Map{
				"tiene_pedido":    false,
				"puede_crear":     view.CanModify,
				"tiempo_restante": nullable(view.Remaining),
				"mensaje":         "No hay pedido registrado para esta fecha",
				"trabajador":      view.Worker,
			})
		}

		return c.JSON(fiber.Map{
			"tiene_pedido":    true,
			"puede_modificar": view.CanModify,
			"tiempo_restante": nullable(view.Remaining),
			"pedido":          view.Order,
			"trabajador":      view.Worker,
		})
	}
}

// POST /api/pedidos
func PlaceOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PlaceOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		result, err := svc.Place(c.Context(), PlaceParams{
			WorkerID: body.WorkerID,
			OptionID: body.OptionID,
			Date:     body.Date,
			Notes:    body.Notes,
		})
		if err != nil {
			return respondError(c, err)
		}

		status := fiber.StatusOK
		mensaje := "Pedido actualizado correctamente"
		if result.Action == "creado" {
			status = fiber.StatusCreated
			mensaje = "Pedido creado correctamente"
		}

		return c.Status(status).JSON(fiber.Map{
			"ok":        true,
			"mensaje":   mensaje,
			"pedido_id": result.OrderID,
			"accion":    result.Action,
			"detalles": fiber.Map{
				"trabajador":     result.Worker.Name,
				"identificacion": result.Worker.Identification,
				"empresa":        result.Worker.Company,
				"menu":           result.MenuName,
				"opcion":         result.OptionName,
				"opcion_idx":     result.OptionIdx,
				"fecha":          result.Date,
				"observaciones":  result.Notes,
			},
		})
	}
}

// DELETE /api/pedidos
func CancelOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CancelOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		result, err := svc.Cancel(c.Context(), body.WorkerID, body.Date)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(fiber.Map{
			"ok":               true,
			"mensaje":          "Pedido cancelado correctamente",
			"fecha":            result.Date,
			"hora_cancelacion": result.CancelledAt,
		})
	}
}

// GET /api/pedidos?fecha=&empresa_id=  (vendedor / supervisor / administrador)
func ListDayOrdersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Query("fecha")

		var companyID *uint
		if v := c.QueryInt("empresa_id"); v > 0 {
			id := uint(v)
			companyID = &id
		}

		pedidos, err := svc.ListDay(c.Context(), date, companyID)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(fiber.Map{"pedidos": pedidos})
	}
}

// GET /api/estado-servicio - público: hora del servidor en la zona
// configurada y si el horario de pedidos ya cerró.
func ServiceStatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := svc.Window().Now()
		return c.JSON(fiber.Map{
			"ok":            true,
			"hora_servidor": now.Format("03:04 PM"),
			"hora_militar":  now.Format("15:04"),
			"cerrado":       svc.Window().Closed(),
		})
	}
}

// nullable - el contrato original emite null cuando no hay tiempo restante.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
