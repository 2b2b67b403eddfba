package audit

import (
	"almuerzos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const defaultLimit = 100

// GET /api/actividad?action=&limit=  (solo administrador)
func ListActivityHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", defaultLimit)
		if limit <= 0 || limit > 500 {
			limit = defaultLimit
		}

		q := db.Model(&models.ActivityLog{}).Order("created_at DESC").Limit(limit)
		if action := c.Query("action"); action != "" {
			q = q.Where("action = ?", action)
		}

		var logs []models.ActivityLog
		if err := q.Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo listar la actividad")
		}

		return c.JSON(fiber.Map{"actividad": logs})
	}
}
