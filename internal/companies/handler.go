package companies

import (
	"strings"

	"almuerzos-backend/internal/audit"
	"almuerzos-backend/internal/auth"
	"almuerzos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CompanyResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"nombre"`
	CreatedAt string `json:"created_at"`
}

type CreateCompanyRequest struct {
	Name string `json:"nombre"`
}

type UpdateCompanyRequest struct {
	Name *string `json:"nombre"`
}

func toResponse(c models.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/empresas
func ListCompaniesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var companies []models.Company
		if err := db.Order("name asc").Find(&companies).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las empresas")
		}

		res := make([]CompanyResponse, 0, len(companies))
		for _, comp := range companies {
			res = append(res, toResponse(comp))
		}
		return c.JSON(fiber.Map{"empresas": res})
	}
}

// POST /api/admin/empresas
func CreateCompanyHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCompanyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nombre de empresa requerido")
		}

		var count int64
		db.Model(&models.Company{}).Where("name = ?", body.Name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Ya existe una empresa con ese nombre")
		}

		company := models.Company{Name: body.Name}
		if err := db.Create(&company).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear la empresa")
		}

		writeActivity(c, db, "EMPRESA_CREADA", company.ID, fiber.Map{"nombre": company.Name})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"ok":         true,
			"mensaje":    "Empresa creada",
			"empresa_id": company.ID,
		})
	}
}

// PUT /api/admin/empresas/:id
func UpdateCompanyHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var company models.Company
		if err := db.First(&company, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Empresa no encontrada")
		}

		var body UpdateCompanyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nombre de empresa requerido")
			}
			company.Name = name
		}

		if err := db.Save(&company).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar la empresa")
		}

		writeActivity(c, db, "EMPRESA_ACTUALIZADA", company.ID, fiber.Map{"nombre": company.Name})

		return c.JSON(fiber.Map{"ok": true, "mensaje": "Empresa actualizada"})
	}
}

// DELETE /api/admin/empresas/:id
func DeleteCompanyHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		res := db.Delete(&models.Company{}, "id = ?", id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar la empresa")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Empresa no encontrada")
		}

		writeActivity(c, db, "EMPRESA_ELIMINADA", 0, fiber.Map{"id": id})

		return c.JSON(fiber.Map{"ok": true, "mensaje": "Empresa eliminada"})
	}
}

// writeActivity - registro fire-and-forget con el actor del token.
func writeActivity(c *fiber.Ctx, db *gorm.DB, action string, entityID uint, details any) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	userName, _ := c.Locals(auth.CtxUserNameKey).(string)
	_ = audit.Write(db, audit.Entry{
		UserID:     userID,
		UserName:   userName,
		Action:     action,
		EntityType: "empresa",
		EntityID:   entityID,
		Details:    details,
	})
}
