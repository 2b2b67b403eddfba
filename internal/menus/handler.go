package menus

import (
	"strings"

	"almuerzos-backend/internal/audit"
	"almuerzos-backend/internal/auth"
	"almuerzos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const optionsPerMenu = 3 // cada menú del día ofrece exactamente tres opciones

type OptionPayload struct {
	OptionID    uint     `json:"opcion_id"` // solo en actualización
	Name        string   `json:"nombre"`
	Description string   `json:"descripcion"`
	Ingredients string   `json:"ingredientes"`
	Calories    *int     `json:"calorias"`
	Price       *float64 `json:"precio"`
}

type CreateMenuRequest struct {
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	CompanyID   *uint           `json:"empresa_id"` // nil = menú global
	Options     []OptionPayload `json:"opciones"`
}

type UpdateMenuRequest struct {
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Options     []OptionPayload `json:"opciones"`
}

type OptionResponse struct {
	OptionID    uint     `json:"opcion_id"`
	Idx         int      `json:"idx"`
	Name        string   `json:"nombre"`
	Description string   `json:"descripcion"`
	Ingredients string   `json:"ingredientes"`
	Calories    *int     `json:"calorias"`
	Available   bool     `json:"disponible"`
	Price       *float64 `json:"precio"`
}

type MenuResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"nombre"`
	Description string           `json:"descripcion"`
	CompanyID   *uint            `json:"empresa_id"`
	Active      bool             `json:"activo"`
	CreatedAt   string           `json:"created_at"`
	Options     []OptionResponse `json:"opciones,omitempty"`
}

// GET /api/menus?empresa_id=  - con empresa_id incluye opciones y precios de
// esa empresa (más los menús globales); sin él, lista plana de menús.
func ListMenusHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := c.QueryInt("empresa_id")

		if companyID > 0 {
			var menus []models.Menu
			err := db.Preload("Options", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("option_idx ASC")
			}).Preload("Options.Prices", "company_id = ?", companyID).
				Where("company_id = ? OR company_id IS NULL", companyID).
				Order("id desc").Find(&menus).Error
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los menús")
			}

			res := make([]MenuResponse, 0, len(menus))
			for _, m := range menus {
				res = append(res, toResponseWithOptions(m))
			}
			return c.JSON(fiber.Map{"menus": res})
		}

		var menus []models.Menu
		if err := db.Order("id desc").Find(&menus).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los menús")
		}

		res := make([]MenuResponse, 0, len(menus))
		for _, m := range menus {
			res = append(res, MenuResponse{
				ID:          m.ID,
				Name:        m.Name,
				Description: m.Description,
				CompanyID:   m.CompanyID,
				Active:      m.Active,
				CreatedAt:   m.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(fiber.Map{"menus": res})
	}
}

func toResponseWithOptions(m models.Menu) MenuResponse {
	res := MenuResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CompanyID:   m.CompanyID,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt.Format("2006-01-02 15:04:05"),
		Options:     make([]OptionResponse, 0, len(m.Options)),
	}
	for _, o := range m.Options {
		opt := OptionResponse{
			OptionID:    o.ID,
			Idx:         o.OptionIdx,
			Name:        o.Name,
			Description: o.Description,
			Ingredients: o.Ingredients,
			Calories:    o.Calories,
			Available:   o.Available,
		}
		if len(o.Prices) > 0 {
			opt.Price = &o.Prices[0].Price
		}
		res.Options = append(res.Options, opt)
	}
	return res
}

// POST /api/admin/menus - menú con sus 3 opciones y precios, todo o nada.
func CreateMenuHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMenuRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || len(body.Options) != optionsPerMenu {
			return fiber.NewError(fiber.StatusBadRequest, "Nombre y 3 opciones son obligatorios")
		}
		for _, opt := range body.Options {
			if strings.TrimSpace(opt.Name) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Cada opción necesita un nombre")
			}
		}

		menu := models.Menu{
			Name:        body.Name,
			Description: strings.TrimSpace(body.Description),
			CompanyID:   body.CompanyID,
			Active:      true,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&menu).Error; err != nil {
				return err
			}
			for i, opt := range body.Options {
				option := models.MenuOption{
					MenuID:      menu.ID,
					OptionIdx:   i + 1,
					Name:        strings.TrimSpace(opt.Name),
					Description: strings.TrimSpace(opt.Description),
					Ingredients: strings.TrimSpace(opt.Ingredients),
					Calories:    opt.Calories,
					Available:   true,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
				// El precio es por empresa; un menú global fija precios luego,
				// empresa por empresa
				if body.CompanyID != nil && opt.Price != nil {
					price := models.MenuPrice{
						MenuOptionID: option.ID,
						CompanyID:    *body.CompanyID,
						Price:        *opt.Price,
					}
					if err := tx.Create(&price).Error; err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el menú")
		}

		writeActivity(c, db, "MENU_CREADO", menu.ID, fiber.Map{"nombre": menu.Name})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"ok":      true,
			"mensaje": "Menú creado",
			"menu_id": menu.ID,
		})
	}
}

// PUT /api/admin/menus/:id
func UpdateMenuHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var menu models.Menu
		if err := db.First(&menu, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menú no encontrado")
		}

		var body UpdateMenuRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || len(body.Options) != optionsPerMenu {
			return fiber.NewError(fiber.StatusBadRequest, "Nombre y 3 opciones son obligatorios")
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			menu.Name = body.Name
			menu.Description = strings.TrimSpace(body.Description)
			if err := tx.Save(&menu).Error; err != nil {
				return err
			}

			for _, opt := range body.Options {
				if opt.OptionID == 0 {
					continue
				}
				updates := map[string]any{
					"name":        strings.TrimSpace(opt.Name),
					"description": strings.TrimSpace(opt.Description),
					"ingredients": strings.TrimSpace(opt.Ingredients),
					"calories":    opt.Calories,
				}
				if err := tx.Model(&models.MenuOption{}).
					Where("id = ? AND menu_id = ?", opt.OptionID, menu.ID).
					Updates(updates).Error; err != nil {
					return err
				}
				if menu.CompanyID != nil && opt.Price != nil {
					price := models.MenuPrice{
						MenuOptionID: opt.OptionID,
						CompanyID:    *menu.CompanyID,
						Price:        *opt.Price,
					}
					// upsert manual: actualiza si existe, crea si no
					res := tx.Model(&models.MenuPrice{}).
						Where("menu_option_id = ? AND company_id = ?", opt.OptionID, *menu.CompanyID).
						Update("price", *opt.Price)
					if res.Error != nil {
						return res.Error
					}
					if res.RowsAffected == 0 {
						if err := tx.Create(&price).Error; err != nil {
							return err
						}
					}
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el menú")
		}

		writeActivity(c, db, "MENU_ACTUALIZADO", menu.ID, fiber.Map{"nombre": menu.Name})

		return c.JSON(fiber.Map{"ok": true, "mensaje": "Menú actualizado"})
	}
}

// POST /api/admin/menus/:id/toggle - activa/desactiva el menú completo
func ToggleMenuActiveHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var menu models.Menu
		if err := db.First(&menu, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menú no encontrado")
		}

		menu.Active = !menu.Active
		if err := db.Save(&menu).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo cambiar el estado del menú")
		}

		writeActivity(c, db, "MENU_ESTADO", menu.ID, fiber.Map{"activo": menu.Active})

		return c.JSON(fiber.Map{"ok": true, "activo": menu.Active})
	}
}

// POST /api/admin/menus/opciones/:id/toggle - disponibilidad de una opción
func ToggleOptionAvailableHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var option models.MenuOption
		if err := db.First(&option, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Opción no encontrada")
		}

		option.Available = !option.Available
		if err := db.Save(&option).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo cambiar la disponibilidad")
		}

		writeActivity(c, db, "OPCION_DISPONIBILIDAD", option.ID, fiber.Map{"disponible": option.Available})

		return c.JSON(fiber.Map{"ok": true, "disponible": option.Available})
	}
}

// DELETE /api/admin/menus/:id
func DeleteMenuHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		res := db.Delete(&models.Menu{}, "id = ?", id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el menú")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Menú no encontrado")
		}

		writeActivity(c, db, "MENU_ELIMINADO", 0, fiber.Map{"id": id})

		return c.JSON(fiber.Map{"ok": true, "mensaje": "Menú eliminado"})
	}
}

func writeActivity(c *fiber.Ctx, db *gorm.DB, action string, entityID uint, details any) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	userName, _ := c.Locals(auth.CtxUserNameKey).(string)
	_ = audit.Write(db, audit.Entry{
		UserID:     userID,
		UserName:   userName,
		Action:     action,
		EntityType: "menu",
		EntityID:   entityID,
		Details:    details,
	})
}
