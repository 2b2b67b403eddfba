package auth

import (
	"strings"

	"almuerzos-backend/internal/config"
	"almuerzos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Identification string `json:"identificacion"`
	Password       string `json:"password"`
}

type RegisterAdminRequest struct {
	Identification string `json:"identificacion"`
	Name           string `json:"nombre"`
	Email          string `json:"email"`
	Password       string `json:"password"`
}

// POST /api/auth/login - los usuarios inician sesión con su identificación,
// no con el email.
func LoginHandler(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		body.Identification = strings.TrimSpace(body.Identification)
		if body.Identification == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Faltan credenciales")
		}

		var user models.User
		if err := db.Where("identification = ?", body.Identification).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Credenciales inválidas")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Credenciales inválidas")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el token")
		}

		return c.JSON(fiber.Map{
			"ok":    true,
			"token": token,
			"user": fiber.Map{
				"id":             user.ID,
				"identificacion": user.Identification,
				"nombre":         user.Name,
				"email":          user.Email,
				"perfil":         user.Role,
				"empresa_id":     user.CompanyID,
			},
		})
	}
}

// POST /api/auth/register-admin - alta del primer administrador. Una vez
// existe uno, el resto de usuarios se crean por el CRUD protegido.
func RegisterAdminHandler(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		body.Identification = strings.TrimSpace(body.Identification)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Identification == "" || body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Identificación, nombre, email y contraseña son obligatorios")
		}

		var count int64
		db.Model(&models.User{}).
			Where("role = ?", models.RoleAdministrator).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Ya existe un administrador")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo cifrar la contraseña")
		}

		user := models.User{
			Identification: body.Identification,
			Name:           body.Name,
			Email:          body.Email,
			PasswordHash:   string(hash),
			Role:           models.RoleAdministrator,
			Active:         true,
		}

		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el usuario")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":             user.ID,
			"identificacion": user.Identification,
			"email":          user.Email,
			"perfil":         user.Role,
		})
	}
}

// GET /api/auth/me
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDVal := c.Locals(CtxUserIDKey)

		if userID, ok := userIDVal.(uint); ok {
			var user models.User
			if err := db.First(&user, userID).Error; err == nil {
				response := fiber.Map{
					"user_id":        user.ID,
					"identificacion": user.Identification,
					"nombre":         user.Name,
					"email":          user.Email,
					"perfil":         user.Role,
					"activo":         user.Active,
					"empresa_id":     user.CompanyID,
				}

				if user.CompanyID != nil {
					var company models.Company
					if err := db.First(&company, *user.CompanyID).Error; err == nil {
						response["empresa"] = fiber.Map{
							"id":     company.ID,
							"nombre": company.Name,
						}
					}
				}

				return c.JSON(response)
			}
		}

		// Fallback: si no se pudo leer de la base, devolver lo del token
		return c.JSON(fiber.Map{
			"user_id":    userIDVal,
			"perfil":     c.Locals(CtxUserRoleKey),
			"empresa_id": c.Locals(CtxCompanyIDKey),
		})
	}
}
