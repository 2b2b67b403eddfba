package users

import (
	"strings"

	"almuerzos-backend/internal/audit"
	"almuerzos-backend/internal/auth"
	"almuerzos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserResponse struct {
	ID             uint    `json:"id"`
	Identification string  `json:"identificacion"`
	Name           string  `json:"nombre"`
	Email          string  `json:"email"`
	Role           string  `json:"perfil"`
	Active         bool    `json:"activo"`
	CompanyID      *uint   `json:"empresa_id"`
	CompanyName    *string `json:"empresa_nombre"`
}

type CreateUserRequest struct {
	Identification string `json:"identificacion"`
	Name           string `json:"nombre"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"perfil"`
	CompanyID      *uint  `json:"empresa_id"`
}

type UpdateUserRequest struct {
	Name      *string `json:"nombre"`
	Email     *string `json:"email"`
	Role      *string `json:"perfil"`
	Password  *string `json:"password"`
	CompanyID *uint   `json:"empresa_id"`
}

func validRole(r string) bool {
	switch models.UserRole(r) {
	case models.RoleWorker, models.RoleSupervisor, models.RoleAdministrator, models.RoleSeller:
		return true
	}
	return false
}

func toResponse(u models.User) UserResponse {
	res := UserResponse{
		ID:             u.ID,
		Identification: u.Identification,
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		Active:         u.Active,
		CompanyID:      u.CompanyID,
	}
	if u.Company != nil {
		res.CompanyName = &u.Company.Name
	}
	return res
}

// GET /api/admin/usuarios
func ListUsersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := db.Preload("Company").Order("id desc").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los usuarios")
		}

		res := make([]UserResponse, 0, len(users))
		for _, u := range users {
			res = append(res, toResponse(u))
		}
		return c.JSON(fiber.Map{"usuarios": res})
	}
}

// POST /api/admin/usuarios
func CreateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		body.Identification = strings.TrimSpace(body.Identification)
		body.Name = strings.TrimSpace(body.Name)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Role == "" {
			body.Role = string(models.RoleWorker)
		}

		// Toda la validación antes de tocar la base
		if body.Identification == "" || body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Todos los campos son obligatorios")
		}
		if !strings.Contains(body.Email, "@") {
			return fiber.NewError(fiber.StatusBadRequest, "El formato del email no es válido")
		}
		if len(body.Password) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "La contraseña debe tener al menos 6 caracteres")
		}
		if !validRole(body.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "Perfil inválido")
		}
		if body.Role == string(models.RoleWorker) && body.CompanyID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "La empresa es obligatoria para trabajadores")
		}

		var count int64
		db.Model(&models.User{}).Where("identification = ?", body.Identification).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "La identificación ya está registrada")
		}
		db.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El email ya está registrado")
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
			Role:           models.UserRole(body.Role),
			Active:         true,
			CompanyID:      body.CompanyID,
		}

		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el usuario")
		}

		writeActivity(c, db, "USUARIO_CREADO", user.ID, fiber.Map{
			"identificacion": user.Identification,
			"perfil":         user.Role,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"ok":         true,
			"mensaje":    "Usuario creado",
			"usuario_id": user.ID,
		})
	}
}

// PUT /api/admin/usuarios/:id
func UpdateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "El nombre no puede estar vacío")
			}
			user.Name = name
		}
		if body.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*body.Email))
			if !strings.Contains(email, "@") {
				return fiber.NewError(fiber.StatusBadRequest, "El formato del email no es válido")
			}
			user.Email = email
		}
		if body.Role != nil {
			if !validRole(*body.Role) {
				return fiber.NewError(fiber.StatusBadRequest, "Perfil inválido")
			}
			user.Role = models.UserRole(*body.Role)
		}
		if body.CompanyID != nil {
			user.CompanyID = body.CompanyID
		}
		if body.Password != nil && *body.Password != "" {
			if len(*body.Password) < 6 {
				return fiber.NewError(fiber.StatusBadRequest, "La contraseña debe tener al menos 6 caracteres")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo cifrar la contraseña")
			}
			user.PasswordHash = string(hash)
		}

		if err := db.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el usuario")
		}

		writeActivity(c, db, "USUARIO_ACTUALIZADO", user.ID, fiber.Map{
			"identificacion": user.Identification,
		})

		return c.JSON(fiber.Map{"ok": true, "mensaje": "Usuario actualizado exitosamente"})
	}
}

// POST /api/admin/usuarios/:id/toggle - activa/desactiva sin borrar
func ToggleUserActiveHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
		}

		user.Active = !user.Active
		if err := db.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo cambiar el estado del usuario")
		}

		writeActivity(c, db, "USUARIO_ESTADO", user.ID, fiber.Map{"activo": user.Active})

		return c.JSON(fiber.Map{"ok": true, "activo": user.Active})
	}
}

// DELETE /api/admin/usuarios/:id
func DeleteUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		res := db.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el usuario")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
		}

		writeActivity(c, db, "USUARIO_ELIMINADO", 0, fiber.Map{"id": id})

		return c.JSON(fiber.Map{"ok": true, "mensaje": "Usuario eliminado exitosamente"})
	}
}

func writeActivity(c *fiber.Ctx, db *gorm.DB, action string, entityID uint, details any) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	userName, _ := c.Locals(auth.CtxUserNameKey).(string)
	_ = audit.Write(db, audit.Entry{
		UserID:     userID,
		UserName:   userName,
		Action:     action,
		EntityType: "usuario",
		EntityID:   entityID,
		Details:    details,
	})
}
