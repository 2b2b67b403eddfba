package main

import (
	"log"
	"strings"

	"almuerzos-backend/internal/audit"
	"almuerzos-backend/internal/auth"
	"almuerzos-backend/internal/companies"
	"almuerzos-backend/internal/config"
	"almuerzos-backend/internal/database"
	"almuerzos-backend/internal/menus"
	"almuerzos-backend/internal/models"
	"almuerzos-backend/internal/orders"
	"almuerzos-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Init(cfg)
	if err != nil {
		log.Fatal("No se pudo inicializar la base de datos:", err)
	}

	window, err := orders.NewTimeWindow(cfg.Timezone, cfg.OrderCutoff)
	if err != nil {
		log.Fatal("Configuración de horario inválida:", err)
	}
	orderSvc := orders.NewService(db, window, cfg.DBTimeout)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Error inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error inesperado del servidor",
			})
		},
	})

	// Orígenes CORS separados por coma
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Público
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db, cfg))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))
	api.Get("/estado-servicio", orders.ServiceStatusHandler(orderSvc))

	// Protegido
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Pedidos del trabajador
	protected.Get("/pedidos/mio", orders.QueryOrderHandler(orderSvc))
	protected.Post("/pedidos", orders.PlaceOrderHandler(orderSvc))
	protected.Delete("/pedidos", orders.CancelOrderHandler(orderSvc))

	// Listado del día para reparto
	seller := protected.Group("")
	seller.Use(auth.RequireRole(models.RoleSeller, models.RoleSupervisor, models.RoleAdministrator))
	seller.Get("/pedidos", orders.ListDayOrdersHandler(orderSvc))

	// Gestión de usuarios y menús
	staff := protected.Group("/admin")
	staff.Use(auth.RequireRole(models.RoleSupervisor, models.RoleAdministrator))

	staff.Get("/usuarios", users.ListUsersHandler(db))
	staff.Post("/usuarios", users.CreateUserHandler(db))
	staff.Put("/usuarios/:id", users.UpdateUserHandler(db))
	staff.Post("/usuarios/:id/toggle", users.ToggleUserActiveHandler(db))

	staff.Get("/menus", menus.ListMenusHandler(db))
	staff.Post("/menus", menus.CreateMenuHandler(db))
	staff.Put("/menus/:id", menus.UpdateMenuHandler(db))
	staff.Post("/menus/:id/toggle", menus.ToggleMenuActiveHandler(db))
	staff.Post("/menus/opciones/:id/toggle", menus.ToggleOptionAvailableHandler(db))

	// Solo administrador
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdministrator))

	adminRoutes.Delete("/usuarios/:id", users.DeleteUserHandler(db))
	adminRoutes.Delete("/menus/:id", menus.DeleteMenuHandler(db))

	adminRoutes.Get("/empresas", companies.ListCompaniesHandler(db))
	adminRoutes.Post("/empresas", companies.CreateCompanyHandler(db))
	adminRoutes.Put("/empresas/:id", companies.UpdateCompanyHandler(db))
	adminRoutes.Delete("/empresas/:id", companies.DeleteCompanyHandler(db))

	adminRoutes.Get("/actividad", audit.ListActivityHandler(db))

	log.Println("Servidor escuchando en el puerto", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
