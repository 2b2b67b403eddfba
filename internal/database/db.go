package database

import (
	"fmt"
	"log"

	"almuerzos-backend/internal/config"
	"almuerzos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init abre la conexión y ejecuta las migraciones. Devuelve el handle para
// inyectarlo explícitamente en handlers y servicios; no hay estado global.
func Init(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("no se pudo conectar a la base de datos: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Menu{},
		&models.MenuOption{},
		&models.MenuPrice{},
		&models.Order{},
		&models.ActivityLog{},
	); err != nil {
		return nil, fmt.Errorf("error en AutoMigrate: %w", err)
	}

	// Índice único parcial: a lo sumo un pedido NO cancelado por trabajador y
	// fecha. GORM no sabe expresar índices parciales, así que va en SQL crudo.
	// Este índice cierra la carrera "consultar y luego insertar" entre dos
	// envíos simultáneos del mismo trabajador.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_orders_worker_date_active
		ON orders (worker_id, date)
		WHERE status <> 'cancelado'
	`).Error; err != nil {
		return nil, fmt.Errorf("no se pudo crear el índice único de pedidos: %w", err)
	}

	log.Println("Conexión a la base de datos lista. Migración completada.")
	return db, nil
}
