package audit

import (
	"encoding/json"
	"fmt"

	"almuerzos-backend/internal/models"

	"gorm.io/gorm"
)

type Entry struct {
	UserID     uint
	UserName   string
	Action     string // ej: "PEDIDO_CREADO"
	EntityType string // ej: "pedido"
	EntityID   uint
	Details    any // contexto adicional, se serializa a JSON
}

// Write registra una entrada de actividad. Los llamadores tratan el log como
// fire-and-forget: un fallo aquí se reporta pero nunca debe tumbar la
// respuesta al cliente.
func Write(db *gorm.DB, e Entry) error {
	// jsonb no acepta cadena vacía; usamos "null" como valor por defecto
	detailsStr := "null"
	if e.Details != nil {
		if b, err := json.Marshal(e.Details); err == nil {
			detailsStr = string(b)
		}
	}

	row := models.ActivityLog{
		UserID:     e.UserID,
		UserName:   e.UserName,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    detailsStr,
	}

	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("no se pudo registrar la actividad: %w", err)
	}

	return nil
}
