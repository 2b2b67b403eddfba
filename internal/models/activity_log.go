package models

import "time"

// ActivityLog - registro de actividad (auditoría). Solo se agrega, nunca se
// modifica. Escribirlo jamás debe bloquear la respuesta al cliente.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Quién
	UserID   uint   `json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"` // denormalizado

	// Qué (ej: "PEDIDO_CREADO", "PEDIDO_CANCELADO", "USUARIO_CREADO")
	Action string `gorm:"size:50;index" json:"action"`

	// Sobre qué entidad
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	// Contexto adicional (JSON)
	Details string `gorm:"type:jsonb" json:"details"`
}
