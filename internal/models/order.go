package models

import "time"

type OrderStatus string

const (
	OrderConfirmed OrderStatus = "confirmado"
	OrderCancelled OrderStatus = "cancelado"
)

// Order - pedido de almuerzo de un trabajador para una fecha.
//
// Invariante: a lo sumo un pedido NO cancelado por (worker_id, date).
// Además del chequeo lógico en el flujo de pedidos, database.Init crea un
// índice único parcial sobre (worker_id, date) WHERE status <> 'cancelado';
// dos envíos simultáneos nunca producen dos pedidos confirmados.
//
// La cancelación es un cambio de estado, nunca un DELETE: el historial se
// conserva.
type Order struct {
	ID        uint `gorm:"primaryKey"`
	WorkerID  uint `gorm:"index:idx_orders_worker_date;not null"`
	Worker    *User
	OptionID  uint `gorm:"index;not null"`
	Option    *MenuOption
	Date      time.Time   `gorm:"type:date;index:idx_orders_worker_date;not null"`
	Status    OrderStatus `gorm:"size:20;not null;default:confirmado"`
	Notes     string      `gorm:"size:500"` // observaciones, se truncan a 500
	CreatedAt time.Time
	UpdatedAt time.Time
}
