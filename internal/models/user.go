package models

import "time"

type UserRole string

const (
	RoleWorker        UserRole = "trabajador"
	RoleSupervisor    UserRole = "supervisor"
	RoleAdministrator UserRole = "administrador"
	RoleSeller        UserRole = "vendedor"
)

type User struct {
	ID             uint  `gorm:"primaryKey"`
	CompanyID      *uint // obligatorio solo para trabajadores
	Company        *Company
	Identification string   `gorm:"size:50;uniqueIndex;not null"` // documento con el que inicia sesión
	Name           string   `gorm:"size:100;not null"`
	Email          string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash   string   `gorm:"size:255;not null"`
	Role           UserRole `gorm:"size:20;not null"`
	Active         bool     `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
