package models

import "time"

// Company - empresa cliente del restaurante. Los trabajadores pertenecen a
// una empresa y los menús pueden ser globales o restringidos a una.
type Company struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
	Menus []Menu
}
