package models

import "time"

// Menu - menú del día con exactamente tres opciones. CompanyID en nil
// significa menú global (visible para todas las empresas).
type Menu struct {
	ID          uint `gorm:"primaryKey"`
	CompanyID   *uint
	Company     *Company
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:255"`
	Active      bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Options []MenuOption
}

type MenuOption struct {
	ID          uint   `gorm:"primaryKey"`
	MenuID      uint   `gorm:"index;not null"`
	OptionIdx   int    `gorm:"not null"` // posición 1..3 dentro del menú
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:255"`
	Ingredients string `gorm:"size:255"`
	Calories    *int
	Available   bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Prices []MenuPrice
}

// MenuPrice - precio de una opción para una empresa concreta.
type MenuPrice struct {
	ID           uint    `gorm:"primaryKey"`
	MenuOptionID uint    `gorm:"not null;uniqueIndex:uniq_menu_prices_option_company"`
	CompanyID    uint    `gorm:"not null;uniqueIndex:uniq_menu_prices_option_company"`
	Price        float64 `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
