package models

import "time"

type OrderItem struct {
	ID         uint `gorm:"primaryKey"`
	OrderID    uint `gorm:"index;not null"`
	Order      *Order
	MenuItemID uint `gorm:"index;not null"`
	MenuItem   *MenuItem
	Quantity   int     `gorm:"not null"`
	UnitPrice  float64 `gorm:"not null"` // Sipariş anındaki birim fiyat
	CreatedAt  time.Time
}
