package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID            uint        `gorm:"primaryKey"`
	Status        OrderStatus `gorm:"size:20;not null;index"`
	CustomerName  string      `gorm:"size:100"`
	CustomerPhone string      `gorm:"size:50"`
	TotalPrice    float64     `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []OrderItem
}
