package models

import "time"

type Vendor struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex;not null"` // Her vendor tek bir kullanıcıya bağlı
	User      *User
	Name      string `gorm:"size:100;not null"`
	Phone     string `gorm:"size:50"` // Opsiyonel telefon
	CreatedAt time.Time
	UpdatedAt time.Time

	MenuItems []MenuItem
}
