package models

import "time"

type MenuItem struct {
	ID            uint    `gorm:"primaryKey"`
	VendorID      uint    `gorm:"index;not null"`
	Vendor        *Vendor
	Name          string  `gorm:"size:150;not null"`
	NameEn        string  `gorm:"size:150"` // İngilizce menü adı (turistler için)
	Description   string  `gorm:"size:500"`
	DescriptionEn string  `gorm:"size:500"`
	Price         float64 `gorm:"not null"`
	Category      string  `gorm:"size:100;not null;index"`
	IsAvailable   bool    `gorm:"not null;default:true"`
	Quantity      *int    // Günlük stok limiti, nil = sınırsız
	ImageURL      string  `gorm:"size:500"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	OrderItems []OrderItem
}
