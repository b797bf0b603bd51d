package database

import (
	"log"

	"emenu-backend/internal/config"
	"emenu-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	// MenuItem migration: quantity kolonu ekleniyor (AutoMigrate'ten ÖNCE)
	// Eski kurulumlarda stok limiti yoktu; mevcut kayıtlar NULL (sınırsız) kalmalı
	if DB.Migrator().HasTable(&models.MenuItem{}) {
		if !DB.Migrator().HasColumn(&models.MenuItem{}, "quantity") {
			log.Println("MenuItem.quantity kolonu ekleniyor...")
			if err := DB.Exec("ALTER TABLE menu_items ADD COLUMN quantity BIGINT").Error; err != nil {
				log.Printf("quantity kolonu eklenirken hata (zaten var olabilir): %v", err)
			} else {
				log.Println("quantity kolonu nullable olarak eklendi")
			}
		}
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
