package storefront

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"emenu-backend/internal/database"
	"emenu-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStorefront(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Vendor{}, &models.MenuItem{},
		&models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("migration hatası: %v", err)
	}
	database.DB = db

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Beklenmeyen sunucu hatası"})
		},
	})
	app.Get("/api/storefront/menu", ListMenuHandler())
	return app
}

func seedVendor(t *testing.T) models.Vendor {
	t.Helper()
	user := models.User{Name: "V", Email: uuid.NewString() + "@test.local", PasswordHash: "-", Role: models.RoleVendor}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("kullanıcı oluşturulamadı: %v", err)
	}
	vendor := models.Vendor{UserID: user.ID, Name: "Lokanta"}
	if err := database.DB.Create(&vendor).Error; err != nil {
		t.Fatalf("vendor oluşturulamadı: %v", err)
	}
	return vendor
}

func TestStorefrontEmptyMenuIsNotAnError(t *testing.T) {
	app := setupStorefront(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/storefront/menu", nil))
	if err != nil {
		t.Fatalf("istek başarısız: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("beklenen 200, gelen %d", resp.StatusCode)
	}

	var items []StorefrontItemResponse
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("cevap çözümlenemedi: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("boş menü bekleniyordu, gelen %d ürün", len(items))
	}
}

func TestStorefrontDerivesRemainingAndDefaults(t *testing.T) {
	app := setupStorefront(t)
	vendor := seedVendor(t)

	cap := 10
	capped := models.MenuItem{VendorID: vendor.ID, Name: "Künefe", Price: 80, Category: "tatli", IsAvailable: true, Quantity: &cap}
	database.DB.Create(&capped)
	unbounded := models.MenuItem{VendorID: vendor.ID, Name: "Çay", Price: 10, Category: "icecek", IsAvailable: true}
	database.DB.Create(&unbounded)
	hidden := models.MenuItem{VendorID: vendor.ID, Name: "Gizli", Price: 5, Category: "aaa", IsAvailable: false}
	database.DB.Create(&hidden)

	seedOrder := func(status models.OrderStatus, itemID uint, qty int) {
		order := models.Order{Status: status}
		database.DB.Create(&order)
		database.DB.Create(&models.OrderItem{OrderID: order.ID, MenuItemID: itemID, Quantity: qty, UnitPrice: 80})
	}
	seedOrder(models.OrderStatusPending, capped.ID, 3)
	seedOrder(models.OrderStatusCompleted, capped.ID, 2)
	seedOrder(models.OrderStatusCancelled, capped.ID, 5)
	seedOrder(models.OrderStatusCompleted, unbounded.ID, 100)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/storefront/menu", nil))
	if err != nil {
		t.Fatalf("istek başarısız: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("beklenen 200, gelen %d", resp.StatusCode)
	}

	var items []StorefrontItemResponse
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("cevap çözümlenemedi: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("beklenen 2 ürün (satışta olmayan hariç), gelen %d", len(items))
	}

	byID := map[uint]StorefrontItemResponse{}
	for _, it := range items {
		byID[it.ID] = it
	}

	got := byID[capped.ID]
	if got.Remaining == nil || *got.Remaining != 5 {
		t.Fatalf("limitli ürün için beklenen kalan 5, gelen %v", got.Remaining)
	}
	if got.ImageURL != placeholderImageURL {
		t.Fatalf("fotoğrafsız ürün placeholder almalı, gelen %q", got.ImageURL)
	}

	if byID[unbounded.ID].Remaining != nil {
		t.Fatalf("limitsiz ürün için nil kalan bekleniyordu, gelen %v", *byID[unbounded.ID].Remaining)
	}
}

func TestStorefrontQueryFailureReturnsSingleError(t *testing.T) {
	app := setupStorefront(t)

	// Tabloyu düşürerek sorgu hatası simüle et
	if err := database.DB.Migrator().DropTable(&models.MenuItem{}); err != nil {
		t.Fatalf("tablo düşürülemedi: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/storefront/menu", nil))
	if err != nil {
		t.Fatalf("istek panic'e düşmemeli: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("beklenen 500, gelen %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("hata cevabı çözümlenemedi: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("tek bir hata mesajı bekleniyordu")
	}
}
