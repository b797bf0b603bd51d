package menu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"emenu-backend/internal/auth"
	"emenu-backend/internal/config"
	"emenu-backend/internal/database"
	"emenu-backend/internal/models"
	"emenu-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	app      *fiber.App
	cfg      *config.Config
	vendor   models.Vendor
	token    string
	imageDir string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Vendor{}, &models.MenuItem{},
		&models.Order{}, &models.OrderItem{}, &models.AuditLog{},
	); err != nil {
		t.Fatalf("migration hatası: %v", err)
	}
	database.DB = db

	cfg := &config.Config{
		JWTSecret:     strings.Repeat("x", 32),
		MenuImagePath: t.TempDir(),
	}

	user := models.User{Name: "Test Vendor", Email: "vendor@test.local", PasswordHash: "-", Role: models.RoleVendor}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("kullanıcı oluşturulamadı: %v", err)
	}
	vendor := models.Vendor{UserID: user.ID, Name: "Test Lokantası"}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("vendor oluşturulamadı: %v", err)
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, &user, &vendor.ID)
	if err != nil {
		t.Fatalf("token üretilemedi: %v", err)
	}

	store := storage.New(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Beklenmeyen sunucu hatası"})
		},
	})
	vendorRoutes := app.Group("/api/vendor", auth.JWTMiddleware(cfg), auth.RequireRole(models.RoleVendor))
	vendorRoutes.Get("/menu-items", ListMenuItemsHandler())
	vendorRoutes.Post("/menu-items", CreateMenuItemHandler(store))
	vendorRoutes.Put("/menu-items/:id", UpdateMenuItemHandler(store))
	vendorRoutes.Delete("/menu-items/:id", DeleteMenuItemHandler())

	return &testEnv{app: app, cfg: cfg, vendor: vendor, token: token, imageDir: cfg.MenuImagePath}
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, file *formFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("form alanı yazılamadı: %v", err)
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(file.field, file.name)
		if err != nil {
			t.Fatalf("form dosyası oluşturulamadı: %v", err)
		}
		if _, err := part.Write(file.content); err != nil {
			t.Fatalf("form dosyası yazılamadı: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart writer kapatılamadı: %v", err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+e.token)
	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("istek başarısız: %v", err)
	}
	return resp
}

func decodeItem(t *testing.T, resp *http.Response) MenuItemResponse {
	t.Helper()
	var item MenuItemResponse
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		t.Fatalf("cevap çözümlenemedi: %v", err)
	}
	return item
}

func TestListMenuItemsSortedByCategory(t *testing.T) {
	env := setupTestEnv(t)

	for _, c := range []string{"tatli", "ana-yemek", "corba"} {
		item := models.MenuItem{VendorID: env.vendor.ID, Name: "Ürün " + c, Price: 10, Category: c, IsAvailable: true}
		if err := database.DB.Create(&item).Error; err != nil {
			t.Fatalf("ürün oluşturulamadı: %v", err)
		}
	}
	// Başka bir vendor'un ürünü listede görünmemeli
	otherUser := models.User{Name: "Diğer", Email: "other@test.local", PasswordHash: "-", Role: models.RoleVendor}
	database.DB.Create(&otherUser)
	otherVendor := models.Vendor{UserID: otherUser.ID, Name: "Diğer Lokanta"}
	database.DB.Create(&otherVendor)
	database.DB.Create(&models.MenuItem{VendorID: otherVendor.ID, Name: "Yabancı", Price: 5, Category: "aaa", IsAvailable: true})

	resp := env.do(t, httptest.NewRequest("GET", "/api/vendor/menu-items", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("beklenen 200, gelen %d", resp.StatusCode)
	}

	var items []MenuItemResponse
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("cevap çözümlenemedi: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("beklenen 3 ürün, gelen %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Category > items[i].Category {
			t.Fatalf("kategori sıralaması bozuk: %q > %q", items[i-1].Category, items[i].Category)
		}
	}
	for _, it := range items {
		if it.VendorID != env.vendor.ID {
			t.Fatalf("başka vendor'un ürünü listede: %d", it.VendorID)
		}
	}
}

func TestCreateMenuItemWithImage(t *testing.T) {
	env := setupTestEnv(t)

	create := func(name string) MenuItemResponse {
		req := multipartRequest(t, "POST", "/api/vendor/menu-items", map[string]string{
			"name":     name,
			"price":    "45.50",
			"category": "ana-yemek",
		}, &formFile{field: "image", name: "photo.jpg", content: []byte("jpegdata")})
		resp := env.do(t, req)
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("beklenen 201, gelen %d", resp.StatusCode)
		}
		return decodeItem(t, resp)
	}

	first := create("İskender")
	second := create("Pide")

	for _, item := range []MenuItemResponse{first, second} {
		if !strings.HasPrefix(item.ImageURL, storage.PublicPrefix+"/") {
			t.Fatalf("beklenmeyen image_url: %q", item.ImageURL)
		}
		fileName := strings.TrimPrefix(item.ImageURL, storage.PublicPrefix+"/")
		if _, err := os.Stat(filepath.Join(env.imageDir, fileName)); err != nil {
			t.Fatalf("fotoğraf diske yazılmamış: %v", err)
		}
	}
	if first.ImageURL == second.ImageURL {
		t.Fatalf("iki upload aynı dosya adını aldı: %q", first.ImageURL)
	}
	if first.Price != 45.50 {
		t.Fatalf("beklenen fiyat 45.50, gelen %v", first.Price)
	}
}

func TestUpdateWithoutImagePreservesImageURL(t *testing.T) {
	env := setupTestEnv(t)

	req := multipartRequest(t, "POST", "/api/vendor/menu-items", map[string]string{
		"name":     "Mercimek Çorbası",
		"price":    "20",
		"category": "corba",
	}, &formFile{field: "image", name: "corba.png", content: []byte("pngdata")})
	created := decodeItem(t, env.do(t, req))
	if created.ImageURL == "" {
		t.Fatal("fotoğraf kaydedilmedi")
	}

	req = multipartRequest(t, "PUT", fmt.Sprintf("/api/vendor/menu-items/%d", created.ID), map[string]string{
		"name":     "Mercimek Çorbası",
		"price":    "25",
		"category": "corba",
		"quantity": "30",
	}, nil)
	resp := env.do(t, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("beklenen 200, gelen %d", resp.StatusCode)
	}
	updated := decodeItem(t, resp)

	if updated.ImageURL != created.ImageURL {
		t.Fatalf("image_url korunmadı: %q != %q", updated.ImageURL, created.ImageURL)
	}
	if updated.Price != 25 {
		t.Fatalf("fiyat güncellenmedi: %v", updated.Price)
	}
	if updated.Quantity == nil || *updated.Quantity != 30 {
		t.Fatalf("stok limiti güncellenmedi: %v", updated.Quantity)
	}
}

func TestDeleteMenuItem(t *testing.T) {
	env := setupTestEnv(t)

	item := models.MenuItem{VendorID: env.vendor.ID, Name: "Ayran", Price: 10, Category: "icecek", IsAvailable: true}
	if err := database.DB.Create(&item).Error; err != nil {
		t.Fatalf("ürün oluşturulamadı: %v", err)
	}

	resp := env.do(t, httptest.NewRequest("DELETE", fmt.Sprintf("/api/vendor/menu-items/%d", item.ID), nil))
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("beklenen 204, gelen %d", resp.StatusCode)
	}

	resp = env.do(t, httptest.NewRequest("GET", "/api/vendor/menu-items", nil))
	var items []MenuItemResponse
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("cevap çözümlenemedi: %v", err)
	}
	for _, it := range items {
		if it.ID == item.ID {
			t.Fatalf("silinen ürün hâlâ listede: %d", it.ID)
		}
	}
}

func TestCreateWithMalformedPriceRejected(t *testing.T) {
	env := setupTestEnv(t)

	req := multipartRequest(t, "POST", "/api/vendor/menu-items", map[string]string{
		"name":     "Hatalı",
		"price":    "abc",
		"category": "corba",
	}, nil)
	resp := env.do(t, req)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("beklenen 400, gelen %d", resp.StatusCode)
	}

	var count int64
	database.DB.Model(&models.MenuItem{}).Count(&count)
	if count != 0 {
		t.Fatalf("hatalı fiyatla ürün kaydedildi, kayıt sayısı: %d", count)
	}
}

func TestUpdateOtherVendorsItemNotFound(t *testing.T) {
	env := setupTestEnv(t)

	otherUser := models.User{Name: "Diğer", Email: "other2@test.local", PasswordHash: "-", Role: models.RoleVendor}
	database.DB.Create(&otherUser)
	otherVendor := models.Vendor{UserID: otherUser.ID, Name: "Diğer Lokanta"}
	database.DB.Create(&otherVendor)
	item := models.MenuItem{VendorID: otherVendor.ID, Name: "Yabancı", Price: 5, Category: "aaa", IsAvailable: true}
	database.DB.Create(&item)

	req := multipartRequest(t, "PUT", fmt.Sprintf("/api/vendor/menu-items/%d", item.ID), map[string]string{
		"name":     "Ele Geçirildi",
		"price":    "1",
		"category": "aaa",
	}, nil)
	resp := env.do(t, req)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("beklenen 404, gelen %d", resp.StatusCode)
	}
}

func TestListMenuItemsQueryFailureReturnsSingleError(t *testing.T) {
	env := setupTestEnv(t)

	// Tabloyu düşürerek sorgu hatası simüle et
	if err := database.DB.Migrator().DropTable(&models.MenuItem{}); err != nil {
		t.Fatalf("tablo düşürülemedi: %v", err)
	}

	resp := env.do(t, httptest.NewRequest("GET", "/api/vendor/menu-items", nil))
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

func TestVendorlessTokenForbidden(t *testing.T) {
	env := setupTestEnv(t)

	// Vendor kaydı olmayan bir vendor rolü token'ı
	user := models.User{Name: "Vendorsuz", Email: "vendorsuz@test.local", PasswordHash: "-", Role: models.RoleVendor}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("kullanıcı oluşturulamadı: %v", err)
	}
	token, err := auth.GenerateToken(env.cfg.JWTSecret, &user, nil)
	if err != nil {
		t.Fatalf("token üretilemedi: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/vendor/menu-items", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("istek başarısız: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("vendor kaydı olmayan token için 403 bekleniyordu, gelen %d", resp.StatusCode)
	}
}
