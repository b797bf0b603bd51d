package menu

import (
	"strings"

	"emenu-backend/internal/audit"
	"emenu-backend/internal/auth"
	"emenu-backend/internal/database"
	"emenu-backend/internal/models"
	"emenu-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type MenuItemResponse struct {
	ID            uint    `json:"id"`
	VendorID      uint    `json:"vendor_id"`
	Name          string  `json:"name"`
	NameEn        string  `json:"name_en"`
	Description   string  `json:"description"`
	DescriptionEn string  `json:"description_en"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	IsAvailable   bool    `json:"is_available"`
	Quantity      *int    `json:"quantity"`
	ImageURL      string  `json:"image_url"`
}

func toResponse(m *models.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:            m.ID,
		VendorID:      m.VendorID,
		Name:          m.Name,
		NameEn:        m.NameEn,
		Description:   m.Description,
		DescriptionEn: m.DescriptionEn,
		Price:         m.Price,
		Category:      m.Category,
		IsAvailable:   m.IsAvailable,
		Quantity:      m.Quantity,
		ImageURL:      m.ImageURL,
	}
}

// Yardımcı: Audit log için kullanıcı bilgilerini al
func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.Name, nil
}

// Multipart formdan model alanlarını doldurur. Fotoğraf ayrı ele alınır.
func applyForm(c *fiber.Ctx, item *models.MenuItem) error {
	name := strings.TrimSpace(c.FormValue("name"))
	category := strings.TrimSpace(c.FormValue("category"))
	if name == "" || category == "" {
		return fiber.NewError(fiber.StatusBadRequest, "İsim ve kategori zorunlu")
	}

	price, err := parsePrice(c.FormValue("price"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz fiyat formatı")
	}

	quantity, err := parseQuantity(c.FormValue("quantity"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz stok limiti")
	}

	isAvailable, err := parseAvailability(c.FormValue("is_available"), item.IsAvailable)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz satışta değeri")
	}

	item.Name = name
	item.NameEn = strings.TrimSpace(c.FormValue("name_en"))
	item.Description = strings.TrimSpace(c.FormValue("description"))
	item.DescriptionEn = strings.TrimSpace(c.FormValue("description_en"))
	item.Price = price
	item.Category = category
	item.IsAvailable = isAvailable
	item.Quantity = quantity

	return nil
}

// GET /api/vendor/menu-items (kategoriye göre sıralı)
func ListMenuItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.CurrentVendorID(c)
		if err != nil {
			return err
		}

		var items []models.MenuItem
		if err := database.DB.
			Where("vendor_id = ?", vendorID).
			Order("category asc").
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü yüklenemedi")
		}

		res := make([]MenuItemResponse, 0, len(items))
		for i := range items {
			res = append(res, toResponse(&items[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/vendor/menu-items (multipart form, opsiyonel "image" dosyası)
func CreateMenuItemHandler(store *storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.CurrentVendorID(c)
		if err != nil {
			return err
		}

		item := models.MenuItem{VendorID: vendorID, IsAvailable: true}
		if err := applyForm(c, &item); err != nil {
			return err
		}

		// Fotoğraf seçildiyse önce upload, sonra insert. Upload başarılı olup
		// insert başarısız olursa dosya diskte kalır (kabul edilen durum).
		if fh, err := c.FormFile("image"); err == nil && fh != nil {
			url, err := store.SaveImage(fh)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Fotoğraf yüklenemedi")
			}
			item.ImageURL = url
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün kaydedilemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VendorID:    vendorID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "menu_item",
				EntityID:    item.ID,
				Action:      models.AuditActionCreate,
				Description: "Menü ürünü oluşturuldu: " + item.Name,
				After:       toResponse(&item),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&item))
	}
}

// PUT /api/vendor/menu-items/:id (multipart form)
// Yeni fotoğraf seçilmediyse mevcut image_url aynen korunur.
func UpdateMenuItemHandler(store *storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.CurrentVendorID(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var item models.MenuItem
		if err := database.DB.
			First(&item, "id = ? AND vendor_id = ?", id, vendorID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		before := toResponse(&item)

		if err := applyForm(c, &item); err != nil {
			return err
		}

		if fh, err := c.FormFile("image"); err == nil && fh != nil {
			url, err := store.SaveImage(fh)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Fotoğraf yüklenemedi")
			}
			item.ImageURL = url
		}

		// Son yazan kazanır; eşzamanlı düzenlemelere karşı versiyon kontrolü yok
		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VendorID:    vendorID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "menu_item",
				EntityID:    item.ID,
				Action:      models.AuditActionUpdate,
				Description: "Menü ürünü güncellendi: " + item.Name,
				Before:      before,
				After:       toResponse(&item),
			})
		}

		return c.JSON(toResponse(&item))
	}
}

// DELETE /api/vendor/menu-items/:id
func DeleteMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.CurrentVendorID(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var item models.MenuItem
		if err := database.DB.
			First(&item, "id = ? AND vendor_id = ?", id, vendorID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		if err := database.DB.Delete(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				VendorID:    vendorID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "menu_item",
				EntityID:    item.ID,
				Action:      models.AuditActionDelete,
				Description: "Menü ürünü silindi: " + item.Name,
				Before:      toResponse(&item),
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
