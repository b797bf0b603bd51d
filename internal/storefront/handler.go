package storefront

import (
	"emenu-backend/internal/database"
	"emenu-backend/internal/models"
	"emenu-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// Fotoğrafı olmayan ürünler için gösterilen varsayılan görsel
const placeholderImageURL = storage.PublicPrefix + "/placeholder.png"

type StorefrontItemResponse struct {
	ID            uint    `json:"id"`
	VendorID      uint    `json:"vendor_id"`
	Name          string  `json:"name"`
	NameEn        string  `json:"name_en"`
	Description   string  `json:"description"`
	DescriptionEn string  `json:"description_en"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	ImageURL      string  `json:"image_url"`
	Remaining     *int    `json:"remaining"` // nil = sınırsız
}

// GET /api/storefront/menu
// Satıştaki ürünleri sipariş geçmişiyle birlikte çeker ve kalan stok
// bilgisini hesaplayıp döndürür. Boş liste hata değildir.
func ListMenuHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.MenuItem
		if err := database.DB.
			Where("is_available = ?", true).
			Preload("OrderItems.Order").
			Order("category asc").
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü yüklenemedi")
		}

		res := make([]StorefrontItemResponse, 0, len(items))
		for i := range items {
			item := &items[i]

			imageURL := item.ImageURL
			if imageURL == "" {
				imageURL = placeholderImageURL
			}

			res = append(res, StorefrontItemResponse{
				ID:            item.ID,
				VendorID:      item.VendorID,
				Name:          item.Name,
				NameEn:        item.NameEn,
				Description:   item.Description,
				DescriptionEn: item.DescriptionEn,
				Price:         item.Price,
				Category:      item.Category,
				ImageURL:      imageURL,
				Remaining:     remainingQuantity(item),
			})
		}
		return c.JSON(res)
	}
}
