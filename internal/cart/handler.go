package cart

import (
	"emenu-backend/internal/database"
	"emenu-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AddItemRequest struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
}

type CartResponse struct {
	Items      []Item  `json:"items"`
	TotalPrice float64 `json:"total_price"`
}

func toCartResponse(cart *Cart) CartResponse {
	total := 0.0
	for _, it := range cart.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return CartResponse{Items: cart.Items, TotalPrice: total}
}

// POST /api/cart/:cartID/items
// Aynı ürün tekrar eklenirse adetler birleştirilir.
func AddItemHandler(rc *Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cartID := c.Params("cartID")

		var body AddItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.MenuItemID == 0 || body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "menu_item_id zorunlu, quantity pozitif olmalı")
		}

		var item models.MenuItem
		if err := database.DB.
			First(&item, "id = ? AND is_available = ?", body.MenuItemID, true).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı veya satışta değil")
		}

		cart, err := rc.Get(c.Context(), cartID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet okunamadı")
		}

		found := false
		for i := range cart.Items {
			if cart.Items[i].MenuItemID == item.ID {
				cart.Items[i].Quantity += body.Quantity
				found = true
				break
			}
		}
		if !found {
			cart.Items = append(cart.Items, Item{
				MenuItemID: item.ID,
				VendorID:   item.VendorID,
				Name:       item.Name,
				UnitPrice:  item.Price,
				ImageURL:   item.ImageURL,
				Quantity:   body.Quantity,
			})
		}

		if err := rc.Save(c.Context(), cartID, cart); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet kaydedilemedi")
		}

		return c.JSON(toCartResponse(cart))
	}
}

// GET /api/cart/:cartID
func GetCartHandler(rc *Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cart, err := rc.Get(c.Context(), c.Params("cartID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet okunamadı")
		}
		return c.JSON(toCartResponse(cart))
	}
}

// DELETE /api/cart/:cartID/items/:itemID
func RemoveItemHandler(rc *Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cartID := c.Params("cartID")

		itemID, err := c.ParamsInt("itemID")
		if err != nil || itemID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		cart, err := rc.Get(c.Context(), cartID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet okunamadı")
		}

		items := cart.Items[:0]
		for _, it := range cart.Items {
			if it.MenuItemID != uint(itemID) {
				items = append(items, it)
			}
		}
		cart.Items = items

		if err := rc.Save(c.Context(), cartID, cart); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet kaydedilemedi")
		}

		return c.JSON(toCartResponse(cart))
	}
}

// DELETE /api/cart/:cartID
func ClearCartHandler(rc *Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := rc.Delete(c.Context(), c.Params("cartID")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet temizlenemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
