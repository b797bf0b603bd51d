package orders

import (
	"strings"

	"emenu-backend/internal/auth"
	"emenu-backend/internal/cart"
	"emenu-backend/internal/database"
	"emenu-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CheckoutRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

type OrderItemResponse struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

type OrderResponse struct {
	ID            uint                `json:"id"`
	Status        models.OrderStatus  `json:"status"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	TotalPrice    float64             `json:"total_price"`
	CreatedAt     string              `json:"created_at"`
	Items         []OrderItemResponse `json:"items"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		name := ""
		if it.MenuItem != nil {
			name = it.MenuItem.Name
		}
		items = append(items, OrderItemResponse{
			MenuItemID: it.MenuItemID,
			Name:       name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
		})
	}
	return OrderResponse{
		ID:            o.ID,
		Status:        o.Status,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		TotalPrice:    o.TotalPrice,
		CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
		Items:         items,
	}
}

// POST /api/cart/:cartID/checkout
// Sepeti pending durumunda bir siparişe çevirir ve sepeti temizler.
// Stok rezervasyonu yapılmaz; limitli bir ürün eşzamanlı siparişlerle
// limitin üzerine satılabilir.
func CheckoutHandler(rc *cart.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cartID := c.Params("cartID")

		var body CheckoutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		shoppingCart, err := rc.Get(c.Context(), cartID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet okunamadı")
		}
		if len(shoppingCart.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sepet boş")
		}

		order := models.Order{
			Status:        models.OrderStatusPending,
			CustomerName:  strings.TrimSpace(body.CustomerName),
			CustomerPhone: strings.TrimSpace(body.CustomerPhone),
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			total := 0.0
			orderItems := make([]models.OrderItem, 0, len(shoppingCart.Items))

			// Fiyatlar sepetteki değil, sipariş anındaki güncel değerlerdir
			for _, ci := range shoppingCart.Items {
				var item models.MenuItem
				if err := tx.First(&item, "id = ?", ci.MenuItemID).Error; err != nil {
					return err
				}
				orderItems = append(orderItems, models.OrderItem{
					MenuItemID: item.ID,
					Quantity:   ci.Quantity,
					UnitPrice:  item.Price,
				})
				total += item.Price * float64(ci.Quantity)
			}

			order.TotalPrice = total
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			for i := range orderItems {
				orderItems[i].OrderID = order.ID
			}
			return tx.Create(&orderItems).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		// Sepet temizliği kritik değil; başarısız olursa TTL ile düşer
		_ = rc.Delete(c.Context(), cartID)

		var created models.Order
		if err := database.DB.
			Preload("Items.MenuItem").
			First(&created, order.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş okunamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(&created))
	}
}

// GET /api/vendor/orders
// Vendor'un en az bir ürününü içeren siparişler, yeniden eskiye.
func ListVendorOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.CurrentVendorID(c)
		if err != nil {
			return err
		}

		var orderIDs []uint
		if err := database.DB.Model(&models.OrderItem{}).
			Joins("JOIN menu_items ON menu_items.id = order_items.menu_item_id").
			Where("menu_items.vendor_id = ?", vendorID).
			Distinct().
			Pluck("order_items.order_id", &orderIDs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		res := make([]OrderResponse, 0, len(orderIDs))
		if len(orderIDs) == 0 {
			return c.JSON(res)
		}

		var orders []models.Order
		if err := database.DB.
			Preload("Items.MenuItem").
			Where("id IN ?", orderIDs).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		for i := range orders {
			// Ortak siparişlerde diğer vendor'ların satırları gösterilmez
			filtered := orders[i].Items[:0]
			for _, it := range orders[i].Items {
				if it.MenuItem != nil && it.MenuItem.VendorID == vendorID {
					filtered = append(filtered, it)
				}
			}
			orders[i].Items = filtered
			res = append(res, toOrderResponse(&orders[i]))
		}
		return c.JSON(res)
	}
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

var validStatuses = map[models.OrderStatus]bool{
	models.OrderStatusPending:   true,
	models.OrderStatusPreparing: true,
	models.OrderStatusCompleted: true,
	models.OrderStatusCancelled: true,
}

// PUT /api/vendor/orders/:id/status
// completed ve cancelled son durumlardır, geri alınamaz.
func UpdateOrderStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.CurrentVendorID(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var body UpdateOrderStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if !validStatuses[body.Status] {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş durumu")
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		// Sahiplik kontrolü: sipariş vendor'un en az bir ürününü içermeli,
		// aksi halde başka vendor'un siparişi iptal edilebilir ve onun
		// kalan stok hesabı değişirdi
		var lineCount int64
		if err := database.DB.Model(&models.OrderItem{}).
			Joins("JOIN menu_items ON menu_items.id = order_items.menu_item_id").
			Where("order_items.order_id = ? AND menu_items.vendor_id = ?", order.ID, vendorID).
			Count(&lineCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş güncellenemedi")
		}
		if lineCount == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		if order.Status == models.OrderStatusCompleted || order.Status == models.OrderStatusCancelled {
			return fiber.NewError(fiber.StatusBadRequest, "Tamamlanmış veya iptal edilmiş sipariş değiştirilemez")
		}

		order.Status = body.Status
		if err := database.DB.Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş güncellenemedi")
		}

		return c.JSON(toOrderResponse(&order))
	}
}
