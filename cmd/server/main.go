package main

import (
	"log"
	"strings"

	"emenu-backend/internal/audit"
	"emenu-backend/internal/auth"
	"emenu-backend/internal/cart"
	"emenu-backend/internal/config"
	"emenu-backend/internal/database"
	"emenu-backend/internal/menu"
	"emenu-backend/internal/models"
	"emenu-backend/internal/orders"
	"emenu-backend/internal/storage"
	"emenu-backend/internal/storefront"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	cartClient, err := cart.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Redis başlatılamadı: %v", err)
	}

	imageStore := storage.New(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Menü fotoğrafları statik olarak sunulur
	app.Static(storage.PublicPrefix, imageStore.BasePath())

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-vendor", auth.RegisterVendorHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Public storefront
	api.Get("/storefront/menu", storefront.ListMenuHandler())

	// Public sepet (cart ID client tarafında üretilir)
	api.Post("/cart/:cartID/items", cart.AddItemHandler(cartClient))
	api.Get("/cart/:cartID", cart.GetCartHandler(cartClient))
	api.Delete("/cart/:cartID/items/:itemID", cart.RemoveItemHandler(cartClient))
	api.Delete("/cart/:cartID", cart.ClearCartHandler(cartClient))
	api.Post("/cart/:cartID/checkout", orders.CheckoutHandler(cartClient))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Vendor routes
	vendorRoutes := protected.Group("/vendor")
	vendorRoutes.Use(auth.RequireRole(models.RoleVendor))

	// Menü yönetimi
	vendorRoutes.Get("/menu-items", menu.ListMenuItemsHandler())
	vendorRoutes.Post("/menu-items", menu.CreateMenuItemHandler(imageStore))
	vendorRoutes.Put("/menu-items/:id", menu.UpdateMenuItemHandler(imageStore))
	vendorRoutes.Delete("/menu-items/:id", menu.DeleteMenuItemHandler())

	// Siparişler
	vendorRoutes.Get("/orders", orders.ListVendorOrdersHandler())
	vendorRoutes.Put("/orders/:id/status", orders.UpdateOrderStatusHandler())

	// Audit logs
	vendorRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
