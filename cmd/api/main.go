package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/joho/godotenv"

	"github.com/freshmart/grocery-backend/internal/cart"
	"github.com/freshmart/grocery-backend/internal/config"
	"github.com/freshmart/grocery-backend/internal/payment"
	"github.com/freshmart/grocery-backend/internal/product"
	"github.com/freshmart/grocery-backend/internal/user"
)

// main runs the API entirely in memory. Useful for frontend development
// without a database; everything is lost on restart.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	now := time.Now().UTC().Format(time.RFC3339)
	productRepo := product.NewInMemoryRepository([]product.Product{
		{Name: "Whole Milk 1L", Price: 1.85, Description: "Fresh whole milk", Category: "Dairy", Qty: 40, ExpiryDate: "2026-09-20", CreatedAt: now, UpdatedAt: now},
		{Name: "Sourdough Loaf", Price: 3.50, Description: "Stone-baked sourdough", Category: "Bakery", Qty: 12, ExpiryDate: "2026-09-05", CreatedAt: now, UpdatedAt: now},
		{Name: "Orange Juice 1L", Price: 2.40, Description: "100% squeezed oranges", Category: "Drinks", Qty: 25, ExpiryDate: "2026-10-01", CreatedAt: now, UpdatedAt: now},
		{Name: "Cheddar 200g", Price: 4.10, Description: "Mature cheddar block", Category: "Dairy", Qty: 18, ExpiryDate: "2026-11-15", CreatedAt: now, UpdatedAt: now},
	})
	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	userService := user.NewService(user.NewInMemoryRepository(nil))
	userHandler := user.NewHandler(userService)

	cartService := cart.NewService(cart.NewInMemoryRepository(nil), productService)
	cartHandler := cart.NewHandler(cartService)

	paymentService := payment.NewService(payment.NewInMemoryRepository(nil), cartService)
	paymentHandler := payment.NewHandler(paymentService)
	cartService.SetPaymentChecker(paymentService)

	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterRoutes(app)
	cartHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)

	log.Printf("starting in-memory server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
