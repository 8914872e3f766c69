package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storefront/internal/apperrors"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/paypal"
	"storefront/pkg/rabbitmq"
)

// NewApp wires repositories, services and handlers into a Fiber app.
// The messaging client and payment gateway are injected so tests can
// substitute them.
func NewApp(cfg *config.Config, db *gorm.DB, mq services.EventPublisher, gateway services.PaymentGateway) (*fiber.App, *services.AuthService) {
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, mq, cfg.RequirePaidForDelivery)
	paymentService := services.NewPaymentService(orderRepo, gateway, mq)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(userRepo)

	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService)
	userHandler := handlers.NewUserHandler(authService, userService)

	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	userHandler.RegisterPublicRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	userHandler.RegisterProtectedRoutes(protected)
	productHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, authService
}

// OpenDatabase connects to postgres or sqlite depending on the DSN and
// migrates the schema.
func OpenDatabase(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.Contains(dsn, "host=") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Review{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

func main() {
	cfg := config.Load()

	db, err := OpenDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// The broker is optional for local development; order events are
	// skipped when it is unreachable.
	var mq services.EventPublisher
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, order events disabled: %v", err)
	} else {
		defer mqClient.Close()
		mq = mqClient
	}

	gateway := paypal.NewClient(paypal.Config{
		BaseAPIURL:   cfg.PayPalBaseAPIURL,
		ClientID:     cfg.PayPalClientID,
		ClientSecret: cfg.PayPalClientSecret,
	})

	app, authService := NewApp(cfg, db, mq, gateway)

	seedAdmin(cfg, authService, repositories.NewGORMUserRepository(db))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// seedAdmin creates the configured administrator account on first run.
func seedAdmin(cfg *config.Config, authService *services.AuthService, userRepo repositories.UserRepository) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	if _, err := userRepo.GetByEmail(cfg.AdminEmail); err == nil {
		return
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("Error checking admin account: %v", err)
		return
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		IsAdmin:  true,
	}
	if err := authService.RegisterUser(&admin); err != nil {
		log.Printf("Error seeding admin account: %v", err)
		return
	}
	log.Printf("Seeded admin account %s", cfg.AdminEmail)
}
