package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"pawndesk-backend/internal/adapters/http/middleware"
	"pawndesk-backend/internal/adapters/http/routes"
	"pawndesk-backend/internal/adapters/persistence/models"
	"pawndesk-backend/internal/adapters/persistence/repositories"
	"pawndesk-backend/internal/config"
	"pawndesk-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// @title PawnDesk API
// @version 1.0
// @description Pawnshop back-office API: pledges, renewals, redemptions and day-end reconciliation.

// @contact.name API Support
// @contact.email support@pawndesk.example.com

// @host api.pawndesk.example.com
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed the default admin account and placeholder gold prices
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Start the nightly overdue sweep
	sweepService := services.NewSweepService(
		repositories.NewPledgeRepository(db),
		repositories.NewTransactionRepository(db),
		repositories.NewRefreshTokenRepository(db),
		cfg,
	)
	if err := sweepService.Start(); err != nil {
		log.Fatalf("❌ Failed to start sweep scheduler: %v", err)
	}
	defer sweepService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "PawnDesk API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, sweepService)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
