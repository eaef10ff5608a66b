package routes

import (
	"pawndesk-backend/internal/adapters/http/handlers"
	"pawndesk-backend/internal/adapters/http/middleware"
	"pawndesk-backend/internal/adapters/persistence/repositories"
	"pawndesk-backend/internal/config"
	"pawndesk-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, sweepService *services.SweepService) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	pledgeRepo := repositories.NewPledgeRepository(db)
	renewalRepo := repositories.NewRenewalRepository(db)
	goldPriceRepo := repositories.NewGoldPriceRepository(db)
	dayEndRepo := repositories.NewDayEndRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	customerService := services.NewCustomerService(customerRepo, pledgeRepo)
	priceService := services.NewGoldPriceService(goldPriceRepo, transactionRepo)

	pledgeService := services.NewPledgeService(
		pledgeRepo,
		renewalRepo,
		customerRepo,
		transactionRepo,
		priceService,
		cfg,
	)

	dayEndService := services.NewDayEndService(dayEndRepo, pledgeRepo, renewalRepo, transactionRepo)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	pledgeHandler := handlers.NewPledgeHandler(pledgeService)
	goldPriceHandler := handlers.NewGoldPriceHandler(priceService)
	dayEndHandler := handlers.NewDayEndHandler(dayEndService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	sweepHandler := handlers.NewSweepHandler(sweepService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, customerHandler,
		pledgeHandler, goldPriceHandler, dayEndHandler, dashboardHandler, sweepHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	customerHandler *handlers.CustomerHandler,
	pledgeHandler *handlers.PledgeHandler,
	goldPriceHandler *handlers.GoldPriceHandler,
	dayEndHandler *handlers.DayEndHandler,
	dashboardHandler *handlers.DashboardHandler,
	sweepHandler *handlers.SweepHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes (Admin only)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Profile routes (Authenticated users)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Customer routes (Staff/Admin)
	customerRoutes := router.Group("/customers")
	customerRoutes.Use(middleware.AuthMiddleware(cfg))
	customerRoutes.Use(middleware.StaffOrAdmin())
	setupCustomerRoutes(customerRoutes, customerHandler)

	// Pledge routes (Staff/Admin)
	pledgeRoutes := router.Group("/pledges")
	pledgeRoutes.Use(middleware.AuthMiddleware(cfg))
	pledgeRoutes.Use(middleware.StaffOrAdmin())
	setupPledgeRoutes(pledgeRoutes, pledgeHandler)

	// Gold price routes (read for staff, write for admin)
	goldPriceRoutes := router.Group("/gold-prices")
	goldPriceRoutes.Use(middleware.AuthMiddleware(cfg))
	setupGoldPriceRoutes(goldPriceRoutes, goldPriceHandler)

	// Day-end routes (Staff/Admin; reopen is admin only)
	dayEndRoutes := router.Group("/day-end")
	dayEndRoutes.Use(middleware.AuthMiddleware(cfg))
	dayEndRoutes.Use(middleware.StaffOrAdmin())
	setupDayEndRoutes(dayEndRoutes, dayEndHandler)

	// Dashboard routes (Authenticated users)
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/", dashboardHandler.Get)

	// Admin maintenance routes
	adminRoutes := router.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Post("/sweep", sweepHandler.Run)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited against brute force)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Get("/:id", handler.Get)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}

// setupCustomerRoutes configures customer routes
func setupCustomerRoutes(router fiber.Router, handler *handlers.CustomerHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/ic/:ic", handler.GetByIC)
	router.Get("/:id", handler.Get)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}

// setupPledgeRoutes configures pledge lifecycle routes
func setupPledgeRoutes(router fiber.Router, handler *handlers.PledgeHandler) {
	// Counter quote before any paperwork
	router.Post("/quote", handler.Quote)

	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:pledgeNo", handler.Get)
	router.Get("/:pledgeNo/interest", handler.Interest)
	router.Get("/:pledgeNo/history", handler.History)

	// Lifecycle operations
	router.Get("/:pledgeNo/renew/quote", handler.QuoteRenew)
	router.Post("/:pledgeNo/renew", handler.Renew)
	router.Post("/:pledgeNo/redeem", handler.Redeem)
	router.Put("/:pledgeNo/rack", handler.MoveRack)

	// Admin only lifecycle operations
	router.Post("/:pledgeNo/forfeit", middleware.AdminOnly(), handler.Forfeit)
	router.Post("/:pledgeNo/auction", middleware.AdminOnly(), handler.Auction)
}

// setupGoldPriceRoutes configures gold price routes
func setupGoldPriceRoutes(router fiber.Router, handler *handlers.GoldPriceHandler) {
	router.Get("/", middleware.PriceTableCache(), handler.List)
	router.Put("/", middleware.AdminOnly(), handler.Update)
}

// setupDayEndRoutes configures day-end reconciliation routes
func setupDayEndRoutes(router fiber.Router, handler *handlers.DayEndHandler) {
	router.Get("/", handler.List)
	router.Get("/summary", handler.Summary)
	router.Post("/close", handler.Close)
	router.Get("/:date", handler.Get)

	// Reopen rewrites a closed book, so it is admin only and heavily rate limited
	router.Delete("/:date", middleware.AdminOnly(), middleware.StrictRateLimiter(), handler.Reopen)
}
