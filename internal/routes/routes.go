// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"sharkfund/internal/config"
	"sharkfund/internal/handlers"
	"sharkfund/internal/middleware"
	"sharkfund/internal/repositories"
	"sharkfund/internal/services/auth"
	"sharkfund/internal/services/income"
	"sharkfund/internal/services/referral"
	"sharkfund/internal/services/user"
	"sharkfund/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App) {
	// Repositories
	walletRepo := repositories.NewWalletRepository(repositories.DB)
	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)

	// Services
	authService := auth.NewService(userRepo)
	walletService := wallet.NewService(
		walletRepo,
		repositories.CacheService,
		wallet.Config{
			ReferralBonus: config.GetDecimalEnv("REFERRAL_BONUS", wallet.DefaultReferralBonus),
		},
		&wallet.NoopMetricsCollector{},
	)
	userService := user.NewService(userRepo, walletService)
	referralService := referral.NewService(userRepo)
	incomeService := income.NewService(walletRepo, repositories.CacheService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, referralService)
	walletHandler := handlers.NewWalletHandler(walletService, userService)
	incomeHandler := handlers.NewIncomeHandler(incomeService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to SharkFund API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/register", userHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	// Account routes
	protected.Get("/profile", userHandler.GetProfile)
	protected.Post("/change-password", authHandler.ChangePassword)
	protected.Post("/logout", authHandler.Logout)
	protected.Get("/referrals", userHandler.ReferralStats)
	protected.Post("/payment-detail", userHandler.SavePaymentDetail)
	protected.Get("/payment-detail", userHandler.GetPaymentDetail)

	// Wallet routes
	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", walletHandler.GetWallet)
	walletGroup.Post("/deposit", walletHandler.Deposit)
	walletGroup.Post("/withdraw", walletHandler.Withdraw)
	walletGroup.Get("/transactions", walletHandler.GetTransactionHistory)

	// Income routes
	protected.Get("/income", incomeHandler.ListMine)

	setupAdminRoutes(app, authMiddleware, userHandler, walletHandler, incomeHandler)
}

func setupAdminRoutes(app *fiber.App, authMiddleware *middleware.AuthMiddleware, userHandler *handlers.UserHandler, walletHandler *handlers.WalletHandler, incomeHandler *handlers.IncomeHandler) {
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)

	admin.Post("/users/:id/activate", userHandler.Activate)
	admin.Post("/users/:id/deactivate", userHandler.Deactivate)

	admin.Put("/transactions/:id/status", walletHandler.SetTransactionStatus)
	admin.Delete("/transactions/:id", walletHandler.DeleteTransaction)
	admin.Post("/wallets/:id/recompute", walletHandler.Recompute)

	admin.Post("/income", incomeHandler.ApplyBatch)
	admin.Post("/income/:id/reverse", incomeHandler.ReverseBatch)
	admin.Post("/income/record", walletHandler.RecordIncome)
}
