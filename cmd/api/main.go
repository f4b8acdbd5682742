package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"rpgshop/internal/audit"
	"rpgshop/internal/config"
	"rpgshop/internal/database"
	"rpgshop/internal/handlers"
	"rpgshop/internal/logger"
	"rpgshop/internal/middleware"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/payment"
	"rpgshop/internal/services"
	"rpgshop/internal/validator"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize the audit recorder shared by every tracked service
	db := dbManager.DB()
	recorder := audit.NewRecorder(audit.NewStore(db))

	// Simulated card operator
	operator := payment.NewSimulatedCardOperator(
		appConfig.CardOperatorEnabled,
		appConfig.CardOperatorMaxPerCard,
		appConfig.CardOperatorRejectedSuffixes,
	)

	// Initialize services
	userService := services.NewUserService(db)
	customerService := services.NewCustomerService(db, recorder)
	supplierService := services.NewSupplierService(db, recorder)
	productService := services.NewProductService(db, recorder)
	stockService := services.NewStockService(db, recorder)
	cartService := services.NewCartService(db, recorder)
	couponService := services.NewCouponService(db, recorder)
	orderService := services.NewOrderService(db, recorder, operator)
	exchangeService := services.NewExchangeService(db, recorder)
	auditService := services.NewAuditService(db)
	analysisService := services.NewAnalysisService(db)

	// Seed the first employee login so the admin routes are reachable
	// on a fresh database
	if err := ensureEmployeeAccount(userService, appConfig); err != nil {
		return fmt.Errorf("failed to bootstrap employee account: %w", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	productHandler := handlers.NewProductHandler(productService)
	stockHandler := handlers.NewStockHandler(stockService)
	cartHandler := handlers.NewCartHandler(cartService)
	couponHandler := handlers.NewCouponHandler(couponService)
	orderHandler := handlers.NewOrderHandler(orderService)
	exchangeHandler := handlers.NewExchangeHandler(exchangeService)
	auditHandler := handlers.NewAuditHandler(auditService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)

	// Shut everything down on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background loops
	startBackgroundLoops(ctx, appConfig, cartService, productService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	v1.POST("/customers", customerHandler.Register)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.POST("/auth/password", authHandler.ChangePassword)

	// Customer routes
	customers := protected.Group("/customers")
	customers.GET("/:id", customerHandler.Get)
	customers.PUT("/:id", customerHandler.Update)
	customers.DELETE("/:id", customerHandler.Deactivate)
	customers.POST("/:id/addresses", customerHandler.AddAddress)
	customers.POST("/:id/phones", customerHandler.AddPhone)
	customers.POST("/:id/credit-cards", customerHandler.AddCreditCard)

	// Cart routes (authenticated customer's own cart)
	cart := protected.Group("/cart")
	cart.GET("", cartHandler.Get)
	cart.POST("/items", cartHandler.AddItem)
	cart.PUT("/items", cartHandler.UpdateItem)
	cart.DELETE("/items/:productId", cartHandler.RemoveItem)
	cart.DELETE("", cartHandler.Clear)

	// Order routes
	orders := protected.Group("/orders")
	orders.POST("", orderHandler.Place)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)

	// Exchange routes
	exchanges := protected.Group("/exchanges")
	exchanges.POST("", exchangeHandler.Request)
	exchanges.GET("/:id", exchangeHandler.Get)

	// Public catalog browsing
	v1.GET("/products", productHandler.List)
	v1.GET("/products/:id", productHandler.Get)

	// Employee-only administration
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleEmployee))

	admin.GET("/customers", customerHandler.List)

	admin.POST("/suppliers", supplierHandler.Create)
	admin.GET("/suppliers", supplierHandler.List)
	admin.GET("/suppliers/:id", supplierHandler.Get)
	admin.DELETE("/suppliers/:id", supplierHandler.Deactivate)

	admin.POST("/products", productHandler.Create)
	admin.PUT("/products/:id", productHandler.Update)
	admin.POST("/products/:id/activate", productHandler.Activate)
	admin.POST("/products/:id/deactivate", productHandler.Deactivate)
	admin.GET("/products/:id/stock-entries", stockHandler.ListByProduct)

	admin.POST("/stock-entries", stockHandler.CreateEntry)
	admin.POST("/stock-reentries", stockHandler.CreateReentry)

	admin.POST("/coupons", couponHandler.Create)
	admin.GET("/coupons", couponHandler.List)
	admin.GET("/coupons/:id", couponHandler.Get)

	admin.POST("/orders/:id/approve", orderHandler.Approve)
	admin.POST("/orders/:id/reject", orderHandler.Reject)
	admin.POST("/orders/:id/dispatch", orderHandler.Dispatch)
	admin.POST("/orders/:id/deliver", orderHandler.Deliver)

	admin.GET("/exchanges", exchangeHandler.List)
	admin.POST("/exchanges/:id/authorize", exchangeHandler.Authorize)
	admin.POST("/exchanges/:id/deny", exchangeHandler.Deny)
	admin.POST("/exchanges/:id/receive", exchangeHandler.Receive)

	admin.GET("/audit", auditHandler.List)
	admin.GET("/audit/:entity/:id", auditHandler.ListByEntity)

	admin.POST("/users", userHandler.CreateEmployee)
	admin.GET("/users", userHandler.List)

	admin.GET("/analysis/sales", analysisHandler.SalesInPeriod)
	admin.GET("/analysis/by-product", analysisHandler.ItemsByProduct)
	admin.GET("/analysis/by-category", analysisHandler.ItemsByCategory)
	admin.GET("/analysis/quantity-sold", analysisHandler.QuantitySold)

	server := &http.Server{
		Addr:    ":" + appConfig.Port,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting rpgshop backend server on port %s", appConfig.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// ensureEmployeeAccount creates the configured bootstrap employee when
// no employee login exists yet.
func ensureEmployeeAccount(users services.UserServicer, cfg *config.Config) error {
	if cfg.BootstrapEmployeeEmail == "" || cfg.BootstrapEmployeePassword == "" {
		return nil
	}

	role := models.RoleEmployee
	page, err := users.QueryUsers(
		pagination.PageRequest{Page: 1, PageSize: 1},
		services.UserFilter{Role: &role},
	)
	if err != nil {
		return err
	}
	if page.TotalItems > 0 {
		return nil
	}

	if _, err := users.CreateUser(cfg.BootstrapEmployeeEmail, cfg.BootstrapEmployeePassword, models.RoleEmployee, nil); err != nil {
		return err
	}
	logger.Get().Infow("created bootstrap employee account", "email", cfg.BootstrapEmployeeEmail)
	return nil
}

// startBackgroundLoops launches the cart-release and product
// auto-deactivation tickers when enabled. The loops stop when ctx is
// cancelled.
func startBackgroundLoops(ctx context.Context, cfg *config.Config, carts services.CartServicer, products services.ProductServicer) {
	log := logger.Get()

	if cfg.CartReleaseEnabled {
		go func() {
			ticker := time.NewTicker(cfg.CartReleaseInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
				released, err := carts.ReleaseExpiredItems(ctx)
				if err != nil {
					log.Errorw("cart release sweep failed", "error", err)
					continue
				}
				if released > 0 {
					log.Infow("released expired cart items", "count", released)
				}
			}
		}()
	}

	if cfg.AutoDeactivateEnabled {
		go func() {
			ticker := time.NewTicker(cfg.AutoDeactivateInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
				deactivated, err := products.AutoDeactivateProducts(ctx, cfg.AutoDeactivateThreshold)
				if err != nil {
					log.Errorw("auto-deactivation sweep failed", "error", err)
					continue
				}
				if deactivated > 0 {
					log.Infow("auto-deactivated products", "count", deactivated)
				}
			}
		}()
	}
}
