package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"shopware-backend/config"
	"shopware-backend/database"
	"shopware-backend/internal/api"
	"shopware-backend/internal/middleware"
	"shopware-backend/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	// Run database migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS
	router.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if cfg.AllowAllOrigins {
			c.Header("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range cfg.AllowedOrigins {
				if origin == allowed {
					c.Header("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Rate limiting
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimitRequests,
		time.Duration(cfg.RateLimitWindow)*time.Second))

	// Services
	eventHub := services.NewOrderEventHub()
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(db, cfg, emailService)
	userService := services.NewUserService(db)
	productService := services.NewProductService(db)
	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db, eventHub)
	reviewService := services.NewReviewService(db)
	adminService := services.NewAdminService(db)
	intakeService := services.NewIntakeService(db)

	// Handlers
	authHandlers := api.NewAuthHandlers(authService)
	userHandlers := api.NewUserHandlers(userService)
	productHandlers := api.NewProductHandlers(productService)
	cartHandlers := api.NewCartHandlers(cartService)
	orderHandlers := api.NewOrderHandlers(orderService)
	reviewHandlers := api.NewReviewHandlers(reviewService)
	adminHandlers := api.NewAdminHandlers(adminService, orderService)
	intakeHandlers := api.NewIntakeHandlers(intakeService)
	wsHandlers := api.NewWSHandlers(eventHub)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")
	{
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/register", authHandlers.Register)
			auth.POST("/verify-email", authHandlers.VerifyEmail)
			auth.POST("/resend-otp", authHandlers.ResendOTP)
			auth.POST("/login", authHandlers.Login)
			auth.POST("/refresh", authHandlers.Refresh)
			auth.POST("/logout", authMiddleware.AuthRequired(), authHandlers.Logout)
		}

		users := apiGroup.Group("/users", authMiddleware.AuthRequired())
		{
			users.GET("/me", userHandlers.GetProfile)
			users.PUT("/me/username", userHandlers.UpdateUsername)
			users.GET("/me/addresses", userHandlers.ListAddresses)
			users.POST("/me/addresses", userHandlers.AddAddress)
			users.DELETE("/me/addresses/:id", userHandlers.DeleteAddress)
		}

		products := apiGroup.Group("/products")
		{
			products.GET("", productHandlers.ListProducts)
			products.GET("/bestsellers", productHandlers.GetBestSellers)
			products.GET("/:id", productHandlers.GetProduct)
			products.GET("/:id/related", productHandlers.GetRelatedProducts)
			products.GET("/:id/reviews", productHandlers.GetProductReviews)
		}
		apiGroup.GET("/categories", productHandlers.ListCategories)

		cart := apiGroup.Group("/cart", authMiddleware.AuthRequired())
		{
			cart.GET("", cartHandlers.GetCart)
			cart.POST("/items", cartHandlers.AddItem)
			cart.PATCH("/items", cartHandlers.UpdateQuantity)
			cart.DELETE("/items", cartHandlers.RemoveItem)
			cart.DELETE("", cartHandlers.ClearCart)
		}

		orders := apiGroup.Group("/orders", authMiddleware.AuthRequired())
		{
			orders.POST("", orderHandlers.PlaceOrder)
			orders.GET("", orderHandlers.ListOrders)
			orders.GET("/:id", orderHandlers.GetOrder)
			orders.POST("/:id/cancel", orderHandlers.CancelOrder)
		}

		reviews := apiGroup.Group("/reviews", authMiddleware.AuthRequired())
		{
			reviews.POST("", reviewHandlers.CreateReview)
			reviews.PUT("/:id", reviewHandlers.UpdateReview)
			reviews.DELETE("/:id", reviewHandlers.DeleteReview)
			reviews.GET("/can-review/:productId", reviewHandlers.CanReview)
		}

		apiGroup.POST("/contact", intakeHandlers.CreateContact)
		apiGroup.POST("/jobs/apply", intakeHandlers.CreateJobApplication)

		admin := apiGroup.Group("/admin", authMiddleware.AuthRequired(), authMiddleware.AdminRequired())
		{
			admin.GET("/users", adminHandlers.ListUsers)
			admin.PATCH("/users/:id/block", adminHandlers.SetUserBlocked)

			admin.POST("/products", adminHandlers.CreateProduct)
			admin.PUT("/products/:id", adminHandlers.UpdateProduct)
			admin.DELETE("/products/:id", adminHandlers.DeleteProduct)
			admin.PATCH("/products/:id/stock", adminHandlers.UpdateStock)
			admin.PATCH("/products/:id/discount", adminHandlers.UpdateDiscount)
			admin.PATCH("/products/:id/bestseller", adminHandlers.ToggleBestSeller)

			admin.GET("/orders", adminHandlers.ListOrders)
			admin.PATCH("/orders/:id/status", adminHandlers.UpdateOrderStatus)
			admin.PATCH("/orders/:id/deliver", adminHandlers.MarkDelivered)

			admin.GET("/reviews", adminHandlers.ListReviews)

			admin.GET("/contacts", intakeHandlers.ListContacts)
			admin.PATCH("/contacts/:id", intakeHandlers.UpdateContactStatus)
			admin.DELETE("/contacts/:id", intakeHandlers.DeleteContact)

			admin.GET("/job-applications", intakeHandlers.ListJobApplications)
			admin.PATCH("/job-applications/:id", intakeHandlers.UpdateApplicationStatus)
			admin.DELETE("/job-applications/:id", intakeHandlers.DeleteJobApplication)

			admin.GET("/dashboard", adminHandlers.GetDashboard)
			admin.GET("/analytics/sales", adminHandlers.GetSalesAnalytics)
			admin.GET("/analytics/top-products", adminHandlers.GetTopProducts)
		}
	}

	router.GET("/ws/orders", authMiddleware.AuthRequired(), authMiddleware.AdminRequired(), wsHandlers.OrderEvents)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exited")
}
