// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/interfaces/http/handlers"
	"github.com/jaipurgadget/ecommerce-backend/internal/interfaces/http/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	authHandler := handlers.NewAuthHandler(db, redisClient, cfg, logger)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.GET("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	}
}

// SetupCatalogRoutes sets up the public product and category routes
func SetupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	productHandler := handlers.NewProductHandler(db, cfg, logger)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	reviewHandler := handlers.NewReviewHandler(db)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/categories/all", categoryHandler.GetCategories)
		products.GET("/:id", productHandler.GetProduct)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", categoryHandler.GetCategories)
		categories.GET("/:id", categoryHandler.GetCategory)
	}

	reviews := rg.Group("/reviews")
	{
		reviews.GET("/product/:productId", reviewHandler.GetProductReviews)

		// Review creation requires a logged-in customer.
		authed := reviews.Group("")
		authed.Use(middleware.AuthMiddleware(cfg))
		authed.POST("", reviewHandler.CreateReview)
	}
}

// SetupCartRoutes sets up cart routes, shared by guests and logged-in users
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)

	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:productId", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:productId", cartHandler.RemoveFromCart)
		cart.DELETE("", cartHandler.ClearCart)
	}

	merge := rg.Group("/cart")
	merge.Use(middleware.AuthMiddleware(cfg))
	{
		merge.POST("/merge", cartHandler.MergeGuestCart)
	}
}

// SetupOrderRoutes sets up customer order and serviceability routes
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg, logger)
	checkoutHandler := handlers.NewCheckoutHandler(cfg)

	rg.GET("/checkout/serviceability", checkoutHandler.CheckServiceability)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.GetUserOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/invoice", orderHandler.GetInvoice)
	}
}

// SetupEnquiryRoutes sets up customer enquiry routes
func SetupEnquiryRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	enquiryHandler := handlers.NewEnquiryHandler(db, redisClient, cfg, logger)

	enquiries := rg.Group("/enquiries")
	enquiries.Use(middleware.AuthMiddleware(cfg))
	{
		enquiries.POST("", enquiryHandler.CreateEnquiry)
		enquiries.GET("", enquiryHandler.GetUserEnquiries)
		enquiries.GET("/:id", enquiryHandler.GetEnquiry)
	}
}

// SetupUserRoutes sets up profile, address and wishlist routes
func SetupUserRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	profileHandler := handlers.NewUserProfileHandler(db, cfg)
	addressHandler := handlers.NewUserAddressHandler(db)
	wishlistHandler := handlers.NewWishlistHandler(db)

	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(cfg))
	{
		users.GET("/profile", profileHandler.GetProfile)
		users.PUT("/profile", profileHandler.UpdateProfile)
		users.PUT("/profile/password", profileHandler.ChangePassword)

		users.GET("/addresses", addressHandler.GetAddresses)
		users.POST("/addresses", addressHandler.CreateAddress)
		users.PUT("/addresses/:id", addressHandler.UpdateAddress)
		users.DELETE("/addresses/:id", addressHandler.DeleteAddress)

		users.GET("/wishlist", wishlistHandler.GetWishlist)
		users.POST("/wishlist/:productId", wishlistHandler.AddToWishlist)
		users.DELETE("/wishlist/:productId", wishlistHandler.RemoveFromWishlist)
	}
}

// SetupPaymentRoutes sets up the payment gateway routes
func SetupPaymentRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	paymentHandler := handlers.NewPaymentHandler(db, cfg)

	payments := rg.Group("/payments")
	payments.Use(middleware.AuthMiddleware(cfg))
	{
		payments.POST("/stripe/create-payment-intent", paymentHandler.CreateStripeIntent)
		payments.POST("/razorpay/create-order", paymentHandler.CreateRazorpayOrder)
	}
}

// SetupAdminRoutes sets up the admin back office routes
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	productHandler := handlers.NewProductHandler(db, cfg, logger)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg, logger)
	enquiryHandler := handlers.NewEnquiryHandler(db, redisClient, cfg, logger)
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg)
	uploadHandler := handlers.NewUploadHandler(db, cfg)
	inventoryHandler := handlers.NewInventoryHandler(db)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		products := admin.Group("/products")
		{
			products.GET("", productHandler.AdminGetProducts)
			products.POST("", productHandler.CreateProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		categories := admin.Group("/categories")
		{
			categories.POST("", categoryHandler.CreateCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", orderHandler.AdminGetOrders)
			orders.GET("/:id", orderHandler.AdminGetOrder)
			orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
			orders.DELETE("/:id", orderHandler.AdminDeleteOrder)
		}

		enquiries := admin.Group("/enquiries")
		{
			enquiries.GET("", enquiryHandler.AdminGetEnquiries)
			enquiries.PUT("/:id/status", enquiryHandler.UpdateEnquiryStatus)
			enquiries.DELETE("/:id", enquiryHandler.AdminDeleteEnquiry)
		}

		users := admin.Group("/users")
		{
			users.GET("", userAdminHandler.GetUsers)
			users.GET("/:id", userAdminHandler.GetUser)
			users.PUT("/:id/ban", userAdminHandler.SetBanned)
		}

		admin.POST("/admins", userAdminHandler.CreateAdmin)

		uploads := admin.Group("/uploads")
		{
			uploads.POST("", uploadHandler.UploadImage)
			uploads.GET("", uploadHandler.ListImages)
			uploads.DELETE("/:id", uploadHandler.DeleteImage)
		}

		stock := admin.Group("/inventory")
		{
			stock.GET("/movements", inventoryHandler.GetStockMovements)
			stock.GET("/low-stock", inventoryHandler.GetLowStock)
		}

		admin.GET("/analytics", analyticsHandler.GetDashboardStats)
	}
}
