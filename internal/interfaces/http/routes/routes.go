// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/coupon"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/payment"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/handlers"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/your-org/marketplace-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// SetupRoutes wires every API route. The catalog service doubles as
// the price source for carts, orders and invoices so all of them see
// the same live prices.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	catalogService := catalog.NewService(db, cfg)
	couponService := coupon.NewService(db, cfg)
	userService := user.NewService(db, cfg)
	cartService := cart.NewService(db, catalogService, cfg)
	orderService := order.NewService(db, cfg, catalogService, couponService)
	paymentService := payment.NewService(db, cfg, orderService, cartService, logger)
	pdfService := pdf.NewService(cfg, catalogService)

	authHandler := handlers.NewAuthHandler(db, redisClient, cfg)
	addressHandler := handlers.NewAddressHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(catalogService, cfg)
	cartHandler := handlers.NewCartHandler(cartService, cfg)
	orderHandler := handlers.NewOrderHandler(orderService, userService, cfg)
	couponHandler := handlers.NewCouponHandler(couponService, cfg)
	paymentHandler := handlers.NewPaymentHandler(paymentService, cfg)
	invoiceHandler := handlers.NewInvoiceHandler(orderService, pdfService, cfg)

	authRequired := middleware.AuthMiddleware(cfg, redisClient)

	// Public auth endpoints
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		protected := auth.Group("")
		protected.Use(authRequired)
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/me", authHandler.Me)
		}
	}

	// Public product browsing
	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.ListProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	// Address book
	addresses := rg.Group("/addresses")
	addresses.Use(authRequired)
	{
		addresses.GET("", addressHandler.ListAddresses)
		addresses.POST("", addressHandler.AddAddress)
		addresses.GET("/selected", addressHandler.GetSelectedAddress)
		addresses.PUT("/:id", addressHandler.UpdateAddress)
		addresses.DELETE("/:id", addressHandler.DeleteAddress)
		addresses.PUT("/:id/select", addressHandler.SelectAddress)
	}

	// Cart
	cartGroup := rg.Group("/cart")
	cartGroup.Use(authRequired)
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("/items/:productId", cartHandler.AddItem)
		cartGroup.PUT("/items/:productId", cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)
	}

	// Customer orders
	orders := rg.Group("/orders")
	orders.Use(authRequired)
	{
		orders.GET("", orderHandler.GetMyOrders)
		orders.POST("", orderHandler.PlaceOrder)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id", orderHandler.UpdateOrder)
		orders.POST("/:id/cancel", orderHandler.CancelOrder)
		orders.POST("/:id/coupon", orderHandler.ApplyCoupon)
		orders.GET("/:id/invoice", invoiceHandler.GenerateInvoice)
		orders.POST("/items/:itemId/cancel", orderHandler.CancelItem)
		orders.DELETE("/items/:itemId", orderHandler.DeleteItem)
	}

	// Payments
	payments := rg.Group("/payments")
	payments.Use(authRequired)
	{
		payments.GET("", paymentHandler.GetMyPayments)
		payments.POST("", paymentHandler.CreatePayment)
		payments.GET("/:id", paymentHandler.GetPayment)
	}

	// Seller console
	seller := rg.Group("/seller")
	seller.Use(authRequired)
	seller.Use(middleware.RequireSeller())
	{
		sellerProducts := seller.Group("/products")
		{
			sellerProducts.POST("", catalogHandler.CreateProduct)
			sellerProducts.PUT("/:id", catalogHandler.UpdateProduct)
			sellerProducts.PUT("/:id/pack-sizes/:packSizeId", catalogHandler.UpdatePackSize)
			sellerProducts.DELETE("/:id", catalogHandler.DeleteProduct)
		}

		sellerOrders := seller.Group("/orders")
		{
			sellerOrders.GET("", orderHandler.GetSellerOrders)
			sellerOrders.PUT("/:id/status", orderHandler.UpdateOrderItemsStatus)
			sellerOrders.PUT("/items/:itemId/status", orderHandler.UpdateItemStatus)
		}

		sellerCoupons := seller.Group("/coupons")
		{
			sellerCoupons.GET("", couponHandler.ListCoupons)
			sellerCoupons.POST("", couponHandler.CreateCoupon)
			sellerCoupons.PUT("/:id", couponHandler.UpdateCoupon)
			sellerCoupons.DELETE("/:id", couponHandler.DeleteCoupon)
		}
	}
}
