// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
)

// OrderHandler handles customer and seller order endpoints
type OrderHandler struct {
	orderService *order.Service
	userService  *user.Service
	config       *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Service, users *user.Service, cfg *config.Config) *OrderHandler {
	return &OrderHandler{
		orderService: orders,
		userService:  users,
		config:       cfg,
	}
}

// ApplyCouponRequest carries a coupon code
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// PlaceOrder handles POST /orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req order.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	// A selected delivery address is a precondition for ordering
	address, err := h.userService.GetSelectedAddress(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	o, err := h.orderService.PlaceOrder(userID, address, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    o,
	})
}

// GetMyOrders handles GET /orders
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	orders, err := h.orderService.GetMyOrders(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	o, err := h.orderService.GetOrder(userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// UpdateOrder handles PUT /orders/:id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req order.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.UpdateOrder(userID, orderID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order updated successfully",
		"data":    o,
	})
}

// CancelOrder handles POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req order.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.CancelOrder(userID, orderID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"data":    o,
	})
}

// CancelItem handles POST /orders/items/:itemId/cancel
func (h *OrderHandler) CancelItem(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	itemID, ok := parseUintParam(c, "itemId")
	if !ok {
		return
	}

	var req order.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.CancelItem(userID, itemID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order item cancelled successfully",
		"data":    o,
	})
}

// DeleteItem handles DELETE /orders/items/:itemId
func (h *OrderHandler) DeleteItem(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	itemID, ok := parseUintParam(c, "itemId")
	if !ok {
		return
	}

	o, err := h.orderService.DeleteItem(userID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	if o == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Order removed as its last item was deleted",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order item deleted successfully",
		"data":    o,
	})
}

// ApplyCoupon handles POST /orders/:id/coupon
func (h *OrderHandler) ApplyCoupon(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.ApplyCoupon(userID, orderID, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon applied successfully",
		"data":    o,
	})
}

// Seller endpoints

// UpdateItemStatus handles PUT /seller/orders/items/:itemId/status
func (h *OrderHandler) UpdateItemStatus(c *gin.Context) {
	sellerID, _ := middleware.GetUserIDFromContext(c)

	itemID, ok := parseUintParam(c, "itemId")
	if !ok {
		return
	}

	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.UpdateItemStatus(sellerID, itemID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item status updated successfully",
		"data":    o,
	})
}

// UpdateOrderItemsStatus handles PUT /seller/orders/:id/status
func (h *OrderHandler) UpdateOrderItemsStatus(c *gin.Context) {
	sellerID, _ := middleware.GetUserIDFromContext(c)

	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.UpdateOrderItemsStatus(sellerID, orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order items status updated successfully",
		"data":    o,
	})
}

// GetSellerOrders handles GET /seller/orders?status=pending
func (h *OrderHandler) GetSellerOrders(c *gin.Context) {
	sellerID, _ := middleware.GetUserIDFromContext(c)

	status := c.Query("status")
	if status == "" {
		status = string(order.ItemStatusPending)
	}

	orders, err := h.orderService.GetSellerOrdersByStatus(sellerID, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}
