// internal/interfaces/http/handlers/coupon.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/coupon"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
)

// CouponHandler handles seller coupon management endpoints
type CouponHandler struct {
	couponService *coupon.Service
	config        *config.Config
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(coupons *coupon.Service, cfg *config.Config) *CouponHandler {
	return &CouponHandler{
		couponService: coupons,
		config:        cfg,
	}
}

// ListCoupons handles GET /seller/coupons
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	sellerID, _ := middleware.GetUserIDFromContext(c)

	coupons, err := h.couponService.ListBySeller(sellerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupons retrieved successfully",
		"data":    coupons,
	})
}

// CreateCoupon handles POST /seller/coupons
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	sellerID, _ := middleware.GetUserIDFromContext(c)

	var req coupon.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.couponService.Create(sellerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Coupon created successfully",
		"data":    created,
	})
}

// UpdateCoupon handles PUT /seller/coupons/:id
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	sellerID, _ := middleware.GetUserIDFromContext(c)

	couponID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req coupon.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.couponService.Update(sellerID, couponID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon updated successfully",
		"data":    updated,
	})
}

// DeleteCoupon handles DELETE /seller/coupons/:id
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	sellerID, _ := middleware.GetUserIDFromContext(c)

	couponID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.couponService.Delete(sellerID, couponID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon deleted successfully",
	})
}
