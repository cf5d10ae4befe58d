// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
)

// CatalogHandler handles product listing endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
	config         *config.Config
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(cat *catalog.Service, cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{
		catalogService: cat,
		config:         cfg,
	}
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.GetProducts()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.ResolveProduct(productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    product,
	})
}

// CreateProduct handles POST /seller/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	sellerID, _ := middleware.GetUserIDFromContext(c)

	var req catalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalogService.CreateProduct(sellerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    product,
	})
}

// UpdateProduct handles PUT /seller/products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	sellerID, _ := middleware.GetUserIDFromContext(c)

	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req catalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalogService.UpdateProduct(sellerID, productID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"data":    product,
	})
}

// UpdatePackSize handles PUT /seller/products/:id/pack-sizes/:packSizeId
func (h *CatalogHandler) UpdatePackSize(c *gin.Context) {
	sellerID, _ := middleware.GetUserIDFromContext(c)

	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	packSizeID, ok := parseUintParam(c, "packSizeId")
	if !ok {
		return
	}

	var req catalog.PackSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	packSize, err := h.catalogService.UpdatePackSize(sellerID, productID, packSizeID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pack size updated successfully",
		"data":    packSize,
	})
}

// DeleteProduct handles DELETE /seller/products/:id
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	sellerID, _ := middleware.GetUserIDFromContext(c)

	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(sellerID, productID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}
