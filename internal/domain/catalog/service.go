// internal/domain/catalog/service.go
package catalog

import (
	"fmt"

	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Service handles product catalog business logic and implements
// PriceCatalog against the database.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

var _ PriceCatalog = (*Service)(nil)

// PackSizeRequest represents a pack-size variant in a product request
type PackSizeRequest struct {
	Weight float64 `json:"weight"`
	Unit   string  `json:"unit" binding:"required"`
	Price  int64   `json:"price" binding:"required,min=1"`
	Stock  int     `json:"stock"`
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	PackSizes   []PackSizeRequest `json:"pack_sizes" binding:"required,min=1,dive"`
}

// UpdateProductRequest represents a partial product update. Only the
// listed fields may change; nil means "leave unchanged".
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// ResolveUnitPrice implements PriceCatalog
func (s *Service) ResolveUnitPrice(productID, packSizeID uint) (int64, error) {
	product, err := s.ResolveProduct(productID)
	if err != nil {
		return 0, err
	}

	ps := product.FindPackSize(packSizeID)
	if ps == nil {
		return 0, apperr.NotFound("pack size not found for this product")
	}

	return ps.Price, nil
}

// ResolveProduct implements PriceCatalog
func (s *Service) ResolveProduct(productID uint) (*Product, error) {
	var product Product
	err := s.db.Preload("PackSizes").Where("id = ? AND is_active = ?", productID, true).First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// GetProducts lists active products
func (s *Service) GetProducts() ([]Product, error) {
	var products []Product
	if err := s.db.Preload("PackSizes").Where("is_active = ?", true).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// CreateProduct creates a product with its pack sizes for a seller
func (s *Service) CreateProduct(sellerID uint, req *CreateProductRequest) (*Product, error) {
	product := Product{
		SellerID:    sellerID,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	for _, ps := range req.PackSizes {
		product.PackSizes = append(product.PackSizes, PackSize{
			Weight: ps.Weight,
			Unit:   ps.Unit,
			Price:  ps.Price,
			Stock:  ps.Stock,
		})
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}

// UpdateProduct patches a seller's own product
func (s *Service) UpdateProduct(sellerID, productID uint, req *UpdateProductRequest) (*Product, error) {
	var product Product
	if err := s.db.Preload("PackSizes").First(&product, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	if product.SellerID != sellerID {
		return nil, apperr.Forbidden("product belongs to another seller")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return &product, nil
}

// UpdatePackSize patches the price/stock of one pack size. A later
// price edit retroactively changes the displayed total of open orders,
// since totals are recomputed live.
func (s *Service) UpdatePackSize(sellerID, productID, packSizeID uint, req *PackSizeRequest) (*PackSize, error) {
	var product Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	if product.SellerID != sellerID {
		return nil, apperr.Forbidden("product belongs to another seller")
	}

	var ps PackSize
	if err := s.db.Where("id = ? AND product_id = ?", packSizeID, productID).First(&ps).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("pack size not found for this product")
		}
		return nil, fmt.Errorf("failed to retrieve pack size: %w", err)
	}

	ps.Weight = req.Weight
	ps.Unit = req.Unit
	ps.Price = req.Price
	ps.Stock = req.Stock

	if err := s.db.Save(&ps).Error; err != nil {
		return nil, fmt.Errorf("failed to update pack size: %w", err)
	}

	return &ps, nil
}

// DeleteProduct soft-deletes a seller's own product. Cart lines that
// reference it stop resolving and drop out of computed totals.
func (s *Service) DeleteProduct(sellerID, productID uint) error {
	var product Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("product not found")
		}
		return fmt.Errorf("failed to retrieve product: %w", err)
	}
	if product.SellerID != sellerID {
		return apperr.Forbidden("product belongs to another seller")
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
