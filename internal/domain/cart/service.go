// internal/domain/cart/service.go
package cart

import (
	"fmt"

	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Service handles cart business logic
type Service struct {
	db      *gorm.DB
	catalog catalog.PriceCatalog
	config  *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cat catalog.PriceCatalog, cfg *config.Config) *Service {
	return &Service{
		db:      db,
		catalog: cat,
		config:  cfg,
	}
}

// AddItemRequest represents add-to-cart data
type AddItemRequest struct {
	PackSizeID uint `json:"pack_size_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents a quantity overwrite (not additive)
type UpdateItemRequest struct {
	PackSizeID uint `json:"pack_size_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

// AddItem validates the product and pack size, creates the user's cart
// if absent and merges the line by (product, pack size), summing
// quantities. Returns the rendered cart.
func (s *Service) AddItem(userID, productID uint, req *AddItemRequest) (*View, error) {
	if req.Quantity < 1 {
		return nil, apperr.Validation("quantity must be at least 1")
	}

	product, err := s.catalog.ResolveProduct(productID)
	if err != nil {
		return nil, err
	}
	if product.FindPackSize(req.PackSizeID) == nil {
		return nil, apperr.Validation("invalid pack size")
	}

	c, err := s.findOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	items, idx, created := applyAdd(c.Items, c.ID, productID, req.PackSizeID, req.Quantity)
	if created {
		if err := s.db.Create(&items[idx]).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	} else {
		err := s.db.Model(&CartItem{}).
			Where("id = ?", items[idx].ID).
			Update("quantity", items[idx].Quantity).Error
		if err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	return buildView(userID, items, s.catalog)
}

// SetItemQuantity overwrites the quantity of an existing (product,
// pack size) line. Fails when no matching line exists.
func (s *Service) SetItemQuantity(userID, productID uint, req *UpdateItemRequest) (*View, error) {
	if req.Quantity < 1 {
		return nil, apperr.Validation("quantity must be at least 1")
	}

	c, err := s.getCart(userID)
	if err != nil {
		return nil, err
	}

	idx := findLine(c.Items, productID, req.PackSizeID)
	if idx < 0 {
		return nil, apperr.NotFound("item not found in cart")
	}

	c.Items[idx].Quantity = req.Quantity
	err = s.db.Model(&CartItem{}).
		Where("id = ?", c.Items[idx].ID).
		Update("quantity", req.Quantity).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return buildView(userID, c.Items, s.catalog)
}

// RemoveItem pulls a line by its own identifier. The cart row persists
// even when its last item is removed.
func (s *Service) RemoveItem(userID, cartItemID uint) (*View, error) {
	c, err := s.getCart(userID)
	if err != nil {
		return nil, err
	}

	result := s.db.Where("id = ? AND cart_id = ?", cartItemID, c.ID).Delete(&CartItem{})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to delete cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("cart item not found")
	}

	remaining := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ID != cartItemID {
			remaining = append(remaining, item)
		}
	}

	return buildView(userID, remaining, s.catalog)
}

// GetCart returns the rendered cart. Fails when no cart row exists for
// the user; an existing cart with zero items renders as an empty list.
func (s *Service) GetCart(userID uint) (*View, error) {
	c, err := s.getCart(userID)
	if err != nil {
		return nil, err
	}
	return buildView(userID, c.Items, s.catalog)
}

// RemovePairs deletes the lines matching the given (product, pack
// size) pairs. Used as the follow-up cleanup after payment creation;
// missing lines are not an error.
func (s *Service) RemovePairs(userID uint, pairs [][2]uint) error {
	var c Cart
	if err := s.db.Where("user_id = ?", userID).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return fmt.Errorf("failed to retrieve cart: %w", err)
	}

	for _, pair := range pairs {
		err := s.db.Where("cart_id = ? AND product_id = ? AND pack_size_id = ?",
			c.ID, pair[0], pair[1]).Delete(&CartItem{}).Error
		if err != nil {
			return fmt.Errorf("failed to remove cart line: %w", err)
		}
	}

	return nil
}

func (s *Service) getCart(userID uint) (*Cart, error) {
	var c Cart
	if err := s.db.Preload("Items").Where("user_id = ?", userID).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("cart not found")
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return &c, nil
}

func (s *Service) findOrCreateCart(userID uint) (*Cart, error) {
	var c Cart
	err := s.db.Preload("Items").Where("user_id = ?", userID).First(&c).Error
	if err == gorm.ErrRecordNotFound {
		c = Cart{UserID: userID}
		if err := s.db.Create(&c).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return &c, nil
}
