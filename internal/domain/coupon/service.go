// internal/domain/coupon/service.go
package coupon

import (
	"fmt"
	"strings"
	"time"

	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Service handles coupon business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new coupon service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateCouponRequest represents coupon creation data
type CreateCouponRequest struct {
	Code          string       `json:"code" binding:"required"`
	DiscountType  DiscountType `json:"discount_type" binding:"required"`
	DiscountValue int64        `json:"discount_value" binding:"required,min=1"`
	MinOrderValue int64        `json:"min_order_value"`
	MaxDiscount   int64        `json:"max_discount"`
	ExpiryDate    time.Time    `json:"expiry_date" binding:"required"`
}

// UpdateCouponRequest represents a partial coupon update. Only the
// enumerated fields may change; nil leaves a field untouched.
type UpdateCouponRequest struct {
	DiscountType  *DiscountType `json:"discount_type"`
	DiscountValue *int64        `json:"discount_value"`
	MinOrderValue *int64        `json:"min_order_value"`
	MaxDiscount   *int64        `json:"max_discount"`
	ExpiryDate    *time.Time    `json:"expiry_date"`
	IsActive      *bool         `json:"is_active"`
}

// Create creates a coupon for a seller. Codes are stored uppercase and
// must be unique.
func (s *Service) Create(sellerID uint, req *CreateCouponRequest) (*Coupon, error) {
	if req.DiscountType != DiscountTypePercentage && req.DiscountType != DiscountTypeFlat {
		return nil, apperr.Validation("discount_type must be percentage or flat")
	}
	if req.DiscountType == DiscountTypePercentage && req.DiscountValue > 100 {
		return nil, apperr.Validation("percentage discount cannot exceed 100")
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, apperr.Validation("coupon code is required")
	}

	var existing Coupon
	if err := s.db.Where("code = ?", code).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("coupon code already exists")
	}

	c := Coupon{
		Code:          code,
		SellerID:      sellerID,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		ExpiryDate:    req.ExpiryDate,
		IsActive:      true,
	}

	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	return &c, nil
}

// Update patches a seller's own coupon through the allow-listed fields
func (s *Service) Update(sellerID, couponID uint, req *UpdateCouponRequest) (*Coupon, error) {
	c, err := s.getOwned(sellerID, couponID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.DiscountType != nil {
		if *req.DiscountType != DiscountTypePercentage && *req.DiscountType != DiscountTypeFlat {
			return nil, apperr.Validation("discount_type must be percentage or flat")
		}
		updates["discount_type"] = *req.DiscountType
	}
	if req.DiscountValue != nil {
		if *req.DiscountValue < 1 {
			return nil, apperr.Validation("discount_value must be at least 1")
		}
		updates["discount_value"] = *req.DiscountValue
	}
	if req.MinOrderValue != nil {
		updates["min_order_value"] = *req.MinOrderValue
	}
	if req.MaxDiscount != nil {
		updates["max_discount"] = *req.MaxDiscount
	}
	if req.ExpiryDate != nil {
		updates["expiry_date"] = *req.ExpiryDate
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(c).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update coupon: %w", err)
		}
	}

	return c, nil
}

// Delete removes a seller's own coupon
func (s *Service) Delete(sellerID, couponID uint) error {
	c, err := s.getOwned(sellerID, couponID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(c).Error; err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	return nil
}

// ListBySeller returns a seller's coupons
func (s *Service) ListBySeller(sellerID uint) ([]Coupon, error) {
	var coupons []Coupon
	if err := s.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve coupons: %w", err)
	}
	return coupons, nil
}

// Get returns one coupon by id (read-only to customers)
func (s *Service) Get(couponID uint) (*Coupon, error) {
	var c Coupon
	if err := s.db.First(&c, couponID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("coupon not found")
		}
		return nil, fmt.Errorf("failed to retrieve coupon: %w", err)
	}
	return &c, nil
}

// FindActiveByCode looks up an active coupon by code,
// case-insensitively.
func (s *Service) FindActiveByCode(code string) (*Coupon, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	var c Coupon
	err := s.db.Where("code = ? AND is_active = ?", normalized, true).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("coupon not found")
		}
		return nil, fmt.Errorf("failed to retrieve coupon: %w", err)
	}

	return &c, nil
}

func (s *Service) getOwned(sellerID, couponID uint) (*Coupon, error) {
	var c Coupon
	if err := s.db.First(&c, couponID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("coupon not found")
		}
		return nil, fmt.Errorf("failed to retrieve coupon: %w", err)
	}
	if c.SellerID != sellerID {
		return nil, apperr.Forbidden("coupon belongs to another seller")
	}
	return &c, nil
}
