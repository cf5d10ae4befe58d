// internal/domain/coupon/entity.go
package coupon

import (
	"time"

	"gorm.io/gorm"
)

// DiscountType distinguishes percentage coupons from flat-amount ones
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFlat       DiscountType = "flat"
)

// Coupon is owned by a seller and applies only to that seller's items
// within a mixed-seller order. Expiry is evaluated at application
// time; expired coupons are never eagerly deactivated.
type Coupon struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Code          string         `gorm:"uniqueIndex;not null;size:50" json:"code"` // Stored uppercase
	SellerID      uint           `gorm:"not null;index" json:"seller_id"`
	DiscountType  DiscountType   `gorm:"not null;size:20" json:"discount_type"`
	DiscountValue int64          `gorm:"not null" json:"discount_value"`
	MinOrderValue int64          `gorm:"default:0" json:"min_order_value"`
	MaxDiscount   int64          `gorm:"default:0" json:"max_discount"` // Cap, percentage type only; 0 = uncapped
	ExpiryDate    time.Time      `json:"expiry_date"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Coupon) TableName() string { return "coupons" }

// IsExpired reports whether the coupon has passed its expiry date
func (c *Coupon) IsExpired(now time.Time) bool {
	return c.ExpiryDate.Before(now)
}

// DiscountFor computes the discount for an eligible amount. Percentage
// coupons are capped by MaxDiscount when set; no coupon ever discounts
// more than the amount it applies to.
func (c *Coupon) DiscountFor(eligibleAmount int64) int64 {
	var discount int64

	switch c.DiscountType {
	case DiscountTypePercentage:
		discount = eligibleAmount * c.DiscountValue / 100
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	case DiscountTypeFlat:
		discount = c.DiscountValue
	}

	if discount > eligibleAmount {
		discount = eligibleAmount
	}
	if discount < 0 {
		discount = 0
	}

	return discount
}
