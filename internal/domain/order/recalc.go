// internal/domain/order/recalc.go
package order

import (
	"errors"
	"time"

	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/coupon"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

// CouponSource looks up active coupons for recalculation. Implemented
// by the coupon service.
type CouponSource interface {
	FindActiveByCode(code string) (*coupon.Coupon, error)
}

// resolveItemPrices re-resolves the unit price of every item from the
// current catalog. Items whose product or pack size no longer exists
// are left out of the map and contribute nothing to any total.
func resolveItemPrices(items []OrderItem, cat catalog.PriceCatalog) (map[uint]int64, error) {
	prices := make(map[uint]int64, len(items))
	for _, item := range items {
		price, err := cat.ResolveUnitPrice(item.ProductID, item.PackSizeID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		prices[item.ID] = price
	}
	return prices, nil
}

// Recalculate recomputes TotalAmount, Discount, FinalAmount and the
// derived Status strictly from the order's current non-cancelled
// items, re-resolved prices and the platform fee. Must run after every
// mutation; the stored amounts are never allowed to go stale.
//
// An applied coupon is revalidated along the way: it detaches (code
// cleared, discount zeroed) when it no longer resolves, when the
// recomputed total falls below its minimum order value, or when no
// eligible items from its seller remain.
func Recalculate(o *Order, cat catalog.PriceCatalog, coupons CouponSource) error {
	prices, err := resolveItemPrices(o.Items, cat)
	if err != nil {
		return err
	}

	total := o.PlatformFee
	for _, item := range o.Items {
		if item.Status == ItemStatusCancelled {
			continue
		}
		if price, ok := prices[item.ID]; ok {
			total += price * int64(item.Quantity)
		}
	}
	o.TotalAmount = total

	o.Discount = 0
	if o.AppliedCoupon != nil {
		c, err := coupons.FindActiveByCode(*o.AppliedCoupon)
		switch {
		case err != nil && errors.Is(err, apperr.ErrNotFound):
			o.AppliedCoupon = nil
		case err != nil:
			return err
		default:
			eligible := o.EligibleAmount(c.SellerID, prices)
			if eligible == 0 || o.TotalAmount < c.MinOrderValue {
				o.AppliedCoupon = nil
			} else {
				o.Discount = c.DiscountFor(eligible)
			}
		}
	}

	if o.Discount > o.TotalAmount {
		o.Discount = o.TotalAmount
	}
	o.FinalAmount = o.TotalAmount - o.Discount
	o.Status = DeriveOrderStatus(o.Items)

	return nil
}

// applyCoupon validates a coupon against the order and sets the
// discount fields. The caller must have recalculated the order first
// so TotalAmount is current.
func applyCoupon(o *Order, c *coupon.Coupon, cat catalog.PriceCatalog, now time.Time) error {
	if c.IsExpired(now) {
		return apperr.Validation("coupon has expired")
	}

	prices, err := resolveItemPrices(o.Items, cat)
	if err != nil {
		return err
	}

	eligible := o.EligibleAmount(c.SellerID, prices)
	if eligible == 0 {
		return apperr.Validation("no items from this seller in the order")
	}
	if eligible < c.MinOrderValue {
		return apperr.Validation("order amount below coupon minimum of %d", c.MinOrderValue)
	}

	code := c.Code
	o.AppliedCoupon = &code
	o.Discount = c.DiscountFor(eligible)
	if o.Discount > o.TotalAmount {
		o.Discount = o.TotalAmount
	}
	o.FinalAmount = o.TotalAmount - o.Discount

	return nil
}
