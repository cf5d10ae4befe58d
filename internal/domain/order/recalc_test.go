// internal/domain/order/recalc_test.go
package order

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/coupon"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

type fakeCatalog struct {
	products map[uint]*catalog.Product
}

func (f *fakeCatalog) ResolveProduct(productID uint) (*catalog.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	return p, nil
}

func (f *fakeCatalog) ResolveUnitPrice(productID, packSizeID uint) (int64, error) {
	p, ok := f.products[productID]
	if !ok {
		return 0, apperr.NotFound("product not found")
	}
	if ps := p.FindPackSize(packSizeID); ps != nil {
		return ps.Price, nil
	}
	return 0, apperr.NotFound("pack size not found")
}

type fakeCoupons struct {
	coupons map[string]*coupon.Coupon
}

func (f *fakeCoupons) FindActiveByCode(code string) (*coupon.Coupon, error) {
	c, ok := f.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, apperr.NotFound("coupon not found")
	}
	return c, nil
}

// Two sellers, two products: seller 10 sells a 500g rice pack at 40,
// seller 20 sells a spice jar at 70.
func testCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[uint]*catalog.Product{
		1: {
			ID:       1,
			SellerID: 10,
			Name:     "Basmati Rice",
			IsActive: true,
			PackSizes: []catalog.PackSize{
				{ID: 11, ProductID: 1, Weight: 500, Unit: "Gram", Price: 40},
			},
		},
		2: {
			ID:       2,
			SellerID: 20,
			Name:     "Garam Masala",
			IsActive: true,
			PackSizes: []catalog.PackSize{
				{ID: 21, ProductID: 2, Weight: 100, Unit: "Gram", Price: 70},
			},
		},
	}}
}

func testOrder() *Order {
	return &Order{
		ID:          1,
		UserID:      7,
		PlatformFee: 1,
		Version:     1,
		Items: []OrderItem{
			{ID: 1, OrderID: 1, ProductID: 1, SellerID: 10, PackSizeID: 11, Quantity: 2, Status: ItemStatusPending},
			{ID: 2, OrderID: 1, ProductID: 2, SellerID: 20, PackSizeID: 21, Quantity: 1, Status: ItemStatusPending},
		},
	}
}

func noCoupons() *fakeCoupons {
	return &fakeCoupons{coupons: map[string]*coupon.Coupon{}}
}

func mustRecalc(t *testing.T, o *Order, cat catalog.PriceCatalog, coupons CouponSource) {
	t.Helper()
	if err := Recalculate(o, cat, coupons); err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
}

func TestRecalculateTotals(t *testing.T) {
	cat := testCatalog()
	o := testOrder()

	mustRecalc(t, o, cat, noCoupons())

	if o.TotalAmount != 151 {
		t.Fatalf("total = %d, want 151", o.TotalAmount)
	}
	if o.FinalAmount != 151 {
		t.Fatalf("final = %d, want 151", o.FinalAmount)
	}
	if o.Status != OrderStatusPending {
		t.Fatalf("status = %s, want pending", o.Status)
	}
}

func TestRecalculateExcludesCancelledItems(t *testing.T) {
	cat := testCatalog()
	o := testOrder()
	o.Items[1].Status = ItemStatusCancelled

	mustRecalc(t, o, cat, noCoupons())

	if o.TotalAmount != 81 {
		t.Fatalf("total = %d, want 81", o.TotalAmount)
	}
	if o.Status != OrderStatusProcessing {
		t.Fatalf("status = %s, want processing", o.Status)
	}
}

func TestRecalculateFollowsCatalogPriceChange(t *testing.T) {
	cat := testCatalog()
	o := testOrder()
	mustRecalc(t, o, cat, noCoupons())

	// Seller edits the pack price; the next recompute must pick it up.
	cat.products[1].PackSizes[0].Price = 50
	mustRecalc(t, o, cat, noCoupons())

	if o.TotalAmount != 171 {
		t.Fatalf("total = %d, want 171", o.TotalAmount)
	}
}

func TestRecalculateSkipsVanishedProducts(t *testing.T) {
	cat := testCatalog()
	o := testOrder()
	delete(cat.products, 2)

	mustRecalc(t, o, cat, noCoupons())

	if o.TotalAmount != 81 {
		t.Fatalf("total = %d, want 81", o.TotalAmount)
	}
}

func TestApplyCouponFlat(t *testing.T) {
	cat := testCatalog()
	coupons := &fakeCoupons{coupons: map[string]*coupon.Coupon{
		"RICE15": {
			Code:          "RICE15",
			SellerID:      10,
			DiscountType:  coupon.DiscountTypeFlat,
			DiscountValue: 15,
			MinOrderValue: 50,
			ExpiryDate:    time.Now().Add(24 * time.Hour),
			IsActive:      true,
		},
	}}

	o := testOrder()
	mustRecalc(t, o, cat, coupons)

	c, _ := coupons.FindActiveByCode("RICE15")
	if err := applyCoupon(o, c, cat, time.Now()); err != nil {
		t.Fatalf("applyCoupon: %v", err)
	}

	if o.AppliedCoupon == nil || *o.AppliedCoupon != "RICE15" {
		t.Fatalf("applied coupon = %v, want RICE15", o.AppliedCoupon)
	}
	if o.Discount != 15 {
		t.Fatalf("discount = %d, want 15", o.Discount)
	}
	if o.FinalAmount != 136 {
		t.Fatalf("final = %d, want 136", o.FinalAmount)
	}

	// Cancelling the other seller's item keeps the coupon valid: the
	// rice lines alone still clear the minimum.
	o.Items[1].Status = ItemStatusCancelled
	mustRecalc(t, o, cat, coupons)

	if o.TotalAmount != 81 {
		t.Fatalf("total = %d, want 81", o.TotalAmount)
	}
	if o.Discount != 15 {
		t.Fatalf("discount = %d, want 15", o.Discount)
	}
	if o.FinalAmount != 66 {
		t.Fatalf("final = %d, want 66", o.FinalAmount)
	}
}

func TestApplyCouponPercentageCap(t *testing.T) {
	cat := testCatalog()
	cat.products[1].PackSizes[0].Price = 500
	coupons := &fakeCoupons{coupons: map[string]*coupon.Coupon{
		"HALF": {
			Code:          "HALF",
			SellerID:      10,
			DiscountType:  coupon.DiscountTypePercentage,
			DiscountValue: 50,
			MaxDiscount:   100,
			ExpiryDate:    time.Now().Add(time.Hour),
			IsActive:      true,
		},
	}}

	o := testOrder()
	mustRecalc(t, o, cat, coupons)

	c, _ := coupons.FindActiveByCode("HALF")
	if err := applyCoupon(o, c, cat, time.Now()); err != nil {
		t.Fatalf("applyCoupon: %v", err)
	}

	// 50% of the eligible 1000 is 500, capped to 100.
	if o.Discount != 100 {
		t.Fatalf("discount = %d, want 100", o.Discount)
	}
}

func TestApplyCouponRejections(t *testing.T) {
	cat := testCatalog()

	t.Run("expired", func(t *testing.T) {
		o := testOrder()
		mustRecalc(t, o, cat, noCoupons())
		c := &coupon.Coupon{
			Code:         "OLD",
			SellerID:     10,
			DiscountType: coupon.DiscountTypeFlat,
			ExpiryDate:   time.Now().Add(-time.Hour),
		}
		err := applyCoupon(o, c, cat, time.Now())
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("no items from seller", func(t *testing.T) {
		o := testOrder()
		mustRecalc(t, o, cat, noCoupons())
		c := &coupon.Coupon{
			Code:         "GHOST",
			SellerID:     99,
			DiscountType: coupon.DiscountTypeFlat,
			ExpiryDate:   time.Now().Add(time.Hour),
		}
		err := applyCoupon(o, c, cat, time.Now())
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("below minimum", func(t *testing.T) {
		o := testOrder()
		mustRecalc(t, o, cat, noCoupons())
		c := &coupon.Coupon{
			Code:          "BIG",
			SellerID:      10,
			DiscountType:  coupon.DiscountTypeFlat,
			DiscountValue: 15,
			MinOrderValue: 5000,
			ExpiryDate:    time.Now().Add(time.Hour),
		}
		err := applyCoupon(o, c, cat, time.Now())
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestRecalculateDetachesCouponBelowMinimum(t *testing.T) {
	cat := testCatalog()
	coupons := &fakeCoupons{coupons: map[string]*coupon.Coupon{
		"RICE15": {
			Code:          "RICE15",
			SellerID:      10,
			DiscountType:  coupon.DiscountTypeFlat,
			DiscountValue: 15,
			MinOrderValue: 100,
			ExpiryDate:    time.Now().Add(time.Hour),
			IsActive:      true,
		},
	}}

	// Three rice packs put seller 10's eligible amount at 120, clearing
	// the 100 minimum.
	o := testOrder()
	o.Items[0].Quantity = 3
	mustRecalc(t, o, cat, coupons)
	c, _ := coupons.FindActiveByCode("RICE15")
	if err := applyCoupon(o, c, cat, time.Now()); err != nil {
		t.Fatalf("applyCoupon: %v", err)
	}

	// Cancelling the spice item and dropping to two packs pulls the
	// total to 81, under the 100 minimum, so the coupon must detach
	// and the discount zero out.
	o.Items[0].Quantity = 2
	o.Items[1].Status = ItemStatusCancelled
	mustRecalc(t, o, cat, coupons)

	if o.AppliedCoupon != nil {
		t.Fatalf("coupon should have detached, still %v", *o.AppliedCoupon)
	}
	if o.Discount != 0 {
		t.Fatalf("discount = %d, want 0", o.Discount)
	}
	if o.FinalAmount != 81 {
		t.Fatalf("final = %d, want 81", o.FinalAmount)
	}
}

func TestRecalculateDetachesDeletedCoupon(t *testing.T) {
	cat := testCatalog()
	coupons := &fakeCoupons{coupons: map[string]*coupon.Coupon{
		"RICE15": {
			Code:          "RICE15",
			SellerID:      10,
			DiscountType:  coupon.DiscountTypeFlat,
			DiscountValue: 15,
			MinOrderValue: 50,
			ExpiryDate:    time.Now().Add(time.Hour),
			IsActive:      true,
		},
	}}

	o := testOrder()
	mustRecalc(t, o, cat, coupons)
	c, _ := coupons.FindActiveByCode("RICE15")
	if err := applyCoupon(o, c, cat, time.Now()); err != nil {
		t.Fatalf("applyCoupon: %v", err)
	}

	delete(coupons.coupons, "RICE15")
	mustRecalc(t, o, cat, coupons)

	if o.AppliedCoupon != nil {
		t.Fatal("coupon should have detached after removal")
	}
	if o.FinalAmount != o.TotalAmount {
		t.Fatalf("final = %d, want %d", o.FinalAmount, o.TotalAmount)
	}
}

func TestRecalculateDetachesCouponWhenSellerItemsCancelled(t *testing.T) {
	cat := testCatalog()
	coupons := &fakeCoupons{coupons: map[string]*coupon.Coupon{
		"SPICE": {
			Code:          "SPICE",
			SellerID:      20,
			DiscountType:  coupon.DiscountTypeFlat,
			DiscountValue: 10,
			ExpiryDate:    time.Now().Add(time.Hour),
			IsActive:      true,
		},
	}}

	o := testOrder()
	mustRecalc(t, o, cat, coupons)
	c, _ := coupons.FindActiveByCode("SPICE")
	if err := applyCoupon(o, c, cat, time.Now()); err != nil {
		t.Fatalf("applyCoupon: %v", err)
	}

	o.Items[1].Status = ItemStatusCancelled
	mustRecalc(t, o, cat, coupons)

	if o.AppliedCoupon != nil {
		t.Fatal("coupon should have detached with no eligible items left")
	}
	if o.Discount != 0 {
		t.Fatalf("discount = %d, want 0", o.Discount)
	}
}
