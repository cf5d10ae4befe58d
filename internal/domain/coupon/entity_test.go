package coupon

import (
	"testing"
	"time"
)

func TestDiscountFor(t *testing.T) {
	t.Run("percentage capped by max discount", func(t *testing.T) {
		c := Coupon{DiscountType: DiscountTypePercentage, DiscountValue: 50, MaxDiscount: 100}
		if got := c.DiscountFor(1000); got != 100 {
			t.Fatalf("expected 100, got %d", got)
		}
	})

	t.Run("percentage uncapped when max discount unset", func(t *testing.T) {
		c := Coupon{DiscountType: DiscountTypePercentage, DiscountValue: 50}
		if got := c.DiscountFor(1000); got != 500 {
			t.Fatalf("expected 500, got %d", got)
		}
	})

	t.Run("flat used verbatim", func(t *testing.T) {
		c := Coupon{DiscountType: DiscountTypeFlat, DiscountValue: 15}
		if got := c.DiscountFor(151); got != 15 {
			t.Fatalf("expected 15, got %d", got)
		}
	})

	t.Run("never exceeds eligible amount", func(t *testing.T) {
		c := Coupon{DiscountType: DiscountTypeFlat, DiscountValue: 500}
		if got := c.DiscountFor(120); got != 120 {
			t.Fatalf("expected discount clamped to 120, got %d", got)
		}
	})

	t.Run("percentage never exceeds eligible amount", func(t *testing.T) {
		c := Coupon{DiscountType: DiscountTypePercentage, DiscountValue: 100, MaxDiscount: 0}
		if got := c.DiscountFor(80); got != 80 {
			t.Fatalf("expected 80, got %d", got)
		}
	})
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	c := Coupon{ExpiryDate: now.Add(-time.Hour)}
	if !c.IsExpired(now) {
		t.Fatal("expected coupon to be expired")
	}

	c = Coupon{ExpiryDate: now.Add(time.Hour)}
	if c.IsExpired(now) {
		t.Fatal("expected coupon to still be valid")
	}
}
