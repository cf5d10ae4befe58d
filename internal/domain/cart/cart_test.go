package cart

import (
	"testing"

	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

// fakeCatalog resolves products from an in-memory map.
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
	p, err := f.ResolveProduct(productID)
	if err != nil {
		return 0, err
	}
	ps := p.FindPackSize(packSizeID)
	if ps == nil {
		return 0, apperr.NotFound("pack size not found for this product")
	}
	return ps.Price, nil
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[uint]*catalog.Product{
		1: {
			ID:       1,
			SellerID: 10,
			Name:     "Almonds",
			PackSizes: []catalog.PackSize{
				{ID: 11, ProductID: 1, Weight: 500, Unit: "Gram", Price: 40},
				{ID: 12, ProductID: 1, Weight: 1, Unit: "KG", Price: 75},
			},
		},
		2: {
			ID:       2,
			SellerID: 20,
			Name:     "Cashews",
			PackSizes: []catalog.PackSize{
				{ID: 21, ProductID: 2, Weight: 250, Unit: "Gram", Price: 70},
			},
		},
	}}
}

func TestApplyAddMergesDuplicateLines(t *testing.T) {
	var items []CartItem

	items, _, created := applyAdd(items, 1, 1, 11, 2)
	if !created {
		t.Fatal("expected first add to create a line")
	}

	items, idx, created := applyAdd(items, 1, 1, 11, 2)
	if created {
		t.Fatal("expected second add to merge into the existing line")
	}
	if len(items) != 1 {
		t.Fatalf("expected exactly one line, got %d", len(items))
	}
	if items[idx].Quantity != 4 {
		t.Fatalf("expected merged quantity 4, got %d", items[idx].Quantity)
	}
}

func TestApplyAddKeepsDistinctPackSizesSeparate(t *testing.T) {
	var items []CartItem
	items, _, _ = applyAdd(items, 1, 1, 11, 1)
	items, _, created := applyAdd(items, 1, 1, 12, 1)
	if !created || len(items) != 2 {
		t.Fatalf("expected a second line for a different pack size, got %d lines", len(items))
	}
}

func TestBuildViewTotals(t *testing.T) {
	cat := newFakeCatalog()
	items := []CartItem{
		{ID: 1, CartID: 1, ProductID: 1, PackSizeID: 11, Quantity: 2}, // 2 x 40
		{ID: 2, CartID: 1, ProductID: 2, PackSizeID: 21, Quantity: 1}, // 1 x 70
	}

	view, err := buildView(5, items, cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.TotalAmount != 150 {
		t.Fatalf("expected total 150, got %d", view.TotalAmount)
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(view.Items))
	}

	t.Run("only the selected variant is expanded", func(t *testing.T) {
		if got := len(view.Items[0].Product.PackSizes); got != 1 {
			t.Fatalf("expected 1 pack size on the rendered product, got %d", got)
		}
		if view.Items[0].Product.PackSizes[0].ID != 11 {
			t.Fatalf("wrong variant expanded: %d", view.Items[0].Product.PackSizes[0].ID)
		}
	})
}

func TestBuildViewRetainsUnresolvableLines(t *testing.T) {
	cat := newFakeCatalog()
	items := []CartItem{
		{ID: 1, CartID: 1, ProductID: 1, PackSizeID: 11, Quantity: 2}, // 80
		{ID: 2, CartID: 1, ProductID: 99, PackSizeID: 1, Quantity: 3}, // deleted product
	}

	view, err := buildView(5, items, cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected deleted-product line to be retained, got %d items", len(view.Items))
	}
	if view.Items[1].UnitPrice != nil {
		t.Fatal("expected nil unit price on unresolvable line")
	}
	if view.TotalAmount != 80 {
		t.Fatalf("expected unresolvable line excluded from total, got %d", view.TotalAmount)
	}
}
