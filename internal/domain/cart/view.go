// internal/domain/cart/view.go
package cart

import (
	"errors"

	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

// ItemView is a cart line with its product narrowed to the single
// selected pack-size variant and the live-resolved unit price.
// UnitPrice is nil when the product no longer resolves; such lines are
// retained in the list but excluded from the total.
type ItemView struct {
	ID         uint             `json:"id"`
	ProductID  uint             `json:"product_id"`
	PackSizeID uint             `json:"pack_size_id"`
	Quantity   int              `json:"quantity"`
	Product    *catalog.Product `json:"product,omitempty"`
	UnitPrice  *int64           `json:"unit_price,omitempty"`
	LineTotal  int64            `json:"line_total"`
}

// View is the rendered cart: items plus a display-time total computed
// from current catalog prices.
type View struct {
	UserID      uint       `json:"user_id"`
	Items       []ItemView `json:"items"`
	TotalAmount int64      `json:"total_amount"`
}

// buildView renders cart items against the current catalog. Lines
// whose product or pack size no longer resolves keep their row but
// contribute nothing to the total.
func buildView(userID uint, items []CartItem, cat catalog.PriceCatalog) (*View, error) {
	view := &View{
		UserID: userID,
		Items:  make([]ItemView, 0, len(items)),
	}

	for _, item := range items {
		iv := ItemView{
			ID:         item.ID,
			ProductID:  item.ProductID,
			PackSizeID: item.PackSizeID,
			Quantity:   item.Quantity,
		}

		product, err := cat.ResolveProduct(item.ProductID)
		switch {
		case err == nil:
			narrowed := product.WithPackSize(item.PackSizeID)
			iv.Product = &narrowed
			if ps := product.FindPackSize(item.PackSizeID); ps != nil {
				price := ps.Price
				iv.UnitPrice = &price
				iv.LineTotal = price * int64(item.Quantity)
				view.TotalAmount += iv.LineTotal
			}
		case errors.Is(err, apperr.ErrNotFound):
			// Product was deleted after the line was added; keep the
			// line, skip it in the total.
		default:
			return nil, err
		}

		view.Items = append(view.Items, iv)
	}

	return view, nil
}
