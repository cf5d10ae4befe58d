// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// Cart is owned 1:1 by a user. An empty-items cart is a valid
// persisted state, distinct from "no cart row exists".
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// CartItem is one (product, pack size) line. Duplicates are merged by
// quantity summation, never left as separate rows. No price is stored;
// pricing is resolved live at read/checkout time.
type CartItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CartID     uint      `gorm:"not null;index;uniqueIndex:idx_cart_product_pack" json:"cart_id"`
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_cart_product_pack" json:"product_id"`
	PackSizeID uint      `gorm:"not null;uniqueIndex:idx_cart_product_pack" json:"pack_size_id"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// findLine returns the index of the line matching (productID,
// packSizeID), or -1.
func findLine(items []CartItem, productID, packSizeID uint) int {
	for i := range items {
		if items[i].ProductID == productID && items[i].PackSizeID == packSizeID {
			return i
		}
	}
	return -1
}

// applyAdd merges an add into the item list: an existing (product,
// pack) line has its quantity incremented, otherwise a new line is
// appended. Returns the updated slice, the affected line's index and
// whether a new line was created.
func applyAdd(items []CartItem, cartID, productID, packSizeID uint, quantity int) ([]CartItem, int, bool) {
	if idx := findLine(items, productID, packSizeID); idx >= 0 {
		items[idx].Quantity += quantity
		return items, idx, false
	}

	items = append(items, CartItem{
		CartID:     cartID,
		ProductID:  productID,
		PackSizeID: packSizeID,
		Quantity:   quantity,
	})
	return items, len(items) - 1, true
}
