// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

// ItemStatus is the per-item delivery lifecycle. delivered and
// cancelled are terminal; cancelled is reachable from any non-terminal
// state.
type ItemStatus string

const (
	ItemStatusPending        ItemStatus = "pending"
	ItemStatusPacking        ItemStatus = "packing"
	ItemStatusOutForDelivery ItemStatus = "out_for_delivery"
	ItemStatusDelivered      ItemStatus = "delivered"
	ItemStatusCancelled      ItemStatus = "cancelled"
)

// OrderStatus is derived purely from the set of item statuses and is
// never stored independently of them.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order is created at first checkout and mutated thereafter. The
// delivery address is a denormalized copy of the user's selected
// address at build time, not a live reference. Version guards every
// read-modify-write with a compare-and-swap.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"not null;index" json:"user_id"`
	DeliveryAddress Address     `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery_address"`
	TotalAmount     int64       `gorm:"not null;default:0" json:"total_amount"`
	PlatformFee     int64       `gorm:"not null;default:0" json:"platform_fee"`
	Discount        int64       `gorm:"not null;default:0" json:"discount"`
	FinalAmount     int64       `gorm:"not null;default:0" json:"final_amount"`
	AppliedCoupon   *string     `gorm:"size:50" json:"applied_coupon"`
	Status          OrderStatus `gorm:"not null;size:20;default:'pending'" json:"status"`
	ReasonForCancel string      `gorm:"size:500" json:"reason_for_cancel"`
	Comment         string      `gorm:"size:500" json:"comment"`
	Version         int64       `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem attributes one line to its owning seller. SellerID is
// captured from the product at order-build time and never re-resolved.
type OrderItem struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	OrderID         uint       `gorm:"not null;index" json:"order_id"`
	ProductID       uint       `gorm:"not null;index" json:"product_id"`
	SellerID        uint       `gorm:"not null;index" json:"seller_id"`
	PackSizeID      uint       `gorm:"not null" json:"pack_size_id"`
	Quantity        int        `gorm:"not null" json:"quantity"`
	Status          ItemStatus `gorm:"not null;size:20;default:'pending'" json:"status"`
	ReasonForCancel string     `gorm:"size:500" json:"reason_for_cancel"`
	Comment         string     `gorm:"size:500" json:"comment"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Address is the denormalized delivery address embedded in an order
type Address struct {
	FirstName    string `gorm:"size:100" json:"first_name"`
	LastName     string `gorm:"size:100" json:"last_name"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	PostalCode   string `gorm:"size:20" json:"postal_code"`
	Country      string `gorm:"size:2" json:"country"`
	Phone        string `gorm:"size:20" json:"phone"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// SnapshotAddress copies a user address into the order's embedded form
func SnapshotAddress(a *user.Address) Address {
	return Address{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
		Phone:        a.Phone,
	}
}

var itemStatusRank = map[ItemStatus]int{
	ItemStatusPending:        0,
	ItemStatusPacking:        1,
	ItemStatusOutForDelivery: 2,
	ItemStatusDelivered:      3,
}

// ParseItemStatus validates a status value from a request
func ParseItemStatus(value string) (ItemStatus, error) {
	switch ItemStatus(value) {
	case ItemStatusPending, ItemStatusPacking, ItemStatusOutForDelivery,
		ItemStatusDelivered, ItemStatusCancelled:
		return ItemStatus(value), nil
	}
	return "", apperr.Validation("invalid item status: %s", value)
}

// IsTerminal reports whether no further transition is accepted
func (s ItemStatus) IsTerminal() bool {
	return s == ItemStatusDelivered || s == ItemStatusCancelled
}

// CanTransitionTo reports whether the move from s to next is legal.
// The delivery chain only moves forward; cancelled is reachable from
// any non-terminal state; terminal states accept nothing.
func (s ItemStatus) CanTransitionTo(next ItemStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == ItemStatusCancelled {
		return true
	}
	fromRank, ok := itemStatusRank[s]
	if !ok {
		return false
	}
	toRank, ok := itemStatusRank[next]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// DeriveOrderStatus computes the aggregate order status from the item
// statuses: completed iff every item is delivered, cancelled iff every
// item is cancelled, pending iff every item is still pending,
// processing otherwise.
func DeriveOrderStatus(items []OrderItem) OrderStatus {
	if len(items) == 0 {
		return OrderStatusPending
	}

	allDelivered, allCancelled, allPending := true, true, true
	for _, item := range items {
		if item.Status != ItemStatusDelivered {
			allDelivered = false
		}
		if item.Status != ItemStatusCancelled {
			allCancelled = false
		}
		if item.Status != ItemStatusPending {
			allPending = false
		}
	}

	switch {
	case allDelivered:
		return OrderStatusCompleted
	case allCancelled:
		return OrderStatusCancelled
	case allPending:
		return OrderStatusPending
	default:
		return OrderStatusProcessing
	}
}

// IsOpen reports whether the order still has at least one item outside
// a terminal status.
func (o *Order) IsOpen() bool {
	for _, item := range o.Items {
		if !item.Status.IsTerminal() {
			return true
		}
	}
	return false
}

// AllItemsDelivered reports whether every item has been delivered.
// Repeat checkouts append to an existing order unless this holds.
func (o *Order) AllItemsDelivered() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if item.Status != ItemStatusDelivered {
			return false
		}
	}
	return true
}

// FindItem returns the item with the given id, or nil
func (o *Order) FindItem(itemID uint) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// EligibleAmount is the subtotal restricted to a seller's
// non-cancelled items, used as a coupon's discount base.
func (o *Order) EligibleAmount(sellerID uint, prices map[uint]int64) int64 {
	var eligible int64
	for _, item := range o.Items {
		if item.SellerID != sellerID || item.Status == ItemStatusCancelled {
			continue
		}
		if price, ok := prices[item.ID]; ok {
			eligible += price * int64(item.Quantity)
		}
	}
	return eligible
}
