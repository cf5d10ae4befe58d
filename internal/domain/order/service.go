// internal/domain/order/service.go
package order

import (
	"fmt"
	"time"

	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Service handles order business logic
type Service struct {
	db      *gorm.DB
	config  *config.Config
	catalog catalog.PriceCatalog
	coupons CouponSource
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, cat catalog.PriceCatalog, coupons CouponSource) *Service {
	return &Service{
		db:      db,
		config:  cfg,
		catalog: cat,
		coupons: coupons,
	}
}

// PlaceOrderItem is one requested line at checkout
type PlaceOrderItem struct {
	ProductID  uint `json:"product_id" binding:"required"`
	PackSizeID uint `json:"pack_size_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderRequest represents order placement data
type PlaceOrderRequest struct {
	Items []PlaceOrderItem `json:"items" binding:"required,min=1,dive"`
}

// ItemPatch is one allow-listed partial update for an order item.
// Fields left nil stay untouched; item ids not present in the order
// are silently ignored.
type ItemPatch struct {
	ItemID          uint    `json:"item_id" binding:"required"`
	Quantity        *int    `json:"quantity"`
	Status          *string `json:"status"`
	Comment         *string `json:"comment"`
	ReasonForCancel *string `json:"reason_for_cancel"`
}

// UpdateOrderRequest represents a customer's order update
type UpdateOrderRequest struct {
	Items   []ItemPatch `json:"items" binding:"required,min=1,dive"`
	Comment string      `json:"comment"`
}

// UpdateStatusRequest represents a seller's status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelRequest carries the mandatory cancellation reason
type CancelRequest struct {
	Reason  string `json:"reason" binding:"required"`
	Comment string `json:"comment"`
}

// PlaceOrder turns a validated item list plus the user's selected
// delivery address into an order. Seller attribution and pricing are
// resolved all-or-nothing: a single missing product aborts the whole
// call. When the user already has an order whose items are not all
// delivered, the new items are appended to it instead of a new order
// being created.
func (s *Service) PlaceOrder(userID uint, deliveryAddress *user.Address, req *PlaceOrderRequest) (*Order, error) {
	newItems := make([]OrderItem, 0, len(req.Items))
	for i, line := range req.Items {
		if line.Quantity < 1 {
			return nil, apperr.Validation("quantity must be at least 1 at index %d", i)
		}

		product, err := s.catalog.ResolveProduct(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.FindPackSize(line.PackSizeID) == nil {
			return nil, apperr.NotFound("pack size not found for product at index %d", i)
		}

		newItems = append(newItems, OrderItem{
			ProductID:  line.ProductID,
			SellerID:   product.SellerID,
			PackSizeID: line.PackSizeID,
			Quantity:   line.Quantity,
			Status:     ItemStatusPending,
		})
	}

	var existing Order
	err := s.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up existing order: %w", err)
	}

	if err == nil && !existing.AllItemsDelivered() {
		return s.appendToOrder(&existing, newItems)
	}

	o := Order{
		UserID:          userID,
		DeliveryAddress: SnapshotAddress(deliveryAddress),
		PlatformFee:     s.config.Order.PlatformFee,
		Status:          OrderStatusPending,
		Version:         1,
		Items:           newItems,
	}

	tx := s.db.Begin()
	if err := tx.Create(&o).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := Recalculate(&o, s.catalog, s.coupons); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.saveOrderCAS(tx, &o); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return s.GetOrder(userID, o.ID)
}

func (s *Service) appendToOrder(o *Order, newItems []OrderItem) (*Order, error) {
	tx := s.db.Begin()
	for i := range newItems {
		newItems[i].OrderID = o.ID
		if err := tx.Create(&newItems[i]).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to append order item: %w", err)
		}
	}
	o.Items = append(o.Items, newItems...)

	if err := Recalculate(o, s.catalog, s.coupons); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.saveOrderCAS(tx, o); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return s.GetOrder(o.UserID, o.ID)
}

// GetMyOrders retrieves all orders of a user
func (s *Service) GetMyOrders(userID uint) ([]Order, error) {
	var orders []Order
	err := s.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// GetOrder retrieves a single order scoped to its owner
func (s *Service) GetOrder(userID, orderID uint) (*Order, error) {
	var o Order
	err := s.db.Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("order not found for this user")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}

// UpdateOrder patches only matching existing item ids through the
// allow-list (quantity, status, comment, cancel reason); unknown ids
// are silently ignored. Totals are recomputed and the applied coupon
// revalidated afterwards.
func (s *Service) UpdateOrder(userID, orderID uint, req *UpdateOrderRequest) (*Order, error) {
	o, err := s.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}

	touched := make(map[uint]bool)
	for _, patch := range req.Items {
		item := o.FindItem(patch.ItemID)
		if item == nil {
			continue // no upsert
		}

		if patch.Quantity != nil {
			if *patch.Quantity < 1 {
				return nil, apperr.Validation("quantity must be at least 1")
			}
			item.Quantity = *patch.Quantity
		}
		if patch.Status != nil {
			next, err := ParseItemStatus(*patch.Status)
			if err != nil {
				return nil, err
			}
			if next != item.Status {
				if !item.Status.CanTransitionTo(next) {
					return nil, apperr.Validation("cannot move item from %s to %s", item.Status, next)
				}
				item.Status = next
			}
		}
		if patch.Comment != nil {
			item.Comment = *patch.Comment
		}
		if patch.ReasonForCancel != nil {
			item.ReasonForCancel = *patch.ReasonForCancel
		}
		touched[item.ID] = true
	}

	if req.Comment != "" {
		o.Comment = req.Comment
	}

	if err := Recalculate(o, s.catalog, s.coupons); err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	for i := range o.Items {
		if touched[o.Items[i].ID] {
			if err := tx.Save(&o.Items[i]).Error; err != nil {
				tx.Rollback()
				return nil, fmt.Errorf("failed to update order item: %w", err)
			}
		}
	}
	if err := s.saveOrderCAS(tx, o); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order update: %w", err)
	}

	return o, nil
}

// UpdateItemStatus transitions one item under seller action. Sellers
// may only touch items they own; terminal items reject any change.
func (s *Service) UpdateItemStatus(sellerID, itemID uint, status string) (*Order, error) {
	next, err := ParseItemStatus(status)
	if err != nil {
		return nil, err
	}

	o, item, err := s.getOrderByItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.SellerID != sellerID {
		return nil, apperr.Forbidden("item belongs to another seller")
	}
	if item.Status.IsTerminal() {
		return nil, apperr.Validation("item is already %s and cannot change", item.Status)
	}
	if !item.Status.CanTransitionTo(next) {
		return nil, apperr.Validation("cannot move item from %s to %s", item.Status, next)
	}

	item.Status = next
	return s.persistItemChange(o, item)
}

// UpdateOrderItemsStatus applies the new status to all of the caller
// seller's non-terminal items in the order in one call. Items already
// delivered or cancelled are skipped, as are items the transition
// rules reject.
func (s *Service) UpdateOrderItemsStatus(sellerID, orderID uint, status string) (*Order, error) {
	next, err := ParseItemStatus(status)
	if err != nil {
		return nil, err
	}

	var o Order
	if err := s.db.Preload("Items").First(&o, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("order not found")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	owned := false
	changed := make([]*OrderItem, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		if item.SellerID != sellerID {
			continue
		}
		owned = true
		if item.Status.IsTerminal() || !item.Status.CanTransitionTo(next) {
			continue
		}
		item.Status = next
		changed = append(changed, item)
	}

	if !owned {
		return nil, apperr.Forbidden("no items from this seller in the order")
	}
	if len(changed) == 0 {
		return &o, nil
	}

	return s.persistItemChanges(&o, changed)
}

// CancelItem cancels a single item on behalf of the customer. A
// non-empty reason is mandatory; delivered items cannot be cancelled
// and an already-cancelled item is a conflict.
func (s *Service) CancelItem(userID, itemID uint, req *CancelRequest) (*Order, error) {
	if req.Reason == "" {
		return nil, apperr.Validation("cancellation reason is required")
	}

	o, item, err := s.getOrderByItem(itemID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, apperr.NotFound("order not found for this user")
	}
	if item.Status == ItemStatusDelivered {
		return nil, apperr.Validation("delivered items cannot be cancelled")
	}
	if item.Status == ItemStatusCancelled {
		return nil, apperr.Conflict("item is already cancelled")
	}

	item.Status = ItemStatusCancelled
	item.ReasonForCancel = req.Reason
	if req.Comment != "" {
		item.Comment = req.Comment
	}

	return s.persistItemChange(o, item)
}

// CancelOrder cancels every non-delivered item of the order on behalf
// of the customer. Delivered items keep their status; the order status
// is re-derived from whatever remains.
func (s *Service) CancelOrder(userID, orderID uint, req *CancelRequest) (*Order, error) {
	if req.Reason == "" {
		return nil, apperr.Validation("cancellation reason is required")
	}

	o, err := s.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}

	changed := make([]*OrderItem, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		if item.Status == ItemStatusDelivered || item.Status == ItemStatusCancelled {
			continue
		}
		item.Status = ItemStatusCancelled
		item.ReasonForCancel = req.Reason
		changed = append(changed, item)
	}

	if len(changed) == 0 {
		return nil, apperr.Conflict("order has no cancellable items")
	}

	o.ReasonForCancel = req.Reason
	if req.Comment != "" {
		o.Comment = req.Comment
	}

	return s.persistItemChanges(o, changed)
}

// DeleteItem hard-removes one item from the order. Removing the last
// item hard-deletes the whole order; otherwise totals and coupon are
// recomputed. Returns nil when the order was deleted.
func (s *Service) DeleteItem(userID, itemID uint) (*Order, error) {
	o, item, err := s.getOrderByItem(itemID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, apperr.NotFound("order not found for this user")
	}

	tx := s.db.Begin()
	if err := tx.Delete(&OrderItem{}, item.ID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to delete order item: %w", err)
	}

	remaining := make([]OrderItem, 0, len(o.Items)-1)
	for _, it := range o.Items {
		if it.ID != item.ID {
			remaining = append(remaining, it)
		}
	}
	o.Items = remaining

	if len(o.Items) == 0 {
		if err := tx.Delete(&Order{}, o.ID).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to delete order: %w", err)
		}
		if err := tx.Commit().Error; err != nil {
			return nil, fmt.Errorf("failed to commit order deletion: %w", err)
		}
		return nil, nil
	}

	if err := Recalculate(o, s.catalog, s.coupons); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.saveOrderCAS(tx, o); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit item deletion: %w", err)
	}

	return o, nil
}

// GetSellerOrdersByStatus returns orders containing at least one of
// the seller's items in the given status.
func (s *Service) GetSellerOrdersByStatus(sellerID uint, status string) ([]Order, error) {
	st, err := ParseItemStatus(status)
	if err != nil {
		return nil, err
	}

	var orders []Order
	err = s.db.Preload("Items").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("order_items.seller_id = ? AND order_items.status = ?", sellerID, st).
		Distinct("orders.*").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return orders, nil
}

// ApplyCoupon validates and attaches a coupon to the order. Applying a
// new coupon replaces any previously applied one.
func (s *Service) ApplyCoupon(userID, orderID uint, code string) (*Order, error) {
	if code == "" {
		return nil, apperr.Validation("coupon code is required")
	}

	o, err := s.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}

	c, err := s.coupons.FindActiveByCode(code)
	if err != nil {
		return nil, err
	}

	// Refresh the total before validating minimums, with any previous
	// coupon dropped.
	o.AppliedCoupon = nil
	if err := Recalculate(o, s.catalog, s.coupons); err != nil {
		return nil, err
	}

	if err := applyCoupon(o, c, s.catalog, time.Now().UTC()); err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	if err := s.saveOrderCAS(tx, o); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit coupon application: %w", err)
	}

	return o, nil
}

// Private helpers

func (s *Service) getOrderByItem(itemID uint) (*Order, *OrderItem, error) {
	var item OrderItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperr.NotFound("order item not found")
		}
		return nil, nil, fmt.Errorf("failed to retrieve order item: %w", err)
	}

	var o Order
	if err := s.db.Preload("Items").First(&o, item.OrderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperr.NotFound("order not found")
		}
		return nil, nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	found := o.FindItem(itemID)
	if found == nil {
		return nil, nil, apperr.NotFound("order item not found")
	}

	return &o, found, nil
}

func (s *Service) persistItemChange(o *Order, item *OrderItem) (*Order, error) {
	return s.persistItemChanges(o, []*OrderItem{item})
}

func (s *Service) persistItemChanges(o *Order, items []*OrderItem) (*Order, error) {
	if err := Recalculate(o, s.catalog, s.coupons); err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	for _, item := range items {
		if err := tx.Save(item).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to update order item: %w", err)
		}
	}
	if err := s.saveOrderCAS(tx, o); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit status change: %w", err)
	}

	return o, nil
}

// saveOrderCAS persists the derived order fields guarded by the
// version counter. A concurrent writer bumps the version first and the
// losing update surfaces as a conflict instead of a silent overwrite.
func (s *Service) saveOrderCAS(tx *gorm.DB, o *Order) error {
	result := tx.Model(&Order{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Updates(map[string]interface{}{
			"total_amount":      o.TotalAmount,
			"discount":          o.Discount,
			"final_amount":      o.FinalAmount,
			"applied_coupon":    o.AppliedCoupon,
			"status":            o.Status,
			"reason_for_cancel": o.ReasonForCancel,
			"comment":           o.Comment,
			"version":           o.Version + 1,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Conflict("order was modified concurrently, please retry")
	}

	o.Version++
	return nil
}
