// internal/domain/order/entity_test.go
package order

import "testing"

func TestItemStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from ItemStatus
		to   ItemStatus
		want bool
	}{
		{"pending to packing", ItemStatusPending, ItemStatusPacking, true},
		{"packing to out for delivery", ItemStatusPacking, ItemStatusOutForDelivery, true},
		{"out for delivery to delivered", ItemStatusOutForDelivery, ItemStatusDelivered, true},
		{"pending skips to delivered", ItemStatusPending, ItemStatusDelivered, true},
		{"packing back to pending", ItemStatusPacking, ItemStatusPending, false},
		{"delivered back to packing", ItemStatusDelivered, ItemStatusPacking, false},
		{"pending to cancelled", ItemStatusPending, ItemStatusCancelled, true},
		{"out for delivery to cancelled", ItemStatusOutForDelivery, ItemStatusCancelled, true},
		{"delivered to cancelled", ItemStatusDelivered, ItemStatusCancelled, false},
		{"cancelled to pending", ItemStatusCancelled, ItemStatusPending, false},
		{"cancelled to delivered", ItemStatusCancelled, ItemStatusDelivered, false},
		{"same status is not a transition", ItemStatusPacking, ItemStatusPacking, false},
		{"unknown target", ItemStatusPending, ItemStatus("shipped"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Fatalf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestItemStatusIsTerminal(t *testing.T) {
	for _, st := range []ItemStatus{ItemStatusPending, ItemStatusPacking, ItemStatusOutForDelivery} {
		if st.IsTerminal() {
			t.Fatalf("%s should not be terminal", st)
		}
	}
	for _, st := range []ItemStatus{ItemStatusDelivered, ItemStatusCancelled} {
		if !st.IsTerminal() {
			t.Fatalf("%s should be terminal", st)
		}
	}
}

func TestParseItemStatus(t *testing.T) {
	st, err := ParseItemStatus("out_for_delivery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != ItemStatusOutForDelivery {
		t.Fatalf("got %s", st)
	}

	if _, err := ParseItemStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func items(statuses ...ItemStatus) []OrderItem {
	out := make([]OrderItem, len(statuses))
	for i, st := range statuses {
		out[i] = OrderItem{ID: uint(i + 1), Status: st}
	}
	return out
}

func TestDeriveOrderStatus(t *testing.T) {
	tests := []struct {
		name  string
		items []OrderItem
		want  OrderStatus
	}{
		{"no items", nil, OrderStatusPending},
		{"all pending", items(ItemStatusPending, ItemStatusPending), OrderStatusPending},
		{"all delivered", items(ItemStatusDelivered, ItemStatusDelivered), OrderStatusCompleted},
		{"all cancelled", items(ItemStatusCancelled, ItemStatusCancelled), OrderStatusCancelled},
		{"one moving", items(ItemStatusPending, ItemStatusPacking), OrderStatusProcessing},
		{"partially delivered", items(ItemStatusDelivered, ItemStatusPending), OrderStatusProcessing},
		{"delivered plus cancelled", items(ItemStatusDelivered, ItemStatusCancelled), OrderStatusProcessing},
		{"cancelled plus pending", items(ItemStatusCancelled, ItemStatusPending), OrderStatusProcessing},
		{"single delivered", items(ItemStatusDelivered), OrderStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveOrderStatus(tt.items); got != tt.want {
				t.Fatalf("DeriveOrderStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAllItemsDelivered(t *testing.T) {
	o := &Order{}
	if o.AllItemsDelivered() {
		t.Fatal("empty order must count as open for appending")
	}

	o.Items = items(ItemStatusDelivered, ItemStatusDelivered)
	if !o.AllItemsDelivered() {
		t.Fatal("expected all delivered")
	}

	o.Items = items(ItemStatusDelivered, ItemStatusCancelled)
	if o.AllItemsDelivered() {
		t.Fatal("cancelled item must keep the order open")
	}
}

func TestEligibleAmount(t *testing.T) {
	o := &Order{Items: []OrderItem{
		{ID: 1, SellerID: 10, Quantity: 2, Status: ItemStatusPending},
		{ID: 2, SellerID: 20, Quantity: 1, Status: ItemStatusPending},
		{ID: 3, SellerID: 10, Quantity: 3, Status: ItemStatusCancelled},
		{ID: 4, SellerID: 10, Quantity: 1, Status: ItemStatusPending}, // no resolved price
	}}
	prices := map[uint]int64{1: 40, 2: 70, 3: 40}

	if got := o.EligibleAmount(10, prices); got != 80 {
		t.Fatalf("EligibleAmount(10) = %d, want 80", got)
	}
	if got := o.EligibleAmount(20, prices); got != 70 {
		t.Fatalf("EligibleAmount(20) = %d, want 70", got)
	}
	if got := o.EligibleAmount(99, prices); got != 0 {
		t.Fatalf("EligibleAmount(99) = %d, want 0", got)
	}
}
