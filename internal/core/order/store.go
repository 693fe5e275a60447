// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import "context"

// Repository defines the persistence contract for orders.
type Repository interface {
	// CreateFromCart atomically converts the user's cart into an order:
	// stock is verified and decremented, the order and its lines are
	// written, and the cart is cleared, all in one transaction.
	CreateFromCart(context context.Context, userID, shippingAddress string) (*Order, error)

	// GetOrder returns an order with its lines.
	GetOrder(context context.Context, id string) (*Order, error)

	// ListOrders returns a filtered, paginated order listing (without lines)
	// and the total count.
	ListOrders(context context.Context, f Filter, limit, offset int) ([]*Order, int, error)

	// UpdateStatus overwrites an order's status.
	UpdateStatus(context context.Context, id string, status Status) error

	// RestoreStock returns an order's quantities to the catalogue after a
	// cancellation.
	RestoreStock(context context.Context, orderID string) error
}
