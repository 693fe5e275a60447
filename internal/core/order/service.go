// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/fruvia/internal/platform/apperr"
	"github.com/taibuivan/fruvia/internal/platform/sec"
)

// Service orchestrates order business logic.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new order [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

/*
Checkout converts the user's cart into a pending order.

Description: Delegates to the repository's transactional conversion. A stock
shortfall discovered inside the transaction rejects the whole checkout; the
cart is left untouched for the shopper to adjust.

Parameters:
  - context: context.Context
  - userID: string
  - shippingAddress: string

Returns:
  - *Order: The placed order with its lines
  - error: Empty cart, stock shortfall, or storage failures
*/
func (service *Service) Checkout(context context.Context, userID, shippingAddress string) (*Order, error) {
	if shippingAddress == "" {
		return nil, apperr.Unprocessable("Shipping address is required")
	}

	order, err := service.repo.CreateFromCart(context, userID, shippingAddress)
	if err != nil {
		return nil, err
	}

	service.logger.Info("order_placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Float64("total", order.TotalAmount),
	)

	return order, nil
}

/*
GetOrder returns an order, enforcing ownership for non-staff callers.

Parameters:
  - context: context.Context
  - userID: string (The requesting user)
  - role: sec.UserRole
  - orderID: string

Returns:
  - *Order: Hydrated order
  - error: apperr.NotFound (including foreign orders for shoppers)
*/
func (service *Service) GetOrder(context context.Context, userID string, role sec.UserRole, orderID string) (*Order, error) {
	order, err := service.repo.GetOrder(context, orderID)
	if err != nil {
		return nil, err
	}

	// Shoppers only see their own orders. NotFound (not Forbidden) so order
	// IDs are not probeable.
	if order.UserID != userID && !role.AtLeast(sec.RoleAdmin) {
		return nil, apperr.NotFound("Order")
	}

	return order, nil
}

/*
ListMine returns the user's own orders, newest first.

Parameters:
  - context: context.Context
  - userID: string
  - limit, offset: int

Returns:
  - []*Order: Page of orders
  - int: Total count
  - error: Retrieval failures
*/
func (service *Service) ListMine(context context.Context, userID string, limit, offset int) ([]*Order, int, error) {
	return service.repo.ListOrders(context, Filter{UserID: userID}, limit, offset)
}

/*
ListAll returns a filtered order listing for staff.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit, offset: int

Returns:
  - []*Order: Page of orders
  - int: Total count
  - error: Retrieval failures
*/
func (service *Service) ListAll(context context.Context, filter Filter, limit, offset int) ([]*Order, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperr.Unprocessable("Unknown order status")
	}
	return service.repo.ListOrders(context, filter, limit, offset)
}

/*
Cancel lets a shopper cancel their own order while it is still Pending.

Description: Cancellation restores the order's quantities to catalogue stock.

Parameters:
  - context: context.Context
  - userID: string
  - orderID: string

Returns:
  - *Order: The cancelled order
  - error: Ownership, lifecycle, or storage failures
*/
func (service *Service) Cancel(context context.Context, userID, orderID string) (*Order, error) {
	order, err := service.repo.GetOrder(context, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, apperr.NotFound("Order")
	}

	if order.Status != StatusPending {
		return nil, apperr.Conflict("Only pending orders can be cancelled")
	}

	if err := service.repo.UpdateStatus(context, orderID, StatusCancelled); err != nil {
		return nil, err
	}

	if err := service.repo.RestoreStock(context, orderID); err != nil {
		// The cancellation stands; stock drift is logged for reconciliation.
		service.logger.Error("order_stock_restore_failed",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	order.Status = StatusCancelled
	service.logger.Info("order_cancelled",
		slog.String("order_id", orderID),
		slog.String("user_id", userID),
	)

	return order, nil
}

/*
UpdateStatus moves an order along its lifecycle on behalf of staff.

Parameters:
  - context: context.Context
  - orderID: string
  - next: Status

Returns:
  - *Order: The updated order
  - error: Lifecycle violations or storage failures
*/
func (service *Service) UpdateStatus(context context.Context, orderID string, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, apperr.Unprocessable("Unknown order status")
	}

	order, err := service.repo.GetOrder(context, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, apperr.Conflict(
			fmt.Sprintf("Cannot move order from %s to %s", order.Status, next),
		)
	}

	if err := service.repo.UpdateStatus(context, orderID, next); err != nil {
		return nil, err
	}

	if next == StatusCancelled {
		if err := service.repo.RestoreStock(context, orderID); err != nil {
			service.logger.Error("order_stock_restore_failed",
				slog.String("order_id", orderID),
				slog.String("error", err.Error()),
			)
		}
	}

	order.Status = next
	service.logger.Info("order_status_updated",
		slog.String("order_id", orderID),
		slog.String("status", string(next)),
	)

	return order, nil
}
