// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/fruvia/internal/platform/apperr"
)

// Service orchestrates cart business logic.
//
// Every operation is scoped to the authenticated user's own cart; there is no
// way to address another user's cart through this service.
type Service struct {
	repo     Repository
	products ProductSource
	logger   *slog.Logger
}

// NewService constructs a new cart [Service].
func NewService(repo Repository, products ProductSource, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		logger:   logger,
	}
}

/*
GetCart returns the user's cart hydrated with product data and totals.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Cart: The cart (empty if the user has never added anything)
  - error: Retrieval failures
*/
func (service *Service) GetCart(context context.Context, userID string) (*Cart, error) {
	return service.repo.GetByUserID(context, userID)
}

/*
AddItem merges a product into the user's cart.

Description: If the product is already in the cart, the requested quantity is
added to the existing line. The combined quantity is checked against available
stock BEFORE any mutation, so a rejected add leaves the cart untouched.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string
  - quantity: int (must be >= 1)

Returns:
  - *Cart: The updated cart
  - error: Validation, stock, or storage failures
*/
func (service *Service) AddItem(context context.Context, userID, productID string, quantity int) (*Cart, error) {

	if quantity < 1 {
		return nil, apperr.Unprocessable("Quantity must be at least 1")
	}

	product, err := service.products.GetProduct(context, productID)
	if err != nil {
		return nil, err
	}

	if !product.IsActive {
		return nil, apperr.NotFound("Product")
	}

	cartID, err := service.repo.GetOrCreate(context, userID)
	if err != nil {
		return nil, fmt.Errorf("cart_service_resolve_failed: %w", err)
	}

	// Stock guard against the COMBINED quantity, not just the increment.
	current, err := service.repo.GetItemQuantity(context, cartID, productID)
	if err != nil {
		return nil, fmt.Errorf("cart_service_quantity_lookup_failed: %w", err)
	}

	if current+quantity > product.StockQuantity {
		return nil, insufficientStock(product.Name, product.StockQuantity)
	}

	if err := service.repo.MergeItem(context, cartID, productID, quantity); err != nil {
		return nil, fmt.Errorf("cart_service_merge_failed: %w", err)
	}

	service.logger.Info("cart_item_added",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return service.repo.GetByUserID(context, userID)
}

/*
UpdateItem sets the absolute quantity of a cart line.

Description: A quantity of zero or less removes the line. A quantity above
available stock is rejected WITHOUT mutating the cart.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string
  - quantity: int

Returns:
  - *Cart: The updated cart
  - error: Stock or storage failures
*/
func (service *Service) UpdateItem(context context.Context, userID, productID string, quantity int) (*Cart, error) {

	cartID, err := service.repo.GetOrCreate(context, userID)
	if err != nil {
		return nil, fmt.Errorf("cart_service_resolve_failed: %w", err)
	}

	// Zero-or-less means removal, matching the no-zero-quantity invariant.
	if quantity <= 0 {
		if err := service.repo.RemoveItem(context, cartID, productID); err != nil {
			return nil, fmt.Errorf("cart_service_remove_failed: %w", err)
		}
		return service.repo.GetByUserID(context, userID)
	}

	product, err := service.products.GetProduct(context, productID)
	if err != nil {
		return nil, err
	}

	if quantity > product.StockQuantity {
		return nil, insufficientStock(product.Name, product.StockQuantity)
	}

	if err := service.repo.SetItemQuantity(context, cartID, productID, quantity); err != nil {
		return nil, fmt.Errorf("cart_service_update_failed: %w", err)
	}

	service.logger.Info("cart_item_updated",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return service.repo.GetByUserID(context, userID)
}

/*
RemoveItem deletes a product line from the user's cart.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string

Returns:
  - *Cart: The updated cart
  - error: Storage failures
*/
func (service *Service) RemoveItem(context context.Context, userID, productID string) (*Cart, error) {
	cartID, err := service.repo.GetOrCreate(context, userID)
	if err != nil {
		return nil, fmt.Errorf("cart_service_resolve_failed: %w", err)
	}

	if err := service.repo.RemoveItem(context, cartID, productID); err != nil {
		return nil, fmt.Errorf("cart_service_remove_failed: %w", err)
	}

	service.logger.Info("cart_item_removed",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return service.repo.GetByUserID(context, userID)
}

/*
Clear empties the user's cart.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Storage failures
*/
func (service *Service) Clear(context context.Context, userID string) error {
	cartID, err := service.repo.GetOrCreate(context, userID)
	if err != nil {
		return fmt.Errorf("cart_service_resolve_failed: %w", err)
	}

	if err := service.repo.Clear(context, cartID); err != nil {
		return fmt.Errorf("cart_service_clear_failed: %w", err)
	}

	service.logger.Info("cart_cleared", slog.String("user_id", userID))
	return nil
}

// insufficientStock builds the client-visible stock rejection.
func insufficientStock(productName string, available int) error {
	return apperr.Unprocessable(
		fmt.Sprintf("Insufficient stock for %q: only %d available", productName, available),
	)
}
