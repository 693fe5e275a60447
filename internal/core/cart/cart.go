// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cart implements the server-side shopping cart.

Each registered shopper owns at most one cart. Lines are keyed by product, so
adding a product that is already in the cart merges into the existing line
instead of creating a duplicate. Quantities are always at least one; setting a
line to zero removes it.

# Architecture

  - Entities: Cart, Item (hydrated with live product data for display).
  - Service: Stock guarding and ownership enforcement.
  - Repository: Postgres persistence over shop.cart and shop.cartitem.

Checkout is owned by the order package, which consumes the cart atomically.
*/
package cart

import (
	"context"
	"time"

	"github.com/taibuivan/fruvia/internal/core/catalog"
)

// # Domain Entities

// Item is one product line in a cart, hydrated with current product data.
type Item struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   float64   `json:"unit_price"`
	ImageURL    string    `json:"image_url"`
	Quantity    int       `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LineTotal returns the cost of this line.
func (i Item) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Cart aggregates a shopper's pending purchase lines.
type Cart struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Total returns the sum of all line totals.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// # Contracts

// Repository defines the persistence contract for carts.
type Repository interface {
	// GetOrCreate resolves the user's cart ID, creating an empty cart on first use.
	GetOrCreate(context context.Context, userID string) (string, error)

	// GetByUserID returns the user's cart hydrated with product data.
	// A user who has never carted anything gets an empty cart, not an error.
	GetByUserID(context context.Context, userID string) (*Cart, error)

	// GetItemQuantity returns the current quantity of a product line, or 0 if absent.
	GetItemQuantity(context context.Context, cartID, productID string) (int, error)

	// MergeItem adds quantity to the product line, creating it if absent.
	MergeItem(context context.Context, cartID, productID string, quantity int) error

	// SetItemQuantity overwrites the quantity of an existing product line.
	SetItemQuantity(context context.Context, cartID, productID string, quantity int) error

	// RemoveItem deletes a product line.
	RemoveItem(context context.Context, cartID, productID string) error

	// Clear deletes every line in the cart.
	Clear(context context.Context, cartID string) error
}

// ProductSource supplies the product data needed for stock guarding.
// Satisfied by the catalog service.
type ProductSource interface {
	GetProduct(context context.Context, id string) (*catalog.Product, error)
}
