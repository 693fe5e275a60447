// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// Repository defines the persistence contract for the product catalogue.
type Repository interface {
	ListProducts(context context.Context, f Filter, limit, offset int) ([]*Product, int, error)
	GetProduct(context context.Context, id string) (*Product, error)
	CreateProduct(context context.Context, p *Product) error
	UpdateProduct(context context.Context, p *Product) error
	DeleteProduct(context context.Context, id string) error
	ListCategories(context context.Context) ([]string, error)
	ListLowStock(context context.Context, threshold int) ([]*Product, error)

	// AdjustStock applies a relative stock delta and returns the new quantity.
	// The update must be atomic and must refuse to drive stock negative.
	AdjustStock(context context.Context, id string, delta int) (int, error)
}
