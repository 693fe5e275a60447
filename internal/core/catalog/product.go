// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog implements the product catalogue for the Fruvia storefront.

It covers product discovery (search, category browsing, featured and
best-seller shelves) for shoppers, plus full inventory management for staff.

# Architecture

  - Entities: Product, Filter.
  - Service: Validation and business constraints (pricing, stock bounds).
  - Repository: Postgres-backed persistence over the shop.product table.
*/
package catalog

import "time"

// # Domain Entities

// Product represents a single sellable item in the shop.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	StockQuantity int       `json:"stock_quantity"`
	ImageURL      string    `json:"image_url"`
	IsActive      bool      `json:"is_active"`
	IsFeatured    bool      `json:"is_featured"`
	IsBestSeller  bool      `json:"is_best_seller"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InStock reports whether at least one unit can be sold.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// Filter holds the parameters for a paginated product search.
type Filter struct {
	Query           string   // Matched against name and description
	Categories      []string // OR semantics across categories
	Featured        *bool
	BestSeller      *bool
	MinPrice        *float64
	MaxPrice        *float64
	IncludeInactive bool   // Staff only; shoppers never see inactive products
	Sort            string // "latest" (default), "price_asc", "price_desc", "az"
}

// # Field Identifiers

const (
	FieldName          = "name"
	FieldDescription   = "description"
	FieldPrice         = "price"
	FieldCategory      = "category"
	FieldStockQuantity = "stock_quantity"
	FieldImageURL      = "image_url"
)
