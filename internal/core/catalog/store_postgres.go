// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog (Postgres) provides the PostgreSQL implementation for the
catalogue's data access.

It utilizes Postgres features to deliver an efficient browsing experience:
  - Window Functions: Calculates total result counts without a separate 'COUNT' query.
  - Set Operations: Uses ANY($n) for multi-category filtering.
  - Atomic Updates: Stock adjustments happen in a single guarded UPDATE.
*/
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/fruvia/internal/platform/apperr"
	"github.com/taibuivan/fruvia/internal/platform/database/schema"
	"github.com/taibuivan/fruvia/internal/platform/dberr"
)

// productRepository implements the [Repository] interface using pgx.
type productRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed catalogue store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &productRepository{pool: pool}
}

// productColumns is the canonical SELECT list for product hydration.
func productColumns(alias string) string {
	cols := schema.Product.Columns()
	prefixed := make([]string, len(cols))
	for i, col := range cols {
		prefixed[i] = alias + "." + col
	}
	return strings.Join(prefixed, ", ")
}

// scanProduct hydrates one product row into the domain entity.
func scanProduct(row pgx.Row) (*Product, error) {
	product := &Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Category,
		&product.StockQuantity,
		&product.ImageURL,
		&product.IsActive,
		&product.IsFeatured,
		&product.IsBestSeller,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	return product, err
}

/*
ListProducts returns a filtered, paginated slice of products and the total count.

Description: Uses COUNT(*) OVER() to retrieve the total record count without a
second query, and builds the WHERE clause dynamically from the filter.

Parameters:
  - context: context.Context
  - filter: Filter (Search, categories, shelves, price bounds, sorting)
  - limit: int
  - offset: int

Returns:
  - []*Product: Slice of hydrated product entities
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *productRepository) ListProducts(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s p
		WHERE TRUE
	`, productColumns("p"), schema.Product.Table))

	// Shoppers only ever see active products
	if !filter.IncludeInactive {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s = TRUE", schema.Product.IsActive))
	}

	// Search Query Filtering
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(
			" AND (p.%s ILIKE '%%' || $%d || '%%' OR p.%s ILIKE '%%' || $%d || '%%')",
			schema.Product.Name, argID, schema.Product.Description, argID,
		))
		args = append(args, filter.Query)
		argID++
	}

	// Category Filtering
	if len(filter.Categories) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s = ANY($%d)", schema.Product.Category, argID))
		args = append(args, filter.Categories)
		argID++
	}

	// Shelf Filtering
	if filter.Featured != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s = $%d", schema.Product.IsFeatured, argID))
		args = append(args, *filter.Featured)
		argID++
	}

	if filter.BestSeller != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s = $%d", schema.Product.IsBestSeller, argID))
		args = append(args, *filter.BestSeller)
		argID++
	}

	// Price Bounds
	if filter.MinPrice != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s >= $%d", schema.Product.Price, argID))
		args = append(args, *filter.MinPrice)
		argID++
	}

	if filter.MaxPrice != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s <= $%d", schema.Product.Price, argID))
		args = append(args, *filter.MaxPrice)
		argID++
	}

	// Apply Sorting Logic
	sort := fmt.Sprintf("p.%s", schema.Product.CreatedAt)
	sortDir := "DESC"
	switch filter.Sort {
	case "price_asc":
		sort = fmt.Sprintf("p.%s", schema.Product.Price)
		sortDir = "ASC"
	case "price_desc":
		sort = fmt.Sprintf("p.%s", schema.Product.Price)
	case "az":
		sort = fmt.Sprintf("p.%s", schema.Product.Name)
		sortDir = "ASC"
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s, p.%s DESC", sort, sortDir, schema.Product.ID))

	// Pagination injection
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	// Query Execution
	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_list_failed: %w", err)
	}
	defer rows.Close()

	products := make([]*Product, 0)
	var totalCount int

	for rows.Next() {
		product := &Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Category,
			&product.StockQuantity,
			&product.ImageURL,
			&product.IsActive,
			&product.IsFeatured,
			&product.IsBestSeller,
			&product.CreatedAt,
			&product.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_catalog_scan_failed: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_rows_failed: %w", err)
	}

	return products, totalCount, nil
}

/*
GetProduct retrieves a single product by its ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Product: Hydrated product entity
  - error: apperr.NotFound or execution errors
*/
func (repository *productRepository) GetProduct(context context.Context, id string) (*Product, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s p WHERE p.%s = $1",
		productColumns("p"), schema.Product.Table, schema.Product.ID,
	)

	product, err := scanProduct(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Product")
		}
		return nil, fmt.Errorf("postgres_catalog_get_failed: %w", err)
	}

	return product, nil
}

/*
CreateProduct persists a new product into the shop.product table.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: Mapped constraint violations or connectivity errors
*/
func (repository *productRepository) CreateProduct(context context.Context, product *Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		schema.Product.Table, strings.Join(schema.Product.Columns(), ", "),
	)

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.StockQuantity,
		product.ImageURL,
		product.IsActive,
		product.IsFeatured,
		product.IsBestSeller,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "catalog_create_product")
	}

	return nil
}

/*
UpdateProduct persists changes to an existing product.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: apperr.NotFound or update failures
*/
func (repository *productRepository) UpdateProduct(context context.Context, product *Product) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7,
		    %s = $8, %s = $9, %s = $10, %s = $11
		WHERE %s = $1`,
		schema.Product.Table,
		schema.Product.Name, schema.Product.Description, schema.Product.Price,
		schema.Product.Category, schema.Product.StockQuantity, schema.Product.ImageURL,
		schema.Product.IsActive, schema.Product.IsFeatured, schema.Product.IsBestSeller,
		schema.Product.UpdatedAt,
		schema.Product.ID,
	)

	product.UpdatedAt = time.Now()
	commandTag, err := repository.pool.Exec(context, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.StockQuantity,
		product.ImageURL,
		product.IsActive,
		product.IsFeatured,
		product.IsBestSeller,
		product.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "catalog_update_product")
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}

	return nil
}

/*
DeleteProduct permanently removes a product from the catalogue.

Description: Products referenced by existing order lines are protected by a
foreign key and surface as a conflict instead of disappearing from history.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound, apperr.Conflict, or execution errors
*/
func (repository *productRepository) DeleteProduct(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Product.Table, schema.Product.ID)

	commandTag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "catalog_delete_product")
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}

	return nil
}

/*
ListCategories returns the distinct categories of active products.

Parameters:
  - context: context.Context

Returns:
  - []string: Sorted category names
  - error: Retrieval errors
*/
func (repository *productRepository) ListCategories(context context.Context) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT DISTINCT %s FROM %s WHERE %s = TRUE ORDER BY %s",
		schema.Product.Category, schema.Product.Table,
		schema.Product.IsActive, schema.Product.Category,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_catalog_categories_failed: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("postgres_catalog_categories_scan_failed: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_catalog_categories_rows_failed: %w", err)
	}

	return categories, nil
}

/*
ListLowStock returns active products at or below the stock threshold.

Parameters:
  - context: context.Context
  - threshold: int

Returns:
  - []*Product: Products needing restock, lowest stock first
  - error: Retrieval errors
*/
func (repository *productRepository) ListLowStock(context context.Context, threshold int) ([]*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		WHERE p.%s = TRUE AND p.%s <= $1
		ORDER BY p.%s ASC`,
		productColumns("p"), schema.Product.Table,
		schema.Product.IsActive, schema.Product.StockQuantity,
		schema.Product.StockQuantity,
	)

	rows, err := repository.pool.Query(context, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("postgres_catalog_low_stock_failed: %w", err)
	}
	defer rows.Close()

	products := make([]*Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_catalog_low_stock_scan_failed: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_catalog_low_stock_rows_failed: %w", err)
	}

	return products, nil
}

/*
AdjustStock applies a relative stock delta in a single atomic UPDATE.

Description: The guard in the WHERE clause rejects any change that would drive
stock negative, so concurrent adjustments can never oversell.

Parameters:
  - context: context.Context
  - id: string
  - delta: int

Returns:
  - int: The new stock quantity
  - error: apperr.NotFound, apperr.Unprocessable, or execution errors
*/
func (repository *productRepository) AdjustStock(context context.Context, id string, delta int) (int, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = %s + $2, %s = $3
		WHERE %s = $1 AND %s + $2 >= 0
		RETURNING %s`,
		schema.Product.Table,
		schema.Product.StockQuantity, schema.Product.StockQuantity, schema.Product.UpdatedAt,
		schema.Product.ID, schema.Product.StockQuantity,
		schema.Product.StockQuantity,
	)

	var quantity int
	err := repository.pool.QueryRow(context, query, id, delta, time.Now()).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {

			// Distinguish "missing product" from "would go negative"
			if _, getErr := repository.GetProduct(context, id); getErr != nil {
				return 0, getErr
			}
			return 0, apperr.Unprocessable("Insufficient stock for the requested adjustment")
		}
		return 0, fmt.Errorf("postgres_catalog_adjust_stock_failed: %w", err)
	}

	return quantity, nil
}
