// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

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
	"github.com/taibuivan/fruvia/pkg/uuid"
)

// orderRepository implements the [Repository] interface using pgx.
type orderRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed order store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &orderRepository{pool: pool}
}

/*
CreateFromCart atomically converts the user's cart into an order.

Description: Runs as a single transaction:
 1. Read the cart lines joined with product data, locking product rows
    FOR UPDATE so concurrent checkouts serialize on stock.
 2. Verify every line against available stock; any shortfall aborts.
 3. Decrement stock, insert the order and its lines, clear the cart.

Parameters:
  - context: context.Context
  - userID: string
  - shippingAddress: string

Returns:
  - *Order: The placed order with frozen lines
  - error: apperr.Unprocessable (empty cart or stock shortfall) or storage failures
*/
func (repository *orderRepository) CreateFromCart(context context.Context, userID, shippingAddress string) (*Order, error) {

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return nil, fmt.Errorf("postgres_order_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	// Read cart lines with product data; FOR UPDATE OF p serializes
	// concurrent checkouts touching the same products.
	linesQuery := fmt.Sprintf(`
		SELECT i.%s, p.%s, p.%s, p.%s, i.%s
		FROM %s c
		JOIN %s i ON i.%s = c.%s
		JOIN %s p ON p.%s = i.%s
		WHERE c.%s = $1
		ORDER BY p.%s
		FOR UPDATE OF p`,
		schema.CartItem.ProductID,
		schema.Product.Name, schema.Product.Price, schema.Product.StockQuantity,
		schema.CartItem.Quantity,
		schema.Cart.Table,
		schema.CartItem.Table, schema.CartItem.CartID, schema.Cart.ID,
		schema.Product.Table, schema.Product.ID, schema.CartItem.ProductID,
		schema.Cart.UserID,
		schema.Product.ID,
	)

	rows, err := transaction.Query(context, linesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_order_repo_cart_read_failed: %w", err)
	}

	type cartLine struct {
		productID string
		name      string
		price     float64
		stock     int
		quantity  int
	}

	var lines []cartLine
	for rows.Next() {
		var line cartLine
		if err := rows.Scan(&line.productID, &line.name, &line.price, &line.stock, &line.quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("postgres_order_repo_cart_scan_failed: %w", err)
		}
		lines = append(lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_order_repo_cart_rows_failed: %w", err)
	}

	if len(lines) == 0 {
		return nil, apperr.Unprocessable("Cart is empty")
	}

	// Verify stock across the whole cart before mutating anything.
	for _, line := range lines {
		if line.quantity > line.stock {
			return nil, apperr.Unprocessable(
				fmt.Sprintf("Insufficient stock for %q: only %d available", line.name, line.stock),
			)
		}
	}

	now := time.Now()
	order := &Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		Items:           make([]Item, 0, len(lines)),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Decrement stock line by line.
	stockQuery := fmt.Sprintf(
		"UPDATE %s SET %s = %s - $2, %s = $3 WHERE %s = $1",
		schema.Product.Table,
		schema.Product.StockQuantity, schema.Product.StockQuantity, schema.Product.UpdatedAt,
		schema.Product.ID,
	)

	for _, line := range lines {
		if _, err := transaction.Exec(context, stockQuery, line.productID, line.quantity, now); err != nil {
			return nil, fmt.Errorf("postgres_order_repo_stock_decrement_failed: %w", err)
		}

		order.Items = append(order.Items, Item{
			ID:          uuid.New(),
			ProductID:   line.productID,
			ProductName: line.name,
			UnitPrice:   line.price,
			Quantity:    line.quantity,
		})
		order.TotalAmount += line.price * float64(line.quantity)
	}

	// Insert the order header.
	orderQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		schema.Order.Table,
		schema.Order.ID, schema.Order.UserID, schema.Order.Status,
		schema.Order.TotalAmount, schema.Order.ShippingAddress,
		schema.Order.CreatedAt, schema.Order.UpdatedAt,
	)

	_, err = transaction.Exec(context, orderQuery,
		order.ID, order.UserID, order.Status, order.TotalAmount, order.ShippingAddress, now)
	if err != nil {
		return nil, fmt.Errorf("postgres_order_repo_insert_failed: %w", err)
	}

	// Insert the frozen order lines.
	itemQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.OrderItem.Table,
		schema.OrderItem.ID, schema.OrderItem.OrderID, schema.OrderItem.ProductID,
		schema.OrderItem.ProductName, schema.OrderItem.UnitPrice, schema.OrderItem.Quantity,
	)

	for _, item := range order.Items {
		_, err := transaction.Exec(context, itemQuery,
			item.ID, order.ID, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("postgres_order_repo_item_insert_failed: %w", err)
		}
	}

	// Clear the cart inside the same transaction.
	clearQuery := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s = (SELECT %s FROM %s WHERE %s = $1)`,
		schema.CartItem.Table, schema.CartItem.CartID,
		schema.Cart.ID, schema.Cart.Table, schema.Cart.UserID,
	)

	if _, err := transaction.Exec(context, clearQuery, userID); err != nil {
		return nil, fmt.Errorf("postgres_order_repo_cart_clear_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return nil, fmt.Errorf("postgres_order_repo_commit_failed: %w", err)
	}

	return order, nil
}

/*
GetOrder returns an order with its lines.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Order: Hydrated order
  - error: apperr.NotFound or execution errors
*/
func (repository *orderRepository) GetOrder(context context.Context, id string) (*Order, error) {
	orderQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.Order.ID, schema.Order.UserID, schema.Order.Status,
		schema.Order.TotalAmount, schema.Order.ShippingAddress,
		schema.Order.CreatedAt, schema.Order.UpdatedAt,
		schema.Order.Table, schema.Order.ID,
	)

	order := &Order{Items: make([]Item, 0)}
	err := repository.pool.QueryRow(context, orderQuery, id).Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.TotalAmount,
		&order.ShippingAddress,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Order")
		}
		return nil, fmt.Errorf("postgres_order_repo_get_failed: %w", err)
	}

	itemsQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s`,
		schema.OrderItem.ID, schema.OrderItem.ProductID, schema.OrderItem.ProductName,
		schema.OrderItem.UnitPrice, schema.OrderItem.Quantity,
		schema.OrderItem.Table, schema.OrderItem.OrderID,
		schema.OrderItem.ProductName,
	)

	rows, err := repository.pool.Query(context, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("postgres_order_repo_items_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("postgres_order_repo_item_scan_failed: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_order_repo_item_rows_failed: %w", err)
	}

	return order, nil
}

/*
ListOrders returns a filtered, paginated order listing and the total count.

Description: Listings omit order lines; they are loaded on demand by GetOrder.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit, offset: int

Returns:
  - []*Order: Page of orders, newest first
  - int: Total count matching the filter
  - error: Execution errors
*/
func (repository *orderRepository) ListOrders(context context.Context, filter Filter, limit, offset int) ([]*Order, int, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE TRUE`,
		schema.Order.ID, schema.Order.UserID, schema.Order.Status,
		schema.Order.TotalAmount, schema.Order.ShippingAddress,
		schema.Order.CreatedAt, schema.Order.UpdatedAt,
		schema.Order.Table,
	))

	if filter.UserID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Order.UserID, argID))
		args = append(args, filter.UserID)
		argID++
	}

	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Order.Status, argID))
		args = append(args, filter.Status)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", schema.Order.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_order_repo_list_failed: %w", err)
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	var totalCount int

	for rows.Next() {
		order := &Order{Items: make([]Item, 0)}
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Status,
			&order.TotalAmount,
			&order.ShippingAddress,
			&order.CreatedAt,
			&order.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_order_repo_list_scan_failed: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_order_repo_list_rows_failed: %w", err)
	}

	return orders, totalCount, nil
}

/*
UpdateStatus overwrites an order's status.

Parameters:
  - context: context.Context
  - id: string
  - status: Status

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *orderRepository) UpdateStatus(context context.Context, id string, status Status) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1",
		schema.Order.Table, schema.Order.Status, schema.Order.UpdatedAt, schema.Order.ID,
	)

	commandTag, err := repository.pool.Exec(context, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_order_repo_status_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Order")
	}

	return nil
}

/*
RestoreStock returns an order's quantities to the catalogue.

Description: Used after cancellation; runs as one statement so partial
restores cannot occur.

Parameters:
  - context: context.Context
  - orderID: string

Returns:
  - error: Execution errors
*/
func (repository *orderRepository) RestoreStock(context context.Context, orderID string) error {
	query := fmt.Sprintf(`
		UPDATE %s p
		SET %s = p.%s + i.%s, %s = $2
		FROM %s i
		WHERE i.%s = $1 AND p.%s = i.%s`,
		schema.Product.Table,
		schema.Product.StockQuantity, schema.Product.StockQuantity, schema.OrderItem.Quantity,
		schema.Product.UpdatedAt,
		schema.OrderItem.Table,
		schema.OrderItem.OrderID, schema.Product.ID, schema.OrderItem.ProductID,
	)

	if _, err := repository.pool.Exec(context, query, orderID, time.Now()); err != nil {
		return fmt.Errorf("postgres_order_repo_restore_stock_failed: %w", err)
	}

	return nil
}
