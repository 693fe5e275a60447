// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/fruvia/internal/platform/database/schema"
	"github.com/taibuivan/fruvia/pkg/uuid"
)

// cartRepository implements the [Repository] interface using pgx.
type cartRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed cart store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &cartRepository{pool: pool}
}

/*
GetOrCreate resolves the user's cart ID, creating an empty cart on first use.

Description: Uses INSERT ... ON CONFLICT DO NOTHING against the unique userid
constraint so concurrent first-touches settle on a single cart.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - string: The cart ID
  - error: Storage failures
*/
func (repository *cartRepository) GetOrCreate(context context.Context, userID string) (string, error) {
	selectQuery := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		schema.Cart.ID, schema.Cart.Table, schema.Cart.UserID,
	)

	var cartID string
	err := repository.pool.QueryRow(context, selectQuery, userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("postgres_cart_repo_lookup_failed: %w", err)
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (%s) DO NOTHING`,
		schema.Cart.Table,
		schema.Cart.ID, schema.Cart.UserID, schema.Cart.CreatedAt, schema.Cart.UpdatedAt,
		schema.Cart.UserID,
	)

	cartID = uuid.New()
	if _, err := repository.pool.Exec(context, insertQuery, cartID, userID, time.Now()); err != nil {
		return "", fmt.Errorf("postgres_cart_repo_create_failed: %w", err)
	}

	// Re-read in case a concurrent insert won the conflict.
	if err := repository.pool.QueryRow(context, selectQuery, userID).Scan(&cartID); err != nil {
		return "", fmt.Errorf("postgres_cart_repo_reread_failed: %w", err)
	}

	return cartID, nil
}

/*
GetByUserID returns the user's cart hydrated with current product data.

Description: Lines join onto shop.product so names, prices, and images reflect
the live catalogue. A user without a cart row gets an empty cart.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Cart: Hydrated cart
  - error: Retrieval failures
*/
func (repository *cartRepository) GetByUserID(context context.Context, userID string) (*Cart, error) {
	cartQuery := fmt.Sprintf(
		"SELECT %s, %s, %s FROM %s WHERE %s = $1",
		schema.Cart.ID, schema.Cart.CreatedAt, schema.Cart.UpdatedAt,
		schema.Cart.Table, schema.Cart.UserID,
	)

	cart := &Cart{UserID: userID, Items: make([]Item, 0)}
	err := repository.pool.QueryRow(context, cartQuery, userID).Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Never carted anything: an empty cart, not an error.
			return cart, nil
		}
		return nil, fmt.Errorf("postgres_cart_repo_get_failed: %w", err)
	}

	itemsQuery := fmt.Sprintf(`
		SELECT i.%s, i.%s, p.%s, p.%s, p.%s, i.%s, i.%s
		FROM %s i
		JOIN %s p ON p.%s = i.%s
		WHERE i.%s = $1
		ORDER BY i.%s ASC`,
		schema.CartItem.ID, schema.CartItem.ProductID,
		schema.Product.Name, schema.Product.Price, schema.Product.ImageURL,
		schema.CartItem.Quantity, schema.CartItem.UpdatedAt,
		schema.CartItem.Table,
		schema.Product.Table, schema.Product.ID, schema.CartItem.ProductID,
		schema.CartItem.CartID,
		schema.CartItem.CreatedAt,
	)

	rows, err := repository.pool.Query(context, itemsQuery, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("postgres_cart_repo_items_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.ProductName,
			&item.UnitPrice,
			&item.ImageURL,
			&item.Quantity,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_cart_repo_item_scan_failed: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_cart_repo_item_rows_failed: %w", err)
	}

	return cart, nil
}

/*
GetItemQuantity returns the current quantity of a product line, or 0 if absent.

Parameters:
  - context: context.Context
  - cartID: string
  - productID: string

Returns:
  - int: Current line quantity
  - error: Retrieval failures
*/
func (repository *cartRepository) GetItemQuantity(context context.Context, cartID, productID string) (int, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 AND %s = $2",
		schema.CartItem.Quantity, schema.CartItem.Table,
		schema.CartItem.CartID, schema.CartItem.ProductID,
	)

	var quantity int
	err := repository.pool.QueryRow(context, query, cartID, productID).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("postgres_cart_repo_item_quantity_failed: %w", err)
	}

	return quantity, nil
}

/*
MergeItem adds quantity to the product line, creating it if absent.

Description: INSERT ... ON CONFLICT on the (cartid, productid) unique pair
implements merge-on-add atomically.

Parameters:
  - context: context.Context
  - cartID: string
  - productID: string
  - quantity: int

Returns:
  - error: Storage failures
*/
func (repository *cartRepository) MergeItem(context context.Context, cartID, productID string, quantity int) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (%s, %s)
		DO UPDATE SET %s = %s.%s + EXCLUDED.%s, %s = EXCLUDED.%s`,
		schema.CartItem.Table,
		schema.CartItem.ID, schema.CartItem.CartID, schema.CartItem.ProductID,
		schema.CartItem.Quantity, schema.CartItem.CreatedAt, schema.CartItem.UpdatedAt,
		schema.CartItem.CartID, schema.CartItem.ProductID,
		schema.CartItem.Quantity, schema.CartItem.Table, schema.CartItem.Quantity, schema.CartItem.Quantity,
		schema.CartItem.UpdatedAt, schema.CartItem.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query, uuid.New(), cartID, productID, quantity, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_cart_repo_merge_failed: %w", err)
	}

	return repository.touch(context, cartID)
}

/*
SetItemQuantity overwrites the quantity of an existing product line.

Parameters:
  - context: context.Context
  - cartID: string
  - productID: string
  - quantity: int

Returns:
  - error: Storage failures
*/
func (repository *cartRepository) SetItemQuantity(context context.Context, cartID, productID string, quantity int) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $3, %s = $4 WHERE %s = $1 AND %s = $2",
		schema.CartItem.Table, schema.CartItem.Quantity, schema.CartItem.UpdatedAt,
		schema.CartItem.CartID, schema.CartItem.ProductID,
	)

	_, err := repository.pool.Exec(context, query, cartID, productID, quantity, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_cart_repo_set_quantity_failed: %w", err)
	}

	return repository.touch(context, cartID)
}

/*
RemoveItem deletes a product line. Removing an absent line is a no-op.

Parameters:
  - context: context.Context
  - cartID: string
  - productID: string

Returns:
  - error: Storage failures
*/
func (repository *cartRepository) RemoveItem(context context.Context, cartID, productID string) error {
	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.CartItem.Table, schema.CartItem.CartID, schema.CartItem.ProductID,
	)

	_, err := repository.pool.Exec(context, query, cartID, productID)
	if err != nil {
		return fmt.Errorf("postgres_cart_repo_remove_failed: %w", err)
	}

	return repository.touch(context, cartID)
}

/*
Clear deletes every line in the cart.

Parameters:
  - context: context.Context
  - cartID: string

Returns:
  - error: Storage failures
*/
func (repository *cartRepository) Clear(context context.Context, cartID string) error {
	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1",
		schema.CartItem.Table, schema.CartItem.CartID,
	)

	_, err := repository.pool.Exec(context, query, cartID)
	if err != nil {
		return fmt.Errorf("postgres_cart_repo_clear_failed: %w", err)
	}

	return repository.touch(context, cartID)
}

// touch refreshes the cart's updatedat stamp after any line mutation.
func (repository *cartRepository) touch(context context.Context, cartID string) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $2 WHERE %s = $1",
		schema.Cart.Table, schema.Cart.UpdatedAt, schema.Cart.ID,
	)

	if _, err := repository.pool.Exec(context, query, cartID, time.Now()); err != nil {
		return fmt.Errorf("postgres_cart_repo_touch_failed: %w", err)
	}

	return nil
}
