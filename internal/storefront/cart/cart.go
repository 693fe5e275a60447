// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cart manages the storefront's shopping cart: an in-memory view of a
persisted line-item list, optionally synchronized with the backend cart.

# Architecture

  - Local persistence is synchronous and happens before any remote call, so
    a caller reading the cart right after a mutation always sees the new
    state regardless of the network.
  - Remote synchronization is best effort. Failures are reported in the
    returned [Status] but never roll back the local mutation; the local
    cart is the source of truth for the session.
  - The persisted snapshot carries a version counter. A concurrent writer
    to the same state file is detected at write time and reported via
    [Status.ConflictDetected]; the last writer still wins.

Derived values (total, item count) are recomputed on every read, never
cached.
*/
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taibuivan/fruvia/internal/storefront/kvstore"
)

// LineItem is one product entry in the cart.
type LineItem struct {
	ProductID     string  `json:"product_id"`
	Title         string  `json:"title"`
	UnitPrice     float64 `json:"unit_price"`
	ImageRef      string  `json:"image_ref,omitempty"`
	Quantity      int     `json:"quantity"`
	StockQuantity int     `json:"stock_quantity"`
}

// snapshot is the persisted cart shape. Version increments on every write
// so concurrent writers to the shared state file can be detected.
type snapshot struct {
	Version int        `json:"version"`
	Items   []LineItem `json:"items"`
}

// StockError reports a requested quantity above the known stock ceiling.
type StockError struct {
	ProductID string
	Message   string
}

func (e *StockError) Error() string { return e.Message }

// SyncOutcome describes what happened to the best-effort remote sync.
type SyncOutcome int

const (
	// SyncSkipped means no remote call was attempted (not authenticated).
	SyncSkipped SyncOutcome = iota

	// SyncApplied means the remote cart accepted the change.
	SyncApplied

	// SyncFailed means the remote call failed; local state stands.
	SyncFailed
)

// Status is the degraded-success result of a cart mutation. The mutation
// itself always took effect locally; Status reports how durable it is.
type Status struct {
	// Persisted is false when the state-file write failed; the in-memory
	// cart still holds the change.
	Persisted bool

	// Sync reports the outcome of the best-effort remote call.
	Sync SyncOutcome

	// ConflictDetected is true when another writer changed the persisted
	// cart since this manager last read it. The write went through anyway.
	ConflictDetected bool
}

// Remote is the slice of the backend client the cart needs. It is an
// interface so tests can substitute a recording fake.
type Remote interface {
	AddItem(ctx context.Context, productID string, quantity int) error
	SetQuantity(ctx context.Context, productID string, quantity int) error
	RemoveItem(ctx context.Context, productID string) error
	Fetch(ctx context.Context) ([]LineItem, error)
	Checkout(ctx context.Context, shippingAddress string) (*PlacedOrder, error)
}

// PlacedOrder is the result of a successful checkout.
type PlacedOrder struct {
	ID    string
	Total float64
}

// Authenticator reports whether a session is signed in; remote sync is only
// attempted when it is.
type Authenticator interface {
	IsAuthenticated() bool
}

// Manager owns cart state over the key-value store and the remote cart.
type Manager struct {
	mutex sync.Mutex

	store  *kvstore.Store
	remote Remote
	auth   Authenticator
	logger *slog.Logger

	items       []LineItem
	baseVersion int
}

// NewManager loads the persisted cart into memory and returns the manager.
func NewManager(store *kvstore.Store, remote Remote, auth Authenticator, logger *slog.Logger) *Manager {
	manager := &Manager{
		store:  store,
		remote: remote,
		auth:   auth,
		logger: logger,
	}

	var persisted snapshot
	if store.Get(kvstore.KeyCart, &persisted) {
		manager.items = persisted.Items
		manager.baseVersion = persisted.Version
	}

	return manager
}

// Invalidate drops the in-memory lines and reloads from the store. The
// session calls this after wiping identity-scoped keys, so a signed-out
// process never serves the previous customer's cart from memory.
func (manager *Manager) Invalidate() {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	manager.items = nil
	manager.baseVersion = 0

	var persisted snapshot
	if manager.store.Get(kvstore.KeyCart, &persisted) {
		manager.items = persisted.Items
		manager.baseVersion = persisted.Version
	}
}

// # Derived Reads

// Items returns a copy of the current cart lines.
func (manager *Manager) Items() []LineItem {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	return append([]LineItem(nil), manager.items...)
}

// Total returns Σ unitPrice × quantity, recomputed fresh.
func (manager *Manager) Total() float64 {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	var total float64
	for _, item := range manager.items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// ItemCount returns Σ quantity across all lines.
func (manager *Manager) ItemCount() int {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	var count int
	for _, item := range manager.items {
		count += item.Quantity
	}
	return count
}

// # Mutations

/*
AddItem merges a product into the cart.

Description: An existing line for the same ProductID absorbs the added
quantity; otherwise a new line is appended. The cart is persisted before any
remote call. When authenticated, a best-effort remote add follows; its
failure is recorded in the Status and otherwise ignored.

Parameters:
  - context: context.Context
  - item: LineItem — product data; Quantity on the item itself is ignored
  - quantity: int — how many to add; values below 1 are clamped to 1

Returns:
  - []LineItem: The updated cart
  - Status: Persistence and sync outcome
*/
func (manager *Manager) AddItem(context context.Context, item LineItem, quantity int) ([]LineItem, Status) {
	if quantity < 1 {
		quantity = 1
	}

	manager.mutex.Lock()

	merged := false
	for index := range manager.items {
		if manager.items[index].ProductID == item.ProductID {
			manager.items[index].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = quantity
		manager.items = append(manager.items, item)
	}

	status := manager.persistLocked()
	items := append([]LineItem(nil), manager.items...)
	manager.mutex.Unlock()

	status.Sync = manager.sync(context, func() error {
		return manager.remote.AddItem(context, item.ProductID, quantity)
	})

	return items, status
}

/*
RemoveItem deletes a product line from the cart.

Parameters:
  - context: context.Context
  - productID: string

Returns:
  - []LineItem: The updated cart
  - Status: Persistence and sync outcome; Sync is skipped when the line was
    not present
*/
func (manager *Manager) RemoveItem(context context.Context, productID string) ([]LineItem, Status) {
	manager.mutex.Lock()

	found := false
	filtered := manager.items[:0]
	for _, item := range manager.items {
		if item.ProductID == productID {
			found = true
			continue
		}
		filtered = append(filtered, item)
	}
	manager.items = filtered

	var status Status
	if found {
		status = manager.persistLocked()
	} else {
		status = Status{Persisted: true}
	}
	items := append([]LineItem(nil), manager.items...)
	manager.mutex.Unlock()

	if found {
		status.Sync = manager.sync(context, func() error {
			return manager.remote.RemoveItem(context, productID)
		})
	}

	return items, status
}

/*
UpdateItem sets the absolute quantity of a line.

Description: Three regimes, checked in order:
  - quantity above stock: the cart is left untouched and a [*StockError]
    names the offending product;
  - quantity below 1: the line is removed entirely;
  - otherwise the quantity is set.

The stock ceiling is advisory, a snapshot from the catalogue; the backend
re-validates at checkout.

Parameters:
  - context: context.Context
  - productID: string
  - quantity: int
  - stock: int — the known stock ceiling for the product

Returns:
  - []LineItem: The cart after the operation (unchanged on stock error)
  - Status: Persistence and sync outcome
  - error: *StockError when the requested quantity exceeds stock
*/
func (manager *Manager) UpdateItem(context context.Context, productID string, quantity, stock int) ([]LineItem, Status, error) {
	if quantity > stock {
		manager.mutex.Lock()
		items := append([]LineItem(nil), manager.items...)
		manager.mutex.Unlock()

		return items, Status{Persisted: true}, &StockError{
			ProductID: productID,
			Message:   fmt.Sprintf("Only %d in stock for this product", stock),
		}
	}

	if quantity < 1 {
		items, status := manager.RemoveItem(context, productID)
		return items, status, nil
	}

	manager.mutex.Lock()

	found := false
	for index := range manager.items {
		if manager.items[index].ProductID == productID {
			manager.items[index].Quantity = quantity
			found = true
			break
		}
	}

	var status Status
	if found {
		status = manager.persistLocked()
	} else {
		status = Status{Persisted: true}
	}
	items := append([]LineItem(nil), manager.items...)
	manager.mutex.Unlock()

	if found {
		status.Sync = manager.sync(context, func() error {
			return manager.remote.SetQuantity(context, productID, quantity)
		})
	}

	return items, status, nil
}

/*
Clear empties the cart.

Description: The local cart is wiped and persisted first. When
authenticated, every remote line removal is attempted independently; one
failure does not stop the others.

Parameters:
  - context: context.Context

Returns:
  - Status: Persistence outcome; Sync is failed if any remote removal failed
*/
func (manager *Manager) Clear(context context.Context) Status {
	manager.mutex.Lock()
	removed := append([]LineItem(nil), manager.items...)
	manager.items = nil
	status := manager.persistLocked()
	manager.mutex.Unlock()

	if !manager.auth.IsAuthenticated() || len(removed) == 0 {
		status.Sync = SyncSkipped
		return status
	}

	status.Sync = SyncApplied
	for _, item := range removed {
		if err := manager.remote.RemoveItem(context, item.ProductID); err != nil {
			manager.logger.Warn("cart_remote_sync_failed",
				slog.String("product_id", item.ProductID),
				slog.Any("error", err),
			)
			status.Sync = SyncFailed
		}
	}

	return status
}

/*
LoadRemote overwrites the local cart wholesale from the backend.

Description: This is the only reconciliation path; best-effort sync never
merges remote state back.

Parameters:
  - context: context.Context

Returns:
  - error: Remote fetch failure; local state is untouched on failure
*/
func (manager *Manager) LoadRemote(context context.Context) error {
	remoteItems, err := manager.remote.Fetch(context)
	if err != nil {
		return fmt.Errorf("cart: failed to load remote cart: %w", err)
	}

	manager.mutex.Lock()
	manager.items = remoteItems
	status := manager.persistLocked()
	manager.mutex.Unlock()

	if !status.Persisted {
		manager.logger.Warn("cart_persist_degraded")
	}

	return nil
}

/*
Checkout places an order from the current cart via the backend and clears
the local cart on success only.

Parameters:
  - context: context.Context
  - shippingAddress: string

Returns:
  - *PlacedOrder: The placed order
  - error: Checkout failure; the local cart is untouched on failure
*/
func (manager *Manager) Checkout(context context.Context, shippingAddress string) (*PlacedOrder, error) {
	placed, err := manager.remote.Checkout(context, shippingAddress)
	if err != nil {
		return nil, err
	}

	manager.mutex.Lock()
	manager.items = nil
	status := manager.persistLocked()
	manager.mutex.Unlock()

	if !status.Persisted {
		manager.logger.Warn("cart_persist_degraded")
	}

	manager.logger.Info("checkout_completed", slog.String("order_id", placed.ID))

	return placed, nil
}

/*
PushRemote adds every local line to the remote cart, line by line.

Description: Used right after sign-in so a cart built while signed out
follows the customer into the account. The backend merges by product, so a
line already present remotely absorbs the pushed quantity. Local state is
never modified.

Parameters:
  - context: context.Context

Returns:
  - SyncOutcome: Applied, failed when any line failed, or skipped when not
    authenticated or the cart is empty
*/
func (manager *Manager) PushRemote(context context.Context) SyncOutcome {
	manager.mutex.Lock()
	items := append([]LineItem(nil), manager.items...)
	manager.mutex.Unlock()

	if !manager.auth.IsAuthenticated() || len(items) == 0 {
		return SyncSkipped
	}

	outcome := SyncApplied
	for _, item := range items {
		if err := manager.remote.AddItem(context, item.ProductID, item.Quantity); err != nil {
			manager.logger.Warn("cart_remote_sync_failed",
				slog.String("product_id", item.ProductID),
				slog.Any("error", err),
			)
			outcome = SyncFailed
		}
	}

	return outcome
}

// # Persistence

// persistLocked writes the snapshot. Callers must hold the mutex.
//
// The stored version is compared against the version this manager last
// observed; a mismatch means another process wrote in between. The write
// still wins, but the conflict is reported.
func (manager *Manager) persistLocked() Status {
	status := Status{Persisted: true}

	var stored snapshot
	if manager.store.Get(kvstore.KeyCart, &stored) && stored.Version != manager.baseVersion {
		manager.logger.Warn("cart_conflict_detected",
			slog.Int("expected_version", manager.baseVersion),
			slog.Int("stored_version", stored.Version),
		)
		status.ConflictDetected = true
		manager.baseVersion = stored.Version
	}

	manager.baseVersion++
	err := manager.store.Set(kvstore.KeyCart, snapshot{
		Version: manager.baseVersion,
		Items:   manager.items,
	})
	if err != nil {
		manager.logger.Warn("cart_persist_degraded", slog.Any("error", err))
		status.Persisted = false
	}

	return status
}

// sync runs one best-effort remote call when authenticated.
func (manager *Manager) sync(context context.Context, call func() error) SyncOutcome {
	if !manager.auth.IsAuthenticated() {
		return SyncSkipped
	}

	if err := call(); err != nil {
		manager.logger.Warn("cart_remote_sync_failed", slog.Any("error", err))
		return SyncFailed
	}

	return SyncApplied
}
