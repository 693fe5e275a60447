// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart_test

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fruvia/internal/storefront/cart"
	"github.com/taibuivan/fruvia/internal/storefront/kvstore"
)

// fakeRemote records the calls the manager makes and can be told to fail.
type fakeRemote struct {
	adds      []string
	sets      []string
	removes   []string
	checkouts int
	fetched   []cart.LineItem
	err       error
}

func (r *fakeRemote) AddItem(_ context.Context, productID string, quantity int) error {
	r.adds = append(r.adds, productID)
	return r.err
}

func (r *fakeRemote) SetQuantity(_ context.Context, productID string, quantity int) error {
	r.sets = append(r.sets, productID)
	return r.err
}

func (r *fakeRemote) RemoveItem(_ context.Context, productID string) error {
	r.removes = append(r.removes, productID)
	return r.err
}

func (r *fakeRemote) Fetch(_ context.Context) ([]cart.LineItem, error) {
	return r.fetched, r.err
}

func (r *fakeRemote) Checkout(_ context.Context, _ string) (*cart.PlacedOrder, error) {
	r.checkouts++
	if r.err != nil {
		return nil, r.err
	}
	return &cart.PlacedOrder{ID: "order-1", Total: 42}, nil
}

type fakeAuth struct{ signedIn bool }

func (a *fakeAuth) IsAuthenticated() bool { return a.signedIn }

func newManager(t *testing.T, remote cart.Remote, auth cart.Authenticator) (*cart.Manager, *kvstore.Store) {
	t.Helper()

	store, err := kvstore.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	logger := slog.New(slog.DiscardHandler)
	return cart.NewManager(store, remote, auth, logger), store
}

func dragonFruit() cart.LineItem {
	return cart.LineItem{
		ProductID:     "p1",
		Title:         "Dragon Fruit",
		UnitPrice:     3.5,
		StockQuantity: 10,
	}
}

/*
TestManager_AddItem_MergesByProduct checks that adding the same product
twice sums quantities into one line instead of duplicating it.
*/
func TestManager_AddItem_MergesByProduct(t *testing.T) {
	manager, _ := newManager(t, &fakeRemote{}, &fakeAuth{})
	ctx := context.Background()

	items, status := manager.AddItem(ctx, dragonFruit(), 2)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, status.Persisted)
	assert.Equal(t, cart.SyncSkipped, status.Sync)

	items, _ = manager.AddItem(ctx, dragonFruit(), 3)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 5, manager.ItemCount())
}

/*
TestManager_DerivedTotals checks that total and item count are recomputed
from the lines on every read.
*/
func TestManager_DerivedTotals(t *testing.T) {
	manager, _ := newManager(t, &fakeRemote{}, &fakeAuth{})
	ctx := context.Background()

	manager.AddItem(ctx, dragonFruit(), 2)
	manager.AddItem(ctx, cart.LineItem{ProductID: "p2", Title: "Mango", UnitPrice: 2, StockQuantity: 5}, 3)

	assert.InDelta(t, 13.0, manager.Total(), 1e-9)
	assert.Equal(t, 5, manager.ItemCount())

	manager.RemoveItem(ctx, "p2")
	assert.InDelta(t, 7.0, manager.Total(), 1e-9)
	assert.Equal(t, 2, manager.ItemCount())
}

/*
TestManager_UpdateItem_StockGuard checks that a quantity above stock leaves
the cart untouched and surfaces a typed stock error.
*/
func TestManager_UpdateItem_StockGuard(t *testing.T) {
	remote := &fakeRemote{}
	manager, _ := newManager(t, remote, &fakeAuth{signedIn: true})
	ctx := context.Background()

	manager.AddItem(ctx, dragonFruit(), 2)

	items, status, err := manager.UpdateItem(ctx, "p1", 11, 10)
	require.Error(t, err)

	var stockErr *cart.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "p1", stockErr.ProductID)

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, status.Persisted)
	assert.Empty(t, remote.sets, "no remote call on a rejected update")
}

/*
TestManager_UpdateItem_ZeroRemovesLine checks that setting a quantity below
one removes the line entirely. The cart never holds a zero-quantity line.
*/
func TestManager_UpdateItem_ZeroRemovesLine(t *testing.T) {
	remote := &fakeRemote{}
	manager, _ := newManager(t, remote, &fakeAuth{signedIn: true})
	ctx := context.Background()

	manager.AddItem(ctx, dragonFruit(), 2)

	items, status, err := manager.UpdateItem(ctx, "p1", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, cart.SyncApplied, status.Sync)
	assert.Equal(t, []string{"p1"}, remote.removes)
}

/*
TestManager_Sync_BestEffort checks that a failing backend marks the status
but never rolls back the local mutation.
*/
func TestManager_Sync_BestEffort(t *testing.T) {
	remote := &fakeRemote{err: errors.New("backend down")}
	manager, _ := newManager(t, remote, &fakeAuth{signedIn: true})
	ctx := context.Background()

	items, status := manager.AddItem(ctx, dragonFruit(), 1)
	require.Len(t, items, 1)
	assert.True(t, status.Persisted)
	assert.Equal(t, cart.SyncFailed, status.Sync)
	assert.Equal(t, 1, manager.ItemCount())
}

/*
TestManager_Persistence checks that the cart survives a new manager over
the same store, signed in or not.
*/
func TestManager_Persistence(t *testing.T) {
	manager, store := newManager(t, &fakeRemote{}, &fakeAuth{})
	ctx := context.Background()

	manager.AddItem(ctx, dragonFruit(), 4)

	revived := cart.NewManager(store, &fakeRemote{}, &fakeAuth{}, slog.New(slog.DiscardHandler))
	assert.Equal(t, 4, revived.ItemCount())
	assert.InDelta(t, 14.0, revived.Total(), 1e-9)
}

/*
TestManager_ConflictDetection checks that a write by another session is
detected on the next local write and reported, with the local write still
winning.
*/
func TestManager_ConflictDetection(t *testing.T) {
	manager, store := newManager(t, &fakeRemote{}, &fakeAuth{})
	ctx := context.Background()

	manager.AddItem(ctx, dragonFruit(), 1)

	// A second manager over the same store plays the other session.
	other := cart.NewManager(store, &fakeRemote{}, &fakeAuth{}, slog.New(slog.DiscardHandler))
	_, otherStatus := other.AddItem(ctx, cart.LineItem{ProductID: "p2", Title: "Mango", UnitPrice: 2}, 1)
	assert.False(t, otherStatus.ConflictDetected)

	_, status := manager.AddItem(ctx, dragonFruit(), 1)
	assert.True(t, status.ConflictDetected)
	assert.True(t, status.Persisted)

	// The conflicted writer won; its view is what persisted.
	var persisted struct {
		Items []cart.LineItem `json:"items"`
	}
	require.True(t, store.Get(kvstore.KeyCart, &persisted))
	require.Len(t, persisted.Items, 1)
	assert.Equal(t, 2, persisted.Items[0].Quantity)
}

/*
TestManager_LoadRemote checks the wholesale overwrite from the backend.
*/
func TestManager_LoadRemote(t *testing.T) {
	remote := &fakeRemote{fetched: []cart.LineItem{
		{ProductID: "p9", Title: "Papaya", UnitPrice: 4, Quantity: 2},
	}}
	manager, _ := newManager(t, remote, &fakeAuth{signedIn: true})
	ctx := context.Background()

	manager.AddItem(ctx, dragonFruit(), 3)
	require.NoError(t, manager.LoadRemote(ctx))

	items := manager.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p9", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
}

/*
TestManager_Clear checks that clearing removes every line locally and
attempts every remote removal independently.
*/
func TestManager_Clear(t *testing.T) {
	remote := &fakeRemote{}
	manager, _ := newManager(t, remote, &fakeAuth{signedIn: true})
	ctx := context.Background()

	manager.AddItem(ctx, dragonFruit(), 1)
	manager.AddItem(ctx, cart.LineItem{ProductID: "p2", Title: "Mango", UnitPrice: 2}, 1)

	status := manager.Clear(ctx)
	assert.True(t, status.Persisted)
	assert.Equal(t, cart.SyncApplied, status.Sync)
	assert.Empty(t, manager.Items())
	assert.ElementsMatch(t, []string{"p1", "p2"}, remote.removes)
}

/*
TestManager_Checkout checks that the local cart is cleared only when the
backend accepted the order.
*/
func TestManager_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("success_clears_cart", func(t *testing.T) {
		remote := &fakeRemote{}
		manager, _ := newManager(t, remote, &fakeAuth{signedIn: true})
		manager.AddItem(ctx, dragonFruit(), 1)

		placed, err := manager.Checkout(ctx, "12 Orchard Road")
		require.NoError(t, err)
		assert.Equal(t, "order-1", placed.ID)
		assert.Empty(t, manager.Items())
	})

	t.Run("failure_keeps_cart", func(t *testing.T) {
		remote := &fakeRemote{}
		manager, _ := newManager(t, remote, &fakeAuth{signedIn: true})
		manager.AddItem(ctx, dragonFruit(), 1)

		remote.err = errors.New("insufficient stock")
		_, err := manager.Checkout(ctx, "12 Orchard Road")
		require.Error(t, err)
		assert.Equal(t, 1, manager.ItemCount())
	})
}

/*
TestManager_Invalidate checks that dropping the in-memory view picks up
whatever the store holds now: nothing after an identity wipe, the stored
snapshot otherwise.
*/
func TestManager_Invalidate(t *testing.T) {
	manager, store := newManager(t, &fakeRemote{}, &fakeAuth{})
	ctx := context.Background()

	manager.AddItem(ctx, dragonFruit(), 2)
	require.Equal(t, 2, manager.ItemCount())

	// An identity wipe removes the cart key behind the manager's back.
	require.NoError(t, store.Remove(kvstore.KeyCart))
	manager.Invalidate()

	assert.Empty(t, manager.Items())
	assert.Equal(t, 0, manager.ItemCount())
	assert.InDelta(t, 0, manager.Total(), 1e-9)

	// A snapshot written by another holder is adopted on invalidation.
	other := cart.NewManager(store, &fakeRemote{}, &fakeAuth{}, slog.New(slog.DiscardHandler))
	other.AddItem(ctx, dragonFruit(), 3)

	manager.Invalidate()
	assert.Equal(t, 3, manager.ItemCount())
}

/*
TestManager_PushRemote checks the post-sign-in push of a locally built cart.
*/
func TestManager_PushRemote(t *testing.T) {
	remote := &fakeRemote{}
	auth := &fakeAuth{}
	manager, _ := newManager(t, remote, auth)
	ctx := context.Background()

	manager.AddItem(ctx, dragonFruit(), 2)
	assert.Equal(t, cart.SyncSkipped, manager.PushRemote(ctx), "signed out")
	assert.Empty(t, remote.adds)

	auth.signedIn = true
	assert.Equal(t, cart.SyncApplied, manager.PushRemote(ctx))
	assert.Equal(t, []string{"p1"}, remote.adds)
	assert.Equal(t, 2, manager.ItemCount(), "push never mutates local state")
}
