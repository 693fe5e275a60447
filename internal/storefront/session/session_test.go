// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fruvia/internal/storefront/api"
	"github.com/taibuivan/fruvia/internal/storefront/cart"
	"github.com/taibuivan/fruvia/internal/storefront/kvstore"
	"github.com/taibuivan/fruvia/internal/storefront/session"
)

// silentRemote is a cart remote that accepts everything.
type silentRemote struct{}

func (silentRemote) AddItem(context.Context, string, int) error     { return nil }
func (silentRemote) SetQuantity(context.Context, string, int) error { return nil }
func (silentRemote) RemoveItem(context.Context, string) error       { return nil }
func (silentRemote) Fetch(context.Context) ([]cart.LineItem, error) { return nil, nil }
func (silentRemote) Checkout(context.Context, string) (*cart.PlacedOrder, error) {
	return &cart.PlacedOrder{ID: "order-1"}, nil
}

// newBackend serves just enough of the auth surface for the session tests.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(writer http.ResponseWriter, request *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))

		if body.Password != "s3cret" {
			writer.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(writer).Encode(map[string]any{
				"error": "Invalid credentials", "code": "UNAUTHORIZED",
			})
			return
		}

		json.NewEncoder(writer).Encode(map[string]any{"data": map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"user": map[string]any{
				"id": "u1", "name": "Mai", "email": body.Email, "role": "customer",
			},
		}})
	})
	mux.HandleFunc("POST /auth/logout", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newSession(t *testing.T, baseURL string) (*session.Manager, *kvstore.Store) {
	t.Helper()

	store, err := kvstore.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	manager := session.NewManager(store, logger)
	client := api.NewClient(baseURL, manager, func() {}, logger)
	manager.Bind(client)
	return manager, store
}

/*
TestManager_Login checks that a successful login persists tokens and the
user snapshot in one batch, and that a rejected login persists nothing.
*/
func TestManager_Login(t *testing.T) {
	backend := newBackend(t)
	manager, store := newSession(t, backend.URL)
	ctx := context.Background()

	identity, err := manager.Login(ctx, "mai@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Mai", identity.Name)
	assert.Equal(t, "customer", identity.Role)

	assert.True(t, manager.IsAuthenticated())
	assert.Equal(t, "access-1", store.GetString(kvstore.KeyToken))
	assert.Equal(t, "refresh-1", store.GetString(kvstore.KeyRefreshToken))
	require.NotNil(t, manager.User())
	assert.Equal(t, "u1", manager.User().ID)

	t.Run("rejected", func(t *testing.T) {
		fresh, store := newSession(t, backend.URL)

		_, err := fresh.Login(ctx, "mai@example.com", "wrong")
		require.Error(t, err)

		var apiErr *api.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

		assert.False(t, fresh.IsAuthenticated())
		assert.Equal(t, "", store.GetString(kvstore.KeyToken))
	})
}

/*
TestManager_RolePredicates checks the role checks against every stored
spelling, including the legacy super_admin form.
*/
func TestManager_RolePredicates(t *testing.T) {
	tests := []struct {
		role         string
		isAdmin      bool
		isSuperAdmin bool
		isCustomer   bool
	}{
		{"customer", false, false, true},
		{"admin", true, false, false},
		{"superadmin", true, true, false},
		{"super_admin", true, true, false},
		{"", false, false, false},
	}

	for _, tt := range tests {
		t.Run("role_"+tt.role, func(t *testing.T) {
			store, err := kvstore.Open(filepath.Join(t.TempDir(), "state.json"))
			require.NoError(t, err)

			if tt.role != "" {
				require.NoError(t, store.Set(kvstore.KeyUser, session.Identity{ID: "u1", Role: tt.role}))
			}

			manager := session.NewManager(store, slog.New(slog.DiscardHandler))
			assert.Equal(t, tt.isAdmin, manager.IsAdmin())
			assert.Equal(t, tt.isSuperAdmin, manager.IsSuperAdmin())
			assert.Equal(t, tt.isCustomer, manager.IsCustomer())
		})
	}
}

/*
TestManager_Logout checks that signing out wipes every identity-scoped key,
including the cart and cached reads.
*/
func TestManager_Logout(t *testing.T) {
	backend := newBackend(t)
	manager, store := newSession(t, backend.URL)
	ctx := context.Background()

	_, err := manager.Login(ctx, "mai@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, store.SetString(kvstore.KeyCart, `{"version":1,"items":[]}`))
	require.NoError(t, store.SetString(kvstore.CachePrefix+"products", "[]"))

	require.NoError(t, manager.Logout(ctx))

	assert.False(t, manager.IsAuthenticated())
	assert.Nil(t, manager.User())
	assert.Equal(t, "", store.GetString(kvstore.KeyCart))
	assert.Empty(t, store.Keys(kvstore.CachePrefix))
}

/*
TestManager_Logout_EmptiesCartView checks that signing out empties the cart
as seen by a live cart manager in the same process, not just the persisted
key.
*/
func TestManager_Logout_EmptiesCartView(t *testing.T) {
	backend := newBackend(t)
	manager, store := newSession(t, backend.URL)
	ctx := context.Background()

	cartManager := cart.NewManager(store, silentRemote{}, manager, slog.New(slog.DiscardHandler))
	manager.OnWipe(cartManager.Invalidate)

	_, err := manager.Login(ctx, "mai@example.com", "s3cret")
	require.NoError(t, err)

	cartManager.AddItem(ctx, cart.LineItem{
		ProductID: "p1", Title: "Dragon Fruit", UnitPrice: 3.5, StockQuantity: 10,
	}, 2)
	require.Equal(t, 2, cartManager.ItemCount())

	require.NoError(t, manager.Logout(ctx))

	assert.False(t, manager.IsAuthenticated())
	assert.Empty(t, cartManager.Items())
	assert.Equal(t, 0, cartManager.ItemCount())
	assert.InDelta(t, 0, cartManager.Total(), 1e-9)
}

/*
TestManager_RefreshAccessToken checks the explicit refresh path: a missing
or rejected refresh token ends the session.
*/
func TestManager_RefreshAccessToken(t *testing.T) {
	ctx := context.Background()

	t.Run("missing_token_wipes", func(t *testing.T) {
		backend := newBackend(t)
		manager, _ := newSession(t, backend.URL)

		_, err := manager.RefreshAccessToken(ctx)
		require.Error(t, err)
		assert.False(t, manager.IsAuthenticated())
	})

	t.Run("rotates_pair", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /auth/refresh", func(writer http.ResponseWriter, request *http.Request) {
			var body struct {
				RefreshToken string `json:"refresh_token"`
			}
			require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			require.Equal(t, "refresh-1", body.RefreshToken)

			json.NewEncoder(writer).Encode(map[string]any{"data": map[string]any{
				"access_token": "access-2", "refresh_token": "refresh-2",
			}})
		})
		backend := httptest.NewServer(mux)
		t.Cleanup(backend.Close)

		manager, store := newSession(t, backend.URL)
		require.NoError(t, store.SetString(kvstore.KeyToken, "access-1"))
		require.NoError(t, store.SetString(kvstore.KeyRefreshToken, "refresh-1"))

		token, err := manager.RefreshAccessToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "access-2", token)
		assert.Equal(t, "refresh-2", store.GetString(kvstore.KeyRefreshToken))
	})

	t.Run("rejected_wipes", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /auth/refresh", func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(writer).Encode(map[string]any{
				"error": "Refresh token revoked", "code": "UNAUTHORIZED",
			})
		})
		backend := httptest.NewServer(mux)
		t.Cleanup(backend.Close)

		manager, store := newSession(t, backend.URL)
		require.NoError(t, store.SetString(kvstore.KeyToken, "access-1"))
		require.NoError(t, store.SetString(kvstore.KeyRefreshToken, "refresh-1"))

		_, err := manager.RefreshAccessToken(ctx)
		require.Error(t, err)
		assert.Equal(t, "", store.GetString(kvstore.KeyToken))
		assert.Equal(t, "", store.GetString(kvstore.KeyRefreshToken))
	})
}
