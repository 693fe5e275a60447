// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fruvia/internal/storefront/api"
)

// memoryCreds is an in-memory CredentialSource.
type memoryCreds struct {
	mutex   sync.Mutex
	access  string
	refresh string
	cleared bool
}

func (c *memoryCreds) AccessToken() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.access
}

func (c *memoryCreds) RefreshToken() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.refresh
}

func (c *memoryCreds) StoreTokens(access, refresh string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.access, c.refresh = access, refresh
	return nil
}

func (c *memoryCreds) ClearCredentials() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.access, c.refresh, c.cleared = "", "", true
	return nil
}

func writeData(t *testing.T, writer http.ResponseWriter, data any) {
	t.Helper()
	require.NoError(t, json.NewEncoder(writer).Encode(map[string]any{"data": data}))
}

/*
TestRefreshTransport_SilentRetry checks the happy recovery path: an expired
access token triggers exactly one refresh and one replay, invisible to the
caller.
*/
func TestRefreshTransport_SilentRetry(t *testing.T) {
	var refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/me", func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "Bearer fresh" {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeData(t, writer, map[string]string{"id": "u1", "name": "Mai", "role": "customer"})
	})
	mux.HandleFunc("POST /auth/refresh", func(writer http.ResponseWriter, request *http.Request) {
		refreshCalls.Add(1)

		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		require.Equal(t, "refresh-1", body.RefreshToken)

		writeData(t, writer, map[string]string{
			"access_token": "fresh", "refresh_token": "refresh-2",
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	creds := &memoryCreds{access: "stale", refresh: "refresh-1"}
	client := api.NewClient(server.URL, creds, func() {
		t.Fatal("force logout must not fire on a successful refresh")
	}, slog.New(slog.DiscardHandler))

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, "fresh", creds.AccessToken())
	assert.Equal(t, "refresh-2", creds.RefreshToken())
}

/*
TestRefreshTransport_RetryBound checks that a request still unauthorized
after one refresh is returned as-is, with no second refresh attempt.
*/
func TestRefreshTransport_RetryBound(t *testing.T) {
	var refreshCalls, meCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/me", func(writer http.ResponseWriter, _ *http.Request) {
		meCalls.Add(1)
		writer.WriteHeader(http.StatusUnauthorized)
		require.NoError(t, json.NewEncoder(writer).Encode(map[string]any{
			"error": "Account disabled", "code": "UNAUTHORIZED",
		}))
	})
	mux.HandleFunc("POST /auth/refresh", func(writer http.ResponseWriter, _ *http.Request) {
		refreshCalls.Add(1)
		writeData(t, writer, map[string]string{
			"access_token": "fresh", "refresh_token": "refresh-2",
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	creds := &memoryCreds{access: "stale", refresh: "refresh-1"}
	client := api.NewClient(server.URL, creds, nil, slog.New(slog.DiscardHandler))

	_, err := client.Me(context.Background())
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	assert.Equal(t, int32(1), refreshCalls.Load(), "refresh attempted exactly once")
	assert.Equal(t, int32(2), meCalls.Load(), "original send plus one replay")
}

/*
TestRefreshTransport_ForceLogout checks the terminal path: a rejected
refresh wipes credentials, fires the force-logout hook, and surfaces the
original 401 to the caller.
*/
func TestRefreshTransport_ForceLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/me", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		require.NoError(t, json.NewEncoder(writer).Encode(map[string]any{
			"error": "Token expired", "code": "UNAUTHORIZED",
		}))
	})
	mux.HandleFunc("POST /auth/refresh", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	var forcedOut atomic.Bool
	creds := &memoryCreds{access: "stale", refresh: "revoked"}
	client := api.NewClient(server.URL, creds, func() { forcedOut.Store(true) }, slog.New(slog.DiscardHandler))

	_, err := client.Me(context.Background())
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Token expired", apiErr.Message)

	assert.True(t, forcedOut.Load())
	assert.True(t, creds.cleared)
	assert.Equal(t, "", creds.AccessToken())
}

/*
TestRefreshTransport_ConcurrentRefresh checks that parallel requests failing
on the same stale token share a single refresh.
*/
func TestRefreshTransport_ConcurrentRefresh(t *testing.T) {
	var refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/me", func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "Bearer fresh" {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeData(t, writer, map[string]string{"id": "u1", "role": "customer"})
	})
	mux.HandleFunc("POST /auth/refresh", func(writer http.ResponseWriter, _ *http.Request) {
		refreshCalls.Add(1)
		writeData(t, writer, map[string]string{
			"access_token": "fresh", "refresh_token": "refresh-2",
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	creds := &memoryCreds{access: "stale", refresh: "refresh-1"}
	client := api.NewClient(server.URL, creds, nil, slog.New(slog.DiscardHandler))

	var group sync.WaitGroup
	for range 8 {
		group.Add(1)
		go func() {
			defer group.Done()
			_, err := client.Me(context.Background())
			assert.NoError(t, err)
		}()
	}
	group.Wait()

	assert.Equal(t, int32(1), refreshCalls.Load(), "one refresh shared by all waiters")
}

/*
TestRefreshTransport_BodyReplay checks that a request with a body is replayed
intact after the silent refresh.
*/
func TestRefreshTransport_BodyReplay(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /cart/items", func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "Bearer fresh" {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}

		var body struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		}
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "p1", body.ProductID)
		assert.Equal(t, 3, body.Quantity)

		writer.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /auth/refresh", func(writer http.ResponseWriter, _ *http.Request) {
		writeData(t, writer, map[string]string{
			"access_token": "fresh", "refresh_token": "refresh-2",
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	creds := &memoryCreds{access: "stale", refresh: "refresh-1"}
	client := api.NewClient(server.URL, creds, nil, slog.New(slog.DiscardHandler))

	err := client.AddCartItem(context.Background(), "p1", 3)
	require.NoError(t, err)
}
