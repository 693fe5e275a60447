// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(request *http.Request) (*http.Response, error) {
	return f(request)
}

type staticCreds struct{ access, refresh string }

func (c *staticCreds) AccessToken() string           { return c.access }
func (c *staticCreds) RefreshToken() string          { return c.refresh }
func (c *staticCreds) StoreTokens(a, r string) error { c.access, c.refresh = a, r; return nil }
func (c *staticCreds) ClearCredentials() error       { c.access, c.refresh = "", ""; return nil }

/*
TestRefreshTransport_UnreplayableBody checks that a 401 on a request whose
body cannot be rebuilt is returned as-is: no refresh, no replay of an
already-consumed body.
*/
func TestRefreshTransport_UnreplayableBody(t *testing.T) {
	var refreshCalls atomic.Int32
	refreshServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		refreshCalls.Add(1)
		writer.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(refreshServer.Close)

	var baseCalls atomic.Int32
	base := roundTripFunc(func(_ *http.Request) (*http.Response, error) {
		baseCalls.Add(1)
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	})

	transport := newRefreshTransport(
		base,
		&staticCreds{access: "stale", refresh: "refresh-1"},
		refreshServer.URL,
		time.Second,
		func() { t.Error("force logout must not fire for an unreplayable body") },
		slog.New(slog.DiscardHandler),
	)

	// An opaque body leaves GetBody nil, unlike the bytes.Reader bodies the
	// client builds.
	request, err := http.NewRequest(http.MethodPost, "http://backend/cart/items",
		io.NopCloser(strings.NewReader(`{"quantity":1}`)))
	require.NoError(t, err)
	require.Nil(t, request.GetBody)

	response, err := transport.RoundTrip(request)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Equal(t, int32(1), baseCalls.Load(), "no replay")
	assert.Equal(t, int32(0), refreshCalls.Load(), "no refresh attempt")
}
