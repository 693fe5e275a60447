// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// CredentialSource supplies and stores bearer credentials for the transport.
// The session manager implements it over the key-value store.
type CredentialSource interface {
	// AccessToken returns the current access token, or "" when logged out.
	AccessToken() string

	// RefreshToken returns the current refresh token, or "".
	RefreshToken() string

	// StoreTokens replaces both tokens after a successful refresh.
	StoreTokens(accessToken, refreshToken string) error

	// ClearCredentials wipes all credential state after a failed refresh.
	ClearCredentials() error
}

// retriedMarker marks a request that already went through one
// refresh-and-retry cycle.
type retriedMarker struct{}

/*
refreshTransport is an [http.RoundTripper] that attaches the bearer token and
silently recovers from expired access tokens.

Per-request flow:

	sent ── success ──────────────────────────────▶ done
	sent ── 401, not yet retried ──▶ refreshing ──▶ retry once ──▶ done | failed
	sent ── 401, already retried ─────────────────▶ failed
	refreshing ── refresh fails ──▶ credential wipe + force-logout ──▶ failed

The retry marker travels in the request context, so a request is never
refreshed more than once regardless of how many 401s it collects.
*/
type refreshTransport struct {
	base       http.RoundTripper
	creds      CredentialSource
	refreshURL string

	// refreshClient bypasses this transport; the refresh call itself must
	// never trigger another refresh.
	refreshClient *http.Client

	// mutex serializes refreshes so concurrent 401s produce one refresh.
	mutex sync.Mutex

	onForceLogout func()
	logger        *slog.Logger
}

func (transport *refreshTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	sentToken := transport.creds.AccessToken()

	attempt := request.Clone(request.Context())
	if sentToken != "" {
		attempt.Header.Set("Authorization", "Bearer "+sentToken)
	}

	response, err := transport.base.RoundTrip(attempt)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusUnauthorized {
		return response, nil
	}

	// Exactly one silent recovery per original request.
	if request.Context().Value(retriedMarker{}) != nil {
		return response, nil
	}

	// A consumed body with no way to rebuild it cannot be replayed.
	if request.Body != nil && request.GetBody == nil {
		return response, nil
	}

	newToken, refreshErr := transport.refreshOnce(request.Context(), sentToken)
	if refreshErr != nil {
		transport.logger.Warn("session_refresh_failed", slog.Any("error", refreshErr))

		if clearErr := transport.creds.ClearCredentials(); clearErr != nil {
			transport.logger.Warn("credential_wipe_failed", slog.Any("error", clearErr))
		}
		if transport.onForceLogout != nil {
			transport.onForceLogout()
		}

		// The caller sees the original authorization failure.
		return response, nil
	}

	// Replay the request with the fresh token.
	drain(response)

	retryContext := context.WithValue(request.Context(), retriedMarker{}, true)
	retry := request.Clone(retryContext)
	retry.Header.Set("Authorization", "Bearer "+newToken)

	if request.GetBody != nil {
		body, bodyErr := request.GetBody()
		if bodyErr != nil {
			return nil, fmt.Errorf("api: failed to replay request body: %w", bodyErr)
		}
		retry.Body = body
	}

	return transport.base.RoundTrip(retry)
}

/*
refreshOnce exchanges the stored refresh token for a new token pair.

Description: Serialized by the transport mutex. When another request already
refreshed while this one waited, the newer stored token is returned without a
second refresh call.

Parameters:
  - context: context.Context
  - sentToken: string — the access token the failing request carried

Returns:
  - string: A valid access token
  - error: Missing refresh token, network failure, or a rejected refresh
*/
func (transport *refreshTransport) refreshOnce(context context.Context, sentToken string) (string, error) {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()

	if current := transport.creds.AccessToken(); current != "" && current != sentToken {
		return current, nil
	}

	refreshToken := transport.creds.RefreshToken()
	if refreshToken == "" {
		return "", fmt.Errorf("api: no refresh token available")
	}

	payload, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return "", fmt.Errorf("api: failed to encode refresh request: %w", err)
	}

	request, err := http.NewRequestWithContext(context, http.MethodPost, transport.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("api: failed to build refresh request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := transport.refreshClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("api: refresh call failed: %w", err)
	}
	defer drain(response)

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api: refresh rejected with status %d", response.StatusCode)
	}

	var wrapped envelope
	if err := json.NewDecoder(response.Body).Decode(&wrapped); err != nil {
		return "", fmt.Errorf("api: failed to decode refresh response: %w", err)
	}

	var pair TokenPair
	if err := json.Unmarshal(wrapped.Data, &pair); err != nil {
		return "", fmt.Errorf("api: failed to decode token pair: %w", err)
	}

	if err := transport.creds.StoreTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		transport.logger.Warn("token_persist_failed", slog.Any("error", err))
	}

	transport.logger.Debug("session_refreshed")

	return pair.AccessToken, nil
}

// drain discards and closes a response body so the connection can be reused.
func drain(response *http.Response) {
	if response == nil || response.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 1<<16))
	_ = response.Body.Close()
}

// newRefreshTransport wires the retry-once transport around a base round
// tripper.
func newRefreshTransport(
	base http.RoundTripper,
	creds CredentialSource,
	refreshURL string,
	timeout time.Duration,
	onForceLogout func(),
	logger *slog.Logger,
) *refreshTransport {
	return &refreshTransport{
		base:          base,
		creds:         creds,
		refreshURL:    refreshURL,
		refreshClient: &http.Client{Timeout: timeout},
		onForceLogout: onForceLogout,
		logger:        logger,
	}
}
