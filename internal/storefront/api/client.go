// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the storefront's typed client for the Fruvia backend.

# Architecture

  - Client exposes one method per backend endpoint; every response decodes
    into its own payload struct, never a guessed shape.
  - A wrapping [http.RoundTripper] attaches the bearer token and performs at
    most one silent token refresh per request on 401.
  - Backend failures surface as [*APIError]; transport failures surface as
    wrapped errors.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultTimeout bounds every backend call, matching the original client
// configuration.
const DefaultTimeout = 10 * time.Second

// Client talks to the Fruvia backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

/*
NewClient constructs a backend client.

Parameters:
  - baseURL: string — e.g. "http://localhost:8080/api/v1"
  - creds: CredentialSource — token storage, usually the session manager
  - onForceLogout: func() — invoked when a token refresh fails for good
  - logger: *slog.Logger

Returns:
  - *Client: Ready-to-use client with the refresh transport installed
*/
func NewClient(baseURL string, creds CredentialSource, onForceLogout func(), logger *slog.Logger) *Client {
	transport := newRefreshTransport(
		http.DefaultTransport,
		creds,
		baseURL+"/auth/refresh",
		DefaultTimeout,
		onForceLogout,
		logger,
	)

	return &Client{
		baseURL: baseURL,
		logger:  logger,
		http: &http.Client{
			Transport: transport,
			Timeout:   DefaultTimeout,
		},
	}
}

// # Auth Endpoints

// Login exchanges credentials for a token pair and identity snapshot.
func (client *Client) Login(context context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := client.do(context, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterInput is the enrollment payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Password string `json:"password"`
}

// Register enrolls a new customer account.
func (client *Client) Register(context context.Context, input RegisterInput) (*User, error) {
	var user User
	if err := client.do(context, http.MethodPost, "/auth/register", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout revokes the session on the backend.
func (client *Client) Logout(context context.Context, refreshToken string) error {
	return client.do(context, http.MethodPost, "/auth/logout",
		map[string]string{"refresh_token": refreshToken}, nil)
}

// Refresh exchanges a refresh token for a rotated token pair. Used by the
// session manager's explicit refresh; the transport performs its own.
func (client *Client) Refresh(context context.Context, refreshToken string) (*TokenPair, error) {
	var pair TokenPair
	err := client.do(context, http.MethodPost, "/auth/refresh",
		map[string]string{"refresh_token": refreshToken}, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Me returns the authenticated user's profile.
func (client *Client) Me(context context.Context) (*User, error) {
	var user User
	if err := client.do(context, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// # Catalogue Endpoints

// ProductQuery narrows product listings.
type ProductQuery struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

// ListProducts returns a page of the catalogue.
func (client *Client) ListProducts(context context.Context, query ProductQuery) ([]Product, *Meta, error) {
	values := url.Values{}
	if query.Search != "" {
		values.Set("q", query.Search)
	}
	if query.Category != "" {
		values.Set("categories", query.Category)
	}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}

	path := "/products"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var products []Product
	meta, err := client.doList(context, path, &products)
	if err != nil {
		return nil, nil, err
	}
	return products, meta, nil
}

// GetProduct returns one product by ID.
func (client *Client) GetProduct(context context.Context, id string) (*Product, error) {
	var product Product
	if err := client.do(context, http.MethodGet, "/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// # Cart Endpoints

// GetCart returns the server-side cart.
func (client *Client) GetCart(context context.Context) (*CartSnapshot, error) {
	var snapshot CartSnapshot
	if err := client.do(context, http.MethodGet, "/cart", nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// AddCartItem merges a quantity of a product into the server-side cart.
func (client *Client) AddCartItem(context context.Context, productID string, quantity int) error {
	return client.do(context, http.MethodPost, "/cart/items",
		map[string]any{"product_id": productID, "quantity": quantity}, nil)
}

// UpdateCartItem sets the absolute quantity of a server-side cart line.
func (client *Client) UpdateCartItem(context context.Context, productID string, quantity int) error {
	return client.do(context, http.MethodPatch, "/cart/items/"+productID,
		map[string]int{"quantity": quantity}, nil)
}

// RemoveCartItem deletes a line from the server-side cart.
func (client *Client) RemoveCartItem(context context.Context, productID string) error {
	return client.do(context, http.MethodDelete, "/cart/items/"+productID, nil, nil)
}

// ClearCart empties the server-side cart.
func (client *Client) ClearCart(context context.Context) error {
	return client.do(context, http.MethodDelete, "/cart", nil, nil)
}

// Checkout converts the server-side cart into an order.
func (client *Client) Checkout(context context.Context, shippingAddress string) (*Order, error) {
	var placed Order
	err := client.do(context, http.MethodPost, "/orders/checkout",
		map[string]string{"shipping_address": shippingAddress}, &placed)
	if err != nil {
		return nil, err
	}
	return &placed, nil
}

// # Content & Support Endpoints

// ListHealthTips returns published tips, optionally by category.
func (client *Client) ListHealthTips(context context.Context, category string) ([]HealthTip, error) {
	path := "/content/health-tips"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}

	var tips []HealthTip
	if err := client.do(context, http.MethodGet, path, nil, &tips); err != nil {
		return nil, err
	}
	return tips, nil
}

// SubmitFeedback sends a feedback entry.
func (client *Client) SubmitFeedback(context context.Context, title, message string, rating *int) (*Feedback, error) {
	payload := map[string]any{"title": title, "message": message}
	if rating != nil {
		payload["rating"] = *rating
	}

	var entry Feedback
	if err := client.do(context, http.MethodPost, "/feedback", payload, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetContact returns the shop contact record.
func (client *Client) GetContact(context context.Context) (*ContactInfo, error) {
	var info ContactInfo
	if err := client.do(context, http.MethodGet, "/contact", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// # Request Plumbing

// do performs one backend call and decodes the envelope's data into out.
// out may be nil when the payload is irrelevant.
func (client *Client) do(context context.Context, method, path string, body, out any) error {
	wrapped, err := client.send(context, method, path, body)
	if err != nil {
		return err
	}

	if out != nil && len(wrapped.Data) > 0 {
		if err := json.Unmarshal(wrapped.Data, out); err != nil {
			return fmt.Errorf("api: failed to decode %s %s response: %w", method, path, err)
		}
	}

	return nil
}

// doList performs a GET expecting a paginated envelope.
func (client *Client) doList(context context.Context, path string, out any) (*Meta, error) {
	wrapped, err := client.send(context, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	if len(wrapped.Data) > 0 {
		if err := json.Unmarshal(wrapped.Data, out); err != nil {
			return nil, fmt.Errorf("api: failed to decode %s response: %w", path, err)
		}
	}

	return wrapped.Meta, nil
}

func (client *Client) send(context context.Context, method, path string, body any) (*envelope, error) {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: failed to encode %s %s request: %w", method, path, err)
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	request, err := http.NewRequestWithContext(context, method, client.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("api: failed to build %s %s request: %w", method, path, err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s failed: %w", method, path, err)
	}
	defer drain(response)

	// 204 carries no envelope at all.
	if response.StatusCode == http.StatusNoContent {
		return &envelope{}, nil
	}

	var wrapped envelope
	if err := json.NewDecoder(response.Body).Decode(&wrapped); err != nil {
		if response.StatusCode >= 400 {
			return nil, &APIError{StatusCode: response.StatusCode, Message: http.StatusText(response.StatusCode)}
		}
		return nil, fmt.Errorf("api: failed to decode %s %s envelope: %w", method, path, err)
	}

	if response.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: response.StatusCode,
			Code:       wrapped.Code,
			Message:    wrapped.Error,
		}
	}

	return &wrapped, nil
}
