// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// # Wire Envelope

// envelope mirrors the backend's response envelope. Exactly one of Data or
// Error carries the payload.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  *Meta           `json:"meta,omitempty"`
	Error string          `json:"error,omitempty"`
	Code  string          `json:"code,omitempty"`
}

// Meta is the pagination metadata block of list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// APIError is a non-2xx backend response surfaced to the caller.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (%d %s)", e.Message, e.StatusCode, e.Code)
}

// # Endpoint Payloads
//
// Each endpoint decodes into its own struct; there is no shape guessing.

// User is the identity snapshot returned by auth endpoints.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Role    string `json:"role"`
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// TokenPair is the payload of a successful token refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Product is a catalogue entry.
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	StockQuantity int     `json:"stock_quantity"`
	ImageURL      string  `json:"image_url"`
	IsFeatured    bool    `json:"is_featured"`
	IsBestSeller  bool    `json:"is_best_seller"`
}

// CartLine is one line of the server-side cart.
type CartLine struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	ImageURL    string  `json:"image_url"`
	Quantity    int     `json:"quantity"`
}

// CartSnapshot is the server's view of the cart with computed totals.
type CartSnapshot struct {
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"item_count"`
}

// OrderLine is a frozen line of a placed order.
type OrderLine struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

// Order is a placed order.
type Order struct {
	ID              string      `json:"id"`
	Status          string      `json:"status"`
	TotalAmount     float64     `json:"total_amount"`
	ShippingAddress string      `json:"shipping_address"`
	Items           []OrderLine `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
}

// HealthTip is a published editorial article.
type HealthTip struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

// ContactInfo is the shop contact record.
type ContactInfo struct {
	Phone       string            `json:"phone"`
	Email       string            `json:"email"`
	Location    string            `json:"location"`
	MapLink     string            `json:"map_link"`
	SocialLinks map[string]string `json:"social_media_links"`
}

// Feedback is a submitted feedback entry with any staff response.
type Feedback struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message"`
	Rating    *int      `json:"rating,omitempty"`
	Response  string    `json:"response,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
