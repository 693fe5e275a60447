// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/fruvia/internal/platform/request"
	"github.com/taibuivan/fruvia/internal/platform/respond"
	"github.com/taibuivan/fruvia/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the cart endpoints. Mount behind RequireAuth: every route
// operates on the authenticated user's own cart.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.getCart)
	router.Delete("/", handler.clearCart)
	router.Post("/items", handler.addItem)
	router.Patch("/items/{productID}", handler.updateItem)
	router.Delete("/items/{productID}", handler.removeItem)

	return router
}

// cartResponse wraps the cart with computed totals for transport.
type cartResponse struct {
	*Cart
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

func newCartResponse(cart *Cart) cartResponse {
	return cartResponse{
		Cart:      cart,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
	}
}

/*
GET /api/v1/cart.

Description: Returns the authenticated user's cart with hydrated product data
and computed totals.

Response:
  - 200: cartResponse
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getCart(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cart, err := handler.service.GetCart(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newCartResponse(cart))
}

// addItemRequest adds a quantity of one product to the cart.
type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

/*
POST /api/v1/cart/items.

Description: Merges a product into the cart. An existing line for the same
product absorbs the added quantity.

Request:
  - body: addItemRequest (ProductID, Quantity >= 1)

Response:
  - 200: cartResponse: The updated cart
  - 404: ErrNotFound: Unknown or inactive product
  - 422: ErrUnprocessable: Insufficient stock for the combined quantity
*/
func (handler *Handler) addItem(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addItemRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("product_id", input.ProductID).
		Custom("quantity", input.Quantity < 1, "Must be at least 1")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	cart, err := handler.service.AddItem(request.Context(), userID, input.ProductID, input.Quantity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newCartResponse(cart))
}

// updateItemRequest sets the absolute quantity of a line.
type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

/*
PATCH /api/v1/cart/items/{productID}.

Description: Sets the absolute quantity of a cart line. Zero or negative
removes the line; above-stock quantities are rejected without mutation.

Request:
  - body: updateItemRequest (Quantity)

Response:
  - 200: cartResponse: The updated cart
  - 422: ErrUnprocessable: Insufficient stock
*/
func (handler *Handler) updateItem(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateItemRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	cart, err := handler.service.UpdateItem(request.Context(), userID, requestutil.ID(request, "productID"), input.Quantity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newCartResponse(cart))
}

/*
DELETE /api/v1/cart/items/{productID}.

Description: Removes a single product line from the cart.

Response:
  - 200: cartResponse: The updated cart
*/
func (handler *Handler) removeItem(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cart, err := handler.service.RemoveItem(request.Context(), userID, requestutil.ID(request, "productID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newCartResponse(cart))
}

/*
DELETE /api/v1/cart.

Description: Empties the authenticated user's cart.

Response:
  - 204: No Content: Cart cleared
*/
func (handler *Handler) clearCart(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Clear(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
