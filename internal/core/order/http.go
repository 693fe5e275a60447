// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/fruvia/internal/platform/request"
	"github.com/taibuivan/fruvia/internal/platform/respond"
	"github.com/taibuivan/fruvia/internal/platform/sec"
	"github.com/taibuivan/fruvia/internal/platform/validate"
	"github.com/taibuivan/fruvia/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the customer-facing order endpoints. Mount behind
// RequireAuth: the routes operate on the authenticated user's own orders.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/checkout", handler.checkout)
	router.Get("/", handler.listMine)
	router.Get("/{id}", handler.getOrder)
	router.Post("/{id}/cancel", handler.cancelOrder)

	return router
}

// AdminRoutes returns the fulfilment endpoints. Mount behind
// RequireRole(sec.RoleAdmin).
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.adminListOrders)
	router.Get("/{id}", handler.getOrder)
	router.Patch("/{id}/status", handler.updateStatus)

	return router
}

// checkoutRequest carries the delivery details for order placement.
type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

/*
POST /api/v1/orders/checkout.

Description: Converts the authenticated user's cart into an order. Stock is
verified and reserved atomically; the cart is cleared on success.

Request:
  - body: checkoutRequest (ShippingAddress)

Response:
  - 201: Order: The placed order with its frozen lines
  - 422: ErrUnprocessable: Empty cart or insufficient stock
*/
func (handler *Handler) checkout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input checkoutRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("shipping_address", input.ShippingAddress).
		MaxLen("shipping_address", input.ShippingAddress, 500)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	placed, err := handler.service.Checkout(request.Context(), userID, input.ShippingAddress)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, placed)
}

/*
GET /api/v1/orders.

Description: Lists the authenticated user's orders, newest first, without
order lines.

Response:
  - 200: []Order with pagination metadata
*/
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	orders, total, err := handler.service.ListMine(request.Context(), userID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, orders, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/orders/{id}.

Description: Returns a single order with its lines. Customers only see their
own orders; staff see every order.

Response:
  - 200: Order
  - 404: ErrNotFound: Unknown order, or an order belonging to another user
*/
func (handler *Handler) getOrder(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	placed, err := handler.service.GetOrder(
		request.Context(),
		claims.UserID,
		sec.Normalize(sec.UserRole(claims.Role)),
		requestutil.ID(request, "id"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, placed)
}

/*
POST /api/v1/orders/{id}/cancel.

Description: Cancels the authenticated user's own pending order and returns
its stock to the catalogue.

Response:
  - 200: Order: The cancelled order
  - 404: ErrNotFound: Unknown or foreign order
  - 409: ErrConflict: Order already left the pending state
*/
func (handler *Handler) cancelOrder(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cancelled, err := handler.service.Cancel(request.Context(), userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, cancelled)
}

/*
GET /api/v1/admin/orders.

Description: Lists every order, optionally filtered by status.

Query parameters:
  - status: string: Optional lifecycle status filter
  - page, limit: int: Pagination

Response:
  - 200: []Order with pagination metadata
  - 422: ErrUnprocessable: Unknown status value
*/
func (handler *Handler) adminListOrders(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Status: Status(request.URL.Query().Get("status")),
	}

	orders, total, err := handler.service.ListAll(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, orders, pagination.NewMeta(params.Page, params.Limit, total))
}

// updateStatusRequest moves an order along its lifecycle.
type updateStatusRequest struct {
	Status string `json:"status"`
}

/*
PATCH /api/v1/admin/orders/{id}/status.

Description: Moves an order to the requested lifecycle status. Illegal
transitions are rejected; moving to cancelled restores stock.

Request:
  - body: updateStatusRequest (Status)

Response:
  - 200: Order: The updated order
  - 409: ErrConflict: Transition not allowed from the current status
  - 422: ErrUnprocessable: Unknown status value
*/
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	var input updateStatusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("status", input.Status)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.UpdateStatus(request.Context(), requestutil.ID(request, "id"), Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}
