// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/fruvia/internal/platform/apperr"
	"github.com/taibuivan/fruvia/internal/platform/middleware"
	requestutil "github.com/taibuivan/fruvia/internal/platform/request"
	"github.com/taibuivan/fruvia/internal/platform/respond"
	"github.com/taibuivan/fruvia/internal/platform/sec"
	"github.com/taibuivan/fruvia/pkg/convert"
	"github.com/taibuivan/fruvia/pkg/pagination"
	"github.com/taibuivan/fruvia/pkg/pointer"
	"github.com/taibuivan/fruvia/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public discovery
	router.Get("/", handler.listProducts)
	router.Get("/categories", handler.listCategories)
	router.Get("/featured", handler.listFeatured)
	router.Get("/best-sellers", handler.listBestSellers)
	router.Get("/{id}", handler.getProduct)

	// Inventory management
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createProduct)
		adminRoute.Patch("/{id}", handler.updateProduct)
		adminRoute.Delete("/{id}", handler.deleteProduct)
		adminRoute.Post("/{id}/stock", handler.adjustStock)
		adminRoute.Get("/low-stock", handler.listLowStock)
	})
}

// # Discovery Endpoints

/*
GET /api/v1/products.

Description: Lists active products with optional search, category, shelf,
price, and sort filters.

Request:
  - query: q, categories (comma separated), featured, best_seller,
    min_price, max_price, sort, page, limit

Response:
  - 200: []Product + pagination meta
*/
func (handler *Handler) listProducts(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := filterFromQuery(request)

	products, total, err := handler.service.ListProducts(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getProduct(writer http.ResponseWriter, request *http.Request) {
	product, err := handler.service.GetProduct(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Inactive products are invisible to shoppers
	if !product.IsActive && !staffRequest(request) {
		respond.Error(writer, request, apperr.NotFound("Product"))
		return
	}

	respond.OK(writer, product)
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) listFeatured(writer http.ResponseWriter, request *http.Request) {
	handler.listShelf(writer, request, Filter{Featured: pointer.To(true)})
}

func (handler *Handler) listBestSellers(writer http.ResponseWriter, request *http.Request) {
	handler.listShelf(writer, request, Filter{BestSeller: pointer.To(true)})
}

// listShelf serves the fixed-filter product shelves.
func (handler *Handler) listShelf(writer http.ResponseWriter, request *http.Request, filter Filter) {
	paginationParams := pagination.FromRequest(request)

	products, total, err := handler.service.ListProducts(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// # Inventory Endpoints

func (handler *Handler) createProduct(writer http.ResponseWriter, request *http.Request) {
	var input Product

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateProduct(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

// updateProductRequest defines the staff-editable product fields.
// Pointers distinguish "leave unchanged" from explicit zero values.
type updateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	Category      *string  `json:"category"`
	StockQuantity *int     `json:"stock_quantity"`
	ImageURL      *string  `json:"image_url"`
	IsActive      *bool    `json:"is_active"`
	IsFeatured    *bool    `json:"is_featured"`
	IsBestSeller  *bool    `json:"is_best_seller"`
}

func (handler *Handler) updateProduct(writer http.ResponseWriter, request *http.Request) {
	productID := requestutil.ID(request, "id")

	var input updateProductRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.GetProduct(request.Context(), productID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	product.Name = pointer.Fallback(input.Name, product.Name)
	product.Description = pointer.Fallback(input.Description, product.Description)
	product.Price = pointer.Fallback(input.Price, product.Price)
	product.Category = pointer.Fallback(input.Category, product.Category)
	product.StockQuantity = pointer.Fallback(input.StockQuantity, product.StockQuantity)
	product.ImageURL = pointer.Fallback(input.ImageURL, product.ImageURL)
	product.IsActive = pointer.Fallback(input.IsActive, product.IsActive)
	product.IsFeatured = pointer.Fallback(input.IsFeatured, product.IsFeatured)
	product.IsBestSeller = pointer.Fallback(input.IsBestSeller, product.IsBestSeller)

	if err := handler.service.UpdateProduct(request.Context(), productID, product); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, product)
}

func (handler *Handler) deleteProduct(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteProduct(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// adjustStockRequest carries a relative stock change.
type adjustStockRequest struct {
	Delta int `json:"delta"`
}

/*
POST /api/v1/products/{id}/stock.

Description: Applies a relative stock delta (restock or correction) atomically.

Request:
  - body: adjustStockRequest (Delta)

Response:
  - 200: {stock_quantity}: The resulting stock level
  - 422: ErrUnprocessable: The change would drive stock negative
*/
func (handler *Handler) adjustStock(writer http.ResponseWriter, request *http.Request) {
	var input adjustStockRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	quantity, err := handler.service.AdjustStock(request.Context(), requestutil.ID(request, "id"), input.Delta)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{FieldStockQuantity: quantity})
}

func (handler *Handler) listLowStock(writer http.ResponseWriter, request *http.Request) {
	threshold := convert.ToIntD(request.URL.Query().Get("threshold"), 5)

	products, err := handler.service.ListLowStock(request.Context(), threshold)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, products)
}

// # Query Helpers

// filterFromQuery maps the request's query string onto a product [Filter].
func filterFromQuery(request *http.Request) Filter {
	values := request.URL.Query()

	filter := Filter{
		Query:      values.Get("q"),
		Categories: query.StringSlice(values.Get("categories")),
		Sort:       values.Get("sort"),
	}

	if raw := values.Get("featured"); raw != "" {
		filter.Featured = pointer.To(convert.ToBool(raw))
	}

	if raw := values.Get("best_seller"); raw != "" {
		filter.BestSeller = pointer.To(convert.ToBool(raw))
	}

	if raw := values.Get("min_price"); raw != "" {
		filter.MinPrice = pointer.To(convert.ToFloat64(raw))
	}

	if raw := values.Get("max_price"); raw != "" {
		filter.MaxPrice = pointer.To(convert.ToFloat64(raw))
	}

	if staffRequest(request) && convert.ToBool(values.Get("include_inactive")) {
		filter.IncludeInactive = true
	}

	return filter
}

// staffRequest reports whether the caller holds at least the admin role.
func staffRequest(request *http.Request) bool {
	claims := requestutil.Claims(request)
	return claims != nil && sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin)
}
