// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"

	"github.com/taibuivan/fruvia/internal/platform/validate"
	"github.com/taibuivan/fruvia/pkg/uuid"
)

// Service orchestrates catalogue business logic.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new catalog [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Discovery

func (service *Service) ListProducts(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	return service.repo.ListProducts(context, filter, limit, offset)
}

func (service *Service) GetProduct(context context.Context, id string) (*Product, error) {
	return service.repo.GetProduct(context, id)
}

func (service *Service) ListCategories(context context.Context) ([]string, error) {
	return service.repo.ListCategories(context)
}

// # Inventory Management

func (service *Service) CreateProduct(context context.Context, product *Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}

	if product.ID == "" {
		product.ID = uuid.New()
	}

	if err := service.repo.CreateProduct(context, product); err != nil {
		return err
	}

	service.logger.Info("product_created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)
	return nil
}

func (service *Service) UpdateProduct(context context.Context, id string, product *Product) error {
	product.ID = id
	if err := validateProduct(product); err != nil {
		return err
	}

	if err := service.repo.UpdateProduct(context, product); err != nil {
		return err
	}

	service.logger.Info("product_updated", slog.String("product_id", id))
	return nil
}

func (service *Service) DeleteProduct(context context.Context, id string) error {
	if err := service.repo.DeleteProduct(context, id); err != nil {
		return err
	}

	service.logger.Warn("product_deleted", slog.String("product_id", id))
	return nil
}

/*
AdjustStock applies a relative stock change (restock or correction).

Parameters:
  - context: context.Context
  - id: string
  - delta: int (positive to add stock, negative to remove)

Returns:
  - int: The new stock quantity
  - error: apperr.NotFound, apperr.Unprocessable (would go negative), or storage failures
*/
func (service *Service) AdjustStock(context context.Context, id string, delta int) (int, error) {
	quantity, err := service.repo.AdjustStock(context, id, delta)
	if err != nil {
		return 0, err
	}

	service.logger.Info("product_stock_adjusted",
		slog.String("product_id", id),
		slog.Int("delta", delta),
		slog.Int("quantity", quantity),
	)
	return quantity, nil
}

func (service *Service) ListLowStock(context context.Context, threshold int) ([]*Product, error) {
	if threshold < 0 {
		threshold = 0
	}
	return service.repo.ListLowStock(context, threshold)
}

// validateProduct enforces the shared constraints for create and update.
func validateProduct(product *Product) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, product.Name).
		MaxLen(FieldName, product.Name, 200).
		Required(FieldCategory, product.Category).
		Custom(FieldPrice, product.Price < 0, "Must not be negative").
		Custom(FieldStockQuantity, product.StockQuantity < 0, "Must not be negative")

	if product.ImageURL != "" {
		validator.URL(FieldImageURL, product.ImageURL)
	}

	return validator.Err()
}
