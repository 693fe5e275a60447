// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"context"
	"log/slog"

	"github.com/taibuivan/fruvia/internal/platform/apperr"
)

// Service exposes the contact record over a [Repository].
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get returns the shop contact details.
func (service *Service) Get(context context.Context) (*Info, error) {
	return service.repo.Get(context)
}

// UpdateInput carries a partial contact update; nil fields keep their
// current value.
type UpdateInput struct {
	Phone       *string
	Email       *string
	Location    *string
	MapLink     *string
	SocialLinks map[string]string
}

// Update applies a partial update to the contact record. Missing record on
// first write starts from a zero value.
func (service *Service) Update(context context.Context, input UpdateInput) (*Info, error) {
	current, err := service.repo.Get(context)
	if err != nil {
		if applicationError := apperr.As(err); applicationError == nil || applicationError.Code != "NOT_FOUND" {
			return nil, err
		}
		current = &Info{}
	}

	if input.Phone != nil {
		current.Phone = *input.Phone
	}
	if input.Email != nil {
		current.Email = *input.Email
	}
	if input.Location != nil {
		current.Location = *input.Location
	}
	if input.MapLink != nil {
		current.MapLink = *input.MapLink
	}
	if input.SocialLinks != nil {
		current.SocialLinks = input.SocialLinks
	}

	if err := service.repo.Upsert(context, current); err != nil {
		return nil, err
	}

	service.logger.Info("contact_info_updated")

	return service.repo.Get(context)
}
