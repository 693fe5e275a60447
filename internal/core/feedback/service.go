// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"context"
	"log/slog"

	"github.com/taibuivan/fruvia/internal/platform/apperr"
	"github.com/taibuivan/fruvia/pkg/uuid"
)

// Service implements the feedback workflow on top of a [Repository].
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// SubmitInput is what a customer provides when submitting feedback.
type SubmitInput struct {
	Title   string
	Message string
	Rating  *int
}

// Submit records a new customer submission in the "new" state.
func (service *Service) Submit(context context.Context, userID string, input SubmitInput) (*Feedback, error) {
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, apperr.Unprocessable("Rating must be between 1 and 5")
	}

	entry := &Feedback{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   input.Title,
		Message: input.Message,
		Rating:  input.Rating,
		Status:  StatusNew,
	}

	if err := service.repo.Create(context, entry); err != nil {
		return nil, err
	}

	service.logger.Info("feedback_submitted", slog.String("feedback_id", entry.ID))

	return entry, nil
}

// ListMine returns the customer's own submissions, responses included.
func (service *Service) ListMine(context context.Context, userID string, limit, offset int) ([]*Feedback, int, error) {
	return service.repo.List(context, Filter{UserID: userID}, limit, offset)
}

// ListAll returns every submission matching the filter. Staff only.
func (service *Service) ListAll(context context.Context, filter Filter, limit, offset int) ([]*Feedback, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperr.Unprocessable("Unknown feedback status")
	}
	return service.repo.List(context, filter, limit, offset)
}

// Get returns one submission by ID. Staff only.
func (service *Service) Get(context context.Context, id string) (*Feedback, error) {
	return service.repo.Get(context, id)
}

/*
Respond stores a staff response on a submission.

Description: An empty status defaults to [StatusReviewed]. Responding again
overwrites the previous response.

Parameters:
  - context: context.Context
  - id: string
  - response: string
  - status: Status

Returns:
  - *Feedback: The updated submission
  - error: apperr.NotFound or validation errors
*/
func (service *Service) Respond(context context.Context, id, response string, status Status) (*Feedback, error) {
	if status == "" {
		status = StatusReviewed
	}
	if !status.Valid() {
		return nil, apperr.Unprocessable("Unknown feedback status")
	}

	if err := service.repo.SetResponse(context, id, response, status); err != nil {
		return nil, err
	}

	service.logger.Info("feedback_responded",
		slog.String("feedback_id", id),
		slog.String("status", string(status)),
	)

	return service.repo.Get(context, id)
}
