// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package feedback handles customer feedback and the staff response workflow.
//
// Customers submit feedback (optionally with a rating) and can review their
// own submissions together with any staff response. Staff list, read, and
// respond; responding moves a submission out of the "new" state.
package feedback

import (
	"context"
	"time"
)

// Status tracks where a submission sits in the review workflow.
type Status string

const (
	// StatusNew marks a submission no staff member has handled yet.
	StatusNew Status = "new"

	// StatusReviewed marks a submission that received a staff response.
	StatusReviewed Status = "reviewed"

	// StatusResolved marks a submission whose underlying issue is closed.
	StatusResolved Status = "resolved"
)

// Valid reports whether the status is one of the known workflow states.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusReviewed, StatusResolved:
		return true
	}
	return false
}

// Feedback is a single customer submission.
type Feedback struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`

	// Rating is an optional 1-5 score; nil means the customer skipped it.
	Rating *int `json:"rating,omitempty"`

	// Response is the staff reply, empty until a staff member responds.
	Response string `json:"response,omitempty"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows admin feedback listings.
type Filter struct {
	UserID string
	Status Status
}

/*
Repository abstracts feedback persistence.

Operations:
  - Create: Persists a new submission
  - Get: Loads one submission by ID
  - List: Filtered, paginated listing with total count, newest first
  - SetResponse: Stores the staff response and resulting status
*/
type Repository interface {
	Create(context context.Context, feedback *Feedback) error
	Get(context context.Context, id string) (*Feedback, error)
	List(context context.Context, filter Filter, limit, offset int) ([]*Feedback, int, error)
	SetResponse(context context.Context, id, response string, status Status) error
}
