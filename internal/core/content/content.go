// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package content manages the editorial material of the storefront: health
// tips, the company profile, team members, and headline statistics.
//
// Health tips are addressed publicly by slug; everything else is small
// admin-curated reference data served to the about and home pages.
package content

import (
	"context"
	"time"
)

// HealthTip is an editorial article on fruit and nutrition.
type HealthTip struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TipFilter narrows health tip listings.
type TipFilter struct {
	Category string

	// IncludeInactive exposes unpublished tips; staff listings only.
	IncludeInactive bool
}

// CompanyInfo is the single company profile record shown on the about page.
type CompanyInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Story     string    `json:"story"`
	Mission   string    `json:"mission"`
	Vision    string    `json:"vision"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeamMember is one entry on the about page's team section.
type TeamMember struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyStat is a headline figure ("10k+ happy customers").
type CompanyStat struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	SortOrder int    `json:"sort_order"`
}

/*
Repository abstracts content persistence.

Operations:
  - Health tips: list (filtered), get by slug, create, update, delete
  - Company info: read and upsert the single profile record
  - Team members and stats: list ordered by SortOrder, create, update, delete
*/
type Repository interface {
	ListTips(context context.Context, filter TipFilter) ([]*HealthTip, error)
	GetTipBySlug(context context.Context, slug string) (*HealthTip, error)
	CreateTip(context context.Context, tip *HealthTip) error
	UpdateTip(context context.Context, tip *HealthTip) error
	DeleteTip(context context.Context, id string) error

	GetCompanyInfo(context context.Context) (*CompanyInfo, error)
	UpsertCompanyInfo(context context.Context, info *CompanyInfo) error

	ListTeamMembers(context context.Context) ([]*TeamMember, error)
	CreateTeamMember(context context.Context, member *TeamMember) error
	UpdateTeamMember(context context.Context, member *TeamMember) error
	DeleteTeamMember(context context.Context, id string) error

	ListStats(context context.Context) ([]*CompanyStat, error)
	CreateStat(context context.Context, stat *CompanyStat) error
	UpdateStat(context context.Context, stat *CompanyStat) error
	DeleteStat(context context.Context, id string) error
}
