// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package contact serves the shop's contact details: a single record with
// phone, email, location, and social links, publicly readable and editable
// by staff.
package contact

import (
	"context"
	"time"
)

// Info is the shop contact record.
type Info struct {
	ID       string `json:"id"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Location string `json:"location,omitempty"`
	MapLink  string `json:"map_link,omitempty"`

	// SocialLinks maps a platform name to its profile URL.
	SocialLinks map[string]string `json:"social_media_links"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Repository abstracts contact persistence. Get returns the single contact
// record; Upsert overwrites it, creating it on first write.
type Repository interface {
	Get(context context.Context) (*Info, error)
	Upsert(context context.Context, info *Info) error
}
