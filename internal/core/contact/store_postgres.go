// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/fruvia/internal/platform/apperr"
	"github.com/taibuivan/fruvia/internal/platform/database/schema"
)

// contactRepository implements the [Repository] interface using pgx.
type contactRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed contact store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &contactRepository{pool: pool}
}

// contactInfoID pins the single contact row; upserts always land on it.
const contactInfoID = "contact"

func (repository *contactRepository) Get(context context.Context) (*Info, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.ContactInfo.ID, schema.ContactInfo.Phone, schema.ContactInfo.Email,
		schema.ContactInfo.Location, schema.ContactInfo.MapLink,
		schema.ContactInfo.SocialLinks, schema.ContactInfo.UpdatedAt,
		schema.ContactInfo.Table, schema.ContactInfo.ID,
	)

	var info Info
	err := repository.pool.QueryRow(context, query, contactInfoID).Scan(
		&info.ID,
		&info.Phone,
		&info.Email,
		&info.Location,
		&info.MapLink,
		&info.SocialLinks,
		&info.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Contact info")
		}
		return nil, fmt.Errorf("postgres_contact_repo_get_failed: %w", err)
	}

	if info.SocialLinks == nil {
		info.SocialLinks = map[string]string{}
	}

	return &info, nil
}

func (repository *contactRepository) Upsert(context context.Context, info *Info) error {
	info.ID = contactInfoID
	info.UpdatedAt = time.Now()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (%s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
		    %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s`,
		schema.ContactInfo.Table,
		schema.ContactInfo.ID, schema.ContactInfo.Phone, schema.ContactInfo.Email,
		schema.ContactInfo.Location, schema.ContactInfo.MapLink,
		schema.ContactInfo.SocialLinks, schema.ContactInfo.UpdatedAt,
		schema.ContactInfo.ID,
		schema.ContactInfo.Phone, schema.ContactInfo.Phone,
		schema.ContactInfo.Email, schema.ContactInfo.Email,
		schema.ContactInfo.Location, schema.ContactInfo.Location,
		schema.ContactInfo.MapLink, schema.ContactInfo.MapLink,
		schema.ContactInfo.SocialLinks, schema.ContactInfo.SocialLinks,
		schema.ContactInfo.UpdatedAt, schema.ContactInfo.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		info.ID, info.Phone, info.Email, info.Location, info.MapLink,
		info.SocialLinks, info.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_contact_repo_upsert_failed: %w", err)
	}

	return nil
}
