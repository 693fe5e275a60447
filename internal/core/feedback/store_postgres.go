// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/fruvia/internal/platform/apperr"
	"github.com/taibuivan/fruvia/internal/platform/database/schema"
)

// feedbackRepository implements the [Repository] interface using pgx.
type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed feedback store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &feedbackRepository{pool: pool}
}

func (repository *feedbackRepository) Create(context context.Context, feedback *Feedback) error {
	now := time.Now()
	feedback.CreatedAt = now
	feedback.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		schema.Feedback.Table,
		schema.Feedback.ID, schema.Feedback.UserID, schema.Feedback.Title,
		schema.Feedback.Message, schema.Feedback.Rating, schema.Feedback.Status,
		schema.Feedback.CreatedAt, schema.Feedback.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		feedback.ID, feedback.UserID, feedback.Title, feedback.Message,
		feedback.Rating, feedback.Status, now)
	if err != nil {
		return fmt.Errorf("postgres_feedback_repo_create_failed: %w", err)
	}

	return nil
}

func (repository *feedbackRepository) Get(context context.Context, id string) (*Feedback, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.Feedback.Columns(), ", "),
		schema.Feedback.Table, schema.Feedback.ID,
	)

	var entry Feedback
	var response *string
	err := repository.pool.QueryRow(context, query, id).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Title,
		&entry.Message,
		&entry.Rating,
		&response,
		&entry.Status,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Feedback")
		}
		return nil, fmt.Errorf("postgres_feedback_repo_get_failed: %w", err)
	}

	if response != nil {
		entry.Response = *response
	}

	return &entry, nil
}

func (repository *feedbackRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Feedback, int, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE TRUE`,
		strings.Join(schema.Feedback.Columns(), ", "),
		schema.Feedback.Table,
	))

	if filter.UserID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Feedback.UserID, argID))
		args = append(args, filter.UserID)
		argID++
	}

	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Feedback.Status, argID))
		args = append(args, filter.Status)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", schema.Feedback.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_feedback_repo_list_failed: %w", err)
	}
	defer rows.Close()

	entries := make([]*Feedback, 0)
	var totalCount int

	for rows.Next() {
		var entry Feedback
		var response *string
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Title,
			&entry.Message,
			&entry.Rating,
			&response,
			&entry.Status,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_feedback_repo_list_scan_failed: %w", err)
		}
		if response != nil {
			entry.Response = *response
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_feedback_repo_list_rows_failed: %w", err)
	}

	return entries, totalCount, nil
}

func (repository *feedbackRepository) SetResponse(context context.Context, id, response string, status Status) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1",
		schema.Feedback.Table,
		schema.Feedback.Response, schema.Feedback.Status, schema.Feedback.UpdatedAt,
		schema.Feedback.ID,
	)

	commandTag, err := repository.pool.Exec(context, query, id, response, status, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_feedback_repo_respond_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Feedback")
	}

	return nil
}
