// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

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

// contentRepository implements the [Repository] interface using pgx.
type contentRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed content store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &contentRepository{pool: pool}
}

// # Health Tips

func (repository *contentRepository) ListTips(context context.Context, filter TipFilter) ([]*HealthTip, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE TRUE`,
		strings.Join(schema.HealthTip.Columns(), ", "),
		schema.HealthTip.Table,
	))

	if !filter.IncludeInactive {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = TRUE", schema.HealthTip.IsActive))
	}

	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.HealthTip.Category, argID))
		args = append(args, filter.Category)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", schema.HealthTip.CreatedAt))

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_content_repo_list_tips_failed: %w", err)
	}
	defer rows.Close()

	tips := make([]*HealthTip, 0)
	for rows.Next() {
		var tip HealthTip
		err := rows.Scan(
			&tip.ID, &tip.Title, &tip.Slug, &tip.Body, &tip.Category,
			&tip.IsActive, &tip.CreatedAt, &tip.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_content_repo_tip_scan_failed: %w", err)
		}
		tips = append(tips, &tip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_content_repo_tip_rows_failed: %w", err)
	}

	return tips, nil
}

func (repository *contentRepository) GetTipBySlug(context context.Context, slug string) (*HealthTip, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.HealthTip.Columns(), ", "),
		schema.HealthTip.Table, schema.HealthTip.Slug,
	)

	var tip HealthTip
	err := repository.pool.QueryRow(context, query, slug).Scan(
		&tip.ID, &tip.Title, &tip.Slug, &tip.Body, &tip.Category,
		&tip.IsActive, &tip.CreatedAt, &tip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Health tip")
		}
		return nil, fmt.Errorf("postgres_content_repo_get_tip_failed: %w", err)
	}

	return &tip, nil
}

func (repository *contentRepository) CreateTip(context context.Context, tip *HealthTip) error {
	now := time.Now()
	tip.CreatedAt = now
	tip.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		schema.HealthTip.Table,
		schema.HealthTip.ID, schema.HealthTip.Title, schema.HealthTip.Slug,
		schema.HealthTip.Body, schema.HealthTip.Category, schema.HealthTip.IsActive,
		schema.HealthTip.CreatedAt, schema.HealthTip.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		tip.ID, tip.Title, tip.Slug, tip.Body, tip.Category, tip.IsActive, now)
	if err != nil {
		return fmt.Errorf("postgres_content_repo_create_tip_failed: %w", err)
	}

	return nil
}

func (repository *contentRepository) UpdateTip(context context.Context, tip *HealthTip) error {
	tip.UpdatedAt = time.Now()

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		schema.HealthTip.Table,
		schema.HealthTip.Title, schema.HealthTip.Slug, schema.HealthTip.Body,
		schema.HealthTip.Category, schema.HealthTip.IsActive, schema.HealthTip.UpdatedAt,
		schema.HealthTip.ID,
	)

	commandTag, err := repository.pool.Exec(context, query,
		tip.ID, tip.Title, tip.Slug, tip.Body, tip.Category, tip.IsActive, tip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_content_repo_update_tip_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Health tip")
	}

	return nil
}

func (repository *contentRepository) DeleteTip(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.HealthTip.Table, schema.HealthTip.ID)

	commandTag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_content_repo_delete_tip_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Health tip")
	}

	return nil
}

// # Company Profile

// companyInfoID pins the single profile row; upserts always land on it.
const companyInfoID = "company"

func (repository *contentRepository) GetCompanyInfo(context context.Context) (*CompanyInfo, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.CompanyInfo.ID, schema.CompanyInfo.Name, schema.CompanyInfo.Story,
		schema.CompanyInfo.Mission, schema.CompanyInfo.Vision, schema.CompanyInfo.UpdatedAt,
		schema.CompanyInfo.Table, schema.CompanyInfo.ID,
	)

	var info CompanyInfo
	err := repository.pool.QueryRow(context, query, companyInfoID).Scan(
		&info.ID, &info.Name, &info.Story, &info.Mission, &info.Vision, &info.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Company info")
		}
		return nil, fmt.Errorf("postgres_content_repo_get_info_failed: %w", err)
	}

	return &info, nil
}

func (repository *contentRepository) UpsertCompanyInfo(context context.Context, info *CompanyInfo) error {
	info.ID = companyInfoID
	info.UpdatedAt = time.Now()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (%s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
		    %s = EXCLUDED.%s, %s = EXCLUDED.%s`,
		schema.CompanyInfo.Table,
		schema.CompanyInfo.ID, schema.CompanyInfo.Name, schema.CompanyInfo.Story,
		schema.CompanyInfo.Mission, schema.CompanyInfo.Vision, schema.CompanyInfo.UpdatedAt,
		schema.CompanyInfo.ID,
		schema.CompanyInfo.Name, schema.CompanyInfo.Name,
		schema.CompanyInfo.Story, schema.CompanyInfo.Story,
		schema.CompanyInfo.Mission, schema.CompanyInfo.Mission,
		schema.CompanyInfo.Vision, schema.CompanyInfo.Vision,
		schema.CompanyInfo.UpdatedAt, schema.CompanyInfo.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		info.ID, info.Name, info.Story, info.Mission, info.Vision, info.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_content_repo_upsert_info_failed: %w", err)
	}

	return nil
}

// # Team & Stats

func (repository *contentRepository) ListTeamMembers(context context.Context) ([]*TeamMember, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s, %s`,
		schema.TeamMember.ID, schema.TeamMember.Name, schema.TeamMember.Role,
		schema.TeamMember.PhotoURL, schema.TeamMember.SortOrder, schema.TeamMember.CreatedAt,
		schema.TeamMember.Table,
		schema.TeamMember.SortOrder, schema.TeamMember.Name,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_content_repo_list_team_failed: %w", err)
	}
	defer rows.Close()

	members := make([]*TeamMember, 0)
	for rows.Next() {
		var member TeamMember
		err := rows.Scan(
			&member.ID, &member.Name, &member.Role, &member.PhotoURL,
			&member.SortOrder, &member.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_content_repo_team_scan_failed: %w", err)
		}
		members = append(members, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_content_repo_team_rows_failed: %w", err)
	}

	return members, nil
}

func (repository *contentRepository) CreateTeamMember(context context.Context, member *TeamMember) error {
	member.CreatedAt = time.Now()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.TeamMember.Table,
		schema.TeamMember.ID, schema.TeamMember.Name, schema.TeamMember.Role,
		schema.TeamMember.PhotoURL, schema.TeamMember.SortOrder, schema.TeamMember.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		member.ID, member.Name, member.Role, member.PhotoURL, member.SortOrder, member.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres_content_repo_create_member_failed: %w", err)
	}

	return nil
}

func (repository *contentRepository) UpdateTeamMember(context context.Context, member *TeamMember) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1`,
		schema.TeamMember.Table,
		schema.TeamMember.Name, schema.TeamMember.Role,
		schema.TeamMember.PhotoURL, schema.TeamMember.SortOrder,
		schema.TeamMember.ID,
	)

	commandTag, err := repository.pool.Exec(context, query,
		member.ID, member.Name, member.Role, member.PhotoURL, member.SortOrder)
	if err != nil {
		return fmt.Errorf("postgres_content_repo_update_member_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Team member")
	}

	return nil
}

func (repository *contentRepository) DeleteTeamMember(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.TeamMember.Table, schema.TeamMember.ID)

	commandTag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_content_repo_delete_member_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Team member")
	}

	return nil
}

func (repository *contentRepository) ListStats(context context.Context) ([]*CompanyStat, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		ORDER BY %s`,
		schema.CompanyStat.ID, schema.CompanyStat.Label,
		schema.CompanyStat.Value, schema.CompanyStat.SortOrder,
		schema.CompanyStat.Table,
		schema.CompanyStat.SortOrder,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_content_repo_list_stats_failed: %w", err)
	}
	defer rows.Close()

	stats := make([]*CompanyStat, 0)
	for rows.Next() {
		var stat CompanyStat
		if err := rows.Scan(&stat.ID, &stat.Label, &stat.Value, &stat.SortOrder); err != nil {
			return nil, fmt.Errorf("postgres_content_repo_stat_scan_failed: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_content_repo_stat_rows_failed: %w", err)
	}

	return stats, nil
}

func (repository *contentRepository) CreateStat(context context.Context, stat *CompanyStat) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)`,
		schema.CompanyStat.Table,
		schema.CompanyStat.ID, schema.CompanyStat.Label,
		schema.CompanyStat.Value, schema.CompanyStat.SortOrder,
	)

	_, err := repository.pool.Exec(context, query, stat.ID, stat.Label, stat.Value, stat.SortOrder)
	if err != nil {
		return fmt.Errorf("postgres_content_repo_create_stat_failed: %w", err)
	}

	return nil
}

func (repository *contentRepository) UpdateStat(context context.Context, stat *CompanyStat) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4
		WHERE %s = $1`,
		schema.CompanyStat.Table,
		schema.CompanyStat.Label, schema.CompanyStat.Value, schema.CompanyStat.SortOrder,
		schema.CompanyStat.ID,
	)

	commandTag, err := repository.pool.Exec(context, query, stat.ID, stat.Label, stat.Value, stat.SortOrder)
	if err != nil {
		return fmt.Errorf("postgres_content_repo_update_stat_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Company stat")
	}

	return nil
}

func (repository *contentRepository) DeleteStat(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CompanyStat.Table, schema.CompanyStat.ID)

	commandTag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_content_repo_delete_stat_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Company stat")
	}

	return nil
}
