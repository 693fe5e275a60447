// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"log/slog"

	"github.com/taibuivan/fruvia/internal/platform/apperr"
	"github.com/taibuivan/fruvia/pkg/slug"
	"github.com/taibuivan/fruvia/pkg/uuid"
)

// Service exposes content operations over a [Repository].
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// # Health Tips

func (service *Service) ListTips(context context.Context, filter TipFilter) ([]*HealthTip, error) {
	return service.repo.ListTips(context, filter)
}

func (service *Service) GetTipBySlug(context context.Context, tipSlug string) (*HealthTip, error) {
	return service.repo.GetTipBySlug(context, tipSlug)
}

// CreateTip publishes a new tip. The slug is derived from the title when not
// given explicitly.
func (service *Service) CreateTip(context context.Context, tip *HealthTip) (*HealthTip, error) {
	if tip.ID == "" {
		tip.ID = uuid.New()
	}
	if tip.Slug == "" {
		tip.Slug = slug.From(tip.Title)
	}
	if tip.Slug == "" {
		return nil, apperr.Unprocessable("Title must contain sluggable characters")
	}

	if err := service.repo.CreateTip(context, tip); err != nil {
		return nil, err
	}

	service.logger.Info("health_tip_created", slog.String("slug", tip.Slug))

	return tip, nil
}

func (service *Service) UpdateTip(context context.Context, tip *HealthTip) (*HealthTip, error) {
	if tip.Slug == "" {
		tip.Slug = slug.From(tip.Title)
	}

	if err := service.repo.UpdateTip(context, tip); err != nil {
		return nil, err
	}

	return tip, nil
}

func (service *Service) DeleteTip(context context.Context, id string) error {
	if err := service.repo.DeleteTip(context, id); err != nil {
		return err
	}

	service.logger.Warn("health_tip_deleted", slog.String("tip_id", id))

	return nil
}

// # Company Profile

func (service *Service) GetCompanyInfo(context context.Context) (*CompanyInfo, error) {
	return service.repo.GetCompanyInfo(context)
}

// SaveCompanyInfo overwrites the single company profile record.
func (service *Service) SaveCompanyInfo(context context.Context, info *CompanyInfo) (*CompanyInfo, error) {
	if err := service.repo.UpsertCompanyInfo(context, info); err != nil {
		return nil, err
	}

	service.logger.Info("company_info_updated")

	return service.repo.GetCompanyInfo(context)
}

// # Team & Stats

func (service *Service) ListTeamMembers(context context.Context) ([]*TeamMember, error) {
	return service.repo.ListTeamMembers(context)
}

func (service *Service) CreateTeamMember(context context.Context, member *TeamMember) (*TeamMember, error) {
	if member.ID == "" {
		member.ID = uuid.New()
	}

	if err := service.repo.CreateTeamMember(context, member); err != nil {
		return nil, err
	}

	return member, nil
}

func (service *Service) UpdateTeamMember(context context.Context, member *TeamMember) (*TeamMember, error) {
	if err := service.repo.UpdateTeamMember(context, member); err != nil {
		return nil, err
	}

	return member, nil
}

func (service *Service) DeleteTeamMember(context context.Context, id string) error {
	return service.repo.DeleteTeamMember(context, id)
}

func (service *Service) ListStats(context context.Context) ([]*CompanyStat, error) {
	return service.repo.ListStats(context)
}

func (service *Service) CreateStat(context context.Context, stat *CompanyStat) (*CompanyStat, error) {
	if stat.ID == "" {
		stat.ID = uuid.New()
	}

	if err := service.repo.CreateStat(context, stat); err != nil {
		return nil, err
	}

	return stat, nil
}

func (service *Service) UpdateStat(context context.Context, stat *CompanyStat) (*CompanyStat, error) {
	if err := service.repo.UpdateStat(context, stat); err != nil {
		return nil, err
	}

	return stat, nil
}

func (service *Service) DeleteStat(context context.Context, id string) error {
	return service.repo.DeleteStat(context, id)
}
