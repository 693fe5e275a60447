// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/fruvia/internal/platform/apperr"
	requestutil "github.com/taibuivan/fruvia/internal/platform/request"
	"github.com/taibuivan/fruvia/internal/platform/respond"
	"github.com/taibuivan/fruvia/internal/platform/sec"
	"github.com/taibuivan/fruvia/internal/platform/validate"
	"github.com/taibuivan/fruvia/pkg/convert"
	"github.com/taibuivan/fruvia/pkg/slice"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public content endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/health-tips", handler.listTips)
	router.Get("/health-tips/{slug}", handler.getTip)
	router.Get("/about/company-info", handler.getCompanyInfo)
	router.Get("/about/team", handler.listTeamMembers)
	router.Get("/about/stats", handler.listStats)

	return router
}

// AdminRoutes returns the editorial endpoints. Mount behind
// RequireRole(sec.RoleAdmin).
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/health-tips", handler.createTip)
	router.Put("/health-tips/{id}", handler.updateTip)
	router.Delete("/health-tips/{id}", handler.deleteTip)

	router.Put("/company-info", handler.saveCompanyInfo)

	router.Post("/team", handler.createTeamMember)
	router.Put("/team/{id}", handler.updateTeamMember)
	router.Delete("/team/{id}", handler.deleteTeamMember)

	router.Post("/stats", handler.createStat)
	router.Put("/stats/{id}", handler.updateStat)
	router.Delete("/stats/{id}", handler.deleteStat)

	return router
}

// staffRequest reports whether the request carries staff credentials.
func staffRequest(request *http.Request) bool {
	claims := requestutil.Claims(request)
	if claims == nil {
		return false
	}
	return sec.Normalize(sec.UserRole(claims.Role)).AtLeast(sec.RoleAdmin)
}

/*
GET /api/v1/content/health-tips.

Description: Lists published tips, optionally filtered by category. Staff may
pass include_inactive=true to see unpublished drafts.
*/
func (handler *Handler) listTips(writer http.ResponseWriter, request *http.Request) {
	filter := TipFilter{
		Category: request.URL.Query().Get("category"),
	}

	if staffRequest(request) {
		filter.IncludeInactive = convert.ToBool(request.URL.Query().Get("include_inactive"))
	}

	tips, err := handler.service.ListTips(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The list view carries summaries; the body is only on the detail view.
	respond.OK(writer, slice.Map(tips, func(tip *HealthTip) tipSummary {
		return tipSummary{
			ID:       tip.ID,
			Title:    tip.Title,
			Slug:     tip.Slug,
			Category: tip.Category,
			IsActive: tip.IsActive,
		}
	}))
}

// tipSummary is the list-view projection of a health tip.
type tipSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
	IsActive bool   `json:"is_active"`
}

// GET /api/v1/content/health-tips/{slug}.
func (handler *Handler) getTip(writer http.ResponseWriter, request *http.Request) {
	tip, err := handler.service.GetTipBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Drafts stay hidden from the public listing and from direct slug hits.
	if !tip.IsActive && !staffRequest(request) {
		respond.Error(writer, request, apperr.NotFound("Health tip"))
		return
	}

	respond.OK(writer, tip)
}

// GET /api/v1/content/about/company-info.
func (handler *Handler) getCompanyInfo(writer http.ResponseWriter, request *http.Request) {
	info, err := handler.service.GetCompanyInfo(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, info)
}

// GET /api/v1/content/about/team.
func (handler *Handler) listTeamMembers(writer http.ResponseWriter, request *http.Request) {
	members, err := handler.service.ListTeamMembers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, members)
}

// GET /api/v1/content/about/stats.
func (handler *Handler) listStats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.ListStats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

// tipRequest carries a health tip for create and update.
type tipRequest struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Body     string `json:"body"`
	Category string `json:"category"`
	IsActive bool   `json:"is_active"`
}

func (input tipRequest) validate() error {
	v := &validate.Validator{}
	v.Required("title", input.Title).
		MaxLen("title", input.Title, 255).
		Required("body", input.Body).
		Required("category", input.Category)

	if input.Slug != "" {
		v.Slug("slug", input.Slug)
	}

	return v.Err()
}

/*
POST /api/v1/admin/content/health-tips.

Description: Publishes a new tip. The slug defaults to a slugified title.

Response:
  - 201: HealthTip
  - 422: ErrUnprocessable: Validation failure
*/
func (handler *Handler) createTip(writer http.ResponseWriter, request *http.Request) {
	var input tipRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tip, err := handler.service.CreateTip(request.Context(), &HealthTip{
		Title:    input.Title,
		Slug:     input.Slug,
		Body:     input.Body,
		Category: input.Category,
		IsActive: input.IsActive,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, tip)
}

// PUT /api/v1/admin/content/health-tips/{id}.
func (handler *Handler) updateTip(writer http.ResponseWriter, request *http.Request) {
	var input tipRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tip, err := handler.service.UpdateTip(request.Context(), &HealthTip{
		ID:       requestutil.ID(request, "id"),
		Title:    input.Title,
		Slug:     input.Slug,
		Body:     input.Body,
		Category: input.Category,
		IsActive: input.IsActive,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tip)
}

// DELETE /api/v1/admin/content/health-tips/{id}.
func (handler *Handler) deleteTip(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteTip(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// companyInfoRequest overwrites the single company profile record.
type companyInfoRequest struct {
	Name    string `json:"name"`
	Story   string `json:"story"`
	Mission string `json:"mission"`
	Vision  string `json:"vision"`
}

// PUT /api/v1/admin/content/company-info.
func (handler *Handler) saveCompanyInfo(writer http.ResponseWriter, request *http.Request) {
	var input companyInfoRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("name", input.Name).MaxLen("name", input.Name, 200)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	info, err := handler.service.SaveCompanyInfo(request.Context(), &CompanyInfo{
		Name:    input.Name,
		Story:   input.Story,
		Mission: input.Mission,
		Vision:  input.Vision,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, info)
}

// teamMemberRequest carries a team member for create and update.
type teamMemberRequest struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	PhotoURL  string `json:"photo_url"`
	SortOrder int    `json:"sort_order"`
}

func (input teamMemberRequest) validate() error {
	v := &validate.Validator{}
	v.Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		Required("role", input.Role).
		MaxLen("role", input.Role, 100)

	if input.PhotoURL != "" {
		v.URL("photo_url", input.PhotoURL)
	}

	return v.Err()
}

// POST /api/v1/admin/content/team.
func (handler *Handler) createTeamMember(writer http.ResponseWriter, request *http.Request) {
	var input teamMemberRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	member, err := handler.service.CreateTeamMember(request.Context(), &TeamMember{
		Name:      input.Name,
		Role:      input.Role,
		PhotoURL:  input.PhotoURL,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, member)
}

// PUT /api/v1/admin/content/team/{id}.
func (handler *Handler) updateTeamMember(writer http.ResponseWriter, request *http.Request) {
	var input teamMemberRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	member, err := handler.service.UpdateTeamMember(request.Context(), &TeamMember{
		ID:        requestutil.ID(request, "id"),
		Name:      input.Name,
		Role:      input.Role,
		PhotoURL:  input.PhotoURL,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, member)
}

// DELETE /api/v1/admin/content/team/{id}.
func (handler *Handler) deleteTeamMember(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteTeamMember(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// statRequest carries a headline stat for create and update.
type statRequest struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	SortOrder int    `json:"sort_order"`
}

// POST /api/v1/admin/content/stats.
func (handler *Handler) createStat(writer http.ResponseWriter, request *http.Request) {
	var input statRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("label", input.Label).Required("value", input.Value)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stat, err := handler.service.CreateStat(request.Context(), &CompanyStat{
		Label:     input.Label,
		Value:     input.Value,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, stat)
}

// PUT /api/v1/admin/content/stats/{id}.
func (handler *Handler) updateStat(writer http.ResponseWriter, request *http.Request) {
	var input statRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("label", input.Label).Required("value", input.Value)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stat, err := handler.service.UpdateStat(request.Context(), &CompanyStat{
		ID:        requestutil.ID(request, "id"),
		Label:     input.Label,
		Value:     input.Value,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stat)
}

// DELETE /api/v1/admin/content/stats/{id}.
func (handler *Handler) deleteStat(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteStat(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
