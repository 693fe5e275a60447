// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/fruvia/internal/platform/sec"
	"github.com/taibuivan/fruvia/pkg/pagination"

	requestutil "github.com/taibuivan/fruvia/internal/platform/request"
	"github.com/taibuivan/fruvia/internal/platform/respond"
	"github.com/taibuivan/fruvia/internal/platform/validate"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] with the self-service account endpoints.
//
// All routes here require an authenticated session; mount behind RequireAuth.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Account Management
	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)
	router.Delete("/me", handler.deleteMe)

	// Session Security
	router.Get("/me/sessions", handler.listSessions)
	router.Delete("/me/sessions/{id}", handler.revokeSession)

	return router
}

// AdminRoutes returns a [chi.Router] with the customer administration
// endpoints. Mount behind RequireRole(sec.RoleAdmin).
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.adminListAccounts)
	router.Get("/{id}", handler.adminGetAccount)
	router.Patch("/{id}", handler.adminUpdateAccount)
	router.Delete("/{id}", handler.adminDeleteAccount)

	return router
}

// # User Profile Endpoints

/*
GET /api/v1/account/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

/*
PATCH /api/v1/account/me.

Description: Applies partial updates to the authenticated user's profile.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Name != nil {
		v.MinLen("name", *input.Name, 2).MaxLen("name", *input.Name, 100)
	}
	if input.Phone != nil {
		v.MaxLen("phone", *input.Phone, 30)
	}
	if input.Address != nil {
		v.MaxLen("address", *input.Address, 500)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Name:    input.Name,
		Phone:   input.Phone,
		Address: input.Address,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/account/me.

Description: Performs a soft-deletion of the authenticated user's account.

Response:
  - 204: No Content: Account deleted successfully
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Session Security Endpoints

/*
GET /api/v1/account/me/sessions.

Description: Enumerates all devices currently authenticated into the user's account.

Response:
  - 200: []SessionInfo: List of active device sessions
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listSessions(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessions, err := handler.accountService.ListSessions(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessions)
}

/*
DELETE /api/v1/account/me/sessions/{id}.

Description: Forces a sign-out on a specific device identified by its session ID.

Request:
  - id: string (Session UUID)

Response:
  - 204: No Content: Session terminated successfully
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) revokeSession(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessionID := chi.URLParam(request, "id")

	if err := handler.accountService.RevokeSession(request.Context(), userID, sessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Customer Administration Endpoints

/*
GET /api/v1/admin/customers.

Description: Lists accounts for staff review with optional search and role filters.

Request:
  - query: page, limit, search, role

Response:
  - 200: []User + pagination meta
  - 403: ErrForbidden: Admin role required
*/
func (handler *Handler) adminListAccounts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	role := sec.UserRole(request.URL.Query().Get("role"))
	if role != "" {
		role = sec.Normalize(role)
	}

	users, total, err := handler.accountService.ListAccounts(request.Context(), ListFilter{
		Search: request.URL.Query().Get("search"),
		Role:   role,
		Limit:  params.Limit,
		Offset: params.Offset(),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/admin/customers/{id}.

Description: Retrieves a single account by ID for staff review.

Response:
  - 200: User: Hydrated account
  - 404: ErrNotFound: Account not found
*/
func (handler *Handler) adminGetAccount(writer http.ResponseWriter, request *http.Request) {
	accountID := chi.URLParam(request, "id")

	user, err := handler.accountService.GetProfile(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// adminUpdateRequest defines the staff-editable account fields.
type adminUpdateRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

/*
PATCH /api/v1/admin/customers/{id}.

Description: Applies staff changes to an account. Role changes require the
superadmin role; deactivation revokes the account's live sessions.

Request:
  - body: adminUpdateRequest (Partial JSON)

Response:
  - 200: User: The updated account
  - 403: ErrForbidden: Insufficient privileges for the requested change
  - 404: ErrNotFound: Account not found
*/
func (handler *Handler) adminUpdateAccount(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accountID := chi.URLParam(request, "id")

	var input adminUpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updateInput := AdminUpdateInput{
		Name:     input.Name,
		Phone:    input.Phone,
		Address:  input.Address,
		IsActive: input.IsActive,
	}

	if input.Role != nil {
		role := sec.UserRole(*input.Role)
		updateInput.Role = &role
	}

	user, err := handler.accountService.AdminUpdateAccount(
		request.Context(),
		sec.UserRole(claims.Role),
		accountID,
		updateInput,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/admin/customers/{id}.

Description: Soft-deletes an account on behalf of staff and revokes its sessions.

Response:
  - 204: No Content: Account deleted
  - 404: ErrNotFound: Account not found
*/
func (handler *Handler) adminDeleteAccount(writer http.ResponseWriter, request *http.Request) {
	accountID := chi.URLParam(request, "id")

	if err := handler.accountService.AdminDeleteAccount(request.Context(), accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
