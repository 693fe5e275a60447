// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/fruvia/internal/platform/request"
	"github.com/taibuivan/fruvia/internal/platform/respond"
	"github.com/taibuivan/fruvia/internal/platform/validate"
	"github.com/taibuivan/fruvia/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the customer feedback endpoints. Mount behind RequireAuth.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.submit)
	router.Get("/mine", handler.listMine)

	return router
}

// AdminRoutes returns the review endpoints. Mount behind
// RequireRole(sec.RoleAdmin).
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.adminList)
	router.Get("/{id}", handler.adminGet)
	router.Put("/{id}/respond", handler.respond)

	return router
}

// submitRequest is a new customer submission.
type submitRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Rating  *int   `json:"rating"`
}

/*
POST /api/v1/feedback.

Description: Records a customer submission in the "new" state.

Request:
  - body: submitRequest (Message required; Title and Rating optional)

Response:
  - 201: Feedback
  - 422: ErrUnprocessable: Missing message or out-of-range rating
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input submitRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("message", input.Message).
		MaxLen("message", input.Message, 4000).
		MaxLen("title", input.Title, 255)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Submit(request.Context(), userID, SubmitInput{
		Title:   input.Title,
		Message: input.Message,
		Rating:  input.Rating,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

/*
GET /api/v1/feedback/mine.

Description: Lists the authenticated user's own submissions with any staff
responses, newest first.
*/
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	entries, total, err := handler.service.ListMine(request.Context(), userID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/admin/feedback.

Description: Lists every submission, optionally filtered by workflow status.

Query parameters:
  - status: string: Optional status filter (new, reviewed, resolved)
  - page, limit: int: Pagination
*/
func (handler *Handler) adminList(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Status: Status(request.URL.Query().Get("status")),
	}

	entries, total, err := handler.service.ListAll(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(params.Page, params.Limit, total))
}

// GET /api/v1/admin/feedback/{id}.
func (handler *Handler) adminGet(writer http.ResponseWriter, request *http.Request) {
	entry, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// respondRequest is a staff reply to a submission.
type respondRequest struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

/*
PUT /api/v1/admin/feedback/{id}/respond.

Description: Stores a staff response. An omitted status defaults to
"reviewed"; responding again overwrites the previous reply.

Request:
  - body: respondRequest (Response required; Status optional)

Response:
  - 200: Feedback: The updated submission
  - 404: ErrNotFound: Unknown submission
  - 422: ErrUnprocessable: Missing response or unknown status
*/
func (handler *Handler) respond(writer http.ResponseWriter, request *http.Request) {
	var input respondRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("response", input.Response).
		MaxLen("response", input.Response, 4000)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Respond(request.Context(), requestutil.ID(request, "id"), input.Response, Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}
