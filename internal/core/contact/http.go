// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/fruvia/internal/platform/request"
	"github.com/taibuivan/fruvia/internal/platform/respond"
	"github.com/taibuivan/fruvia/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public contact endpoint.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.getContact)

	return router
}

// AdminRoutes returns the contact management endpoint. Mount behind
// RequireRole(sec.RoleAdmin).
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Put("/", handler.updateContact)

	return router
}

// GET /api/v1/contact.
func (handler *Handler) getContact(writer http.ResponseWriter, request *http.Request) {
	info, err := handler.service.Get(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, info)
}

// updateContactRequest is a partial contact update; omitted fields keep
// their current value.
type updateContactRequest struct {
	Phone       *string           `json:"phone"`
	Email       *string           `json:"email"`
	Location    *string           `json:"location"`
	MapLink     *string           `json:"map_link"`
	SocialLinks map[string]string `json:"social_media_links"`
}

/*
PUT /api/v1/admin/contact.

Description: Applies a partial update to the single contact record, creating
it on the first write.

Request:
  - body: updateContactRequest

Response:
  - 200: Info: The updated contact record
  - 422: ErrUnprocessable: Invalid email or URL fields
*/
func (handler *Handler) updateContact(writer http.ResponseWriter, request *http.Request) {
	var input updateContactRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if input.Email != nil && *input.Email != "" {
		v.Email("email", *input.Email)
	}
	if input.MapLink != nil && *input.MapLink != "" {
		v.URL("map_link", *input.MapLink)
	}
	for platform, link := range input.SocialLinks {
		v.URL("social_media_links."+platform, link)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	info, err := handler.service.Update(request.Context(), UpdateInput{
		Phone:       input.Phone,
		Email:       input.Email,
		Location:    input.Location,
		MapLink:     input.MapLink,
		SocialLinks: input.SocialLinks,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, info)
}
