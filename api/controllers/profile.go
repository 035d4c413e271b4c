package controllers

import (
	"net/http"

	"github.com/lorenagil/storefront-backend/api/middleware"
	"github.com/lorenagil/storefront-backend/api/responses"
	"github.com/lorenagil/storefront-backend/api/validators"
	"github.com/lorenagil/storefront-backend/internal/profiles"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/lorenagil/storefront-backend/pkg/logger"
)

type profileUpdateRequest struct {
	Name    string  `json:"name" validate:"required"`
	Surname string  `json:"surname" validate:"required"`
	Phone   *string `json:"phone,omitempty"`
}

// ProfileFetch returns the caller's own profile.
func ProfileFetch(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Get(r.Context(), middleware.EmailFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// ProfileUpdate replaces the caller's profile fields. The body is JSON, or a
// multipart form when a new profile image comes along.
func ProfileUpdate(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := decodeProfileUpdateInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Update(r.Context(), middleware.EmailFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

func decodeProfileUpdateInput(r *http.Request) (profiles.UpdateProfileInput, error) {
	if !validators.IsMultipart(r) {
		var body profileUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return profiles.UpdateProfileInput{}, err
		}
		return profiles.UpdateProfileInput{
			Name:    body.Name,
			Surname: body.Surname,
			Phone:   body.Phone,
		}, nil
	}

	if err := validators.ParseForm(r); err != nil {
		return profiles.UpdateProfileInput{}, err
	}

	input := profiles.UpdateProfileInput{
		Name:    validators.FormValue(r, "name"),
		Surname: validators.FormValue(r, "surname"),
	}
	if phone := validators.FormValue(r, "phone"); phone != "" {
		input.Phone = &phone
	}

	filename, contentType, data, err := validators.FormImage(r, "image")
	if err != nil {
		return profiles.UpdateProfileInput{}, err
	}
	if data != nil {
		input.Image = &profiles.ImageUpload{
			Filename:    filename,
			ContentType: contentType,
			Data:        data,
		}
	}

	return input, nil
}
