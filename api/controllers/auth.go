package controllers

import (
	"net/http"

	"github.com/lorenagil/storefront-backend/api/middleware"
	"github.com/lorenagil/storefront-backend/api/responses"
	"github.com/lorenagil/storefront-backend/api/validators"
	"github.com/lorenagil/storefront-backend/internal/auth"
	"github.com/lorenagil/storefront-backend/internal/profiles"
	"github.com/lorenagil/storefront-backend/pkg/config"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/lorenagil/storefront-backend/pkg/logger"
)

// AuthRegister creates a customer profile. The body is JSON, or a multipart
// form when the customer attaches a profile image.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := decodeRegisterInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Register(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, profile)
	}
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-SF-Token", result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}

// AuthLogout ends the caller's session. The token is parsed directly so the
// logout can compute the session duration from the issue time.
func AuthLogout(svc auth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims, err := middleware.Claims(jwtCfg, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Logout(r.Context(), claims); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func decodeRegisterInput(r *http.Request) (profiles.RegisterInput, error) {
	if !validators.IsMultipart(r) {
		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return profiles.RegisterInput{}, err
		}
		return profiles.RegisterInput{
			Email:    body.Email,
			Password: body.Password,
			Name:     body.Name,
			Surname:  body.Surname,
			Phone:    body.Phone,
		}, nil
	}

	if err := validators.ParseForm(r); err != nil {
		return profiles.RegisterInput{}, err
	}

	input := profiles.RegisterInput{
		Email:    validators.FormValue(r, "email"),
		Password: r.FormValue("password"),
		Name:     validators.FormValue(r, "name"),
		Surname:  validators.FormValue(r, "surname"),
	}
	if phone := validators.FormValue(r, "phone"); phone != "" {
		input.Phone = &phone
	}

	filename, contentType, data, err := validators.FormImage(r, "image")
	if err != nil {
		return profiles.RegisterInput{}, err
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
