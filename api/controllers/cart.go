package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lorenagil/storefront-backend/api/middleware"
	"github.com/lorenagil/storefront-backend/api/responses"
	"github.com/lorenagil/storefront-backend/api/validators"
	"github.com/lorenagil/storefront-backend/internal/cart"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/lorenagil/storefront-backend/pkg/logger"
)

type cartAddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type cartUpdateRequest struct {
	Quantities map[uuid.UUID]int `json:"quantities" validate:"required"`
}

// CartFetch returns the session cart with its total and item count.
func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), middleware.AccessIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// CartAdd puts a product into the session cart, incrementing the quantity
// when the product is already there.
func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartAddRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Add(r.Context(), middleware.AccessIDFromContext(r.Context()), body.ProductID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// CartUpdate replaces line quantities in bulk. A zero or negative quantity
// keeps the line but zeroes it out of the total.
func CartUpdate(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateQuantities(r.Context(), middleware.AccessIDFromContext(r.Context()), body.Quantities)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func CartRemove(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Remove(r.Context(), middleware.AccessIDFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
