package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/lorenagil/storefront-backend/api/responses"
	"github.com/lorenagil/storefront-backend/api/validators"
	"github.com/lorenagil/storefront-backend/internal/products"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/lorenagil/storefront-backend/pkg/logger"
)

// ProductList returns the catalog, newest first.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func ProductDetail(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductCreate adds a catalog product from a multipart form carrying the
// name, price, and product image.
func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := validators.ParseForm(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(validators.FormValue(r, "price"))
		if err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.CreateProductInput{
			Name:  validators.FormValue(r, "name"),
			Price: price,
		}

		filename, contentType, data, err := validators.FormImage(r, "image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if data != nil {
			input.Image = &products.ImageUpload{
				Filename:    filename,
				ContentType: contentType,
				Data:        data,
			}
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}
