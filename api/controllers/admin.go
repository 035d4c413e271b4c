package controllers

import (
	"net/http"

	"github.com/lorenagil/storefront-backend/api/responses"
	"github.com/lorenagil/storefront-backend/api/validators"
	"github.com/lorenagil/storefront-backend/internal/activity"
	"github.com/lorenagil/storefront-backend/internal/orders"
	"github.com/lorenagil/storefront-backend/internal/profiles"
	"github.com/lorenagil/storefront-backend/internal/receipts"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/lorenagil/storefront-backend/pkg/logger"
)

// AdminCustomerList returns every registered customer email.
func AdminCustomerList(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		emails, err := svc.ListCustomerEmails(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"customers": emails})
	}
}

func AdminCustomerOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email, err := validators.EmailParam(r, "email")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByCustomer(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// AdminCustomerActivity returns a customer's raw activity log text.
func AdminCustomerActivity(log activity.Logger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if log == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "activity logger unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email, err := validators.EmailParam(r, "email")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		text, err := log.Read(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"email": email, "log": text})
	}
}

// AdminCustomerReceipts lists the receipt objects archived for a customer.
func AdminCustomerReceipts(archive *receipts.Archive, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if archive == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "receipt archive unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email, err := validators.EmailParam(r, "email")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		names, err := archive.ListByCustomer(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"email": email, "receipts": names})
	}
}

func AdminCustomerReceiptDetail(archive *receipts.Archive, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if archive == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "receipt archive unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email, err := validators.EmailParam(r, "email")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := archive.ReadByOrder(r.Context(), email, orderID.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, receipt)
	}
}

// AdminMarkOrderSent moves an order from Processing to Sent. Repeating the
// call on an already sent order changes nothing.
func AdminMarkOrderSent(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.MarkSent(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
