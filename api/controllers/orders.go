package controllers

import (
	"net/http"

	"github.com/lorenagil/storefront-backend/api/middleware"
	"github.com/lorenagil/storefront-backend/api/responses"
	"github.com/lorenagil/storefront-backend/api/validators"
	"github.com/lorenagil/storefront-backend/internal/cart"
	"github.com/lorenagil/storefront-backend/internal/orders"
	"github.com/lorenagil/storefront-backend/pkg/enums"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/lorenagil/storefront-backend/pkg/logger"
)

// OrderSubmit turns the session cart into a placed order. The cart is
// cleared only after the order and its outbox event are committed; a failed
// clear leaves a stale cart but never a lost order.
func OrderSubmit(ordersSvc orders.Service, cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ordersSvc == nil || cartSvc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		accessID := middleware.AccessIDFromContext(ctx)

		items, err := cartSvc.Items(ctx, accessID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := ordersSvc.Submit(ctx, middleware.EmailFromContext(ctx), items)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := cartSvc.Clear(ctx, accessID); err != nil && logg != nil {
			logg.Error(logg.WithField(ctx, "order_id", order.ID.String()), "clearing cart after order", err)
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderList returns the caller's own orders, newest first.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByCustomer(r.Context(), middleware.EmailFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// OrderDetail returns one order. Customers only see their own orders; an
// order belonging to someone else reads as absent.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
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

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isAdmin := middleware.RoleFromContext(r.Context()) == enums.RoleAdmin.String()
		if !isAdmin && order.CustomerEmail != middleware.EmailFromContext(r.Context()) {
			err := pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
