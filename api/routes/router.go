package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorenagil/storefront-backend/api/controllers"
	"github.com/lorenagil/storefront-backend/api/middleware"
	"github.com/lorenagil/storefront-backend/internal/activity"
	"github.com/lorenagil/storefront-backend/internal/auth"
	"github.com/lorenagil/storefront-backend/internal/cart"
	"github.com/lorenagil/storefront-backend/internal/orders"
	"github.com/lorenagil/storefront-backend/internal/products"
	"github.com/lorenagil/storefront-backend/internal/profiles"
	"github.com/lorenagil/storefront-backend/internal/receipts"
	"github.com/lorenagil/storefront-backend/pkg/auth/session"
	"github.com/lorenagil/storefront-backend/pkg/config"
	"github.com/lorenagil/storefront-backend/pkg/db"
	"github.com/lorenagil/storefront-backend/pkg/enums"
	"github.com/lorenagil/storefront-backend/pkg/logger"
	"github.com/lorenagil/storefront-backend/pkg/redis"
	"github.com/lorenagil/storefront-backend/pkg/storage/gcs"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	gcsP gcs.Pinger,
	sessionChecker session.Checker,
	authService auth.Service,
	profileService profiles.Service,
	productService products.Service,
	cartService cart.Service,
	ordersService orders.Service,
	activityLog activity.Logger,
	receiptArchive *receipts.Archive,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP, gcsP))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileFetch(profileService, logg))
			r.Put("/", controllers.ProfileUpdate(profileService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productService, logg))
			r.Get("/{productId}", controllers.ProductDetail(productService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAdd(cartService, logg))
			r.Put("/items", controllers.CartUpdate(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemove(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderSubmit(ordersService, cartService, logg))
			r.Get("/", controllers.OrderList(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RequireRole(enums.RoleAdmin.String(), logg))

		r.Post("/products", controllers.ProductCreate(productService, logg))
		r.Post("/orders/{orderId}/mark-sent", controllers.AdminMarkOrderSent(ordersService, logg))

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminCustomerList(profileService, logg))
			r.Get("/{email}/orders", controllers.AdminCustomerOrders(ordersService, logg))
			r.Get("/{email}/activity", controllers.AdminCustomerActivity(activityLog, logg))
			r.Get("/{email}/receipts", controllers.AdminCustomerReceipts(receiptArchive, logg))
			r.Get("/{email}/receipts/{orderId}", controllers.AdminCustomerReceiptDetail(receiptArchive, logg))
		})
	})

	return r
}
