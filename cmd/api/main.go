package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/lorenagil/storefront-backend/api/routes"
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
	"github.com/lorenagil/storefront-backend/pkg/logger"
	"github.com/lorenagil/storefront-backend/pkg/migrate"
	"github.com/lorenagil/storefront-backend/pkg/outbox"
	"github.com/lorenagil/storefront-backend/pkg/redis"
	"github.com/lorenagil/storefront-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs client", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	profileService, err := profiles.NewService(profiles.ServiceParams{
		Repo:           profiles.NewRepository(dbClient.DB()),
		ObjectStore:    gcsClient,
		PasswordConfig: cfg.Password,
		GCSConfig:      cfg.GCS,
		AdminConfig:    cfg.Admin,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	if err := profileService.EnsureAdmin(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to bootstrap admin profile", err)
		os.Exit(1)
	}

	productRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(products.ServiceParams{
		Repo:        productRepo,
		ObjectStore: gcsClient,
		GCSConfig:   cfg.GCS,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cart.ServiceParams{
		Store:    cartStore,
		Products: productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	activityLog, err := activity.NewLogger(activity.LoggerParams{
		ObjectStore: gcsClient,
		Locker:      redisClient,
		Logger:      logg,
		GCSConfig:   cfg.GCS,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create activity logger", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     orders.NewRepository(dbClient.DB()),
		Profiles: profiles.NewRepository(dbClient.DB()),
		Events:   outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		TxRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Profiles:       profileService,
		SessionManager: sessionManager,
		ActivityLogger: activityLog,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	receiptArchive, err := receipts.NewArchive(gcsClient, cfg.GCS)
	if err != nil {
		logg.Error(context.Background(), "failed to create receipt archive", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			gcsClient,
			sessionManager,
			authService,
			profileService,
			productService,
			cartService,
			ordersService,
			activityLog,
			receiptArchive,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
