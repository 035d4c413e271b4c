package config

// EnvPrefix is passed to envconfig; the struct tags already carry the full
// variable names, so the prefix itself stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv             = "STOREFRONT_APP_ENV"
	EnvPort               = "STOREFRONT_APP_PORT"
	EnvDBDSN              = "STOREFRONT_DB_DSN"
	EnvDBHost             = "STOREFRONT_DB_HOST"
	EnvDBUser             = "STOREFRONT_DB_USER"
	EnvDBName             = "STOREFRONT_DB_NAME"
	EnvRedisURL           = "STOREFRONT_REDIS_URL"
	EnvJWTSecret          = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer          = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins         = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvGCPProjectID       = "STOREFRONT_GCP_PROJECT_ID"
	EnvGCSBucket          = "STOREFRONT_GCS_BUCKET_NAME"
	EnvPubSubOrdersTopic  = "STOREFRONT_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub    = "STOREFRONT_PUBSUB_ORDERS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
