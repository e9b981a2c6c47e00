package config

const (
	EnvPrefix = "KHAIZAN"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	QuoteStoreBackendRedis    = "redis"
	QuoteStoreBackendDatabase = "database"
)

const (
	EnvAppEnv         = "KHAIZAN_APP_ENV"
	EnvPort           = "KHAIZAN_APP_PORT"
	EnvDBDSN          = "KHAIZAN_DB_DSN"
	EnvDBHost         = "KHAIZAN_DB_HOST"
	EnvDBUser         = "KHAIZAN_DB_USER"
	EnvDBName         = "KHAIZAN_DB_NAME"
	EnvRedisURL       = "KHAIZAN_REDIS_URL"
	EnvCatalogBaseURL = "KHAIZAN_CATALOG_BASE_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
