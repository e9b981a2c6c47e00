package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	Catalog    CatalogConfig
	QuoteStore QuoteStoreConfig
	CORS       CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.QuoteStore.validateBackend(); err != nil {
		return nil, err
	}
	if cfg.QuoteStore.UsesDatabase() {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KHAIZAN_APP_ENV" required:"true"`
	Port         string `envconfig:"KHAIZAN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KHAIZAN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KHAIZAN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KHAIZAN_DB_DSN"`
	Driver string `envconfig:"KHAIZAN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KHAIZAN_DB_HOST"`
	LegacyPort     int    `envconfig:"KHAIZAN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KHAIZAN_DB_USER"`
	LegacyPassword string `envconfig:"KHAIZAN_DB_PASSWORD"`
	LegacyName     string `envconfig:"KHAIZAN_DB_NAME"`
	LegacySSLMode  string `envconfig:"KHAIZAN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KHAIZAN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KHAIZAN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KHAIZAN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KHAIZAN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KHAIZAN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KHAIZAN_REDIS_ADDR"`
	Password     string        `envconfig:"KHAIZAN_REDIS_PASSWORD"`
	DB           int           `envconfig:"KHAIZAN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KHAIZAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KHAIZAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KHAIZAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KHAIZAN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KHAIZAN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CatalogConfig points at the upstream product catalog API the storefront
// renders from. The catalog owns pricing and inventory; this service only
// reads it.
type CatalogConfig struct {
	BaseURL         string        `envconfig:"KHAIZAN_CATALOG_BASE_URL" required:"true"`
	RequestTimeout  time.Duration `envconfig:"KHAIZAN_CATALOG_REQUEST_TIMEOUT" default:"10s"`
	DefaultPageSize int           `envconfig:"KHAIZAN_CATALOG_DEFAULT_PAGE_SIZE" default:"20"`
	MaxPageSize     int           `envconfig:"KHAIZAN_CATALOG_MAX_PAGE_SIZE" default:"100"`
	ListCacheTTL    time.Duration `envconfig:"KHAIZAN_CATALOG_LIST_CACHE_TTL" default:"30s"`
	DetailCacheTTL  time.Duration `envconfig:"KHAIZAN_CATALOG_DETAIL_CACHE_TTL" default:"60s"`
}

// QuoteStoreConfig selects where per-session quote snapshots live.
type QuoteStoreConfig struct {
	Backend     string        `envconfig:"KHAIZAN_QUOTE_STORE_BACKEND" default:"redis"`
	SnapshotTTL time.Duration `envconfig:"KHAIZAN_QUOTE_SNAPSHOT_TTL" default:"720h"`
}

func (q QuoteStoreConfig) UsesDatabase() bool {
	return strings.EqualFold(strings.TrimSpace(q.Backend), QuoteStoreBackendDatabase)
}

func (q QuoteStoreConfig) validateBackend() error {
	backend := strings.ToLower(strings.TrimSpace(q.Backend))
	switch backend {
	case QuoteStoreBackendRedis, QuoteStoreBackendDatabase:
		return nil
	}
	return fmt.Errorf("quote store backend must be %q or %q", QuoteStoreBackendRedis, QuoteStoreBackendDatabase)
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"KHAIZAN_CORS_ALLOWED_ORIGINS"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
