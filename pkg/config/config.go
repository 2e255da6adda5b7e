package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "adforge"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ADFORGE_DB_DSN"
	EnvDBHost = "ADFORGE_DB_HOST"
	EnvDBUser = "ADFORGE_DB_USER"
	EnvDBName = "ADFORGE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Stability    StabilityConfig
	Storage      StorageConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ADFORGE_APP_ENV" required:"true"`
	Port         string `envconfig:"ADFORGE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ADFORGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ADFORGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ADFORGE_DB_DSN"`
	Driver string `envconfig:"ADFORGE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ADFORGE_DB_HOST"`
	LegacyPort     int    `envconfig:"ADFORGE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ADFORGE_DB_USER"`
	LegacyPassword string `envconfig:"ADFORGE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ADFORGE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ADFORGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ADFORGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ADFORGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ADFORGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ADFORGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// StabilityConfig holds the image-generation API contract. The key is
// required so a missing credential fails at boot instead of at the first
// generation request.
type StabilityConfig struct {
	APIKey  string        `envconfig:"ADFORGE_STABILITY_API_KEY" required:"true"`
	BaseURL string        `envconfig:"ADFORGE_STABILITY_BASE_URL" default:"https://api.stability.ai"`
	Timeout time.Duration `envconfig:"ADFORGE_STABILITY_TIMEOUT" default:"120s"`
}

// StorageConfig points at the directory backing the named-blob store.
type StorageConfig struct {
	MediaRoot string `envconfig:"ADFORGE_MEDIA_ROOT" default:"media"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ADFORGE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if strings.EqualFold(db.Driver, "sqlite") {
		return fmt.Errorf("%s is required when the sqlite driver is selected", EnvDBDSN)
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
