package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Engine       EngineConfig
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
	Env          string `envconfig:"BYBA_APP_ENV" required:"true"`
	Port         string `envconfig:"BYBA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BYBA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BYBA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BYBA_DB_DSN"`
	Driver string `envconfig:"BYBA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BYBA_DB_HOST"`
	LegacyPort     int    `envconfig:"BYBA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BYBA_DB_USER"`
	LegacyPassword string `envconfig:"BYBA_DB_PASSWORD"`
	LegacyName     string `envconfig:"BYBA_DB_NAME"`
	LegacySSLMode  string `envconfig:"BYBA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BYBA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BYBA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BYBA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BYBA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BYBA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BYBA_REDIS_ADDR"`
	Password     string        `envconfig:"BYBA_REDIS_PASSWORD"`
	DB           int           `envconfig:"BYBA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BYBA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BYBA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BYBA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BYBA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BYBA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// EngineConfig carries the tunables of the scheduling and fee engine.
type EngineConfig struct {
	ScheduleLockTTL           time.Duration `envconfig:"BYBA_ENGINE_SCHEDULE_LOCK_TTL" default:"30s"`
	WithdrawalFeeMultiplier   string        `envconfig:"BYBA_ENGINE_WITHDRAWAL_FEE_MULTIPLIER" default:"1.5"`
	DefaultPerformanceMinutes int           `envconfig:"BYBA_ENGINE_DEFAULT_PERFORMANCE_MINUTES" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BYBA_AUTO_MIGRATE" default:"false"`
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
