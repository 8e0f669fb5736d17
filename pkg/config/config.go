package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "STOCKTALLY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "STOCKTALLY_DB_DSN"
	EnvDBHost = "STOCKTALLY_DB_HOST"
	EnvDBUser = "STOCKTALLY_DB_USER"
	EnvDBName = "STOCKTALLY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
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
	Env          string `envconfig:"STOCKTALLY_APP_ENV" required:"true"`
	Port         string `envconfig:"STOCKTALLY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOCKTALLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKTALLY_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"STOCKTALLY_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"STOCKTALLY_DB_DSN"`

	LegacyHost     string `envconfig:"STOCKTALLY_DB_HOST"`
	LegacyPort     int    `envconfig:"STOCKTALLY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOCKTALLY_DB_USER"`
	LegacyPassword string `envconfig:"STOCKTALLY_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOCKTALLY_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOCKTALLY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOCKTALLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKTALLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKTALLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKTALLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOCKTALLY_REDIS_URL"`
	Address      string        `envconfig:"STOCKTALLY_REDIS_ADDR"`
	Password     string        `envconfig:"STOCKTALLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOCKTALLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOCKTALLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOCKTALLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOCKTALLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOCKTALLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOCKTALLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STOCKTALLY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STOCKTALLY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"STOCKTALLY_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"STOCKTALLY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOCKTALLY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOCKTALLY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOCKTALLY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOCKTALLY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOCKTALLY_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOCKTALLY_AUTO_MIGRATE" default:"false"`
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
