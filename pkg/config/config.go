package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Billing       BillingConfig
	Cron          CronConfig
	Search        SearchConfig
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
	Env          string `envconfig:"PHARMACARE_APP_ENV" required:"true"`
	Port         string `envconfig:"PHARMACARE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PHARMACARE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PHARMACARE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PHARMACARE_DB_DSN"`
	Driver string `envconfig:"PHARMACARE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PHARMACARE_DB_HOST"`
	LegacyPort     int    `envconfig:"PHARMACARE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PHARMACARE_DB_USER"`
	LegacyPassword string `envconfig:"PHARMACARE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PHARMACARE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PHARMACARE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PHARMACARE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PHARMACARE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PHARMACARE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PHARMACARE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PHARMACARE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PHARMACARE_REDIS_ADDR"`
	Password     string        `envconfig:"PHARMACARE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PHARMACARE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PHARMACARE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PHARMACARE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PHARMACARE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PHARMACARE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PHARMACARE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                      string `envconfig:"PHARMACARE_JWT_SECRET" required:"true"`
	Issuer                      string `envconfig:"PHARMACARE_JWT_ISSUER" required:"true"`
	ExpirationMinutes           int    `envconfig:"PHARMACARE_JWT_EXPIRATION_MINUTES" required:"true"`
	VerificationTokenTTLMinutes int    `envconfig:"PHARMACARE_VERIFICATION_TOKEN_TTL_MINUTES" default:"1440"`
}

// VerificationTokenTTL returns the TTL for email verification tokens.
func (j JWTConfig) VerificationTokenTTL() time.Duration {
	if j.VerificationTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.VerificationTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PHARMACARE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PHARMACARE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PHARMACARE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PHARMACARE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PHARMACARE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"PHARMACARE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"PHARMACARE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"PHARMACARE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"PHARMACARE_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"PHARMACARE_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"PHARMACARE_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PHARMACARE_AUTO_MIGRATE" default:"false"`
}

type BillingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"PHARMACARE_BILLING_IDEMPOTENCY_TTL" default:"168h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"PHARMACARE_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"PHARMACARE_CRON_LOCK_TTL" default:"30m"`
}

type SearchConfig struct {
	ResultLimit int `envconfig:"PHARMACARE_SEARCH_RESULT_LIMIT" default:"20"`
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
