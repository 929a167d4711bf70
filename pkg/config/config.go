package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "eventloft"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "EVENTLOFT_DB_DSN"
	EnvDBHost = "EVENTLOFT_DB_HOST"
	EnvDBUser = "EVENTLOFT_DB_USER"
	EnvDBName = "EVENTLOFT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Razorpay      RazorpayConfig
	SMTP          SMTPConfig
	Booking       BookingConfig
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
	Env          string `envconfig:"EVENTLOFT_APP_ENV" required:"true"`
	Port         string `envconfig:"EVENTLOFT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"EVENTLOFT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EVENTLOFT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"EVENTLOFT_DB_DSN"`
	Driver string `envconfig:"EVENTLOFT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"EVENTLOFT_DB_HOST"`
	LegacyPort     int    `envconfig:"EVENTLOFT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EVENTLOFT_DB_USER"`
	LegacyPassword string `envconfig:"EVENTLOFT_DB_PASSWORD"`
	LegacyName     string `envconfig:"EVENTLOFT_DB_NAME"`
	LegacySSLMode  string `envconfig:"EVENTLOFT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EVENTLOFT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EVENTLOFT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EVENTLOFT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EVENTLOFT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EVENTLOFT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EVENTLOFT_REDIS_ADDR"`
	Password     string        `envconfig:"EVENTLOFT_REDIS_PASSWORD"`
	DB           int           `envconfig:"EVENTLOFT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EVENTLOFT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EVENTLOFT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EVENTLOFT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EVENTLOFT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EVENTLOFT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"EVENTLOFT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"EVENTLOFT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"EVENTLOFT_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"EVENTLOFT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"EVENTLOFT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"EVENTLOFT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"EVENTLOFT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"EVENTLOFT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"EVENTLOFT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"EVENTLOFT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"EVENTLOFT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"EVENTLOFT_AUTO_MIGRATE" default:"false"`
}

type RazorpayConfig struct {
	KeyID          string        `envconfig:"EVENTLOFT_RAZORPAY_KEY_ID" required:"true"`
	KeySecret      string        `envconfig:"EVENTLOFT_RAZORPAY_KEY_SECRET" required:"true"`
	BaseURL        string        `envconfig:"EVENTLOFT_RAZORPAY_BASE_URL" default:"https://api.razorpay.com/v1"`
	RequestTimeout time.Duration `envconfig:"EVENTLOFT_RAZORPAY_TIMEOUT" default:"10s"`
}

type SMTPConfig struct {
	Host        string `envconfig:"EVENTLOFT_SMTP_HOST"`
	Port        int    `envconfig:"EVENTLOFT_SMTP_PORT" default:"587"`
	Username    string `envconfig:"EVENTLOFT_SMTP_USERNAME"`
	Password    string `envconfig:"EVENTLOFT_SMTP_PASSWORD"`
	DefaultFrom string `envconfig:"EVENTLOFT_SMTP_FROM_EMAIL"`
	// ContactRecipient receives contact form submissions. Falls back to the
	// from address when unset.
	ContactRecipient string `envconfig:"EVENTLOFT_CONTACT_EMAIL"`
}

type BookingConfig struct {
	// AllowCompleteFromPending relaxes the completed-requires-confirmed rule for
	// deployments that need the legacy behavior.
	AllowCompleteFromPending bool `envconfig:"EVENTLOFT_BOOKING_ALLOW_COMPLETE_FROM_PENDING" default:"false"`
	// AmountSanityMultiplier caps client-supplied amounts at price * multiplier.
	AmountSanityMultiplier int           `envconfig:"EVENTLOFT_BOOKING_AMOUNT_SANITY_MULTIPLIER" default:"1"`
	VerifyGuardTTL         time.Duration `envconfig:"EVENTLOFT_BOOKING_VERIFY_GUARD_TTL" default:"720h"`
	IdempotencyTTL         time.Duration `envconfig:"EVENTLOFT_BOOKING_IDEMPOTENCY_TTL" default:"24h"`
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
