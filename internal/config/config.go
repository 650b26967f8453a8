package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Tracker TrackerConfig `yaml:"tracker"`
	Log     LogConfig     `yaml:"log"`
	CORS    CORSConfig    `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig holds embedded key-value store settings.
type StorageConfig struct {
	Dir      string `yaml:"dir"       env:"STORAGE_DIR"       env-default:"./data"`
	InMemory bool   `yaml:"in_memory" env:"STORAGE_IN_MEMORY" env-default:"false"`
}

// AuthConfig holds authentication settings. Operator accounts are a fixed
// set; only their password hashes are configurable.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"pallettrack"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"12h"`

	// Bcrypt hashes for the built-in accounts. Empty hash disables the account.
	AdminPasswordHash    string `yaml:"admin_password_hash"    env:"AUTH_ADMIN_PASSWORD_HASH"`
	OperatorPasswordHash string `yaml:"operator_password_hash" env:"AUTH_OPERATOR_PASSWORD_HASH"`
	UserPasswordHash     string `yaml:"user_password_hash"     env:"AUTH_USER_PASSWORD_HASH"`
}

// TrackerConfig holds shift-tracking parameters.
type TrackerConfig struct {
	// DailyQuota is the completed-check count at which the quota-reached
	// notice fires.
	DailyQuota int `yaml:"daily_quota" env:"TRACKER_DAILY_QUOTA" env-default:"15"`
	// StaleAfter is how long an open work day may sit in a snapshot before
	// loading treats it as abandoned.
	StaleAfter time.Duration `yaml:"stale_after" env:"TRACKER_STALE_AFTER" env-default:"12h"`
	// AssumedShift is the synthetic shift length assigned when a stale day
	// is closed during healing.
	AssumedShift time.Duration `yaml:"assumed_shift" env:"TRACKER_ASSUMED_SHIFT" env-default:"8h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
