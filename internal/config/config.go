package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// Storage selects the backing store: "memory" keeps all state for the
	// process lifetime (the reference behavior), "sqlite" survives restarts.
	StorageDriver string `mapstructure:"storage_driver" yaml:"storage_driver"`
	DatabasePath  string `mapstructure:"database_path" yaml:"database_path"`

	// Reconnect token settings.
	JWTSecret   string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	TokenTTL    time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`

	// Bootstrap privileged account.
	AdminUsername   string `mapstructure:"admin_username" yaml:"admin_username"`
	AdminCredential string `mapstructure:"admin_credential" yaml:"admin_credential"`

	// MessageRateLimit caps inbound messages per connection per minute.
	// Zero disables the limit.
	MessageRateLimit int `mapstructure:"message_rate_limit" yaml:"message_rate_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		StorageDriver:     "memory",
		DatabasePath:      "chathub.db",
		JWTSecret:         "change-me",
		JWTIssuer:         "chathub",
		JWTAudience:       "chathub-client",
		TokenTTL:          24 * time.Hour,
		AdminUsername:     "rw0rR_",
		AdminCredential:   "change-me-too",
		MessageRateLimit:  120,
	}
}
