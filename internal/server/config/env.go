package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config values from environment variables. Unset variables
// leave the current value untouched; unparsable numeric values are ignored.
//
// Recognized variables:
//
//	ADDRESS                  HTTP bind address
//	DATABASE_DSN             PostgreSQL DSN
//	JWT_SECRET               HMAC signing secret
//	TOKEN_VALIDITY_MINUTES   access token lifetime
//	REDIS_ADDR               Redis address for the login throttle
//	LOGIN_MAX_ATTEMPTS       login throttle budget
//	LOGIN_WINDOW_SECONDS     login throttle window
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
func parseEnv(config *Config) {
	setString := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		if v, ok := os.LookupEnv(name); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("ADDRESS", &config.Addr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("JWT_SECRET", &config.SecretKey)

	if v, ok := os.LookupEnv("TOKEN_VALIDITY_MINUTES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.TokenValidity = time.Duration(n) * time.Minute
		}
	}

	setString("REDIS_ADDR", &config.RedisAddr)
	setInt("LOGIN_MAX_ATTEMPTS", &config.LoginMaxAttempts)

	if v, ok := os.LookupEnv("LOGIN_WINDOW_SECONDS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.LoginWindow = time.Duration(n) * time.Second
		}
	}

	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
}
