package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/babalolajnr/todo-api/internal/flagx"
)

// jsonConfig is the DTO for the optional JSON configuration file. Durations
// are expressed as integers (minutes or seconds) to keep the file format
// trivial.
type jsonConfig struct {
	Addr                 *string `json:"address"`
	DatabaseDSN          *string `json:"database_dsn"`
	SecretKey            *string `json:"secret_key"`
	TokenValidityMinutes *int    `json:"token_validity_minutes"`
	RedisAddr            *string `json:"redis_addr"`
	LoginMaxAttempts     *int    `json:"login_max_attempts"`
	LoginWindowSeconds   *int    `json:"login_window_seconds"`
	S3RootUser           *string `json:"s3_root_user"`
	S3RootPassword       *string `json:"s3_root_password"`
	S3Bucket             *string `json:"s3_bucket"`
	S3Region             *string `json:"s3_region"`
	S3BaseEndpoint       *string `json:"s3_base_endpoint"`
}

// parseJSON loads configuration values from the JSON file given via the
// -c/-config flags. When no file is configured it does nothing. A file that
// cannot be read or parsed is a fatal startup condition.
//
// Absent fields keep their current values, so the file may be partial.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString := func(src *string, dst *string) {
		if src != nil {
			*dst = *src
		}
	}

	setString(c.Addr, &config.Addr)
	setString(c.DatabaseDSN, &config.DatabaseDSN)
	setString(c.SecretKey, &config.SecretKey)

	if c.TokenValidityMinutes != nil {
		config.TokenValidity = time.Duration(*c.TokenValidityMinutes) * time.Minute
	}

	setString(c.RedisAddr, &config.RedisAddr)
	if c.LoginMaxAttempts != nil {
		config.LoginMaxAttempts = *c.LoginMaxAttempts
	}
	if c.LoginWindowSeconds != nil {
		config.LoginWindow = time.Duration(*c.LoginWindowSeconds) * time.Second
	}

	setString(c.S3RootUser, &config.S3RootUser)
	setString(c.S3RootPassword, &config.S3RootPassword)
	setString(c.S3Bucket, &config.S3Bucket)
	setString(c.S3Region, &config.S3Region)
	setString(c.S3BaseEndpoint, &config.S3BaseEndpoint)
}
