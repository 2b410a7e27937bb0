package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

// Enabled reports whether wipe snapshots can be archived.
func (r R2) Enabled() bool {
	return r.AccountID != "" && r.BucketName != ""
}

type Config struct {
	Port               string
	PostgresURI        string
	RedisURI           string
	FrontendURL        string
	SecretKey          string
	CookieName         string
	TokenTTL           time.Duration
	AutoPublish        bool
	Timezone           string
	SweepSpec          string
	IdempotencyTTL     time.Duration
	NotificationWindow time.Duration
	LogLevel           string
	LogFormat          string
	R2                 R2
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:               v.GetString("PORT"),
		PostgresURI:        v.GetString("POSTGRES_URI"),
		RedisURI:           v.GetString("REDIS_URI"),
		FrontendURL:        v.GetString("FRONTEND_URL"),
		SecretKey:          v.GetString("SECRET_KEY"),
		CookieName:         v.GetString("COOKIE_NAME"),
		TokenTTL:           v.GetDuration("TOKEN_TTL"),
		AutoPublish:        v.GetBool("AUTO_PUBLISH"),
		Timezone:           v.GetString("TIMEZONE"),
		SweepSpec:          v.GetString("SWEEP_SPEC"),
		IdempotencyTTL:     v.GetDuration("IDEMPOTENCY_TTL"),
		NotificationWindow: v.GetDuration("NOTIFICATION_WINDOW"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		R2: R2{
			AccountID:  v.GetString("R2_ACCOUNT_ID"),
			AccessKey:  v.GetString("R2_ACCESS_KEY"),
			SecretKey:  v.GetString("R2_SECRET_KEY"),
			BucketName: v.GetString("R2_BUCKET_NAME"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("REDIS_URI", "localhost:6379")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("COOKIE_NAME", "contentflow_session")
	v.SetDefault("TOKEN_TTL", 24*time.Hour)
	v.SetDefault("AUTO_PUBLISH", false)
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("SWEEP_SPEC", "@every 00h10m00s")
	v.SetDefault("IDEMPOTENCY_TTL", 10*time.Minute)
	v.SetDefault("NOTIFICATION_WINDOW", 48*time.Hour)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func (c *Config) Validate() error {
	if c.PostgresURI == "" {
		return errors.New("POSTGRES_URI is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.NotificationWindow <= 0 {
		return errors.New("NOTIFICATION_WINDOW must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}

// Location is the zone post dates are read in when scheduling publication.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
