package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	APIPrefix     string `mapstructure:"API_PREFIX"`
	AppName       string `mapstructure:"APP_NAME"`
	AppVersion    string `mapstructure:"APP_VERSION"`
	Debug         bool   `mapstructure:"DEBUG"`

	DBSource    string `mapstructure:"DB_SOURCE"`
	AutoMigrate bool   `mapstructure:"AUTO_MIGRATE"`

	SupabaseURL string        `mapstructure:"SUPABASE_URL"`
	SupabaseKey string        `mapstructure:"SUPABASE_KEY"`
	AuthTimeout time.Duration `mapstructure:"AUTH_TIMEOUT"`

	GeocoderURL       string        `mapstructure:"GEOCODER_URL"`
	GeocoderUserAgent string        `mapstructure:"GEOCODER_USER_AGENT"`
	GeocoderTimeout   time.Duration `mapstructure:"GEOCODER_TIMEOUT"`
	GeocoderRateLimit float64       `mapstructure:"GEOCODER_RATE_LIMIT"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	OtelEndpoint    string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":              ":8080",
	"API_PREFIX":                  "/api/v1",
	"APP_NAME":                    "Work Order API",
	"APP_VERSION":                 "0.1.0",
	"DEBUG":                       false,
	"DB_SOURCE":                   "",
	"AUTO_MIGRATE":                false,
	"SUPABASE_URL":                "",
	"SUPABASE_KEY":                "",
	"AUTH_TIMEOUT":                "10s",
	"GEOCODER_URL":                "https://nominatim.openstreetmap.org/search",
	"GEOCODER_USER_AGENT":         "WorkOrderApp/1.0",
	"GEOCODER_TIMEOUT":            "10s",
	"GEOCODER_RATE_LIMIT":         1.0,
	"CORS_ALLOWED_ORIGINS":        []string{"*"},
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"OTEL_SERVICE_NAME":           "workorder-api",
}

// LoadConfig reads app.env from path, if present, and overlays environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	return config, config.validate()
}

func (c Config) validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"DB_SOURCE", c.DBSource},
		{"SUPABASE_URL", c.SupabaseURL},
		{"SUPABASE_KEY", c.SupabaseKey},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("config: %s is required", r.key)
		}
	}
	if c.GeocoderTimeout <= 0 {
		return fmt.Errorf("config: GEOCODER_TIMEOUT must be positive")
	}
	return nil
}
