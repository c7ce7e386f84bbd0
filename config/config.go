package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Backend       BackendConfig
	Session       SessionConfig
	Drafts        DraftsConfig
	Upload        UploadConfig
	Storage       StorageConfig
	Contact       ContactConfig
	Cache         CacheConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

// BackendConfig describes the external portfolio REST API.
// URL is the single base URL used for every call.
type BackendConfig struct {
	URL            string
	TimeoutSeconds int
	ReadRetries    int
}

type SessionConfig struct {
	Secret       string
	Issuer       string
	TTLHours     int
	CookieDomain string
	CookieSecure bool
}

type DraftsConfig struct {
	TTLMinutes      int
	FlashTTLSeconds int
}

type UploadConfig struct {
	Mode     string // "backend" or "s3"
	MaxBytes int64
}

type StorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
	PublicBaseURL   string
}

type ContactConfig struct {
	WebhookURL         string
	RecaptchaSecretKey string
	RecaptchaSiteKey   string
}

type CacheConfig struct {
	PublicTTLSeconds int
	DisablePublic    bool
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
	MetricsToken      string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	UploadIntervalSeconds int
}

const (
	UploadModeBackend = "backend"
	UploadModeS3      = "s3"
)

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:8080")
	v.SetDefault("API_TIMEOUT_SECONDS", 30)
	v.SetDefault("API_READ_RETRIES", 2)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("SESSION_ISSUER", "folio-web")
	v.SetDefault("SESSION_TTL_HOURS", 24*7)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("DRAFT_TTL_MINUTES", 120)
	v.SetDefault("FLASH_TTL_SECONDS", 5)
	v.SetDefault("UPLOAD_MODE", UploadModeBackend)
	v.SetDefault("UPLOAD_MAX_BYTES", 10*1024*1024)
	v.SetDefault("PUBLIC_CACHE_TTL_SECONDS", 60)
	v.SetDefault("DISABLE_PUBLIC_CACHE", false)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "folio-web")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "folio")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Backend: BackendConfig{
			URL:            strings.TrimRight(v.GetString("API_URL"), "/"),
			TimeoutSeconds: v.GetInt("API_TIMEOUT_SECONDS"),
			ReadRetries:    v.GetInt("API_READ_RETRIES"),
		},
		Session: SessionConfig{
			Secret:       v.GetString("SESSION_SECRET"),
			Issuer:       v.GetString("SESSION_ISSUER"),
			TTLHours:     v.GetInt("SESSION_TTL_HOURS"),
			CookieDomain: v.GetString("COOKIE_DOMAIN"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
		},
		Drafts: DraftsConfig{
			TTLMinutes:      v.GetInt("DRAFT_TTL_MINUTES"),
			FlashTTLSeconds: v.GetInt("FLASH_TTL_SECONDS"),
		},
		Upload: UploadConfig{
			Mode:     strings.ToLower(v.GetString("UPLOAD_MODE")),
			MaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		Storage: StorageConfig{
			AccessKeyID:     v.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("STORAGE_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("STORAGE_BUCKET_NAME"),
			Endpoint:        v.GetString("STORAGE_ENDPOINT"),
			Region:          v.GetString("STORAGE_REGION"),
			PublicBaseURL:   v.GetString("STORAGE_PUBLIC_BASE_URL"),
		},
		Contact: ContactConfig{
			WebhookURL:         v.GetString("CONTACT_WEBHOOK_URL"),
			RecaptchaSecretKey: v.GetString("RECAPTCHA_SECRET_KEY"),
			RecaptchaSiteKey:   v.GetString("RECAPTCHA_SITE_KEY"),
		},
		Cache: CacheConfig{
			PublicTTLSeconds: v.GetInt("PUBLIC_CACHE_TTL_SECONDS"),
			DisablePublic:    v.GetBool("DISABLE_PUBLIC_CACHE"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
			MetricsToken:      v.GetString("METRICS_TOKEN"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Backend.URL == "" {
		return fmt.Errorf("API_URL is required")
	}
	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		return fmt.Errorf("API_URL must be an absolute http(s) URL")
	}

	// Development falls back to a generated secret in cmd/web.
	if c.Session.Secret == "" && !c.IsDevelopment() {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	switch c.Upload.Mode {
	case UploadModeBackend:
	case UploadModeS3:
		if c.Storage.BucketName == "" || c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "" {
			return fmt.Errorf("STORAGE_BUCKET_NAME, STORAGE_ACCESS_KEY_ID and STORAGE_SECRET_ACCESS_KEY are required when UPLOAD_MODE=s3")
		}
	default:
		return fmt.Errorf("UPLOAD_MODE must be %q or %q", UploadModeBackend, UploadModeS3)
	}

	// go-cache treats a zero TTL as "never expire"
	if c.Session.TTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}
	if c.Drafts.TTLMinutes <= 0 {
		return fmt.Errorf("DRAFT_TTL_MINUTES must be positive")
	}
	if c.Drafts.FlashTTLSeconds <= 0 {
		return fmt.Errorf("FLASH_TTL_SECONDS must be positive")
	}
	if !c.Cache.DisablePublic && c.Cache.PublicTTLSeconds <= 0 {
		return fmt.Errorf("PUBLIC_CACHE_TTL_SECONDS must be positive, set DISABLE_PUBLIC_CACHE to turn the cache off")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
