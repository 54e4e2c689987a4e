package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProjectsStoreMongo    = "mongo"
	ProjectsStorePostgres = "postgres"
)

type Config struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017/konstruksi"`
	MongoDB       string `env:"MONGO_DB"`
	DatabaseURL   string `env:"DATABASE_URL"`
	ProjectsStore string `env:"PROJECTS_STORE" envDefault:"mongo"`

	FrontendOrigins []string `env:"FRONTEND_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	RateLimitInquiries int `env:"RATE_LIMIT_INQUIRIES" envDefault:"5"`
	RateLimitLogin     int `env:"RATE_LIMIT_LOGIN" envDefault:"10"`
	RateLimitWindowSec int `env:"RATE_LIMIT_WINDOW_SEC" envDefault:"60"`

	RedisURL        string `env:"REDIS_URL"`
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix     string `env:"REDIS_PREFIX" envDefault:"konstruksi:"`
	CacheTTLSeconds int    `env:"CACHE_TTL_SECONDS" envDefault:"60"`

	AdminAPIKey       string `env:"ADMIN_API_KEY"`
	AdminUser         string `env:"ADMIN_USER" envDefault:"admin"`
	AdminPassword     string `env:"ADMIN_PASSWORD"`
	AdminSetupKey     string `env:"ADMIN_SETUP_KEY"`
	JWTSecret         string `env:"JWT_SECRET"`
	AccessTTLMinutes  int    `env:"ACCESS_TTL_MINUTES" envDefault:"60"`
	RefreshTTLMinutes int    `env:"REFRESH_TTL_MINUTES" envDefault:"10080"`
	CookieSecure      bool   `env:"COOKIE_SECURE" envDefault:"false"`

	ImageBaseURL     string `env:"IMAGE_BASE_URL" envDefault:"/images"`
	ImagePlaceholder string `env:"IMAGE_PLACEHOLDER" envDefault:"/images/placeholder.jpg"`

	BrevoAPIKey      string `env:"BREVO_API_KEY"`
	BrevoSenderEmail string `env:"BREVO_SENDER_EMAIL"`
	BrevoSenderName  string `env:"BREVO_SENDER_NAME"`
	BrevoSandbox     bool   `env:"BREVO_SANDBOX" envDefault:"false"`
	SalesNotifyEmail string `env:"SALES_NOTIFY_EMAIL"`

	TimezoneName string         `env:"TZ" envDefault:"Asia/Jakarta"`
	Timezone     *time.Location `env:"-"`
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSec) * time.Second
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLMinutes) * time.Minute
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads an optional .env file, then parses the environment. Variables
// already present in the environment take precedence over the file.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	return Parse()
}

func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	loc, err := time.LoadLocation(cfg.TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.TimezoneName, err)
	}
	cfg.Timezone = loc

	if cfg.MongoDB == "" {
		cfg.MongoDB = mongoDBFromURI(cfg.MongoURI)
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "konstruksi"
	}

	cfg.ProjectsStore = strings.ToLower(strings.TrimSpace(cfg.ProjectsStore))
	switch cfg.ProjectsStore {
	case ProjectsStoreMongo:
	case ProjectsStorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PROJECTS_STORE=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("invalid PROJECTS_STORE %q", cfg.ProjectsStore)
	}

	origins := make([]string, 0, len(cfg.FrontendOrigins))
	for _, o := range cfg.FrontendOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.FrontendOrigins = origins

	return cfg, nil
}

func mongoDBFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	db := strings.Trim(u.Path, "/")
	if db == "" {
		return ""
	}
	// mongodb URIs sometimes include extra path segments; we only support the first one as db name.
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return db
}
