package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
		LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Graph struct {
		BaseURL            string        `env:"GRAPH_BASE_URL" env-default:"https://graph.facebook.com"`
		Version            string        `env:"GRAPH_VERSION" env-default:"v19.0"`
		AccessToken        string        `env:"GRAPH_ACCESS_TOKEN" env-description:"page access token used as bearer token"`
		PageID             string        `env:"GRAPH_PAGE_ID" env-description:"facebook page to pull posts from"`
		InstagramAccountID string        `env:"GRAPH_INSTAGRAM_ACCOUNT_ID" env-description:"instagram business account to pull media from"`
		PageSize           int           `env:"GRAPH_PAGE_SIZE" env-default:"25"`
		MaxPages           int           `env:"GRAPH_MAX_PAGES" env-default:"4"`
		Timeout            time.Duration `env:"GRAPH_TIMEOUT" env-default:"15s"`
		RequestsPerSecond  float64       `env:"GRAPH_REQUESTS_PER_SECOND" env-default:"5"`
	}
	Listings struct {
		FacebookPermalinkBase string        `env:"LISTINGS_FACEBOOK_PERMALINK_BASE" env-default:"https://www.facebook.com/"`
		ExtraKeywords         []string      `env:"LISTINGS_EXTRA_KEYWORDS" env-separator:","`
		RefreshInterval       time.Duration `env:"LISTINGS_REFRESH_INTERVAL" env-default:"30m"`
		Retention             time.Duration `env:"LISTINGS_RETENTION" env-default:"2160h"`
		Limit                 int           `env:"LISTINGS_LIMIT" env-default:"60"`
		Workers               int           `env:"LISTINGS_WORKERS" env-default:"2"`
	}
	Inventory struct {
		Store    string `env:"INVENTORY_STORE" env-default:"postgres" env-description:"postgres or memory"`
		SeedPath string `env:"INVENTORY_SEED_PATH" env-description:"yaml file with the initial catalog"`
	}
	Telegram struct {
		Token       string `env:"TELEGRAM_TOKEN"`
		StaffChat   int64  `env:"TELEGRAM_STAFF_CHAT" env-description:"chat that receives new listings and fetch alerts"`
		APIEndpoint string `env:"TELEGRAM_API_ENDPOINT" env-default:"https://api.telegram.org/bot%s/%s"`
	}
	HTTP struct {
		RateLimitRequests int           `env:"HTTP_RATE_LIMIT_REQUESTS" env-default:"20"`
		RateLimitPer      time.Duration `env:"HTTP_RATE_LIMIT_PER" env-default:"10s"`
		RateLimitBurst    int           `env:"HTTP_RATE_LIMIT_BURST" env-default:"10"`
	}
}

// New reads the configuration from the environment.
func New() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		help, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("failed to read configuration: %w\n%s", err, help)
	}
	return cfg, nil
}

func (c *Config) GetDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.User, c.Postgres.Pass),
		Host:     fmt.Sprintf("%s:%d", c.Postgres.Host, c.Postgres.Port),
		Path:     c.Postgres.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Postgres.SslMode),
	}
	return u.String()
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
