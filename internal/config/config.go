// Package config handles application configuration from the environment and
// an optional YAML categories file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/ReyWins/happeningnow-news-core/internal/localstore"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	AdapterNewsAPI = "newsapi"
	AdapterGDELT   = "gdelt"
	AdapterMock    = "mock"
)

type Config struct {
	Port           string
	FrontendURL    string
	Adapter        string
	NewsAPIKey     string
	FinnhubKey     string
	GDELTUSOnly    bool
	MixedSourcing  bool
	CategoriesFile string
	CacheTTL       time.Duration
	FallbackTTL    time.Duration
	LogLevel       slog.Level
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           envOr("PORT", "8080"),
		FrontendURL:    os.Getenv("FRONTEND_URL"),
		Adapter:        ParseAdapter(os.Getenv("NEWS_ADAPTER")),
		NewsAPIKey:     firstEnv("NEWSAPI_AI_KEY", "NEWSAPI_KEY", "EVENTREGISTRY_API_KEY"),
		FinnhubKey:     os.Getenv("FINNHUB_API_KEY"),
		GDELTUSOnly:    os.Getenv("GDELT_US_ONLY") != "false",
		MixedSourcing:  os.Getenv("FRONTPAGE_MIXED") == "true",
		CategoriesFile: os.Getenv("CATEGORIES_FILE"),
		CacheTTL:       120 * time.Second,
		FallbackTTL:    24 * time.Hour,
		LogLevel:       ParseLevel(os.Getenv("LOG_LEVEL")),
	}

	var err error
	if cfg.CacheTTL, err = durationEnv("CACHE_TTL", cfg.CacheTTL); err != nil {
		return nil, err
	}
	if cfg.FallbackTTL, err = durationEnv("FALLBACK_TTL", cfg.FallbackTTL); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseAdapter maps NEWS_ADAPTER to a known adapter, defaulting to newsapi.
func ParseAdapter(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case AdapterMock:
		return AdapterMock
	case AdapterGDELT:
		return AdapterGDELT
	default:
		return AdapterNewsAPI
	}
}

func ParseLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
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

type categoriesFile struct {
	Categories []model.Category `yaml:"categories"`
	Defaults   []string         `yaml:"defaults"`
}

// Registry builds the category registry, from CategoriesFile when set.
func (c *Config) Registry() (*category.Registry, error) {
	return registryFrom(c.CategoriesFile)
}

// DefaultAPIURL is where the CLI looks for the server without HN_API_URL.
const DefaultAPIURL = "http://localhost:8080"

// ClientConfig configures the hn CLI.
type ClientConfig struct {
	APIURL         string
	StorePath      string
	CategoriesFile string
	LogLevel       slog.Level
}

// LoadClient reads .env (if present) and then the client's environment.
func LoadClient() *ClientConfig {
	_ = godotenv.Load()

	return &ClientConfig{
		APIURL:         strings.TrimRight(envOr("HN_API_URL", DefaultAPIURL), "/"),
		StorePath:      envOr("HN_STORE", localstore.DefaultPath()),
		CategoriesFile: os.Getenv("CATEGORIES_FILE"),
		LogLevel:       ParseLevel(envOr("LOG_LEVEL", "warn")),
	}
}

func (c *ClientConfig) Registry() (*category.Registry, error) {
	return registryFrom(c.CategoriesFile)
}

func registryFrom(path string) (*category.Registry, error) {
	if path == "" {
		return category.NewRegistry(category.Defaults, category.DefaultIDs)
	}
	return LoadCategories(path)
}

func LoadCategories(path string) (*category.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file %s: %w", path, err)
	}
	var f categoriesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse categories file %s: %w", path, err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("categories file %s defines no categories", path)
	}
	return category.NewRegistry(f.Categories, f.Defaults)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
