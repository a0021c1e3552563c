package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
)

// DefaultPath is read when Load is given no path.
const DefaultPath = "marketin.yaml"

// EnvPrefix prefixes every environment override; "__" separates levels,
// so MARKETIN_CLIENT__TOKEN sets client.token.
const EnvPrefix = "MARKETIN_"

type Config struct {
	Client    domain.InitOptions `koanf:"client"`
	Page      PageConfig         `koanf:"page"`
	Storage   StorageConfig      `koanf:"storage"`
	Collector CollectorConfig    `koanf:"collector"`
	Telemetry TelemetryConfig    `koanf:"telemetry"`
}

// PageConfig describes the host page for command-line use.
type PageConfig struct {
	URL       string `koanf:"url"`
	Referrer  string `koanf:"referrer"`
	Title     string `koanf:"title"`
	UserAgent string `koanf:"user_agent"`
	Width     int    `koanf:"width"`
	Height    int    `koanf:"height"`
	Language  string `koanf:"language"`
}

type StorageConfig struct {
	Type     string         `koanf:"type"` // memory, sqlite, database
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Database DatabaseConfig `koanf:"database"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver"` // sqlite, postgres, mysql
	DSN    string `koanf:"dsn"`
}

// CollectorConfig configures the development collector.
type CollectorConfig struct {
	Port    int    `koanf:"port"`
	Storage string `koanf:"storage"` // sqlite path for received events, empty keeps them in memory
}

type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads path (DefaultPath when empty), then MARKETIN_ environment
// overrides, and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	defaults := map[string]any{
		"client.api_endpoint":    "https://api.marketin.now/api/v1",
		"storage.type":           "memory",
		"storage.sqlite.path":    "marketin.db",
		"page.width":             1920,
		"page.height":            1080,
		"page.language":          "en-US",
		"page.user_agent":        "marketin-go/" + domain.SDKVersion,
		"collector.port":         8787,
		"telemetry.service_name": "marketin",
	}
	for key, v := range defaults {
		if !k.Exists(key) {
			k.Set(key, v)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	cfg.Client.Token = substituteEnvVars(cfg.Client.Token)
	cfg.Storage.Database.DSN = substituteEnvVars(cfg.Storage.Database.DSN)

	return &cfg, nil
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
