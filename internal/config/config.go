package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host      string
	Port      int
	BodyLimit int64
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
	// JournalRoles limits the journal endpoints to these token roles; empty allows any role.
	JournalRoles []string
}

type PDFConfig struct {
	TemplatePath    string
	AnnotationsPath string
	FontSize        float64
}

type VehiclesConfig struct {
	CatalogPath string
	CacheTTL    time.Duration
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	PDF         PDFConfig
	Vehicles    VehiclesConfig
}

// JournalEnabled reports whether generated policies are recorded in Postgres.
func (c *Config) JournalEnabled() bool {
	return c.DB.DSN != ""
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 5000)
	v.SetDefault("HTTP_BODY_LIMIT", 256*1024)
	v.SetDefault("PDF_TEMPLATE_PATH", "./data/Shablon.pdf")
	v.SetDefault("PDF_FONT_SIZE", 8)
	v.SetDefault("VEHICLES_CATALOG_PATH", "./data/models.json")
	v.SetDefault("VEHICLES_CACHE_TTL", 5*time.Minute)

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:      v.GetString("HTTP_HOST"),
			Port:      v.GetInt("HTTP_PORT"),
			BodyLimit: v.GetInt64("HTTP_BODY_LIMIT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
			JournalRoles: splitList(v.GetString("JWT_JOURNAL_ROLES")),
		},
		PDF: PDFConfig{
			TemplatePath:    v.GetString("PDF_TEMPLATE_PATH"),
			AnnotationsPath: v.GetString("PDF_ANNOTATIONS_PATH"),
			FontSize:        v.GetFloat64("PDF_FONT_SIZE"),
		},
		Vehicles: VehiclesConfig{
			CatalogPath: v.GetString("VEHICLES_CATALOG_PATH"),
			CacheTTL:    v.GetDuration("VEHICLES_CACHE_TTL"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if cfg.HTTP.BodyLimit <= 0 {
		return fmt.Errorf("HTTP_BODY_LIMIT must be positive")
	}
	if cfg.PDF.TemplatePath == "" {
		return fmt.Errorf("PDF_TEMPLATE_PATH is required")
	}
	if cfg.PDF.FontSize < 6 || cfg.PDF.FontSize > 16 {
		return fmt.Errorf("PDF_FONT_SIZE must be between 6 and 16")
	}
	if cfg.Vehicles.CatalogPath == "" {
		return fmt.Errorf("VEHICLES_CATALOG_PATH is required")
	}
	// журнал полисов закрыт токеном, без секрета его не поднимаем
	if cfg.JournalEnabled() && cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required when DB_DSN is set")
	}
	return nil
}

// splitList parses a comma separated value, dropping empty items.
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
