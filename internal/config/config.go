package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	Store struct {
		Backend      string // "sql" or "file"
		LenientReads bool
	}
	DB struct {
		Driver string
		DSN    string
	}
	File struct {
		Dir string
	}
	OIDC struct {
		Issuer       string
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	AdminPassword   string
	SessionLifetime time.Duration
}

// OIDCEnabled reports whether the optional OIDC channel is configured.
func (c *Config) OIDCEnabled() bool { return c.OIDC.Issuer != "" }

// Load reads config from environment (ARCANE_ prefix) and optional
// arcane.yaml. A local .env file is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env

	v := viper.New()
	v.SetEnvPrefix("ARCANE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("arcane")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.lenient_reads", false)
	v.SetDefault("file.dir", "./data")
	v.SetDefault("session.lifetime", "168h")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.Store.Backend = v.GetString("store.backend")
	cfg.Store.LenientReads = v.GetBool("store.lenient_reads")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.File.Dir = v.GetString("file.dir")
	cfg.OIDC.Issuer = v.GetString("oidc.issuer")
	cfg.OIDC.ClientID = v.GetString("oidc.client_id")
	cfg.OIDC.ClientSecret = v.GetString("oidc.client_secret")
	cfg.OIDC.RedirectURL = v.GetString("oidc.redirect_url")
	cfg.AdminPassword = v.GetString("admin.password")

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid ARCANE_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	switch cfg.Store.Backend {
	case "sql":
		if cfg.DB.Driver == "" {
			return nil, fmt.Errorf("ARCANE_DB_DRIVER is required for the sql backend (sqlite3, mysql, postgres)")
		}
		if cfg.DB.DSN == "" {
			return nil, fmt.Errorf("ARCANE_DB_DSN is required for the sql backend")
		}
	case "file":
		if cfg.File.Dir == "" {
			return nil, fmt.Errorf("ARCANE_FILE_DIR is required for the file backend")
		}
	default:
		return nil, fmt.Errorf("unknown ARCANE_STORE_BACKEND %q: must be sql or file", cfg.Store.Backend)
	}

	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ARCANE_ADMIN_PASSWORD is required")
	}

	if cfg.OIDCEnabled() {
		if cfg.OIDC.ClientID == "" {
			return nil, fmt.Errorf("ARCANE_OIDC_CLIENT_ID is required when an OIDC issuer is set")
		}
		if cfg.OIDC.ClientSecret == "" {
			return nil, fmt.Errorf("ARCANE_OIDC_CLIENT_SECRET is required when an OIDC issuer is set")
		}
		if cfg.OIDC.RedirectURL == "" {
			return nil, fmt.Errorf("ARCANE_OIDC_REDIRECT_URL is required when an OIDC issuer is set")
		}
	}

	return cfg, nil
}
