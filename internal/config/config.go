// Package config loads the service configuration with viper.
//
// Sources, lowest to highest precedence: built-in defaults, configs/config.yml,
// environment variables prefixed FLEX_ (dots become underscores, e.g.
// FLEX_AUTH_SIGNING_KEY). An optional .env file is loaded into the
// environment first.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"flex_report/internal/engine"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "FLEX"

// Config is the typed view of the configuration file.
type Config struct {
	Port      string
	Server    ServerConfig
	Log       LogConfig
	DB        DBConfig
	Engine    engine.Config
	Catalog   CatalogConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Batch     BatchConfig
}

// ServerConfig holds http.Server timeouts.
type ServerConfig struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type DBConfig struct {
	Path string
}

// CatalogConfig points at replacement reference tables; empty means the
// embedded tables.
type CatalogConfig struct {
	FluidsPath    string
	EquipmentPath string
}

type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type BatchConfig struct {
	MaxItems int
	Workers  int
}

var errMissingSigningKey = errors.New("auth.signing_key is required")

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.path", "flex.db")

	v.SetDefault("engine.reference_temp_c", engine.DefaultReferenceTempC)
	v.SetDefault("engine.baseline_temp_c", engine.DefaultBaselineTempC)
	v.SetDefault("engine.activation_energy_j_mol", engine.DefaultActivationEnergyJmol)
	v.SetDefault("engine.threshold_pct", engine.DefaultThresholdPct)

	v.SetDefault("catalog.fluids_path", "")
	v.SetDefault("catalog.equipment_path", "")

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)

	v.SetDefault("rate_limit.rps", 5.0)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("batch.max_items", 500)
	v.SetDefault("batch.workers", 8)
}

// Load reads configuration from dir/config.yml. A missing file is not an
// error; defaults and environment still apply.
func Load(dir string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port: v.GetString("port"),
		Server: ServerConfig{
			ReadHeaderTimeout: v.GetDuration("server.read_header_timeout"),
			WriteTimeout:      v.GetDuration("server.write_timeout"),
			IdleTimeout:       v.GetDuration("server.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("server.shutdown_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		DB: DBConfig{Path: v.GetString("db.path")},
		Engine: engine.Config{
			ReferenceTempC:       v.GetFloat64("engine.reference_temp_c"),
			BaselineTempC:        v.GetFloat64("engine.baseline_temp_c"),
			ActivationEnergyJmol: v.GetFloat64("engine.activation_energy_j_mol"),
			ThresholdPct:         v.GetFloat64("engine.threshold_pct"),
		},
		Catalog: CatalogConfig{
			FluidsPath:    v.GetString("catalog.fluids_path"),
			EquipmentPath: v.GetString("catalog.equipment_path"),
		},
		Auth: AuthConfig{
			SigningKey: v.GetString("auth.signing_key"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("rate_limit.rps"),
			Burst: v.GetInt("rate_limit.burst"),
		},
		Batch: BatchConfig{
			MaxItems: v.GetInt("batch.max_items"),
			Workers:  v.GetInt("batch.workers"),
		},
	}
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequireAuth checks the settings the HTTP server cannot run without.
func (c *Config) RequireAuth() error {
	if strings.TrimSpace(c.Auth.SigningKey) == "" {
		return errMissingSigningKey
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}
