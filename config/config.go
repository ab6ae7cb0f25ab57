package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/database"
	privhttp "github.com/sagarc03/privmedia/http"
	"github.com/sagarc03/privmedia/userbackend"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for privmedia.
type Config struct {
	// Env selects the log format: "prod" or "production" log JSON.
	Env      string              `mapstructure:"env"`
	Server   ServerConfig        `mapstructure:"server"`
	Storage  StorageConfig       `mapstructure:"storage"`
	Files    FilesConfig         `mapstructure:"files"`
	Users    UsersConfig         `mapstructure:"users"`
	Database database.Config     `mapstructure:"database"`
	Auth     AuthConfig          `mapstructure:"auth"`
	CORS     privhttp.CORSConfig `mapstructure:"cors"`
	Metrics  MetricsConfig       `mapstructure:"metrics"`
	Log      LogConfig           `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port      int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Mode      string `mapstructure:"mode" validate:"required,oneof=debug production"`
	URLPrefix string `mapstructure:"url_prefix" validate:"required"`
}

// ParsedMode returns Mode as a privmedia.Mode.
func (c ServerConfig) ParsedMode() (privmedia.Mode, error) {
	return privmedia.ParseMode(c.Mode)
}

// StorageConfig holds private storage configuration.
type StorageConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// FilesConfig selects the file server and permission checker by registry
// name, with their options.
type FilesConfig struct {
	Server             string            `mapstructure:"server" validate:"required"`
	ServerOptions      privmedia.Options `mapstructure:"server_options"`
	Permissions        string            `mapstructure:"permissions" validate:"required"`
	PermissionsOptions privmedia.Options `mapstructure:"permissions_options"`
}

// UsersConfig selects where users are looked up.
type UsersConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=static database"`

	userbackend.UsersConfig `mapstructure:",squash"`
}

// AuthConfig holds credential configuration. An empty secret disables
// tokens and presigned links, leaving every request anonymous.
type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	TokenTTL time.Duration `mapstructure:"token_ttl" validate:"min=0"`
}

// MetricsConfig holds Prometheus configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":      "database.type",
	"db-dsn":       "database.dsn",
	"storage-path": "storage.path",
	"port":         "server.port",
	"mode":         "server.mode",
	"url-prefix":   "server.url_prefix",
	"file-server":  "files.server",
	"users":        "users.backend",
	"log-level":    "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", string(privmedia.ModeProduction))
	v.SetDefault("server.url_prefix", "/private/")

	v.SetDefault("storage.path", "./private")

	v.SetDefault("files.server", "direct")
	v.SetDefault("files.server_options", map[string]any{})
	v.SetDefault("files.permissions", "default")
	v.SetDefault("files.permissions_options", map[string]any{})

	v.SetDefault("users.backend", "static")
	v.SetDefault("users.file", "")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "privmedia.db")
	v.SetDefault("database.tables.users", "privmedia_users")

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "privmedia")
	v.SetDefault("auth.token_ttl", "24h")

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "HEAD"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization"})
	v.SetDefault("cors.exposed_headers", []string{"Last-Modified", "Content-Disposition"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("metrics.enabled", false)

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("PRIVMEDIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.Database.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
