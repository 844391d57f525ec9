package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Storage StorageConfig `mapstructure:"storage"`
	Rules   RulesConfig   `mapstructure:"rules"`
	Web     WebConfig     `mapstructure:"web"`
}

// AppConfig holds application-wide settings.
type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
}

// StorageConfig names the character files the tool works with. Database is
// the preferred file; Recent lists previously opened files, newest first.
type StorageConfig struct {
	Database string   `mapstructure:"database"`
	Recent   []string `mapstructure:"recent"`
}

// RulesConfig overrides the leveling constants. Zero values mean defaults.
type RulesConfig struct {
	MajorCap        int `mapstructure:"major_cap"`
	ReadinessTarget int `mapstructure:"readiness_target"`
}

// WebConfig configures the local web server.
type WebConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// Load reads the configuration file. An explicit path wins; otherwise the
// user config directory and the working directory are searched. A missing
// file is not an error, defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := DefaultConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("OBLEVEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		slog.Debug("config loaded", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "oblevel")
	v.SetDefault("app.log_level", "warn")

	v.SetDefault("storage.database", "")

	v.SetDefault("rules.major_cap", 7)
	v.SetDefault("rules.readiness_target", 10)

	v.SetDefault("web.listen_addr", "127.0.0.1:8547")
}

// recentLimit caps how many character files the recent list remembers.
const recentLimit = 10

// RememberDatabase records path as the current database and moves it to the
// front of the recent list.
func (c *Config) RememberDatabase(path string) {
	c.Storage.Database = path

	recent := make([]string, 0, len(c.Storage.Recent)+1)
	recent = append(recent, path)
	for _, p := range c.Storage.Recent {
		if p == path || p == "" {
			continue
		}
		recent = append(recent, p)
		if len(recent) == recentLimit {
			break
		}
	}
	c.Storage.Recent = recent
}

// SetupLogger installs a text slog handler at the given level.
func SetupLogger(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
