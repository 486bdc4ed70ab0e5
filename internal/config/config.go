// Package config loads offsync settings from an optional YAML file, a .env
// file and OFFSYNC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix префикс переменных окружения (OFFSYNC_CLIENT_SERVER_URL и т.д.)
const EnvPrefix = "OFFSYNC"

// Поддерживаемые драйверы хранилища сервера
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config корневая конфигурация обоих бинарников
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Client ClientConfig `mapstructure:"client"`
	Server ServerConfig `mapstructure:"server"`
}

// LogConfig настройки логирования
type LogConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // text или json
	File       string `mapstructure:"file"`   // пусто - stderr
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// ClientConfig настройки клиента синхронизации
type ClientConfig struct {
	DBPath     string `mapstructure:"db_path"`
	ServerURL  string `mapstructure:"server_url"`
	Token      string `mapstructure:"token"`
	StatusFile string `mapstructure:"status_file"`

	Sync SyncConfig `mapstructure:"sync"`

	// CacheQuota лимит размера локальной базы в байтах, 0 - без лимита
	CacheQuota int64 `mapstructure:"cache_quota"`

	Encrypt              bool `mapstructure:"encrypt"`
	VersionPreconditions bool `mapstructure:"version_preconditions"`
	AutoResolveIdentical bool `mapstructure:"auto_resolve_identical"`
}

// SyncConfig параметры цикла синхронизации и повторов
type SyncConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	RemoteTimeout time.Duration `mapstructure:"remote_timeout"`
	BaseDelay     time.Duration `mapstructure:"base_delay"`
	MaxDelay      time.Duration `mapstructure:"max_delay"`
	Concurrency   int           `mapstructure:"concurrency"`
	MaxRetries    int           `mapstructure:"max_retries"`
	JitterPercent uint64        `mapstructure:"jitter_percent"`
}

// ServerConfig настройки эталонного сервера
type ServerConfig struct {
	ListenAddr    string `mapstructure:"listen_addr"`
	StorageDriver string `mapstructure:"storage_driver"`
	StorageDSN    string `mapstructure:"storage_dsn"`
	// JWTSecret пустой секрет отключает проверку токенов
	JWTSecret string `mapstructure:"jwt_secret"`
	RedisURL  string `mapstructure:"redis_url"`

	JWTTTL          time.Duration `mapstructure:"jwt_ttl"`
	RateWindow      time.Duration `mapstructure:"rate_window"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       int           `mapstructure:"rate_limit"`
}

// Load читает конфигурацию. path может быть пустым: тогда ищется offsync.yaml
// в текущем каталоге и в ~/.config/offsync. Отсутствие файла не ошибка.
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("offsync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/offsync")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// значения по умолчанию всегда декодируются
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("client.db_path", "offsync-client.db")
	v.SetDefault("client.server_url", "http://localhost:8080")
	v.SetDefault("client.token", "")
	v.SetDefault("client.status_file", "")
	v.SetDefault("client.cache_quota", 0)
	v.SetDefault("client.encrypt", false)
	v.SetDefault("client.version_preconditions", true)
	v.SetDefault("client.auto_resolve_identical", true)
	v.SetDefault("client.sync.interval", 5*time.Minute)
	v.SetDefault("client.sync.remote_timeout", 15*time.Second)
	v.SetDefault("client.sync.base_delay", 2*time.Second)
	v.SetDefault("client.sync.max_delay", 5*time.Minute)
	v.SetDefault("client.sync.concurrency", 4)
	v.SetDefault("client.sync.max_retries", 3)
	v.SetDefault("client.sync.jitter_percent", 10)

	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.storage_driver", DriverSQLite)
	v.SetDefault("server.storage_dsn", "offsync-server.db")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.jwt_ttl", 24*time.Hour)
	v.SetDefault("server.redis_url", "")
	v.SetDefault("server.rate_limit", 600)
	v.SetDefault("server.rate_window", time.Minute)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}

// Validate проверяет общие настройки и настройки клиента
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return c.Client.Validate()
}

// Validate проверяет настройки логирования
func (c LogConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: must be text or json, got %q", c.Format)
	}
	return nil
}

// Validate проверяет настройки клиента
func (c ClientConfig) Validate() error {
	if c.DBPath == "" {
		return errors.New("client.db_path is required")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("client.server_url: must be an http(s) URL, got %q", c.ServerURL)
	}
	if c.CacheQuota < 0 {
		return errors.New("client.cache_quota must not be negative")
	}

	s := c.Sync
	switch {
	case s.Interval <= 0:
		return errors.New("client.sync.interval must be positive")
	case s.RemoteTimeout <= 0:
		return errors.New("client.sync.remote_timeout must be positive")
	case s.BaseDelay <= 0:
		return errors.New("client.sync.base_delay must be positive")
	case s.MaxDelay != 0 && s.MaxDelay < s.BaseDelay:
		return errors.New("client.sync.max_delay must not be less than base_delay")
	case s.Concurrency < 1:
		return errors.New("client.sync.concurrency must be at least 1")
	case s.MaxRetries < 1:
		return errors.New("client.sync.max_retries must be at least 1")
	case s.JitterPercent > 100:
		return errors.New("client.sync.jitter_percent must not exceed 100")
	}
	return nil
}

// ValidateServer проверяет настройки сервера
func (c *Config) ValidateServer() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}

	s := c.Server
	if s.ListenAddr == "" {
		return errors.New("server.listen_addr is required")
	}
	switch s.StorageDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("server.storage_driver: must be %s or %s, got %q", DriverSQLite, DriverPostgres, s.StorageDriver)
	}
	if s.StorageDSN == "" {
		return errors.New("server.storage_dsn is required")
	}
	if s.JWTSecret != "" && len(s.JWTSecret) < 16 {
		return errors.New("server.jwt_secret must be at least 16 characters")
	}
	if s.JWTTTL <= 0 {
		return errors.New("server.jwt_ttl must be positive")
	}
	if s.RateLimit < 0 {
		return errors.New("server.rate_limit must not be negative")
	}
	if s.RateLimit > 0 && s.RateWindow <= 0 {
		return errors.New("server.rate_window must be positive")
	}
	return nil
}
