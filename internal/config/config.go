package config

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/viper"
)

// current 全局发布的配置。热更新时整体替换指针而不是原地改写结构体，
// 读取端每次 Current() 拿到的都是一个完整一致的快照。
var current atomic.Pointer[Config]

// SetCurrent 发布新配置，对所有后续 Current() 调用立即可见
func SetCurrent(cfg *Config) {
	current.Store(cfg)
}

// Current 最近一次发布的配置；尚未发布时返回 nil
func Current() *Config {
	return current.Load()
}

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Redis     RedisConfig
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

// LedgerConfig 账本写入的重试与回执确认参数
type LedgerConfig struct {
	MaxWriteAttempts  int           `mapstructure:"max_write_attempts"`
	RetryBaseDelay    time.Duration `mapstructure:"retry_base_delay_ms"`
	NonceRetryDelay   time.Duration `mapstructure:"nonce_retry_delay_ms"`
	ReceiptTimeout    time.Duration `mapstructure:"receipt_timeout_ms"`
	QuestCacheSeconds int           `mapstructure:"quest_cache_seconds"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("ARKIV_QUESTS")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	cfg.Ledger.RetryBaseDelay = cfg.Ledger.RetryBaseDelay * time.Millisecond
	cfg.Ledger.NonceRetryDelay = cfg.Ledger.NonceRetryDelay * time.Millisecond
	cfg.Ledger.ReceiptTimeout = cfg.Ledger.ReceiptTimeout * time.Millisecond

	if cfg.Ledger.MaxWriteAttempts <= 0 {
		cfg.Ledger.MaxWriteAttempts = 3
	}
	if cfg.Ledger.RetryBaseDelay <= 0 {
		cfg.Ledger.RetryBaseDelay = 500 * time.Millisecond
	}
	if cfg.Ledger.NonceRetryDelay <= 0 {
		cfg.Ledger.NonceRetryDelay = 2 * time.Second
	}
	if cfg.Ledger.ReceiptTimeout <= 0 {
		cfg.Ledger.ReceiptTimeout = 10 * time.Second
	}
	if cfg.Ledger.QuestCacheSeconds <= 0 {
		cfg.Ledger.QuestCacheSeconds = 300
	}

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
