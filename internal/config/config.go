package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config 结构审计服务配置
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig

	// 审计服务特定配置
	Audit struct {
		// 评分提交事件流（Redis Streams）
		SubmissionStream string // 如 "sams:rating:submissions"
		ConsumerGroup    string // 如 "sams-audit-group"
		ConsumerName     string // 如 "sams-audit-1"
		BatchSize        int64  // 批量读取大小，默认 10

		// 建筑汇总缓存
		RollupCacheTTL int // 缓存 TTL（秒），默认 300
	}

	// 州/区主数据远端刷新（可选，内置表兜底）
	Registry struct {
		Enabled         bool
		BaseURL         string
		RefreshInterval int // 刷新间隔（秒），默认 3600
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置（环境变量 + 默认值）
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "sams")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 10)
	cfg.Database.MaxIdle = getEnvInt("DB_MAX_IDLE", 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.Audit.SubmissionStream = getEnv("AUDIT_SUBMISSION_STREAM", "sams:rating:submissions")
	cfg.Audit.ConsumerGroup = getEnv("AUDIT_CONSUMER_GROUP", "sams-audit-group")
	cfg.Audit.ConsumerName = getEnv("AUDIT_CONSUMER_NAME", "sams-audit-1")
	cfg.Audit.BatchSize = int64(getEnvInt("AUDIT_BATCH_SIZE", 10))
	cfg.Audit.RollupCacheTTL = getEnvInt("AUDIT_ROLLUP_CACHE_TTL", 300)

	cfg.Registry.Enabled = getEnv("REGISTRY_REFRESH_ENABLED", "false") == "true"
	cfg.Registry.BaseURL = getEnv("REGISTRY_BASE_URL", "")
	cfg.Registry.RefreshInterval = getEnvInt("REGISTRY_REFRESH_INTERVAL", 3600)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}
