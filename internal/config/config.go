package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
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

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CollaboratorConfig 协作服务地址（room/housekeeper/roster/booking）
type CollaboratorConfig struct {
	RoomURL        string
	HousekeeperURL string
	RosterURL      string
	BookingURL     string
	Timeout        time.Duration
}

// CleaningConfig 清洁周期配置
type CleaningConfig struct {
	// Duration 清洁时长（stage 1 延迟）
	Duration time.Duration
	// SettleDelay 结算延迟（stage 2 相对 stage 1 的延迟）
	SettleDelay time.Duration
	// PollInterval 调度器轮询间隔
	PollInterval time.Duration
}

// Config 服务配置（registry 与 housekeeping 两个进程共用一个加载器，
// 各自只读取自己需要的部分）
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled    bool
	Database     DatabaseConfig
	Redis        RedisConfig
	Collaborator CollaboratorConfig
	Cleaning     CleaningConfig
	Log          struct {
		Level  string
		Format string
	}
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// 默认开启；DB 不可用时 hotel-registry 回退到内存仓库而不是拒绝启动
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "hotel")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	// 协作服务地址（默认都指向 hotel-registry；booking 指向外部 booking 服务）
	cfg.Collaborator.RoomURL = getEnv("ROOM_URL", "http://localhost:5008")
	cfg.Collaborator.HousekeeperURL = getEnv("HOUSEKEEPER_URL", "http://localhost:5008")
	cfg.Collaborator.RosterURL = getEnv("ROSTER_URL", "http://localhost:5008")
	cfg.Collaborator.BookingURL = getEnv("BOOKING_URL", "http://localhost:5001")
	cfg.Collaborator.Timeout = parseDuration(getEnv("COLLABORATOR_TIMEOUT", "10s"), 10*time.Second)

	cfg.Cleaning.Duration = parseDuration(getEnv("CLEANING_DURATION", "10s"), 10*time.Second)
	cfg.Cleaning.SettleDelay = parseDuration(getEnv("CLEANING_SETTLE_DELAY", "5s"), 5*time.Second)
	cfg.Cleaning.PollInterval = parseDuration(getEnv("SCHEDULER_POLL_INTERVAL", "500ms"), 500*time.Millisecond)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
