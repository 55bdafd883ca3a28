package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External APIs
	KIS   KISConfig
	Naver NaverConfig

	// Trading pipeline
	Trading TradingConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// KISConfig holds KIS (한국투자증권) API configuration
type KISConfig struct {
	AppKey    string
	AppSecret string
	AccountNo string
	BaseURL   string
	IsVirtual bool // 모의투자 여부
}

// NaverConfig holds Naver Finance configuration
type NaverConfig struct {
	BaseURL string
}

// TradingConfig holds pipeline policy settings.
// Limits mirror the risk validator contract: a single position may not exceed
// MaxPositionRatio percent of total value, and existing unrealized losses may
// not exceed DailyLossRatio percent of total value.
type TradingConfig struct {
	Environment   string // paper, prod
	ExecutionMode string // simulated, live

	// Risk limits (percent)
	MaxPositionRatio float64
	DailyLossRatio   float64

	// Mover detection threshold (percent, absolute change rate)
	MoverThreshold float64

	// Default buy proposal (placeholder decision policy)
	DefaultBuyTicker string
	DefaultBuyQty    int64
	DefaultBuyPrice  int64

	// Delay between successive order submissions
	OrderDelay time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		KIS: KISConfig{
			AppKey:    getEnv("KIS_APP_KEY", ""),
			AppSecret: getEnv("KIS_APP_SECRET", ""),
			AccountNo: getEnv("KIS_ACCOUNT_NO", ""),
			BaseURL:   getEnv("KIS_BASE_URL", "https://openapi.koreainvestment.com:9443"),
			IsVirtual: getEnvAsBool("KIS_IS_VIRTUAL", true),
		},

		Naver: NaverConfig{
			BaseURL: getEnv("NAVER_BASE_URL", "https://finance.naver.com"),
		},

		Trading: TradingConfig{
			Environment:      getEnv("TRADING_ENV", "paper"),
			ExecutionMode:    getEnv("TRADING_EXECUTION_MODE", "simulated"),
			MaxPositionRatio: getEnvAsFloat("TRADING_MAX_POSITION_RATIO", 10.0),
			DailyLossRatio:   getEnvAsFloat("TRADING_DAILY_LOSS_RATIO", 2.0),
			MoverThreshold:   getEnvAsFloat("TRADING_MOVER_THRESHOLD", 3.0),
			DefaultBuyTicker: getEnv("TRADING_DEFAULT_BUY_TICKER", "005930"),
			DefaultBuyQty:    int64(getEnvAsInt("TRADING_DEFAULT_BUY_QTY", 1)),
			DefaultBuyPrice:  int64(getEnvAsInt("TRADING_DEFAULT_BUY_PRICE", 75000)),
			OrderDelay:       getEnvAsDuration("TRADING_ORDER_DELAY", "500ms"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Trading.Environment != "paper" && c.Trading.Environment != "prod" {
		return fmt.Errorf("TRADING_ENV must be one of: paper, prod")
	}

	if c.Trading.ExecutionMode != "simulated" && c.Trading.ExecutionMode != "live" {
		return fmt.Errorf("TRADING_EXECUTION_MODE must be one of: simulated, live")
	}

	// Live prod execution requires real credentials
	if c.Trading.ExecutionMode == "live" && c.Trading.Environment == "prod" {
		if c.KIS.AppKey == "" || c.KIS.AppSecret == "" || c.KIS.AccountNo == "" {
			return fmt.Errorf("live prod execution requires KIS_APP_KEY, KIS_APP_SECRET, KIS_ACCOUNT_NO")
		}
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
