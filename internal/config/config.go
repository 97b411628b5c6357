package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"example.com/finwise/backend/internal/analytics"
)

type Config struct {
	Env       string
	Server    ServerConfig
	Database  DatabaseConfig
	Analytics AnalyticsConfig
	Webhook   WebhookConfig
	Advisor   AdvisorConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// AnalyticsConfig собирает все пороги аналитики в одном месте. Раньше такие
// значения жили в запросах и модульных константах; теперь они явно
// передаются в компоненты при сборке сервера.
type AnalyticsConfig struct {
	AnomalyWindow         time.Duration
	HighValueThreshold    int64
	FlagFirstDuplicate    bool
	ForecastMonths        int
	EarlyWarnUsage        float64
	EarlyWarnDay          int
	BillPressureThreshold int64
}

type WebhookConfig struct {
	RateLimitPerMinute int
	RateLimitBurst     int
}

type AdvisorConfig struct {
	APIKey             string
	BaseURL            string
	User               string
	Timeout            time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load загружает конфигурацию приложения из окружения и .env.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	cfg.Env = getEnv("APP_ENV", "local")

	serverPort, err := parseIntEnv("SERVER_PORT", 5000)
	if err != nil {
		return cfg, err
	}

	readTimeout, err := parseDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return cfg, err
	}

	writeTimeout, err := parseDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return cfg, err
	}

	idleTimeout, err := parseDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.Server = ServerConfig{
		Host:         getEnv("SERVER_HOST", "0.0.0.0"),
		Port:         serverPort,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	dbPort, err := parseIntEnv("DB_PORT", 5432)
	if err != nil {
		return cfg, err
	}

	maxOpenConns, err := parseIntEnv("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return cfg, err
	}

	maxIdleConns, err := parseIntEnv("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return cfg, err
	}

	connMaxIdleTime, err := parseDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute)
	if err != nil {
		return cfg, err
	}

	connMaxLifetime, err := parseDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	if err != nil {
		return cfg, err
	}

	cfg.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "finwise"),
		Password:        getEnv("DB_PASSWORD", "finwise"),
		Name:            getEnv("DB_NAME", "finwise"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxIdleTime: connMaxIdleTime,
		ConnMaxLifetime: connMaxLifetime,
	}

	// Окно 24h подходит для оперативного скана; для недельного обзора
	// клиент передает window=168h, верхняя граница задается здесь.
	anomalyWindow, err := parseDurationEnv("ANOMALY_WINDOW", analytics.DefaultAnomalyWindow)
	if err != nil {
		return cfg, err
	}

	highValueThreshold, err := parseInt64Env("ANOMALY_HIGH_VALUE_THRESHOLD", analytics.DefaultHighValueThreshold)
	if err != nil {
		return cfg, err
	}

	flagFirstDuplicate, err := parseBoolEnv("ANOMALY_FLAG_FIRST_DUPLICATE", false)
	if err != nil {
		return cfg, err
	}

	forecastMonths, err := parseIntEnv("FORECAST_MONTHS", analytics.DefaultForecastMonths)
	if err != nil {
		return cfg, err
	}

	earlyWarnUsage, err := parseFloatEnv("RISK_EARLY_WARN_USAGE", analytics.DefaultEarlyWarnUsage)
	if err != nil {
		return cfg, err
	}

	earlyWarnDay, err := parseIntEnv("RISK_EARLY_WARN_DAY", analytics.DefaultEarlyWarnDay)
	if err != nil {
		return cfg, err
	}

	billPressureThreshold, err := parseInt64Env("RISK_BILL_PRESSURE_THRESHOLD", analytics.DefaultBillPressureThreshold)
	if err != nil {
		return cfg, err
	}

	cfg.Analytics = AnalyticsConfig{
		AnomalyWindow:         anomalyWindow,
		HighValueThreshold:    highValueThreshold,
		FlagFirstDuplicate:    flagFirstDuplicate,
		ForecastMonths:        forecastMonths,
		EarlyWarnUsage:        earlyWarnUsage,
		EarlyWarnDay:          earlyWarnDay,
		BillPressureThreshold: billPressureThreshold,
	}

	webhookRateLimitPerMinute, err := parseIntEnv("WEBHOOK_RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		return cfg, err
	}

	webhookRateLimitBurst, err := parseIntEnv("WEBHOOK_RATE_LIMIT_BURST", 20)
	if err != nil {
		return cfg, err
	}

	cfg.Webhook = WebhookConfig{
		RateLimitPerMinute: webhookRateLimitPerMinute,
		RateLimitBurst:     webhookRateLimitBurst,
	}

	advisorTimeout, err := parseDurationEnv("ADVISOR_TIMEOUT", 20*time.Second)
	if err != nil {
		return cfg, err
	}

	advisorRateLimitPerMinute, err := parseIntEnv("ADVISOR_RATE_LIMIT_PER_MINUTE", 30)
	if err != nil {
		return cfg, err
	}

	advisorRateLimitBurst, err := parseIntEnv("ADVISOR_RATE_LIMIT_BURST", 10)
	if err != nil {
		return cfg, err
	}

	cfg.Advisor = AdvisorConfig{
		APIKey:             getEnv("ADVISOR_API_KEY", ""),
		BaseURL:            getEnv("ADVISOR_BASE_URL", "https://api.dify.ai/v1"),
		User:               getEnv("ADVISOR_USER", "finwise-local-user"),
		Timeout:            advisorTimeout,
		RateLimitPerMinute: advisorRateLimitPerMinute,
		RateLimitBurst:     advisorRateLimitBurst,
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// DSN возвращает строку подключения к базе данных.
func (c DatabaseConfig) DSN() string {
	user := url.UserPassword(c.User, c.Password)
	dsn := url.URL{
		Scheme: "postgres",
		User:   user,
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}

	query := url.Values{}
	query.Set("sslmode", c.SSLMode)
	return dsn.String() + "?" + query.Encode()
}

func (c Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("SERVER_PORT must be greater than 0")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS cannot exceed DB_MAX_OPEN_CONNS")
	}

	if c.Analytics.AnomalyWindow <= 0 {
		return fmt.Errorf("ANOMALY_WINDOW must be greater than 0")
	}

	if c.Analytics.HighValueThreshold <= 0 {
		return fmt.Errorf("ANOMALY_HIGH_VALUE_THRESHOLD must be greater than 0")
	}

	if c.Analytics.ForecastMonths <= 0 {
		return fmt.Errorf("FORECAST_MONTHS must be greater than 0")
	}

	if c.Analytics.EarlyWarnUsage <= 0 || c.Analytics.EarlyWarnUsage >= 1 {
		return fmt.Errorf("RISK_EARLY_WARN_USAGE must be between 0 and 1")
	}

	if c.Analytics.EarlyWarnDay < 1 || c.Analytics.EarlyWarnDay > 28 {
		return fmt.Errorf("RISK_EARLY_WARN_DAY must be between 1 and 28")
	}

	if c.Analytics.BillPressureThreshold <= 0 {
		return fmt.Errorf("RISK_BILL_PRESSURE_THRESHOLD must be greater than 0")
	}

	if c.Webhook.RateLimitPerMinute <= 0 {
		return fmt.Errorf("WEBHOOK_RATE_LIMIT_PER_MINUTE must be greater than 0")
	}

	if c.Webhook.RateLimitBurst <= 0 {
		return fmt.Errorf("WEBHOOK_RATE_LIMIT_BURST must be greater than 0")
	}

	if c.Advisor.RateLimitPerMinute <= 0 {
		return fmt.Errorf("ADVISOR_RATE_LIMIT_PER_MINUTE must be greater than 0")
	}

	if c.Advisor.RateLimitBurst <= 0 {
		return fmt.Errorf("ADVISOR_RATE_LIMIT_BURST must be greater than 0")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseInt64Env(key string, fallback int64) (int64, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}
