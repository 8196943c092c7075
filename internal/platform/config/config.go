package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/reconcile"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// StorageConfig describes the S3-compatible bucket attachments live in.
type StorageConfig struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UsePathStyle      bool
	UseSSL            bool
	PresignExpiration time.Duration
}

// Enabled reports whether enough is configured to talk to a bucket.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

// EdgeFunctionConfig locates the hosted function that sends booking e-mails.
type EdgeFunctionConfig struct {
	BaseURL      string
	APIKey       string
	BookingEmail string
	Timeout      time.Duration
}

// FinanceConfig carries the business constants of the reconciliation engine.
type FinanceConfig struct {
	MealsHotels         []string
	MealsRatePer2Adults decimal.Decimal // GEL
	DriverDailyRate     decimal.Decimal // USD
	DriverRates         map[string]decimal.Decimal
	LegacyStayMatching  bool
	LedgerWindowLimit   int
	DefaultGelToUSD     decimal.Decimal
	DefaultUsdToGEL     decimal.Decimal
	ReciprocalTolerance decimal.Decimal
	AttemptMarkerTTL    time.Duration
}

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	JWTIssuer      string
	CORSOrigins    []string
	RateLimit      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RecurringExpensesCron string
	WorkerConcurrency     int

	Storage      StorageConfig
	EdgeFunction EdgeFunctionConfig
	Finance      FinanceConfig
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("RATE_LIMIT", "300-M")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "2m")

	v.SetDefault("RECURRING_EXPENSES_CRON", "@every 1h")
	v.SetDefault("WORKER_CONCURRENCY", 5)

	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_BUCKET", "confirmation-attachments")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_USE_PATH_STYLE", true)
	v.SetDefault("STORAGE_USE_SSL", true)
	v.SetDefault("STORAGE_PRESIGN_EXPIRY", "15m")

	v.SetDefault("EDGE_FUNCTION_URL", "")
	v.SetDefault("EDGE_FUNCTION_KEY", "")
	v.SetDefault("BOOKING_EMAIL_FUNCTION", "send-booking-request")
	v.SetDefault("EDGE_FUNCTION_TIMEOUT", "20s")

	v.SetDefault("MEALS_HOTELS", "")
	v.SetDefault("MEALS_RATE_PER_2_ADULTS", "15")
	v.SetDefault("DRIVER_DAILY_RATE", "50")
	v.SetDefault("DRIVER_RATES", "")
	v.SetDefault("LEGACY_STAY_MATCHING", true)
	v.SetDefault("LEDGER_WINDOW_LIMIT", 20000)
	v.SetDefault("DEFAULT_GEL_TO_USD", "0.37")
	v.SetDefault("DEFAULT_USD_TO_GEL", "2.7")
	v.SetDefault("RATE_RECIPROCAL_TOLERANCE", "0.005")
	v.SetDefault("ATTEMPT_MARKER_TTL", "10m")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:           v.GetString("PGSQL_URL"),
		MigrationsPath:        v.GetString("MIGRATIONS_PATH"),
		Port:                  v.GetString("PORT"),
		IsProduction:          v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:         v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		JWTIssuer:             v.GetString("JWT_ISSUER"),
		CORSOrigins:           splitList(v.GetString("CORS_ORIGINS")),
		RateLimit:             v.GetString("RATE_LIMIT"),
		RedisAddr:             v.GetString("REDIS_ADDR"),
		RedisPassword:         v.GetString("REDIS_PASSWORD"),
		RedisDB:               v.GetInt("REDIS_DB"),
		RecurringExpensesCron: v.GetString("RECURRING_EXPENSES_CRON"),
		WorkerConcurrency:     v.GetInt("WORKER_CONCURRENCY"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = 5
	}

	var err error
	if cfg.CacheTTL, err = duration(v, "CACHE_TTL"); err != nil {
		return nil, err
	}

	cfg.Storage = StorageConfig{
		Endpoint:     v.GetString("STORAGE_ENDPOINT"),
		Region:       v.GetString("STORAGE_REGION"),
		Bucket:       v.GetString("STORAGE_BUCKET"),
		AccessKey:    v.GetString("STORAGE_ACCESS_KEY"),
		SecretKey:    v.GetString("STORAGE_SECRET_KEY"),
		UsePathStyle: v.GetBool("STORAGE_USE_PATH_STYLE"),
		UseSSL:       v.GetBool("STORAGE_USE_SSL"),
	}
	if cfg.Storage.PresignExpiration, err = duration(v, "STORAGE_PRESIGN_EXPIRY"); err != nil {
		return nil, err
	}
	if !cfg.Storage.Enabled() {
		log.Println("Warning: STORAGE_* not fully set. Attachment uploads will be rejected.")
	}

	cfg.EdgeFunction = EdgeFunctionConfig{
		BaseURL:      strings.TrimRight(v.GetString("EDGE_FUNCTION_URL"), "/"),
		APIKey:       v.GetString("EDGE_FUNCTION_KEY"),
		BookingEmail: v.GetString("BOOKING_EMAIL_FUNCTION"),
	}
	if cfg.EdgeFunction.Timeout, err = duration(v, "EDGE_FUNCTION_TIMEOUT"); err != nil {
		return nil, err
	}

	if cfg.Finance, err = financeFromViper(v); err != nil {
		return nil, err
	}
	return cfg, nil
}

func financeFromViper(v *viper.Viper) (FinanceConfig, error) {
	fin := FinanceConfig{
		MealsHotels:        splitList(v.GetString("MEALS_HOTELS")),
		LegacyStayMatching: v.GetBool("LEGACY_STAY_MATCHING"),
		LedgerWindowLimit:  v.GetInt("LEDGER_WINDOW_LIMIT"),
	}
	if fin.LedgerWindowLimit <= 0 {
		fin.LedgerWindowLimit = 20000
	}

	decimals := []struct {
		key  string
		dest *decimal.Decimal
	}{
		{"MEALS_RATE_PER_2_ADULTS", &fin.MealsRatePer2Adults},
		{"DRIVER_DAILY_RATE", &fin.DriverDailyRate},
		{"DEFAULT_GEL_TO_USD", &fin.DefaultGelToUSD},
		{"DEFAULT_USD_TO_GEL", &fin.DefaultUsdToGEL},
		{"RATE_RECIPROCAL_TOLERANCE", &fin.ReciprocalTolerance},
	}
	for _, d := range decimals {
		val, err := decimal.NewFromString(strings.TrimSpace(v.GetString(d.key)))
		if err != nil {
			return fin, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dest = val
	}

	rates, err := parseDriverRates(v.GetString("DRIVER_RATES"))
	if err != nil {
		return fin, err
	}
	fin.DriverRates = rates

	if fin.AttemptMarkerTTL, err = duration(v, "ATTEMPT_MARKER_TTL"); err != nil {
		return fin, err
	}
	return fin, nil
}

// parseDriverRates reads "standard=50,minivan=70" into lower-cased keys.
func parseDriverRates(raw string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal)
	for _, pair := range splitList(raw) {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid DRIVER_RATES entry %q, expected type=rate", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil || rate.IsNegative() {
			return nil, fmt.Errorf("invalid DRIVER_RATES rate for %q", name)
		}
		rates[strings.ToLower(strings.TrimSpace(name))] = rate
	}
	return rates, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Policy builds the reconciliation policy from the finance settings.
func (f FinanceConfig) Policy() reconcile.Policy {
	return reconcile.Policy{
		Meals:  reconcile.MealsPolicy{Hotels: f.MealsHotels, RatePer2Adults: f.MealsRatePer2Adults},
		Driver: reconcile.DriverPolicy{DailyRate: f.DriverDailyRate, RatesByType: f.DriverRates},
	}
}
