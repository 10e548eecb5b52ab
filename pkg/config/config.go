package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Identity providers accepted by IDENTITY_PROVIDER.
const (
	IdentityProviderGoogle = "google"
	IdentityProviderJWT    = "jwt"
)

type Config struct {
	Env         string
	Port        int
	APIPrefix   string
	AdminPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	Identity      IdentityConfig
	CORS          CORSConfig
	Log           LogConfig
	Payment       PaymentConfig
	Pricing       PricingConfig
	Subscription  SubscriptionConfig
	Notifications NotificationConfig
	Metrics       MetricsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host            string
	Port            int
	Password        string
	DB              int
	CatalogCacheTTL time.Duration
	CatalogCache    bool
}

// IdentityConfig selects how admin bearer tokens are verified.
type IdentityConfig struct {
	Provider  string
	Audiences []string
	JWTSecret string
	JWTIssuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PaymentConfig points at the payment-link provider.
type PaymentConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// PricingConfig holds the policy constants used for pricing and charges.
type PricingConfig struct {
	FlagshipMarker          string
	PixFlagshipDiscount     string
	CardSurchargePercent    string
	CardMaxInstallments     int
	FlagshipMaxInstallments int
	PixDueDays              int
	CardDueDays             int
	PriceFloor              string
}

// SubscriptionConfig restricts the subscription toggle to a course family.
type SubscriptionConfig struct {
	CourseFamily string
}

// NotificationConfig configures the best-effort enrollment notifications.
type NotificationConfig struct {
	Enabled    bool
	Brokers    []string
	Topic      string
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.AdminPrefix = v.GetString("ADMIN_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:            v.GetString("REDIS_HOST"),
		Port:            v.GetInt("REDIS_PORT"),
		Password:        v.GetString("REDIS_PASSWORD"),
		DB:              v.GetInt("REDIS_DB"),
		CatalogCacheTTL: parseDuration(v.GetString("CATALOG_CACHE_TTL"), 5*time.Minute),
		CatalogCache:    v.GetBool("ENABLE_CATALOG_CACHE"),
	}

	cfg.Identity = IdentityConfig{
		Provider:  strings.ToLower(v.GetString("IDENTITY_PROVIDER")),
		Audiences: splitAndTrim(v.GetString("IDENTITY_AUDIENCES")),
		JWTSecret: v.GetString("IDENTITY_JWT_SECRET"),
		JWTIssuer: v.GetString("IDENTITY_JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Payment = PaymentConfig{
		BaseURL: strings.TrimRight(v.GetString("PAYMENT_BASE_URL"), "/"),
		APIKey:  v.GetString("PAYMENT_API_KEY"),
		Timeout: parseDuration(v.GetString("PAYMENT_TIMEOUT"), 0),
	}

	cfg.Pricing = PricingConfig{
		FlagshipMarker:          v.GetString("PRICING_FLAGSHIP_MARKER"),
		PixFlagshipDiscount:     v.GetString("PRICING_PIX_FLAGSHIP_DISCOUNT"),
		CardSurchargePercent:    v.GetString("PRICING_CARD_SURCHARGE_PERCENT"),
		CardMaxInstallments:     v.GetInt("PRICING_CARD_MAX_INSTALLMENTS"),
		FlagshipMaxInstallments: v.GetInt("PRICING_FLAGSHIP_MAX_INSTALLMENTS"),
		PixDueDays:              v.GetInt("PRICING_PIX_DUE_DAYS"),
		CardDueDays:             v.GetInt("PRICING_CARD_DUE_DAYS"),
		PriceFloor:              v.GetString("PRICING_PRICE_FLOOR"),
	}

	cfg.Subscription = SubscriptionConfig{CourseFamily: v.GetString("SUBSCRIPTION_COURSE_FAMILY")}

	cfg.Notifications = NotificationConfig{
		Enabled:    v.GetBool("ENABLE_NOTIFICATIONS"),
		Brokers:    splitAndTrim(v.GetString("KAFKA_BROKERS")),
		Topic:      v.GetString("KAFKA_NOTIFICATION_TOPIC"),
		Workers:    v.GetInt("NOTIFICATION_WORKERS"),
		MaxRetries: v.GetInt("NOTIFICATION_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("NOTIFICATION_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("ADMIN_PREFIX", "/admin")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "inscricoes")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENABLE_CATALOG_CACHE", false)
	v.SetDefault("CATALOG_CACHE_TTL", "5m")

	v.SetDefault("IDENTITY_PROVIDER", IdentityProviderJWT)
	v.SetDefault("IDENTITY_AUDIENCES", "")
	v.SetDefault("IDENTITY_JWT_SECRET", "dev_secret")
	v.SetDefault("IDENTITY_JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PAYMENT_BASE_URL", "https://sandbox.asaas.com/api/v3")
	v.SetDefault("PAYMENT_API_KEY", "")
	v.SetDefault("PAYMENT_TIMEOUT", "")

	v.SetDefault("PRICING_FLAGSHIP_MARKER", "Formação Completa")
	v.SetDefault("PRICING_PIX_FLAGSHIP_DISCOUNT", "150.00")
	v.SetDefault("PRICING_CARD_SURCHARGE_PERCENT", "8")
	v.SetDefault("PRICING_CARD_MAX_INSTALLMENTS", 12)
	v.SetDefault("PRICING_FLAGSHIP_MAX_INSTALLMENTS", 10)
	v.SetDefault("PRICING_PIX_DUE_DAYS", 2)
	v.SetDefault("PRICING_CARD_DUE_DAYS", 7)
	v.SetDefault("PRICING_PRICE_FLOOR", "0.01")

	v.SetDefault("SUBSCRIPTION_COURSE_FAMILY", "Mentoria")

	v.SetDefault("ENABLE_NOTIFICATIONS", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_NOTIFICATION_TOPIC", "enrollment-notifications")
	v.SetDefault("NOTIFICATION_WORKERS", 2)
	v.SetDefault("NOTIFICATION_MAX_RETRIES", 3)
	v.SetDefault("NOTIFICATION_RETRY_DELAY", "2s")

	v.SetDefault("ENABLE_METRICS", true)
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
