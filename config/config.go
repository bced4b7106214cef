package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DBUrl         string
	JWTSecret     string
	AllowedOrigin string
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Tenancy: hosts under these domains are routed by subdomain, never looked up as custom domains
	PlatformDomains []string
	// Cache
	CacheDomainTTL     time.Duration
	CacheStorefrontTTL time.Duration
	CartTTL            time.Duration
	// Realtime
	RealtimeChannel     string
	LiveListRefresh     time.Duration
	LiveListIdleTTL     time.Duration
	TrustedProxyHeaders bool
	// Integrations
	TelegramBotToken string
	TelegramAPIURL   string
	AIGatewayURL     string
	AIGatewayKey     string
	AIModel          string
	AITimeout        time.Duration
	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
	// Business Rules
	MaxCartQuantity int
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: .env is optional, containers rely on system env vars
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("CRITICAL: %v", err)
	}
	if cfg.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret, seller endpoints will reject real tokens.")
	}
	return cfg
}

// FromEnv builds a Config from the process environment without loading any file.
func FromEnv() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBUrl:         getEnv("DB_DSN", ""),
		JWTSecret:     getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 20),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 2),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		PlatformDomains: getListEnv("PLATFORM_DOMAINS", []string{"localhost", "127.0.0.1", "storehub.app", "lovable.app", "lovableproject.com"}),

		// Cache defaults: 5m domain resolution, 2m storefront snapshot, 7d carts
		CacheDomainTTL:     getDurationEnv("CACHE_DOMAIN_TTL", 5*time.Minute),
		CacheStorefrontTTL: getDurationEnv("CACHE_STOREFRONT_TTL", 2*time.Minute),
		CartTTL:            getDurationEnv("CART_TTL", 7*24*time.Hour),

		RealtimeChannel: getEnv("REALTIME_CHANNEL", "entity_changes"),
		LiveListRefresh: getDurationEnv("LIVE_LIST_REFRESH", 5*time.Minute),
		LiveListIdleTTL: getDurationEnv("LIVE_LIST_IDLE_TTL", 30*time.Minute),

		TrustedProxyHeaders: getBoolEnv("TRUST_PROXY_HEADERS", false),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIURL:   getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		AIGatewayURL:     getEnv("AI_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1/chat/completions"),
		AIGatewayKey:     getEnv("AI_GATEWAY_KEY", ""),
		AIModel:          getEnv("AI_MODEL", "google/gemini-2.5-flash"),
		AITimeout:        getDurationEnv("AI_TIMEOUT", 30*time.Second),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),

		MaxCartQuantity: getIntEnv("MAX_CART_QUANTITY", 10000),
	}
}

func (c *Config) Validate() error {
	if c.DBUrl == "" {
		return errors.New("DB_DSN environment variable is required")
	}
	if c.MaxCartQuantity <= 0 {
		return errors.New("MAX_CART_QUANTITY must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Invalid bool for %s, using fallback", key)
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Invalid float for %s, using fallback", key)
	}
	return fallback
}

// getListEnv reads a comma separated list, dropping blanks.
func getListEnv(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
