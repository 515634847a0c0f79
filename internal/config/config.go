package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	// Database
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	// Redis
	EnableRedis bool
	RedisURL    string

	// JWT
	JWTSecret string

	// Server
	Port        string
	Environment string

	// CORS
	CORSOrigins []string

	// Upload
	UploadDir     string
	MaxUploadSize int64

	// Admin access. Accounts whose email appears here are treated as
	// administrators even when their role column was never promoted; kept for
	// parity with the storefront's original allow-list.
	AdminEmails []string

	// Auth
	OTPLength        int
	OTPTTLMinutes    int
	MinPasswordChars int

	// Waafi gateway (serves both the EVC Plus and Waafi wallet channels)
	WaafiAPIURL      string
	WaafiMerchantUID string
	WaafiAPIUserID   string
	WaafiAPIKey      string

	// eDahab gateway
	EdahabAPIURL    string
	EdahabAPIKey    string
	EdahabAgentCode string
	EdahabSecret    string

	// PaymentReturnURL is sent to gateways that redirect back after a charge.
	PaymentReturnURL string

	// Email (verification codes)
	EnableEmail  bool
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// Rate limiting (per IP)
	RateLimitRequests      int
	RateLimitWindowSeconds int
	RateLimitBurst         int

	// Features
	EnableMetrics bool

	// Site Meta
	SiteName string
	SiteURL  string
}

func New() *Config {
	c := &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "academy"),
		DBPassword: getEnv("DB_PASSWORD", "academy"),
		DBName:     getEnv("DB_NAME", "academydb"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		EnableRedis: getEnvAsBool("ENABLE_REDIS", true),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "change-this-jwt-secret-in-production"),

		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// CORS
		CORSOrigins: splitAndTrim(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		// Upload
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize: 10 * 1024 * 1024, // 10MB

		AdminEmails: splitAndTrim(getEnv("ADMIN_EMAILS", "admin@mohamedshiine.com")),

		OTPLength:        getEnvAsInt("OTP_LENGTH", 6),
		OTPTTLMinutes:    getEnvAsInt("OTP_TTL_MINUTES", 10),
		MinPasswordChars: getEnvAsInt("MIN_PASSWORD_CHARS", 8),

		WaafiAPIURL:      getEnv("WAAFI_API_URL", "https://api.waafipay.net/asm"),
		WaafiMerchantUID: getEnv("WAAFI_MERCHANT_UID", ""),
		WaafiAPIUserID:   getEnv("WAAFI_API_USER_ID", ""),
		WaafiAPIKey:      getEnv("WAAFI_API_KEY", ""),

		EdahabAPIURL:    getEnv("EDAHAB_API_URL", "https://edahab.net/api/api/issueinvoice"),
		EdahabAPIKey:    getEnv("EDAHAB_API_KEY", ""),
		EdahabAgentCode: getEnv("EDAHAB_AGENT_CODE", ""),
		EdahabSecret:    getEnv("EDAHAB_SECRET", ""),

		PaymentReturnURL: getEnv("PAYMENT_RETURN_URL", "http://localhost:5173"),

		EnableEmail:  getEnvAsBool("ENABLE_EMAIL", false),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@mohamedshiine.com"),

		RateLimitRequests:      getEnvAsInt("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitBurst:         getEnvAsInt("RATE_LIMIT_BURST", 0),

		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),

		SiteName: getEnv("SITE_NAME", "Shiine Academy"),
		SiteURL:  getEnv("SITE_URL", "http://localhost:8080"),
	}

	// Build DSN
	c.DatabaseURL = fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)

	return c
}

// WaafiConfigured reports whether mobile-wallet charges can be attempted.
func (c *Config) WaafiConfigured() bool {
	return c.WaafiAPIURL != "" && c.WaafiMerchantUID != "" && c.WaafiAPIUserID != "" && c.WaafiAPIKey != ""
}

// EdahabConfigured reports whether eDahab charges can be attempted.
func (c *Config) EdahabConfigured() bool {
	return c.EdahabAPIURL != "" && c.EdahabAPIKey != "" && c.EdahabSecret != ""
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
