package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	LogLevel       string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	RedisURL       string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration

	OTP    OTPConfig
	Cookie CookieConfig

	PasswordHashCost int

	SMTPHost     string
	SMTPPort     int
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	MailTimeout  time.Duration

	SNSRegion      string
	SNSTopicARN    string   // empty disables push publishing
	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	OTPRecords    string
	AuditLogs     string
	Notifications string
}

// OTPConfig bounds the one-time-code lifecycle.
type OTPConfig struct {
	Expiry         time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
	HashCost       int
	SweepInterval  time.Duration
}

// CookieConfig controls the refresh-token and CSRF cookies.
type CookieConfig struct {
	Path   string
	Secure bool
	MaxAge time.Duration
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			OTPRecords:    getEnv("DYNAMO_TABLE_OTP_RECORDS", "otp_records"),
			AuditLogs:     getEnv("DYNAMO_TABLE_AUDIT_LOGS", "audit_logs"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
		},
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		AccessTokenTTL:    getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:   getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		OTP: OTPConfig{
			Expiry:         getEnvDuration("OTP_EXPIRY", 5*time.Minute),
			ResendCooldown: getEnvDuration("OTP_RESEND_COOLDOWN", time.Minute),
			MaxAttempts:    getEnvInt("OTP_MAX_ATTEMPTS", 3),
			HashCost:       getEnvInt("OTP_HASH_COST", 8),
			SweepInterval:  getEnvDuration("OTP_SWEEP_INTERVAL", time.Minute),
		},
		Cookie: CookieConfig{
			Path:   getEnv("REFRESH_COOKIE_PATH", "/api/auth/refresh-token"),
			Secure: getEnvBool("COOKIE_SECURE", true),
			MaxAge: getEnvDuration("COOKIE_MAX_AGE", 7*24*time.Hour),
		},
		PasswordHashCost: getEnvInt("PASSWORD_HASH_COST", 10),
		SMTPHost:         getEnv("SMTP_HOST", "localhost"),
		SMTPPort:         getEnvInt("SMTP_PORT", 1025),
		SMTPFrom:         getEnv("SMTP_FROM", "noreply@yatraone.example"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		MailTimeout:      getEnvDuration("MAIL_TIMEOUT", 15*time.Second),
		SNSRegion:        getEnv("SNS_REGION", "us-east-1"),
		SNSTopicARN:      getEnv("SNS_TOPIC_ARN", ""),
		AllowedOrigins:   strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s", "15m") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
