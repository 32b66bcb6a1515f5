package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	S3ExportBucket   string
	SNSEventTopicARN string // empty disables event fan-out

	DiscordAPIBaseURL string
	DiscordBotToken   string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	TenantConfigs string
	Sessions      string
	Records       string
	UserCooldowns string
	Suppressions  string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			TenantConfigs: getEnv("DYNAMO_TABLE_TENANT_CONFIGS", "tenant_configs"),
			Sessions:      getEnv("DYNAMO_TABLE_VERIFICATION_SESSIONS", "verification_sessions"),
			Records:       getEnv("DYNAMO_TABLE_VERIFICATION_RECORDS", "verification_records"),
			UserCooldowns: getEnv("DYNAMO_TABLE_USER_COOLDOWNS", "user_cooldowns"),
			Suppressions:  getEnv("DYNAMO_TABLE_EMAIL_SUPPRESSIONS", "email_suppressions"),
		},

		S3ExportBucket:   getEnv("S3_EXPORT_BUCKET", "guild-verify-exports"),
		SNSEventTopicARN: getEnv("SNS_EVENT_TOPIC_ARN", ""),

		DiscordAPIBaseURL: getEnv("DISCORD_API_BASE_URL", "https://discord.com/api/v10"),
		DiscordBotToken:   getEnv("DISCORD_BOT_TOKEN", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
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
