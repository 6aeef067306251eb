package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	Environment     string
	FirebaseProject string
	FirebaseApiKey  string
	StorageBucket   string

	// PublicBaseURL is where the API is reachable from a browser.
	PublicBaseURL string

	FirebaseCredentialsJSON string
	FirebaseCredentialsPath string

	// StoreBackend selects the record store: "firestore" or "memory".
	StoreBackend string

	AdminEmail           string
	AllowedEmailDomain   string
	PlatformName         string
	DefaultPaymentMethod string

	RedisAddr string
	NATSURL   string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	MessageRatePerMinute int
	DealRatePerHour      int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:  getEnv("FIREBASE_API_KEY", ""),
		StorageBucket:   getEnv("STORAGE_BUCKET", ""),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		StoreBackend:    strings.ToLower(getEnv("STORE_BACKEND", "firestore")),

		FirebaseCredentialsJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),

		AdminEmail:           strings.ToLower(getEnv("ADMIN_EMAIL", "")),
		AllowedEmailDomain:   strings.ToLower(getEnv("ALLOWED_EMAIL_DOMAIN", "thapar.edu")),
		PlatformName:         getEnv("PLATFORM_NAME", "Thapar OLX"),
		DefaultPaymentMethod: getEnv("DEFAULT_PAYMENT_METHOD", "UPI / Cash"),

		RedisAddr: getEnv("REDIS_ADDR", ""),
		NATSURL:   getEnv("NATS_URL", ""),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),

		MessageRatePerMinute: getEnvAsInt("RATE_LIMIT_MESSAGES_PER_MINUTE", 10),
		DealRatePerHour:      getEnvAsInt("RATE_LIMIT_DEALS_PER_HOUR", 20),
	}

	return config, nil
}

func (c *Config) UseMemoryStore() bool {
	return c.StoreBackend == "memory"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
