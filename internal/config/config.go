package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Challenge ChallengeConfig
	Store     StoreConfig
	Email     EmailConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// ChallengeConfig controls the email-OTP challenge policy. Values are fixed
// for a deployment; components receive them at construction and never read
// the environment themselves.
type ChallengeConfig struct {
	CodeTTL           time.Duration
	CodeLength        int
	MaxAttempts       int
	AnonymousIdentity string // empty disables the anonymous bypass
}

type StoreConfig struct {
	Region            string
	VerificationTable string
}

type EmailConfig struct {
	Region      string
	FromAddress string
}

type AuthConfig struct {
	JWTSecret          string
	SessionTokenExpiry time.Duration
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	env := getEnv("ENV", "development")

	cfg, err := loadChallengeEnv()
	if err != nil {
		return nil, err
	}

	cfg.Server = ServerConfig{
		Port:           getEnv("PORT", "8080"),
		Env:            env,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: parseAllowedOrigins(env),
	}
	cfg.Auth = AuthConfig{
		JWTSecret:          jwtSecret,
		SessionTokenExpiry: getEnvAsDuration("SESSION_TOKEN_EXPIRY", 10*time.Minute),
		AccessTokenExpiry:  getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshTokenExpiry: getEnvAsDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
	}

	// Validate JWT secret strength
	if err := validateJWTSecret(jwtSecret, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadLambda loads the configuration subset the challenge trigger functions
// need. Token and server settings do not apply in that environment.
func LoadLambda() (*Config, error) {
	_ = godotenv.Load()
	return loadChallengeEnv()
}

func loadChallengeEnv() (*Config, error) {
	region := getEnv("AWS_REGION", "us-east-1")

	cfg := &Config{
		Challenge: ChallengeConfig{
			CodeTTL:           time.Duration(getEnvAsInt("CODE_TTL_SECONDS", 300)) * time.Second,
			CodeLength:        getEnvAsInt("CODE_LENGTH", 6),
			MaxAttempts:       getEnvAsInt("MAX_ATTEMPTS", 3),
			AnonymousIdentity: getEnv("ANONYMOUS_IDENTITY", ""),
		},
		Store: StoreConfig{
			Region:            region,
			VerificationTable: getEnv("VERIFICATION_TABLE", "verification-records"),
		},
		Email: EmailConfig{
			Region:      getEnv("SES_REGION", region),
			FromAddress: getEnv("SES_FROM_ADDRESS", ""),
		},
	}

	if cfg.Email.FromAddress == "" {
		return nil, fmt.Errorf("SES_FROM_ADDRESS is required")
	}

	if cfg.Challenge.CodeLength < 4 || cfg.Challenge.CodeLength > 10 {
		return nil, fmt.Errorf("CODE_LENGTH must be between 4 and 10 (got %d)", cfg.Challenge.CodeLength)
	}

	if cfg.Challenge.MaxAttempts < 1 {
		return nil, fmt.Errorf("MAX_ATTEMPTS must be at least 1 (got %d)", cfg.Challenge.MaxAttempts)
	}

	return cfg, nil
}

// validateJWTSecret enforces minimum security standards for JWT secret
func validateJWTSecret(secret, env string) error {
	// Minimum length based on environment
	minLength := 16 // Development minimum
	if env == "production" {
		minLength = 32 // Production requires stronger secret (256 bits)
	}

	if len(secret) < minLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	// Check against common weak secrets
	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("JWT_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			return []string{} // Default to no origins in production
		}
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	// Development: allow localhost variants of the booking frontend
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
	}
}
