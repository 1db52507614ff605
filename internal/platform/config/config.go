package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	ServiceName  string

	// External auth service
	AuthServiceURL     string
	AuthServiceTimeout time.Duration

	// Redis (verification codes, reset tokens)
	RedisAddr     string
	RedisPassword string

	// Secret used to validate password reset tokens issued by the auth service.
	JWTSecret string

	VerificationCodeTTL time.Duration

	// Analytics
	PosthogAPIKey   string
	PosthogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("SERVICE_NAME", "users")
	viper.SetDefault("AUTH_SERVICE_URL", "http://localhost:8001")
	viper.SetDefault("AUTH_SERVICE_TIMEOUT", "5s")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("VERIFICATION_CODE_TTL", "10m")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.ServiceName = viper.GetString("SERVICE_NAME")
	if cfg.ServiceName == "" {
		cfg.ServiceName = "users"
		log.Printf("Warning: SERVICE_NAME not set. Defaulting to %s.\n", cfg.ServiceName)
	}

	cfg.AuthServiceURL = viper.GetString("AUTH_SERVICE_URL")
	if cfg.AuthServiceURL == "" {
		log.Println("Warning: AUTH_SERVICE_URL not set. Token verification and refresh will fail.")
	}

	authTimeoutStr := viper.GetString("AUTH_SERVICE_TIMEOUT")
	authTimeout, err := time.ParseDuration(authTimeoutStr)
	if err != nil {
		authTimeout = 5 * time.Second
		if authTimeoutStr != "" {
			log.Printf("Warning: Invalid value for AUTH_SERVICE_TIMEOUT ('%s'). Defaulting to %s.\n", authTimeoutStr, authTimeout.String())
		}
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	codeTTLStr := viper.GetString("VERIFICATION_CODE_TTL")
	codeTTL, err := time.ParseDuration(codeTTLStr)
	if err != nil {
		codeTTL = 10 * time.Minute
		if codeTTLStr != "" {
			log.Printf("Warning: Invalid value for VERIFICATION_CODE_TTL ('%s'). Defaulting to %s.\n", codeTTLStr, codeTTL.String())
		}
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.AuthServiceTimeout = authTimeout
	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.JWTSecret = jwtSecret
	cfg.VerificationCodeTTL = codeTTL
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	if cfg.PosthogAPIKey == "" {
		log.Println("Warning: POSTHOG_API_KEY not set. Analytics events will not be sent.")
	}

	return cfg, nil
}
