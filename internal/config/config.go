package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	ServerPort  string
	Environment string
	LogLevel    string

	// DataSource selects the backing store: live, static or auto
	DataSource string
	SeedData   bool

	// Database configuration
	DBType     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBMaxConns int

	// Redis configuration
	RedisAddress string

	// Presence tracking
	PresenceBackend   string
	PresenceWindow    time.Duration
	HeartbeatInterval time.Duration

	// JWT configuration
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Public site revalidation webhook, disabled when empty
	RevalidateURL    string
	RevalidateSecret string

	WorkerPoolSize int
	PageCacheTTL   time.Duration

	FrontendAddress string
}

// Global application configuration
var AppConfig Config

// LoadConfig loads configuration from .env and environment variables
func LoadConfig() {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = filepath.Join("..", ".env")
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			envPath = filepath.Join("..", "..", ".env")
		}
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = generateRandomSecret(32)
		log.Println("Generated random JWT secret")
	}

	AppConfig = Config{
		ServerPort:        getEnv("PORT", "8080"),
		Environment:       getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DataSource:        getEnv("DATA_SOURCE", "auto"),
		SeedData:          getEnvAsBool("SEED_DATA", false),
		DBType:            getEnv("DB_TYPE", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "careers_page"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
		RedisAddress:      getEnv("REDIS_ADDRESS", "localhost:6379"),
		PresenceBackend:   getEnv("PRESENCE_BACKEND", "database"),
		PresenceWindow:    time.Duration(getEnvAsInt("PRESENCE_WINDOW_SECONDS", 120)) * time.Second,
		HeartbeatInterval: time.Duration(getEnvAsInt("HEARTBEAT_INTERVAL_SECONDS", 30)) * time.Second,
		JWTSecret:         jwtSecret,
		AccessTokenTTL:    time.Duration(getEnvAsInt("ACCESS_TOKEN_TTL_MINUTES", 15)) * time.Minute,
		RefreshTokenTTL:   time.Duration(getEnvAsInt("REFRESH_TOKEN_TTL_HOURS", 168)) * time.Hour,
		RevalidateURL:     getEnv("REVALIDATE_URL", ""),
		RevalidateSecret:  getEnv("REVALIDATE_SECRET", ""),
		WorkerPoolSize:    getEnvAsInt("WORKER_POOL_SIZE", 4),
		PageCacheTTL:      time.Duration(getEnvAsInt("PAGE_CACHE_TTL_MINUTES", 60)) * time.Minute,
		FrontendAddress:   getEnv("FRONTEND_ADDRESS", "https://careers.example.com"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// generateRandomSecret returns a hex encoded random secret of length bytes
func generateRandomSecret(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("failed to generate secret: %v", err)
	}
	return hex.EncodeToString(buf)
}
