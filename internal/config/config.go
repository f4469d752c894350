package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Supabase SupabaseConfig
	Backend  BackendConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Shop     ShopConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigins string
}

type SupabaseConfig struct {
	URL        string
	ServiceKey string
}

type BackendConfig struct {
	BaseURL string
}

type CacheConfig struct {
	Dir string
}

type AuthConfig struct {
	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string
	AdminName         string
	LoginAttempts     int
	LoginWindow       time.Duration
}

type ShopConfig struct {
	WhatsAppNumber string
}

// Default hash matches the development credential pair admin/admin123. Any
// deployment beyond a demo must set ADMIN_PASSWORD_HASH.
const devAdminPasswordHash = "$2b$10$j7d.4C8zXvMWaFR9dV5MmuAKIUjxJJEPPrxbzMXhMUzAmhFkGKKGa"

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			AllowOrigins: getEnv("ALLOW_ORIGINS", "http://localhost:5176,http://localhost:3000"),
		},
		Supabase: SupabaseConfig{
			URL:        getEnv("SUPABASE_URL", ""),
			ServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_URL", "http://localhost:8080"),
		},
		Cache: CacheConfig{
			Dir: getEnv("CACHE_DIR", "data"),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", "dev-secret-key-change-in-production"),
			AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", devAdminPasswordHash),
			AdminName:         getEnv("ADMIN_NAME", "Administrador"),
			LoginAttempts:     getEnvInt("LOGIN_RATE_ATTEMPTS", 5),
			LoginWindow:       getEnvDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
		},
		Shop: ShopConfig{
			WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "351961281939"),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		fmt.Printf("Warning: invalid duration for %s, using default\n", key)
	}
	return defaultValue
}
