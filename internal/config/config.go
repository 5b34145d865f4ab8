package config

import "os"

// Config carries the runtime settings read from the environment.
// godotenv is loaded by main before this is called.
type Config struct {
	HTTPAddr    string
	PostgresDSN string
	// RedisAddr is optional. When empty the broadcast bridge is disabled
	// and fan-out stays within this process.
	RedisAddr string
	UploadDir string
	JWTSecret string
}

func Load() Config {
	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		PostgresDSN: getenv("POSTGRES_DSN", "host=localhost user=user password=password dbname=roomchat port=5432 sslmode=disable"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		UploadDir:   getenv("UPLOAD_DIR", "./uploads"),
		JWTSecret:   getenv("JWT_SECRET", "dev-only-secret"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
