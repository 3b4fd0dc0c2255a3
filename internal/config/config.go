package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	ChunkSize        int
	DegradedFallback bool
	SampleBootstrap  bool

	ServerAddr        string
	SessionSecret     string
	AdminPasswordHash string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		ChunkSize:        getEnvInt("CHUNK_SIZE", 20),
		DegradedFallback: getEnvBool("DEGRADED_FALLBACK", false),
		SampleBootstrap:  getEnvBool("SAMPLE_BOOTSTRAP", true),

		ServerAddr:        getEnv("SERVER_ADDR", ":8080"),
		SessionSecret:     getEnv("SESSION_SECRET", "marinequote-dev"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
