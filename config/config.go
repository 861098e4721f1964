package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Telegram TelegramConfig
	API      APIConfig
	Store    StoreConfig
}

type TelegramConfig struct {
	Token string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StoreConfig struct {
	Path string // sqlite file holding the per-table cart mirror
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	timeoutSec, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "15"))
	if timeoutSec <= 0 {
		timeoutSec = 15
	}

	return &Config{
		Telegram: TelegramConfig{
			Token: getEnv("TOKEN", ""),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		Store: StoreConfig{
			Path: getEnv("CART_DB_PATH", "cart.db"),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
