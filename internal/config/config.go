package config

import (
	"os"
	"strconv"
	"time"

	"prediction_webapp/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Registration bonus pool
	BonusCapacity int64
	BonusAmount   int64
	BonusDeadline time.Time

	// API rate limiting
	APIRateLimit  int
	APIRateWindow int
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Бонусный пул (по умолчанию)
	bonusCapacity := int64(1000) // всего 1000 слотов
	if v := os.Getenv("BONUS_CAPACITY"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			bonusCapacity = n
		}
	}

	bonusAmount := int64(1000) // сумма бонуса на пользователя
	if v := os.Getenv("BONUS_AMOUNT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			bonusAmount = n
		}
	}

	// После дедлайна бонус не выдаётся
	bonusDeadline := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	if v := os.Getenv("BONUS_DEADLINE"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			bonusDeadline = t
		}
	}

	apiRateLimit := 120 // макс запросов за ->
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}

	apiRateWindow := 60 // -> 60 секунд
	if v := os.Getenv("API_RATE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = n
		}
	}

	return &Config{
		AppPort:       port,
		DatabaseURL:   dbURL,
		JWTSecret:     jwtSecret,
		RedisAddr:     redisAddr,
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		BonusCapacity: bonusCapacity,
		BonusAmount:   bonusAmount,
		BonusDeadline: bonusDeadline,
		APIRateLimit:  apiRateLimit,
		APIRateWindow: apiRateWindow,
	}
}
