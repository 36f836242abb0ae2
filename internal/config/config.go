package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI           string
	DBName             string
	JWTSecret          string
	ImgBBKey           string
	ImgBBEndpoint      string
	CheckoutAPIBase    string
	CheckoutAPIKey     string
	CheckoutSuccessURL string
	CheckoutCancelURL  string
	AMQPURL            string
	OrderEventsQueue   string
	RequestTimeout     time.Duration
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:           getEnvOrDefault("MONGO_URI", ""),
		DBName:             getEnvOrDefault("DB_NAME", "gopts"),
		JWTSecret:          getEnvOrDefault("JWT_SECRET", ""),
		ImgBBKey:           getEnvOrDefault("IMGBB_API_KEY", ""),
		ImgBBEndpoint:      getEnvOrDefault("IMGBB_ENDPOINT", "https://api.imgbb.com/1/upload"),
		CheckoutAPIBase:    getEnvOrDefault("CHECKOUT_API_BASE", ""),
		CheckoutAPIKey:     getEnvOrDefault("CHECKOUT_API_KEY", ""),
		CheckoutSuccessURL: getEnvOrDefault("CHECKOUT_SUCCESS_URL", ""),
		CheckoutCancelURL:  getEnvOrDefault("CHECKOUT_CANCEL_URL", ""),
		AMQPURL:            getEnvOrDefault("AMQP_URL", ""),
		OrderEventsQueue:   getEnvOrDefault("ORDER_EVENTS_QUEUE", "order_events"),
		RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", 5, time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
