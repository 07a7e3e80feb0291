package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Store    StoreConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
	Business BusinessConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	StaticDir string
}

// APIConfig points at the backend ordering API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StoreConfig struct {
	// Backend is "memory" or "redis".
	Backend       string
	ViewTTL       time.Duration
	SweepInterval time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig is optional; an empty broker list disables event publishing.
type KafkaConfig struct {
	Brokers     []string
	TopicEvents string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

type BusinessConfig struct {
	AlertTTL         time.Duration
	SubmitLockTTL    time.Duration
	LineQuantityCap  int
	DefaultImagePath string
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	lineCap, _ := strconv.Atoi(getEnv("CART_LINE_MAX_QUANTITY", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port:      getEnv("PORT", "8080"),
			Env:       getEnv("ENV", "development"),
			StaticDir: getEnv("STATIC_DIR", "./static"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
			Timeout: getDuration("API_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Backend:       getEnv("VIEW_STORE", "memory"),
			ViewTTL:       getDuration("VIEW_TTL", 2*time.Hour),
			SweepInterval: getDuration("VIEW_SWEEP_INTERVAL", time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(getEnv("KAFKA_BROKERS", "")),
			TopicEvents: getEnv("KAFKA_TOPIC_STOREFRONT_EVENTS", "storefront-events"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
		},
		Business: BusinessConfig{
			AlertTTL:         getDuration("ALERT_TTL", 3*time.Second),
			SubmitLockTTL:    getDuration("SUBMIT_LOCK_TTL", 30*time.Second),
			LineQuantityCap:  lineCap,
			DefaultImagePath: getEnv("DEFAULT_IMAGE_PATH", "/picture/default.jpg"),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, api=%s, store=%s",
		cfg.Server.Env, cfg.Server.Port, cfg.API.BaseURL, cfg.Store.Backend)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using %s", key, raw, defaultVal)
		return defaultVal
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
