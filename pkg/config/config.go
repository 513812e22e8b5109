package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultCatalogPath = "config/testimonials.json"

type Config struct {
	ServerPort string

	CarouselName    string
	PageSize        int
	ExitDuration    time.Duration
	EnterDuration   time.Duration
	AutoPlayPeriod  time.Duration
	AutoPlayGrace   time.Duration
	AutoPlayEnabled bool
	SwipeThreshold  float64

	CatalogSource   string // file, http or mongo
	CatalogFilePath string
	CatalogWatch    bool
	CatalogURL      string

	MongoURI    string
	MongoDBName string
	MongoColl   string

	KafkaBrokers       []string // Empty disables Kafka
	KafkaFramesTopic   string
	KafkaCommandsTopic string
	KafkaDLQTopic      string
	KafkaGroupID       string

	OTelEnabled bool
}

// KafkaEnabled reports whether brokers are configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// MongoEnabled reports whether the catalog lives in MongoDB.
func (c *Config) MongoEnabled() bool {
	return c.CatalogSource == "mongo"
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		CarouselName:    getEnv("CAROUSEL_NAME", "testimonials"),
		PageSize:        getIntEnv("PAGE_SIZE", 1),
		ExitDuration:    getDurationEnv("EXIT_DURATION", 400*time.Millisecond),
		EnterDuration:   getDurationEnv("ENTER_DURATION", 400*time.Millisecond),
		AutoPlayPeriod:  getDurationEnv("AUTOPLAY_PERIOD", 8*time.Second),
		AutoPlayGrace:   getDurationEnv("AUTOPLAY_GRACE", time.Second),
		AutoPlayEnabled: getBoolEnv("AUTOPLAY_ENABLED", true),
		SwipeThreshold:  getFloatEnv("SWIPE_THRESHOLD", 50),

		CatalogSource:   strings.ToLower(getEnv("CATALOG_SOURCE", "file")),
		CatalogFilePath: catalogPath(getEnv("CATALOG_FILE_PATH", defaultCatalogPath)),
		CatalogWatch:    getBoolEnv("CATALOG_WATCH", false),
		CatalogURL:      getEnv("CATALOG_URL", "http://localhost:8081/testimonials"),

		MongoURI:    getEnv("MONGO_URI", ""),
		MongoDBName: getEnv("MONGO_DB_NAME", "carousel"),
		MongoColl:   getEnv("MONGO_COLLECTION", "testimonials"),

		KafkaBrokers:       getListEnv("KAFKA_BROKERS"),
		KafkaFramesTopic:   getEnv("KAFKA_FRAMES_TOPIC", "carousel_frames"),
		KafkaCommandsTopic: getEnv("KAFKA_COMMANDS_TOPIC", "carousel_commands"),
		KafkaDLQTopic:      getEnv("KAFKA_DLQ_TOPIC", "carousel_commands_dlq"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "carousel-commands-group"),

		OTelEnabled: getBoolEnv("OTEL_ENABLED", false),
	}
	return cfg
}

func catalogPath(path string) string {
	// If path doesn't exist, try fallback for convenience during dev/test if default was used
	if _, err := os.Stat(path); os.IsNotExist(err) && path == defaultCatalogPath {
		fallback := "../" + defaultCatalogPath
		if _, err := os.Stat(fallback); err == nil {
			return fallback
		}
	}
	return path
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		// Try parsing as duration string (e.g. "400ms", "8s")
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Try parsing as integer milliseconds
		if i, err := strconv.Atoi(value); err == nil {
			return time.Duration(i) * time.Millisecond
		}
	}
	return fallback
}

// getListEnv splits a comma-separated value, dropping empty entries.
func getListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
