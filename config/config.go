package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort     int
	UseMemoryStore bool
	Database       DatabaseConfig
	Session        SessionConfig
	Redis          RedisConfig
	Mail           MailConfig
	Seed           SeedConfig
	Storage        StorageConfig
	MQ             MQConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// SessionConfig controls how the identity cookie is issued and resolved.
type SessionConfig struct {
	// Backend is "cookie" (signed token in the cookie) or "redis" (opaque id in the cookie).
	Backend    string
	Secret     string
	CookieName string
	// TTL of zero means the session never expires.
	TTL    time.Duration
	Secure bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MailConfig describes the outbound mail relay used for verification codes.
type MailConfig struct {
	// Driver is "smtp" or "log". The log driver prints messages instead of sending them.
	Driver   string
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SeedConfig struct {
	AdminUsername string
	AdminPassword string
}

type StorageConfig struct {
	Backend string
	Prefix  string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

type MQConfig struct {
	Backend  string
	Channel  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "edumanager"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "edumanager_db"),
		UseSSL:   getEnvBool("DB_SSL", false),
	}

	sessionConfig := SessionConfig{
		Backend:    strings.ToLower(getEnv("SESSION_BACKEND", "cookie")),
		Secret:     strings.TrimSpace(getEnv("SESSION_SECRET", "")),
		CookieName: getEnv("SESSION_COOKIE", "current_user"),
		TTL:        getEnvDuration("SESSION_TTL", 0),
		Secure:     getEnvBool("SESSION_SECURE", false),
	}

	mailConfig := MailConfig{
		Driver:   strings.ToLower(getEnv("MAIL_DRIVER", "smtp")),
		Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port:     getEnvInt("SMTP_PORT", 587),
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("MAIL_FROM", getEnv("SMTP_USERNAME", "")),
	}

	return Config{
		ServerPort:     getEnvInt("SERVER_PORT", 8000),
		UseMemoryStore: getEnvBool("USE_MEMORY_STORE", false),
		Database:       dbConfig,
		Session:        sessionConfig,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Mail: mailConfig,
		Seed: SeedConfig{
			AdminUsername: getEnv("SEED_ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", "123"),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnv("STORAGE_BACKEND", "minio")),
			Prefix:  getEnv("STORAGE_PREFIX", "snapshots"),
			Minio: MinioConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "edumanager"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			GCS: GCSConfig{
				Bucket:          getEnv("GCS_BUCKET", ""),
				ProjectID:       getEnv("GCS_PROJECT_ID", ""),
				CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
			},
		},
		MQ: MQConfig{
			Backend: strings.ToLower(getEnv("MQ_BACKEND", "none")),
			Channel: getEnv("MQ_CHANNEL", "edumanager.events"),
			RabbitMQ: RabbitMQConfig{
				URL:             getEnv("RABBITMQ_URL", ""),
				QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
				QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
				PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH", 10),
			},
			PubSub: PubSubConfig{
				ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
				CredentialsFile:    getEnv("PUBSUB_CREDENTIALS_FILE", ""),
				SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
			},
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
		if err != nil {
			return defaultValue
		}
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(strings.TrimSpace(valueStr)); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(strings.TrimSpace(valueStr)); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
