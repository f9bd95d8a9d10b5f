package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Store        StoreConfig
	Database     DatabaseConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Cloudinary   CloudinaryConfig
	Queue        QueueConfig
	Registration RegistrationConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// StoreConfig 選擇活動與報名資料的儲存後端
type StoreConfig struct {
	Driver string // postgres | mongo
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// DevJWTSecret 僅供本機開發使用的預設簽章金鑰
const DevJWTSecret = "dev-secret"

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// UsesDevSecret 未設定 AUTH_JWT_SECRET 時為 true
func (a AuthConfig) UsesDevSecret() bool {
	return a.JWTSecret == DevJWTSecret
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Enabled 三個憑證都有設定時才啟用圖片上傳
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type QueueConfig struct {
	Driver             string // memory | redis
	BufferSize         int
	ConsumerID         string
	ClaimMinIdleTime   time.Duration
	MaxRetryCount      int
	ReadGroupBlockTime time.Duration
}

type RegistrationConfig struct {
	OrphanPolicy        string // keep | purge | hide
	MissingRegistration string // upcoming | epoch
}

var AppConfig *Config

func LoadConfig() *Config {
	// .env 不存在時直接使用環境變數
	_ = godotenv.Load()

	AppConfig = &Config{
		Server:       GetServerConfig(),
		Store:        StoreConfig{Driver: getEnv("STORE_DRIVER", "postgres")},
		Database:     GetDatabaseConfig(),
		Mongo:        GetMongoConfig(),
		Redis:        GetRedisConfig(),
		Auth:         GetAuthConfig(),
		Cloudinary:   GetCloudinaryConfig(),
		Queue:        GetQueueConfig(),
		Registration: GetRegistrationConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server:   ServerConfig{Port: "8080", AllowedOrigins: []string{"*"}},
		Store:    StoreConfig{Driver: "postgres"},
		Database: *testConfig,
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27018", // 測試 Mongo 用 27018 port
			Database: "test_db",
		},
		Redis: testRedisConfig,
		Auth:  AuthConfig{JWTSecret: "test-secret", Issuer: "campus-event-portal-test"},
		Queue: QueueConfig{
			Driver:     "memory",
			BufferSize: 16,
		},
		Registration: RegistrationConfig{
			OrphanPolicy:        "keep",
			MissingRegistration: "upcoming",
		},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetMongoConfig() MongoConfig {
	return MongoConfig{
		URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DB", "campus_events"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret: getEnv("AUTH_JWT_SECRET", DevJWTSecret),
		Issuer:    getEnv("AUTH_ISSUER", ""),
	}
}

func GetCloudinaryConfig() CloudinaryConfig {
	return CloudinaryConfig{
		CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		Folder:    getEnv("CLOUDINARY_FOLDER", "events"),
	}
}

func GetQueueConfig() QueueConfig {
	return QueueConfig{
		Driver:             getEnv("QUEUE_DRIVER", "redis"),
		BufferSize:         getEnvAsInt("QUEUE_BUFFER_SIZE", 256),
		ConsumerID:         getEnv("QUEUE_CONSUMER_ID", ""),
		ClaimMinIdleTime:   getEnvAsDuration("QUEUE_CLAIM_MIN_IDLE", 5*time.Second),
		MaxRetryCount:      getEnvAsInt("QUEUE_MAX_RETRY", 5),
		ReadGroupBlockTime: getEnvAsDuration("QUEUE_READ_BLOCK", 2*time.Second),
	}
}

func GetRegistrationConfig() RegistrationConfig {
	return RegistrationConfig{
		OrphanPolicy:        getEnv("ORPHAN_REGISTRATION_POLICY", "keep"),
		MissingRegistration: getEnv("STATUS_MISSING_REGISTRATION", "upcoming"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
