package config

import (
	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	MongoURL        string `mapstructure:"MONGO_URL"`
	MongoDatabase   string `mapstructure:"MONGO_DATABASE"`
	MongoCollection string `mapstructure:"MONGO_COLLECTION"`

	MinioURL      string `mapstructure:"MINIO_URL"`
	MinioLogin    string `mapstructure:"MINIO_LOGIN"`
	MinioPassword string `mapstructure:"MINIO_PASSWORD"`
	MinioBucket   string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL   bool   `mapstructure:"MINIO_USE_SSL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	NominatimURL string `mapstructure:"NOMINATIM_URL"`

	PageSize      int    `mapstructure:"PAGE_SIZE"`
	SourceWorkers int    `mapstructure:"SOURCE_WORKERS"`
	FetchTimeout  int    `mapstructure:"FETCH_TIMEOUT"` // in seconds
	DedupStrategy string `mapstructure:"DEDUP_STRATEGY"`
	SeenTTLHours  int    `mapstructure:"SEEN_TTL_HOURS"`
	StoreRetries  int    `mapstructure:"STORE_RETRIES"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present.
	// This allows configuration purely through environment variables in production.
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "listings")
	viper.SetDefault("MONGO_COLLECTION", "apartments")
	viper.SetDefault("MINIO_URL", "localhost:9000")
	viper.SetDefault("MINIO_BUCKET", "photos")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("PAGE_SIZE", 10)
	viper.SetDefault("SOURCE_WORKERS", 8)
	viper.SetDefault("FETCH_TIMEOUT", 30)
	viper.SetDefault("DEDUP_STRATEGY", "url")
	viper.SetDefault("SEEN_TTL_HOURS", 48)
	viper.SetDefault("STORE_RETRIES", 1)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
