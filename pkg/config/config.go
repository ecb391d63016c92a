package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Grid data provider configuration struct.
type GridConfiguration struct {
	ApiKey          string `validate:"required"`
	TitleId         string `validate:"required"`
	CentralURL      string `validate:"required,url"`
	LiveURL         string `validate:"required,url"`
	FileDownloadURL string `validate:"required,url"`
	StatsURL        string `validate:"required,url"`
}

// Redis configuration struct.
type RedisConfiguration struct {
	Host     string
	Port     string
	Password string
}

// Bucket configuration for the log shipping.
type BucketConfiguration struct {
	Region       string
	AccessKey    string
	AccessSecret string
	Endpoint     string
	LogBucket    string
}

var (
	Grid   GridConfiguration
	Redis  RedisConfiguration
	Bucket BucketConfiguration
)

// Load the variables and validate the required ones.
func LoadEnv() error {
	Grid.ApiKey = os.Getenv("GRID_API_KEY")
	Grid.TitleId = getEnv("GRID_TITLE_ID", "3")
	Grid.CentralURL = getEnv("GRID_CENTRAL_URL", "https://api.grid.gg/central-data/graphql")
	Grid.LiveURL = getEnv("GRID_LIVE_URL", "https://api.grid.gg/live-data-feed/series-state/graphql")
	Grid.FileDownloadURL = getEnv("GRID_FILE_DOWNLOAD_URL", "https://api.grid.gg/file-download")
	Grid.StatsURL = getEnv("GRID_STATS_URL", "https://api.grid.gg/stats-feed-gateway")

	// Load the Redis configuration.
	Redis.Host = os.Getenv("REDIS_HOST")
	Redis.Port = os.Getenv("REDIS_PORT")
	Redis.Password = os.Getenv("REDIS_PASSWORD")

	// Load the bucket configuration for the logs.
	Bucket.Region = os.Getenv("BUCKET_REGION")
	Bucket.AccessKey = os.Getenv("BUCKET_ACCESS_KEY")
	Bucket.AccessSecret = os.Getenv("BUCKET_ACCESS_SECRET")
	Bucket.Endpoint = os.Getenv("BUCKET_ENDPOINT")
	Bucket.LogBucket = os.Getenv("BUCKET_LOG_BUCKET")

	validate := validator.New()
	if err := validate.Struct(&Grid); err != nil {
		return fmt.Errorf("invalid Grid configuration: %w", err)
	}

	return nil
}

// getEnv returns the environment value or the passed default.
func getEnv(key string, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}
