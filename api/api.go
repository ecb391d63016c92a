package main

import (
	"fmt"
	"gridstats/api/modules"
	"gridstats/api/routes"
	"gridstats/pkg/config"
	"gridstats/pkg/logger"
	"gridstats/pkg/redis"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Interval between log shipments to the bucket.
const logShipInterval = time.Hour

func main() {
	// Load the environment variables if not running on Docker.
	if os.Getenv("ENVIRONMENT") != "docker" {
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Error loading .env file")
		}
	}

	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger, err := logger.CreateLogger()
	if err != nil {
		log.Fatalf("Couldn't create the logger: %v", err)
	}
	defer appLogger.Sync()

	redisClient := redis.GetClient()
	defer redisClient.Close()

	// Ship the accumulated log file when a bucket is configured.
	if config.Bucket.LogBucket != "" {
		go shipLogs(appLogger)
	}

	// Create a module with all necessary handlers.
	module := modules.NewModule(appLogger, redisClient)

	// Create a new router with the routes setup.
	router := routes.NewRouter(module.Router)
	router.SetupRoutes(
		module.SeriesHandler,
		module.TeamHandler,
	)

	// Start the server.
	if err := router.Run(":8080"); err != nil {
		appLogger.Fatalw("server stopped", "error", err)
	}
}

// Periodically send the accumulated log file to the s3 bucket.
func shipLogs(appLogger *logger.Logger) {
	for {
		time.Sleep(logShipInterval)

		objectKey := fmt.Sprintf("api/%s.log", time.Now().Format("2006-01-02-15-04"))
		if err := appLogger.UploadToS3Bucket(objectKey); err != nil {
			log.Printf("Couldn't send the log to s3: %v", err)

			// Clean the file in the case it was a S3 error and not a file error.
			appLogger.CleanFile()
		} else {
			log.Printf("Successfully sent log to s3 with key: %s", objectKey)
		}
	}
}
