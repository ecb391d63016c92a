package logger

import (
	"context"
	"fmt"
	appConfig "gridstats/pkg/config"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes leveled structured entries to the console and to a
// temporary file that can later be shipped to a S3 bucket.
type Logger struct {
	*zap.SugaredLogger
	mu       sync.Mutex
	logFile  *os.File
	filePath string
}

// Create the log instance with a temporary file.
func CreateLogger() (*Logger, error) {
	f, err := os.CreateTemp("", "log-*.log")
	if err != nil {
		return nil, err
	}

	consoleConfig := zap.NewDevelopmentEncoderConfig()
	fileConfig := zap.NewProductionEncoderConfig()

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stderr), zapcore.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileConfig), zapcore.AddSync(f), zapcore.InfoLevel),
	)

	return &Logger{
		SugaredLogger: zap.New(core).Sugar(),
		logFile:       f,
		filePath:      f.Name(),
	}, nil
}

// CreateNop returns a logger that discards everything. Used on tests.
func CreateNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Clean the file contents.
func (l *Logger) CleanFile() {
	if l.logFile == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.logFile.Truncate(0)
	l.logFile.Seek(0, 0)
}

// Upload the accumulated log file to a s3 bucket.
func (l *Logger) UploadToS3Bucket(objectKey string) error {
	if l.logFile == nil {
		return fmt.Errorf("logger has no backing file")
	}

	// Flush anything buffered before shipping.
	l.Sync()

	if _, err := l.logFile.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to rewind file: %v", err)
	}

	// Get the config.
	cfg := aws.Config{
		Region: appConfig.Bucket.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				appConfig.Bucket.AccessKey,
				appConfig.Bucket.AccessSecret,
				"",
			),
		),
	}

	// Create the client. The custom endpoint serves buckets path style.
	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(appConfig.Bucket.Endpoint)
		o.UsePathStyle = true
	})

	// Run the put.
	_, err := s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(appConfig.Bucket.LogBucket),
		Key:    aws.String(objectKey),
		Body:   l.logFile,
		ACL:    types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3 bucket: %v", objectKey, err)
	}

	// Clean the file after sending.
	l.CleanFile()

	return nil
}
