package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                   int
	UploadDirectory        string
	DBPath                 string
	LogDirectory           string
	ModelPath              string
	MaxUploadSize          int64 // bytes
	MaxImagesPerSession    int
	SessionTTLMinutes      int
	FileTTLMinutes         int
	CleanupIntervalMinutes int
	ConfidenceThreshold    float64
	IOUThreshold           float64
	InputSize              int // fixed square input for the detector
	UploadsPerMinute       int // per-IP rate limit on the upload endpoint
	AllowedOrigin          string
}

func Load() *Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	return &Config{
		Port:                   getEnvAsInt("PORT", 8080),
		UploadDirectory:        getEnv("UPLOAD_DIR", filepath.Join(os.TempDir(), "visionpulse_uploads")),
		DBPath:                 getEnv("DB_PATH", filepath.Join(".", "visionpulse.db")),
		LogDirectory:           getEnv("LOG_DIR", filepath.Join(".", "logs")),
		ModelPath:              getEnv("MODEL_PATH", filepath.Join(".", "models", "yolov8n.onnx")),
		MaxUploadSize:          getEnvAsInt64("MAX_UPLOAD_SIZE", 10485760), // 10MB
		MaxImagesPerSession:    getEnvAsInt("MAX_IMAGES_PER_SESSION", 20),
		SessionTTLMinutes:      getEnvAsInt("SESSION_TTL_MINUTES", 30),
		FileTTLMinutes:         getEnvAsInt("FILE_TTL_MINUTES", 60),
		CleanupIntervalMinutes: getEnvAsInt("CLEANUP_INTERVAL_MINUTES", 10),
		ConfidenceThreshold:    getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.25),
		IOUThreshold:           getEnvAsFloat("IOU_THRESHOLD", 0.45),
		InputSize:              getEnvAsInt("INPUT_SIZE", 640),
		UploadsPerMinute:       getEnvAsInt("UPLOADS_PER_MINUTE", 10),
		AllowedOrigin:          getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
