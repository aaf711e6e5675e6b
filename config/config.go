package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	DefaultOriginalsSubDir  = "originals"
	DefaultThumbnailsSubDir = "thumbnails"
	DefaultWebSubDir        = "web"
)

const (
	defaultPhotoQueueSize   = 200
	defaultNumPhotoWorkers  = 4
	defaultThumbnailMaxSize = 400
	defaultWebMaxSize       = 2000
	defaultMaxUploadMB      = 64
)

type Config struct {
	// database connection string (Postgres DSN)
	DatabaseURL string

	// media storage configuration
	MediaStoragePath string // primary root for originals and generated assets
	OriginalsPath    string // full-calculated path for uploaded originals
	ThumbnailsPath   string // full-calculated path for thumbnails
	WebPath          string // full-calculated path for web-size variants

	// variant generation settings
	ThumbnailMaxSize int
	WebMaxSize       int
	MaxUploadBytes   int64

	// worker settings
	PhotoQueueSize  int
	NumPhotoWorkers int

	// auth
	JWTSecret string

	// face detection model paths (DNN, SSD res10)
	FaceNetConfigPath string
	FaceNetModelPath  string

	// external collaborators
	YouTubeAPIKey string

	// allowed browser origin for the SPA
	FrontendOrigin string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		logrus.Warnf("invalid %s '%s', using default %d: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	originalsSubDir := getEnvOrDefault("ORIGINALS_SUBDIR", DefaultOriginalsSubDir)
	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	webSubDir := getEnvOrDefault("WEB_SUBDIR", DefaultWebSubDir)

	cfg := Config{
		DatabaseURL:       dbURL,
		MediaStoragePath:  absMediaStorage,
		OriginalsPath:     filepath.Join(absMediaStorage, originalsSubDir),
		ThumbnailsPath:    filepath.Join(absMediaStorage, thumbSubDir),
		WebPath:           filepath.Join(absMediaStorage, webSubDir),
		ThumbnailMaxSize:  getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize),
		WebMaxSize:        getEnvIntOrDefault("WEB_MAX_SIZE", defaultWebMaxSize),
		MaxUploadBytes:    int64(getEnvIntOrDefault("MAX_UPLOAD_MB", defaultMaxUploadMB)) << 20,
		PhotoQueueSize:    getEnvIntOrDefault("PHOTO_QUEUE_SIZE", defaultPhotoQueueSize),
		NumPhotoWorkers:   getEnvIntOrDefault("NUM_PHOTO_WORKERS", defaultNumPhotoWorkers),
		JWTSecret:         jwtSecret,
		FaceNetConfigPath: getEnvOrDefault("FACE_NET_CONFIG_PATH", "./models/deploy.prototxt.txt"),
		FaceNetModelPath:  getEnvOrDefault("FACE_NET_MODEL_PATH", "./models/res10_300x300_ssd_iter_140000_fp16.caffemodel"),
		YouTubeAPIKey:     os.Getenv("YOUTUBE_API_KEY"),
		FrontendOrigin:    getEnvOrDefault("FRONTEND_ORIGIN", "http://localhost:5173"),
	}

	return cfg, nil
}
