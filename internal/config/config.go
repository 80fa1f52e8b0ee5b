package config

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	ServerPort int

	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrateOnStart  bool

	RedisAddr     string
	RedisPassword string

	MinioEndpoint     string
	MinioAccessKey    string
	MinioSecretKey    string
	MinioUseSSL       bool
	MinioBucket       string
	DownloadURLExpiry time.Duration

	JWTPublicKey string

	RateLimitPerMinute int
	ProcessingTimeout  time.Duration
	Workers            int
	MaxUploadBytes     int64
	MaxDimension       int
	PreviewDimension   int
	TempDir            string
}

func setDefaults() {
	viper.SetDefault("MARIADB_MAX_OPEN_CONN", 10)
	viper.SetDefault("MARIADB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("MARIADB_CONN_MAX_LIFETIME", 300)
	viper.SetDefault("MIGRATE_ON_START", false)
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("MINIO_BUCKET", "conversions")
	viper.SetDefault("DOWNLOAD_URL_EXPIRY", 3600)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	viper.SetDefault("PROCESSING_TIMEOUT", 30)
	viper.SetDefault("WORKERS", runtime.NumCPU())
	viper.SetDefault("MAX_UPLOAD_MB", 100)
	viper.SetDefault("MAX_DIMENSION", 10000)
	viper.SetDefault("PREVIEW_DIMENSION", 800)
	viper.SetDefault("TEMP_DIR", os.TempDir())
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	setDefaults()

	if !viper.IsSet("SERVER_PORT") {
		return nil, fmt.Errorf("SERVER_PORT is required")
	}

	if viper.GetString("MINIO_ENDPOINT") != "" {
		if viper.GetString("MINIO_ACCESS_KEY") == "" {
			return nil, fmt.Errorf("MINIO_ACCESS_KEY is required when MINIO_ENDPOINT is set")
		}
		if viper.GetString("MINIO_SECRET_KEY") == "" {
			return nil, fmt.Errorf("MINIO_SECRET_KEY is required when MINIO_ENDPOINT is set")
		}
	}

	s := &Settings{
		ServerPort: viper.GetInt("SERVER_PORT"),

		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		MigrateOnStart:  viper.GetBool("MIGRATE_ON_START"),

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),

		MinioEndpoint:     viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:    viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:    viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:       viper.GetBool("MINIO_USE_SSL"),
		MinioBucket:       viper.GetString("MINIO_BUCKET"),
		DownloadURLExpiry: time.Duration(viper.GetInt("DOWNLOAD_URL_EXPIRY")) * time.Second,

		JWTPublicKey: viper.GetString("JWT_PUBLIC_KEY"),

		RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		ProcessingTimeout:  time.Duration(viper.GetInt("PROCESSING_TIMEOUT")) * time.Second,
		Workers:            viper.GetInt("WORKERS"),
		MaxUploadBytes:     viper.GetInt64("MAX_UPLOAD_MB") * 1024 * 1024,
		MaxDimension:       viper.GetInt("MAX_DIMENSION"),
		PreviewDimension:   viper.GetInt("PREVIEW_DIMENSION"),
		TempDir:            viper.GetString("TEMP_DIR"),
	}

	if s.RateLimitPerMinute <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", s.RateLimitPerMinute)
	}
	if s.Workers <= 0 {
		return nil, fmt.Errorf("WORKERS must be positive, got %d", s.Workers)
	}

	return s, nil
}
