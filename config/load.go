package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile  = "config.yaml"
	defaultDatabaseURL = "mongodb://localhost:27017"
	defaultPort        = 3010
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		AppEnv: "development",
		Server: ServerConfig{Port: defaultPort},
		Database: DatabaseConfig{
			Name:                   "photographyContestDB",
			CollectionContestsName: "contestInfo",
			CollectionEntriesName:  "contestPicture",
			CollectionUserName:     "users",
			ConnectTimeout:         10 * time.Second,
		},
		ImageHost: ImageHostConfig{Provider: "cloudinary", S3Region: "us-east-1"},
		Log:       LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order. A .env file in the working directory is loaded
// into the environment first. Missing .env and YAML files are not errors.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.Server.Host = getEnv("HOST", cfg.Server.Host)
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT env variable: %w", err)
		}
		cfg.Server.Port = p
	}

	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Cluster = getEnv("DB_CLUSTER", cfg.Database.Cluster)
	cfg.Database.Name = getEnv("DATABASE_NAME", cfg.Database.Name)

	cfg.ImageHost.Provider = getEnv("IMAGE_HOST", cfg.ImageHost.Provider)
	cfg.ImageHost.CloudName = getEnv("CLOUD_NAME", cfg.ImageHost.CloudName)
	cfg.ImageHost.APIKey = getEnv("API_KEY", cfg.ImageHost.APIKey)
	cfg.ImageHost.APISecret = getEnv("API_SECRET", cfg.ImageHost.APISecret)
	cfg.ImageHost.Folder = getEnv("CLOUDINARY_FOLDER", cfg.ImageHost.Folder)
	cfg.ImageHost.S3Bucket = getEnv("S3_BUCKET", cfg.ImageHost.S3Bucket)
	cfg.ImageHost.S3Region = getEnv("S3_REGION", cfg.ImageHost.S3Region)
	cfg.ImageHost.S3AccessKey = getEnv("S3_ACCESS_KEY", cfg.ImageHost.S3AccessKey)
	cfg.ImageHost.S3SecretKey = getEnv("S3_SECRET_KEY", cfg.ImageHost.S3SecretKey)
	cfg.ImageHost.S3Endpoint = getEnv("S3_ENDPOINT", cfg.ImageHost.S3Endpoint)
	cfg.ImageHost.PublicURL = getEnv("S3_PUBLIC_URL", cfg.ImageHost.PublicURL)
	if width := os.Getenv("IMAGE_MAX_WIDTH"); width != "" {
		w, err := strconv.ParseUint(width, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid IMAGE_MAX_WIDTH env variable: %w", err)
		}
		cfg.ImageHost.MaxWidth = uint(w)
	}

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	return nil
}

// getEnv gets environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
