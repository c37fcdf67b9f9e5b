package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	AppEnv    string          `yaml:"app_env"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	ImageHost ImageHostConfig `yaml:"image_host"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig describes the MongoDB deployment. URL wins over the
// User/Password/Cluster triple when both are set.
type DatabaseConfig struct {
	URL                    string        `yaml:"url"`
	User                   string        `yaml:"user"`
	Password               string        `yaml:"password"`
	Cluster                string        `yaml:"cluster"`
	Name                   string        `yaml:"name"`
	CollectionContestsName string        `yaml:"collection_contests"`
	CollectionEntriesName  string        `yaml:"collection_entries"`
	CollectionUserName     string        `yaml:"collection_users"`
	ConnectTimeout         time.Duration `yaml:"connect_timeout"`
}

// ImageHostConfig selects and configures the image host.
type ImageHostConfig struct {
	Provider string `yaml:"provider"` // "cloudinary" or "s3"

	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`

	S3Bucket    string `yaml:"s3_bucket"`
	S3Region    string `yaml:"s3_region"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	PublicURL   string `yaml:"public_url"`

	// MaxWidth downscales wider images before upload; 0 disables it.
	MaxWidth uint `yaml:"max_width"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// IsDevelopment checks if the current environment is development
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction checks if the current environment is production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetDatabaseName returns the appropriate database name based on environment
func (c *Config) GetDatabaseName() string {
	return c.Database.Name
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MongoURI returns the connection string for the configured deployment.
func (d *DatabaseConfig) MongoURI() string {
	if d.URL != "" {
		return d.URL
	}
	if d.User == "" || d.Cluster == "" {
		return defaultDatabaseURL
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Cluster,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

// IsAtlas reports whether the URI targets an SRV (Atlas style) deployment.
func (d *DatabaseConfig) IsAtlas() bool {
	return strings.HasPrefix(d.MongoURI(), "mongodb+srv://")
}
