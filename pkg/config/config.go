package config

import (
	"os"
	"time"
)

const (
	defaultBodyLimit = 100 * 1024 * 1024
	defaultTimeout   = 60 * time.Second

	// DriverCloudinary transformation service backed by the Cloudinary REST API
	DriverCloudinary = "cloudinary"
	// DriverMinIO local development backend, stores originals in MinIO without transforming
	DriverMinIO = "minio"
)

// MediaService definition media_service YAML structure
type MediaService struct {
	Port string `mapstructure:"port"`
	IP   string `mapstructure:"ip"`

	PostgreSQL  DatabaseConfig    `mapstructure:"pg"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Transformer TransformerConfig `mapstructure:"transformer"`
	Upload      UploadConfig      `mapstructure:"upload"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Events      EventsConfig      `mapstructure:"events"`
}

// RedisConfig definition redis setting, empty Addr falls back to sentinel discovery
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	RedisDB  int    `mapstructure:"redis_db"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
	MaxOpenConns  int    `mapstructure:"max_open_conns"`
}

// TransformerConfig definition the external transformation service
type TransformerConfig struct {
	Driver          string        `mapstructure:"driver"`
	CloudName       string        `mapstructure:"cloud_name"`
	APIKey          string        `mapstructure:"api_key"`
	APISecret       string        `mapstructure:"api_secret"`
	APIBaseURL      string        `mapstructure:"api_base_url"`
	DeliveryBaseURL string        `mapstructure:"delivery_base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ImageFolder     string        `mapstructure:"image_folder"`
	VideoFolder     string        `mapstructure:"video_folder"`
	MinIO           MinIOConfig   `mapstructure:"minio"`
}

// MinIOConfig definition minio setting for the minio driver
type MinIOConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	BucketName    string        `mapstructure:"bucket_name"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	RetryCount    int           `mapstructure:"retry_count"`
}

// UploadConfig definition upload limits
type UploadConfig struct {
	BodyLimit int `mapstructure:"body_limit"`
}

// AuthConfig definition session token verification
type AuthConfig struct {
	JWTSecret    string `mapstructure:"jwt_secret"`
	Issuer       string `mapstructure:"issuer"`
	SessionCheck bool   `mapstructure:"session_check"`
}

// EventsConfig definition where upload events are published
type EventsConfig struct {
	Driver   string         `mapstructure:"driver"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

// RabbitMQConfig definition rabbitmq setting
type RabbitMQConfig struct {
	IP            string        `mapstructure:"ip"`
	Port          string        `mapstructure:"port"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	Queue         string        `mapstructure:"queue"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	RetryCount    int           `mapstructure:"retry_count"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Brokers       []string      `mapstructure:"brokers"`
	Topic         string        `mapstructure:"topic"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	RetryCount    int           `mapstructure:"retry_count"`
}

// SetDefaults fill the zero values the YAML left out
func (c *MediaService) SetDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.Upload.BodyLimit <= 0 {
		c.Upload.BodyLimit = defaultBodyLimit
	}
	c.Transformer.SetDefaults()
}

// SetDefaults fill transformer defaults and credentials from the environment
func (t *TransformerConfig) SetDefaults() {
	if t.Driver == "" {
		t.Driver = DriverCloudinary
	}
	if t.APIBaseURL == "" {
		t.APIBaseURL = "https://api.cloudinary.com/v1_1"
	}
	if t.DeliveryBaseURL == "" {
		t.DeliveryBaseURL = "https://res.cloudinary.com"
	}
	if t.Timeout <= 0 {
		t.Timeout = defaultTimeout
	}
	if t.ImageFolder == "" {
		t.ImageFolder = "nextjs-cloudinary-uploads"
	}
	if t.VideoFolder == "" {
		t.VideoFolder = "video-uploads"
	}
	if t.CloudName == "" {
		t.CloudName = firstEnv("CLOUDINARY_CLOUD_NAME", "NEXT_PUBLIC_CLOUDINARY_CLOUD_NAME")
	}
	if t.APIKey == "" {
		t.APIKey = os.Getenv("CLOUDINARY_API_KEY")
	}
	if t.APISecret == "" {
		t.APISecret = os.Getenv("CLOUDINARY_API_SECRET")
	}
}

// HasCredentials report whether cloud name, key and secret are all present
func (t TransformerConfig) HasCredentials() bool {
	return t.CloudName != "" && t.APIKey != "" && t.APISecret != ""
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
