package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Log struct {
		Mode string `yaml:"mode"` // "development" or "production"
	} `yaml:"log"`

	Database struct {
		Driver   string `yaml:"driver"` // "mysql" or "postgres"
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint      string `yaml:"endpoint"`
		AccessKey     string `yaml:"accessKey"`
		SecretKey     string `yaml:"secretKey"`
		BucketName    string `yaml:"bucketName"`
		Region        string `yaml:"region"`
		UseSSL        bool   `yaml:"useSSL"`
		ExpiryMinutes int    `yaml:"expiryMinutes"`
	} `yaml:"minio"`

	Vision struct {
		Provider        string `yaml:"provider"` // "gcp" or "openai"
		CredentialsFile string `yaml:"credentialsFile"`
		APIKey          string `yaml:"apiKey"`
		Model           string `yaml:"model"`
		TimeoutSeconds  int    `yaml:"timeoutSeconds"`
	} `yaml:"vision"`

	Analysis struct {
		DualMode        bool  `yaml:"dualMode"`
		CooldownMinutes int   `yaml:"cooldownMinutes"`
		HeuristicSeed   int64 `yaml:"heuristicSeed"`
		MinLatencyMS    int   `yaml:"minLatencyMs"`
		MaxLatencyMS    int   `yaml:"maxLatencyMs"`
	} `yaml:"analysis"`

	Auth struct {
		// tenant -> API key
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity     int `yaml:"capacity"`
		RefillPerSec int `yaml:"refillPerSec"`
	} `yaml:"rateLimit"`
}

// Load reads config.yaml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
	if cfg.Vision.Provider == "" {
		cfg.Vision.Provider = "gcp"
	}
	return &cfg, nil
}

// MySQLDSN builds the MySQL connection string.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds the Postgres connection string.
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		ssl,
	)
}

// MinioExpiry returns the presigned URL lifetime.
func (c *Config) MinioExpiry() time.Duration {
	if c.Minio.ExpiryMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.Minio.ExpiryMinutes) * time.Minute
}

// AnalysisCooldown returns the duplicate-admission window.
func (c *Config) AnalysisCooldown() time.Duration {
	if c.Analysis.CooldownMinutes <= 0 {
		return 0
	}
	return time.Duration(c.Analysis.CooldownMinutes) * time.Minute
}

// VisionTimeout returns the per-call vendor timeout.
func (c *Config) VisionTimeout() time.Duration {
	if c.Vision.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Vision.TimeoutSeconds) * time.Second
}
