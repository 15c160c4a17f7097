package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all process configuration, parsed from the environment once at
// startup and injected into the services that need it.
type Config struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	AWSRegion    string        `env:"AWS_REGION" envDefault:"us-east-1"`
	S3BucketName string        `env:"S3_BUCKET_NAME"`
	UploadURLTTL time.Duration `env:"UPLOAD_URL_TTL" envDefault:"5m"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}
