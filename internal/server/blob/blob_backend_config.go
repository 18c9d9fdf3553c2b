package blob

import (
	"fmt"
	"time"

	"github.com/figurevault/figurevault/internal/utils"
)

const (
	ProviderS3    = "s3"
	ProviderMinio = "minio"

	DefaultUploadExpiry = 5 * time.Minute
)

type Config struct {
	Provider      string        `mapstructure:"provider"`
	Region        string        `mapstructure:"region"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Endpoint      string        `mapstructure:"endpoint"`
	PublicURL     string        `mapstructure:"public_url"`
	UseAccelerate bool          `mapstructure:"use_accelerate"`
	UploadExpiry  time.Duration `mapstructure:"upload_expiry"`
}

func (c *Config) Validate() error {
	switch c.Provider {
	case "", ProviderS3, ProviderMinio:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.Provider == ProviderMinio && c.Endpoint == "" {
		return fmt.Errorf("endpoint required for minio")
	}
	if c.Region == "" {
		return fmt.Errorf("region required")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access_key required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret_key required")
	}
	if c.Endpoint != "" && !utils.IsValidURL(c.Endpoint) {
		return fmt.Errorf("invalid endpoint URL %q", c.Endpoint)
	}
	if c.PublicURL != "" && !utils.IsValidURL(c.PublicURL) {
		return fmt.Errorf("invalid public_url %q", c.PublicURL)
	}
	if c.UploadExpiry < 0 {
		return fmt.Errorf("upload_expiry must not be negative")
	}
	return nil
}

func (c *Config) uploadExpiry() time.Duration {
	if c.UploadExpiry <= 0 {
		return DefaultUploadExpiry
	}
	return c.UploadExpiry
}

// NewBackend builds the backend selected by cfg.Provider.
func NewBackend(cfg *Config) (Backend, error) {
	switch cfg.Provider {
	case ProviderMinio:
		return NewMinioBackendWithConfig(cfg)
	case "", ProviderS3:
		return NewS3BackendWithConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
