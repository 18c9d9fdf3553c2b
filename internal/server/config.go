package server

import (
	"errors"
	"fmt"

	"github.com/figurevault/figurevault/internal/server/blob"
	"github.com/figurevault/figurevault/internal/server/upload"
	"github.com/figurevault/figurevault/internal/utils"
	"github.com/ulule/limiter/v3"
)

const (
	DefaultAddr      = "127.0.0.1:8080"
	DefaultRateLimit = "120-M"
)

type Config struct {
	HTTP   HTTPConfig    `mapstructure:"http"`
	Blob   blob.Config   `mapstructure:"blob"`
	Upload upload.Config `mapstructure:"upload"`
	LogDir string        `mapstructure:"log_dir"`
}

type HTTPConfig struct {
	Addr         string   `mapstructure:"addr"`
	CertFile     string   `mapstructure:"cert_file"`
	KeyFile      string   `mapstructure:"key_file"`
	RateLimit    string   `mapstructure:"rate_limit"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

func (c *HTTPConfig) TLSEnabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

func (c *HTTPConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return errors.New("cert_file and key_file must be set together")
	}
	if c.RateLimit != "" {
		if _, err := limiter.NewRateFromFormatted(c.RateLimit); err != nil {
			return fmt.Errorf("rate_limit: %w", err)
		}
	}
	for _, origin := range c.AllowOrigins {
		if !utils.IsValidURL(origin) {
			return fmt.Errorf("allow_origins: invalid origin %q", origin)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}
	if err := c.Blob.Validate(); err != nil {
		return fmt.Errorf("blob config: %w", err)
	}
	if err := c.Upload.Validate(); err != nil {
		return fmt.Errorf("upload config: %w", err)
	}
	return nil
}
