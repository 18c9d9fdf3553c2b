package upload

import (
	"fmt"
	"time"

	"github.com/figurevault/figurevault/internal/batch"
)

type Config struct {
	SignChunkSize      int           `mapstructure:"sign_chunk_size"`
	SignChunkDelay     time.Duration `mapstructure:"sign_chunk_delay"`
	MaxConcurrency     int           `mapstructure:"max_concurrency"`
	MaxMultipartMemory int64         `mapstructure:"max_multipart_memory"`
}

func DefaultConfig() Config {
	return Config{
		SignChunkSize:      batch.DefaultChunkSize,
		SignChunkDelay:     batch.DefaultChunkDelay,
		MaxConcurrency:     0,
		MaxMultipartMemory: 32 << 20,
	}
}

func (c *Config) Validate() error {
	if c.SignChunkSize <= 0 {
		return fmt.Errorf("sign_chunk_size must be positive")
	}
	if c.SignChunkDelay < 0 {
		return fmt.Errorf("sign_chunk_delay must not be negative")
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative")
	}
	if c.MaxMultipartMemory <= 0 {
		return fmt.Errorf("max_multipart_memory must be positive")
	}
	return nil
}
