package baserow

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the on-disk/env-sourced client configuration, grounded on the
// teacher's pkg/config Config/Load/Validate shape.
type Config struct {
	BaseURL   string `json:"base_url"`
	Token     string `json:"token"`
	BatchSize int    `json:"batch_size,omitempty"`
}

// Load reads a JSON config file from path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(KindFetch, "failed to read config file").withURL(path).withWrapped(err)
	}
	var c Config
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, newError(KindFetch, "failed to parse config file").withURL(path).withWrapped(err)
	}
	return &c, nil
}

// FromEnv builds a Config from BASEROW_URL, BASEROW_TOKEN, and the optional
// BASEROW_BATCH_SIZE environment variables.
func FromEnv() *Config {
	c := &Config{
		BaseURL: os.Getenv("BASEROW_URL"),
		Token:   os.Getenv("BASEROW_TOKEN"),
	}
	if raw := os.Getenv("BASEROW_BATCH_SIZE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			c.BatchSize = n
		}
	}
	return c
}

// Validate reports whether c is usable to construct a Client.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return newError(KindFieldValidation, fmt.Sprintf("base_url must be an http(s) URL, got %q", c.BaseURL))
	}
	if c.Token == "" {
		return newError(KindFieldValidation, "token is required")
	}
	if c.BatchSize < 0 {
		return newError(KindFieldValidation, fmt.Sprintf("batch_size must not be negative, got %d", c.BatchSize))
	}
	return nil
}

// NewClient constructs a Client from this configuration, applying any
// additional options after the config-derived ones so callers can still
// override a batch size or install a custom executor.
func (c *Config) NewClient(opts ...ClientOption) *Client {
	base := []ClientOption{}
	if c.BatchSize > 0 {
		base = append(base, WithBatchSize(c.BatchSize))
	}
	return NewClient(c.BaseURL, c.Token, append(base, opts...)...)
}
