// Package config holds runtime configuration for the price comparator.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds feed, cache, and runtime settings.
type Config struct {
	FeedURL         string
	Timeout         time.Duration
	UserAgent       string
	MaxRetries      int
	RetryBackoff    time.Duration
	RetryBackoffMax time.Duration
	CacheTTL        time.Duration
	MetricsAddr     string
	Verbose         bool
}

// DefaultConfig returns defaults matching the published community sheet.
func DefaultConfig() *Config {
	return &Config{
		FeedURL:         "https://docs.google.com/spreadsheets/d/e/2PACX-1vTQuWn9iSZkiuiaA5--9CSqfJ6NBxrCK_ClWfKH_es49sSWQkVEvkIB0h6Ow0EKZkHBwhN7IveSW7LR/pub?gid=1059501700&single=true&output=csv",
		Timeout:         25 * time.Second,
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		MaxRetries:      2,
		RetryBackoff:    200 * time.Millisecond,
		RetryBackoffMax: 2 * time.Second,
		CacheTTL:        2 * time.Minute,
		MetricsAddr:     "",
		Verbose:         false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.FeedURL == "" {
		return fmt.Errorf("feed URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.FeedURL)
	if err != nil {
		return fmt.Errorf("invalid feed URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("feed URL must include a host")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax < 0 {
		return fmt.Errorf("retry backoff max cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry backoff (%s) cannot exceed retry backoff max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}

	return nil
}

// EnvString reads a string environment variable.
func EnvString(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	return value, ok
}

// EnvInt reads an integer environment variable.
func EnvInt(name string) (int, bool, error) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", name, err)
	}
	return value, true, nil
}

// EnvDuration reads a duration environment variable (e.g. "2m", "30s").
func EnvDuration(name string) (time.Duration, bool, error) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return 0, false, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", name, err)
	}
	return value, true, nil
}
