package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMonitor()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.FeedPath) == "" {
		c.Paths.FeedPath = defaultFeedPath
	}
	if c.Paths.FeedPath, err = expandPath(c.Paths.FeedPath); err != nil {
		return fmt.Errorf("paths.feed_path: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("SKYWATCH_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeMonitor() {
	if c.Monitor.PollIntervalMinutes <= 0 {
		c.Monitor.PollIntervalMinutes = defaultPollIntervalMinutes
	}
	if c.Monitor.BatchSize <= 0 {
		c.Monitor.BatchSize = defaultBatchSize
	}
	if c.Monitor.BootstrapWindowDays <= 0 {
		c.Monitor.BootstrapWindowDays = defaultBootstrapWindowDays
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.WebhookURL = strings.TrimSpace(c.Notifications.WebhookURL)
	if c.Notifications.WebhookURL == "" {
		if value, ok := os.LookupEnv("SKYWATCH_WEBHOOK_URL"); ok {
			c.Notifications.WebhookURL = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "text":
		c.Logging.Format = "text"
	case "json":
	default:
		c.Logging.Format = "text"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
