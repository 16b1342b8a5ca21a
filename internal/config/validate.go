package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMonitor(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.FeedPath) == "" {
		return errors.New("paths.feed_path must be set")
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateMonitor() error {
	if c.Monitor.BatchSize > 50 {
		return fmt.Errorf("monitor.batch_size %d exceeds the maximum of 50", c.Monitor.BatchSize)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	url := c.Notifications.WebhookURL
	if url == "" {
		return nil
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("notifications.webhook_url %q must be an http(s) URL", url)
	}
	return nil
}
