package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateMap(); err != nil {
		return err
	}
	if err := c.validateDashboard(); err != nil {
		return err
	}
	if err := c.validateGallery(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url must be set")
	}
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api.base_url %q is not a valid URL", c.API.BaseURL)
	}
	return nil
}

func (c *Config) validateMap() error {
	if c.Map.DefaultLatitude < -90 || c.Map.DefaultLatitude > 90 {
		return errors.New("map.default_latitude must be between -90 and 90")
	}
	if c.Map.DefaultLongitude < -180 || c.Map.DefaultLongitude > 180 {
		return errors.New("map.default_longitude must be between -180 and 180")
	}
	return nil
}

func (c *Config) validateDashboard() error {
	if c.Dashboard.PollInterval <= 0 {
		return errors.New("dashboard.poll_interval must be positive")
	}
	return nil
}

func (c *Config) validateGallery() error {
	if c.Gallery.PlaybackSpeed <= 0 {
		return errors.New("gallery.playback_speed must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
