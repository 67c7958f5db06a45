package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"trafficctl/internal/config"
	"trafficctl/internal/draftstore"
	"trafficctl/internal/logging"
	"trafficctl/internal/notify"
	"trafficctl/internal/services/traffic"
	"trafficctl/internal/session"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	sessionOnce sync.Once
	session     *session.Manager
	sessionErr  error

	notifierOnce sync.Once
	notifier     notify.Notifier
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) ensureSession() (*session.Manager, error) {
	c.sessionOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.sessionErr = err
			return
		}
		c.session, c.sessionErr = session.NewManager(cfg)
	})
	return c.session, c.sessionErr
}

func (c *commandContext) ensureNotifier() notify.Notifier {
	c.notifierOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.notifier = notify.NewConsole(os.Stderr)
			return
		}
		c.notifier = notify.NewService(cfg)
	})
	return c.notifier
}

// apiClient builds a backend client bound to the stored session.
func (c *commandContext) apiClient() (*traffic.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	manager, err := c.ensureSession()
	if err != nil {
		return nil, err
	}
	opts := []traffic.Option{traffic.WithLogger(c.ensureLogger())}
	if cfg.API.RequestTimeout > 0 {
		opts = append(opts, traffic.WithTimeout(time.Duration(cfg.API.RequestTimeout)*time.Second))
	}
	return traffic.New(cfg.API.BaseURL, manager, opts...)
}

// downloadClient builds a backend client with the longer download timeout.
func (c *commandContext) downloadClient() (*traffic.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	manager, err := c.ensureSession()
	if err != nil {
		return nil, err
	}
	opts := []traffic.Option{traffic.WithLogger(c.ensureLogger())}
	if cfg.API.DownloadTimeout > 0 {
		opts = append(opts, traffic.WithTimeout(time.Duration(cfg.API.DownloadTimeout)*time.Second))
	}
	return traffic.New(cfg.API.BaseURL, manager, opts...)
}

// withDraftStore opens the draft database for the duration of fn.
func (c *commandContext) withDraftStore(fn func(*draftstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := draftstore.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	c.ensureLogger().Debug("draft store opened", "path", store.Path())
	return fn(store)
}

// fallbackCoordinate returns the configured map default.
func (c *commandContext) fallbackCoordinate() (lat, lng float64) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return 0, 0
	}
	return cfg.Map.DefaultLatitude, cfg.Map.DefaultLongitude
}
