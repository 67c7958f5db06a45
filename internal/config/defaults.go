package config

const (
	defaultBaseURL             = "http://45.119.47.81:8000"
	defaultRequestTimeout      = 30
	defaultDownloadTimeout     = 300
	defaultStateDir            = "~/.local/share/trafficctl"
	defaultDownloadDir         = "~/Downloads"
	defaultLogDir              = "~/.local/share/trafficctl/logs"
	defaultLatitude            = 33.749
	defaultLongitude           = -84.388
	defaultPollInterval        = 30
	defaultPlaybackSpeed       = 0.5
	defaultNtfyRequestTimeout  = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:         defaultBaseURL,
			RequestTimeout:  defaultRequestTimeout,
			DownloadTimeout: defaultDownloadTimeout,
		},
		Paths: Paths{
			StateDir:    defaultStateDir,
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
		},
		Map: Map{
			DefaultLatitude:  defaultLatitude,
			DefaultLongitude: defaultLongitude,
		},
		Dashboard: Dashboard{
			PollInterval: defaultPollInterval,
		},
		Gallery: Gallery{
			PlaybackSpeed: defaultPlaybackSpeed,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
