package config

const (
	defaultDataDir             = "~/.local/share/skywatch/data"
	defaultLogDir              = "~/.local/share/skywatch/logs"
	defaultFeedPath            = "~/.local/share/skywatch/transients.txt"
	defaultAPIBind             = "127.0.0.1:7519"
	defaultPollIntervalMinutes = 60
	defaultBatchSize           = 5
	defaultBootstrapWindowDays = 30
	defaultNotifyTimeout       = 10
	defaultLogFormat           = "text"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			FeedPath: defaultFeedPath,
			APIBind:  defaultAPIBind,
		},
		Monitor: Monitor{
			PollIntervalMinutes: defaultPollIntervalMinutes,
			BatchSize:           defaultBatchSize,
			BootstrapWindowDays: defaultBootstrapWindowDays,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Announcements:  true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
