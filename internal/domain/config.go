package domain

import "time"

// Config represents the application configuration
type Config struct {
	Download     DownloadConfig     `mapstructure:"download"`
	History      HistoryConfig      `mapstructure:"history"`
	Server       ServerConfig       `mapstructure:"server"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	OutputDir          string        `mapstructure:"output_dir"`
	Quality            string        `mapstructure:"quality"`
	YTDLPBinary        string        `mapstructure:"ytdlp_binary"` // empty: go-ytdlp cache, then PATH
	FFmpegBinary       string        `mapstructure:"ffmpeg_binary"`
	AudioFormat        string        `mapstructure:"audio_format"`        // final compressed format
	IntermediateFormat string        `mapstructure:"intermediate_format"` // container yt-dlp extracts audio into
	SampleRate         int           `mapstructure:"sample_rate"`
	NoOverwrites       bool          `mapstructure:"no_overwrites"`
	CookieFile         string        `mapstructure:"cookie_file"`
	PlaylistTimeout    time.Duration `mapstructure:"playlist_timeout"` // bounds one playlist listing
}

// HistoryConfig contains settings for the download history database
type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DatabasePath string `mapstructure:"database_path"`
}

// ServerConfig contains settings for the read-only status server
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // notify-send, osascript
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Download: DownloadConfig{
			OutputDir:          "Downloads",
			Quality:            "720",
			FFmpegBinary:       "ffmpeg",
			AudioFormat:        "mp3",
			IntermediateFormat: "wav",
			SampleRate:         44100,
			NoOverwrites:       true,
			PlaylistTimeout:    60 * time.Second,
		},
		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: "$HOME/.downtube/history.db",
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8090,
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "downloader.log",
		},
	}
}
