package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yourusername/downtube-go/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. DOWNTUBE_DOWNLOAD_QUALITY
const EnvPrefix = "DOWNTUBE"

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	// A missing .env is normal
	_ = godotenv.Load()

	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.downtube")
		v.AddConfigPath("/etc/downtube")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// bindEnvKeys registers every known key so AutomaticEnv applies even without a config file
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"download.output_dir",
		"download.quality",
		"download.ytdlp_binary",
		"download.ffmpeg_binary",
		"download.audio_format",
		"download.intermediate_format",
		"download.sample_rate",
		"download.no_overwrites",
		"download.cookie_file",
		"download.playlist_timeout",
		"history.enabled",
		"history.database_path",
		"server.host",
		"server.port",
		"notification.enabled",
		"notification.method",
		"logging.level",
		"logging.format",
		"logging.output_path",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.OutputDir = expandPath(config.Download.OutputDir)
	config.Download.CookieFile = expandPath(config.Download.CookieFile)
	config.History.DatabasePath = expandPath(config.History.DatabasePath)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.Contains(path, "$HOME") {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}

	path = os.ExpandEnv(path)

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Download.OutputDir == "" {
		return fmt.Errorf("download output directory not configured")
	}

	if config.Download.Quality == "" {
		return fmt.Errorf("download quality not configured")
	}

	if config.Download.AudioFormat == "" {
		return fmt.Errorf("audio format not configured")
	}

	if config.Download.SampleRate < 0 {
		return fmt.Errorf("sample rate cannot be negative")
	}

	if config.Download.PlaylistTimeout < 0 {
		return fmt.Errorf("playlist timeout cannot be negative")
	}

	if config.History.Enabled && config.History.DatabasePath == "" {
		return fmt.Errorf("history database path not configured")
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	if config.Logging.OutputPath == "" {
		config.Logging.OutputPath = "downloader.log"
	}

	return nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *domain.Config, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("download.output_dir", config.Download.OutputDir)
	v.Set("download.quality", config.Download.Quality)
	v.Set("download.ytdlp_binary", config.Download.YTDLPBinary)
	v.Set("download.ffmpeg_binary", config.Download.FFmpegBinary)
	v.Set("download.audio_format", config.Download.AudioFormat)
	v.Set("download.intermediate_format", config.Download.IntermediateFormat)
	v.Set("download.sample_rate", config.Download.SampleRate)
	v.Set("download.no_overwrites", config.Download.NoOverwrites)
	v.Set("download.cookie_file", config.Download.CookieFile)
	v.Set("download.playlist_timeout", config.Download.PlaylistTimeout.String())
	v.Set("history.enabled", config.History.Enabled)
	v.Set("history.database_path", config.History.DatabasePath)
	v.Set("server.host", config.Server.Host)
	v.Set("server.port", config.Server.Port)
	v.Set("notification.enabled", config.Notification.Enabled)
	v.Set("notification.method", config.Notification.Method)
	v.Set("logging.level", config.Logging.Level)
	v.Set("logging.format", config.Logging.Format)
	v.Set("logging.output_path", config.Logging.OutputPath)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
