package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Playback PlaybackConfig `mapstructure:"playback"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CatalogConfig holds movie database API configuration
type CatalogConfig struct {
	APIKey    string `mapstructure:"api_key"`    // TMDB API key
	BaseURL   string `mapstructure:"base_url"`   // API base URL
	ImageBase string `mapstructure:"image_base"` // Artwork base URL
	ImageSize string `mapstructure:"image_size"` // Artwork size segment (w500, original)
}

// BackendConfig holds hosted backend (auth + record store) configuration
type BackendConfig struct {
	URL          string `mapstructure:"url"`           // Project base URL
	AnonKey      string `mapstructure:"anon_key"`      // Public API key
	AccessToken  string `mapstructure:"access_token"`  // Session token, set after sign-in
	RefreshToken string `mapstructure:"refresh_token"` // Session refresh token
	AccountID    string `mapstructure:"account_id"`
	Email        string `mapstructure:"email"` // Display only
}

// PlaybackConfig holds embed player and progress-tracking configuration
type PlaybackConfig struct {
	EmbedURL     string        `mapstructure:"embed_url"`     // Embed URL template, %s = movie id
	OpenCommand  string        `mapstructure:"open_command"`  // Override for the platform opener
	TickInterval time.Duration `mapstructure:"tick_interval"` // Progress tick interval
	TickStep     float64       `mapstructure:"tick_step"`     // Percent added per tick
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme         string `mapstructure:"theme"`
	ActiveProfile string `mapstructure:"active_profile"` // Last selected profile id
	RailSize      int    `mapstructure:"rail_size"`      // Titles shown per browse rail
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:   "https://api.themoviedb.org/3",
			ImageBase: "https://image.tmdb.org/t/p",
			ImageSize: "w500",
		},
		Backend: BackendConfig{},
		Playback: PlaybackConfig{
			EmbedURL:     "https://multiembed.mov/directstream.php?video_id=%s&tmdb=1",
			TickInterval: 10 * time.Second,
			TickStep:     1.0,
		},
		UI: UIConfig{
			Theme:    "default",
			RailSize: 20,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "streamverse", "streamverse.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "streamverse", "streamverse.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "streamverse")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "streamverse")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "streamverse", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "streamverse", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("STREAMVERSE")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("catalog.api_key", cfg.Catalog.APIKey)
	viper.Set("catalog.base_url", cfg.Catalog.BaseURL)
	viper.Set("catalog.image_base", cfg.Catalog.ImageBase)
	viper.Set("catalog.image_size", cfg.Catalog.ImageSize)

	viper.Set("backend.url", cfg.Backend.URL)
	viper.Set("backend.anon_key", cfg.Backend.AnonKey)
	viper.Set("backend.access_token", cfg.Backend.AccessToken)
	viper.Set("backend.refresh_token", cfg.Backend.RefreshToken)
	viper.Set("backend.account_id", cfg.Backend.AccountID)
	viper.Set("backend.email", cfg.Backend.Email)

	viper.Set("playback.embed_url", cfg.Playback.EmbedURL)
	viper.Set("playback.open_command", cfg.Playback.OpenCommand)
	viper.Set("playback.tick_interval", cfg.Playback.TickInterval.String())
	viper.Set("playback.tick_step", cfg.Playback.TickStep)

	viper.Set("ui.theme", cfg.UI.Theme)
	viper.Set("ui.active_profile", cfg.UI.ActiveProfile)
	viper.Set("ui.rail_size", cfg.UI.RailSize)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	return writeConfigFile()
}

// SaveSession updates just the session fields after sign-in or refresh
func SaveSession(accessToken, refreshToken, accountID, email string) error {
	viper.Set("backend.access_token", accessToken)
	viper.Set("backend.refresh_token", refreshToken)
	viper.Set("backend.account_id", accountID)
	viper.Set("backend.email", email)
	return writeConfigFile()
}

// SaveActiveProfile persists the last selected profile id
func SaveActiveProfile(profileID string) error {
	viper.Set("ui.active_profile", profileID)
	return writeConfigFile()
}

// ClearSession removes the account session while preserving other settings
func ClearSession() error {
	viper.Set("backend.access_token", "")
	viper.Set("backend.refresh_token", "")
	viper.Set("backend.account_id", "")
	viper.Set("backend.email", "")
	viper.Set("ui.active_profile", "")
	return writeConfigFile()
}

func writeConfigFile() error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the catalog key and backend URL are set
func (c *Config) IsConfigured() bool {
	return c.Catalog.APIKey != "" && c.Backend.URL != "" && c.Backend.AnonKey != ""
}

// IsSignedIn returns true if a session token is held
func (c *Config) IsSignedIn() bool {
	return c.Backend.AccessToken != ""
}

// ClearCache removes all cached catalog data
func ClearCache() error {
	cachePath := defaultCachePath()
	if err := os.RemoveAll(cachePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// GetCachePath returns the cache directory path
func GetCachePath() string {
	return defaultCachePath()
}
