// Package config loads, validates and watches popframe's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	// POPFRAME_POPUPS_TRIGGER_DELAY_MS and friends map through AutomaticEnv.
	v.SetEnvPrefix("POPFRAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "POPFRAME_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind POPFRAME_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "POPFRAME_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind POPFRAME_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
// A default config file is written on first run.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			configFile := m.viper.ConfigFileUsed()
			if configFile == "" {
				configFile, _ = GetConfigFile()
			}
			return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
		}

		if createErr := m.createDefaultConfig(); createErr != nil {
			configDir, _ := GetConfigDir()
			return fmt.Errorf("failed to create default config at %s: %w", configDir, createErr)
		}
		if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
			return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
		}
	}
	return nil
}

// decode unmarshals, completes and validates the current viper state.
func (m *Manager) decode() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	if err := ensureDatabasePath(config); err != nil {
		return nil, err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func ensureDatabasePath(config *Config) error {
	if config.Database.Path != "" {
		return nil
	}
	dbPath, err := GetDatabaseFile()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	config.Database.Path = dbPath
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format == "text" {
		config.Logging.Format = "console"
	}
	if config.Logging.LogDir == "" {
		config.Logging.LogDir = getDefaultLogDir()
	}
	config.Preview.Script = strings.TrimSpace(config.Preview.Script)
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// Save validates cfg and writes it to the config file.
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	path := m.viper.ConfigFileUsed()
	if path == "" {
		var err error
		if path, err = GetConfigFile(); err != nil {
			return err
		}
	}
	if err := WriteConfigOrdered(cfg, path); err != nil {
		return err
	}

	// With Watch active the fsnotify callback reloads.
	if !m.watching {
		return m.reload()
	}
	return nil
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// createDefaultConfig creates a default configuration file.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Created default configuration file: %s\n", configFile)
	return nil
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.setPopupsDefaults(defaults)
	m.setLoggingDefaults(defaults)
	m.viper.SetDefault("database.path", defaults.Database.Path)
	m.setPreviewDefaults(defaults)
}

func (m *Manager) setPopupsDefaults(defaults *Config) {
	m.viper.SetDefault("popups.container_z_index", defaults.Popups.ContainerZIndex)
	m.viper.SetDefault("popups.breathing_room_x", defaults.Popups.BreathingRoomX)
	m.viper.SetDefault("popups.breathing_room_y", defaults.Popups.BreathingRoomY)
	m.viper.SetDefault("popups.breathing_room_y_tight", defaults.Popups.BreathingRoomYTight)
	m.viper.SetDefault("popups.trigger_delay_ms", defaults.Popups.TriggerDelayMs)
	m.viper.SetDefault("popups.fadeout_delay_ms", defaults.Popups.FadeoutDelayMs)
	m.viper.SetDefault("popups.fadeout_duration_ms", defaults.Popups.FadeoutDurationMs)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_files", defaults.Logging.MaxFiles)
}

func (m *Manager) setPreviewDefaults(defaults *Config) {
	m.viper.SetDefault("preview.breathing_room_x", defaults.Preview.BreathingRoomX)
	m.viper.SetDefault("preview.breathing_room_y", defaults.Preview.BreathingRoomY)
	m.viper.SetDefault("preview.breathing_room_y_tight", defaults.Preview.BreathingRoomYTight)
	m.viper.SetDefault("preview.frame_max_width", defaults.Preview.FrameMaxWidth)
	m.viper.SetDefault("preview.frame_max_height", defaults.Preview.FrameMaxHeight)
	m.viper.SetDefault("preview.frame_min_width", defaults.Preview.FrameMinWidth)
	m.viper.SetDefault("preview.frame_min_height", defaults.Preview.FrameMinHeight)
	m.viper.SetDefault("preview.script", defaults.Preview.Script)
}
