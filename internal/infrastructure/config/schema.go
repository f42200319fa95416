package config

import (
	"time"

	"github.com/bnema/popframe/internal/popup"
)

// Config represents the complete configuration for popframe.
type Config struct {
	// Popups holds the engine placement margins and lifecycle timings, in page pixels.
	Popups   PopupsConfig   `mapstructure:"popups" toml:"popups" json:"popups"`
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging" json:"logging"`
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database"`
	// Preview configures the terminal host used by `popframe preview`.
	Preview PreviewConfig `mapstructure:"preview" toml:"preview" json:"preview"`
}

// PopupsConfig controls frame placement and timing.
type PopupsConfig struct {
	ContainerZIndex     int     `mapstructure:"container_z_index" toml:"container_z_index" json:"container_z_index" jsonschema:"minimum=0"`
	BreathingRoomX      float64 `mapstructure:"breathing_room_x" toml:"breathing_room_x" json:"breathing_room_x"`
	BreathingRoomY      float64 `mapstructure:"breathing_room_y" toml:"breathing_room_y" json:"breathing_room_y"`
	BreathingRoomYTight float64 `mapstructure:"breathing_room_y_tight" toml:"breathing_room_y_tight" json:"breathing_room_y_tight"`
	// TriggerDelayMs is how long the pointer must rest on a target before its frame spawns.
	TriggerDelayMs    int `mapstructure:"trigger_delay_ms" toml:"trigger_delay_ms" json:"trigger_delay_ms" jsonschema:"minimum=0"`
	FadeoutDelayMs    int `mapstructure:"fadeout_delay_ms" toml:"fadeout_delay_ms" json:"fadeout_delay_ms" jsonschema:"minimum=0"`
	FadeoutDurationMs int `mapstructure:"fadeout_duration_ms" toml:"fadeout_duration_ms" json:"fadeout_duration_ms" jsonschema:"minimum=0"`
}

// LoggingConfig holds logging preferences.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`

	// File output, used by the preview host since it owns the terminal.
	LogDir    string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir"`
	MaxSizeMB int    `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=1"`
	MaxFiles  int    `mapstructure:"max_files" toml:"max_files" json:"max_files" jsonschema:"minimum=0"`
}

// DatabaseConfig holds database location.
type DatabaseConfig struct {
	// Path defaults to $XDG_DATA_HOME/popframe/popframe.sqlite when empty.
	Path string `mapstructure:"path" toml:"path" json:"path"`
}

// PreviewConfig sizes frames in terminal cells.
type PreviewConfig struct {
	BreathingRoomX      float64 `mapstructure:"breathing_room_x" toml:"breathing_room_x" json:"breathing_room_x"`
	BreathingRoomY      float64 `mapstructure:"breathing_room_y" toml:"breathing_room_y" json:"breathing_room_y"`
	BreathingRoomYTight float64 `mapstructure:"breathing_room_y_tight" toml:"breathing_room_y_tight" json:"breathing_room_y_tight"`
	FrameMaxWidth       int     `mapstructure:"frame_max_width" toml:"frame_max_width" json:"frame_max_width" jsonschema:"minimum=1"`
	FrameMaxHeight      int     `mapstructure:"frame_max_height" toml:"frame_max_height" json:"frame_max_height" jsonschema:"minimum=1"`
	FrameMinWidth       int     `mapstructure:"frame_min_width" toml:"frame_min_width" json:"frame_min_width" jsonschema:"minimum=1"`
	FrameMinHeight      int     `mapstructure:"frame_min_height" toml:"frame_min_height" json:"frame_min_height" jsonschema:"minimum=1"`
	// Script is an optional JavaScript file defining preparePopup(target).
	Script string `mapstructure:"script" toml:"script" json:"script"`
}

// Engine converts the section to the engine's configuration.
func (p PopupsConfig) Engine() popup.Config {
	return popup.Config{
		ContainerZIndex:     p.ContainerZIndex,
		BreathingRoomX:      p.BreathingRoomX,
		BreathingRoomY:      p.BreathingRoomY,
		BreathingRoomYTight: p.BreathingRoomYTight,
		TriggerDelay:        time.Duration(p.TriggerDelayMs) * time.Millisecond,
		FadeoutDelay:        time.Duration(p.FadeoutDelayMs) * time.Millisecond,
		FadeoutDuration:     time.Duration(p.FadeoutDurationMs) * time.Millisecond,
	}
}

// PreviewEngine returns the engine configuration for the terminal host:
// timings from the popups section, margins in cells from the preview section.
func (c *Config) PreviewEngine() popup.Config {
	cfg := c.Popups.Engine()
	cfg.BreathingRoomX = c.Preview.BreathingRoomX
	cfg.BreathingRoomY = c.Preview.BreathingRoomY
	cfg.BreathingRoomYTight = c.Preview.BreathingRoomYTight
	return cfg
}
