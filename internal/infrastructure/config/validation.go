package config

import (
	"fmt"
	"strings"
)

// validateConfig checks every section and reports all problems at once.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validatePopups(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validatePreview(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validatePopups(config *Config) []string {
	var validationErrors []string
	p := config.Popups

	if p.ContainerZIndex < 0 {
		validationErrors = append(validationErrors, "popups.container_z_index must be non-negative")
	}
	delays := []struct {
		key string
		ms  int
	}{
		{"popups.trigger_delay_ms", p.TriggerDelayMs},
		{"popups.fadeout_delay_ms", p.FadeoutDelayMs},
		{"popups.fadeout_duration_ms", p.FadeoutDurationMs},
	}
	for _, d := range delays {
		if d.ms < 0 {
			validationErrors = append(validationErrors, fmt.Sprintf("%s must be non-negative (got: %d)", d.key, d.ms))
		}
	}
	if p.BreathingRoomX < 0 {
		validationErrors = append(validationErrors, "popups.breathing_room_x must be non-negative")
	}
	if p.BreathingRoomY < 0 {
		validationErrors = append(validationErrors, "popups.breathing_room_y must be non-negative")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level must be one of: trace, debug, info, warn, error (got: %s)",
			config.Logging.Level,
		))
	}
	switch config.Logging.Format {
	case "json", "console", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.format must be one of: console, json (got: %s)",
			config.Logging.Format,
		))
	}
	if config.Logging.MaxSizeMB < 1 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be at least 1")
	}
	if config.Logging.MaxFiles < 0 {
		validationErrors = append(validationErrors, "logging.max_files must be non-negative")
	}
	return validationErrors
}

func validatePreview(config *Config) []string {
	var validationErrors []string
	p := config.Preview

	if p.FrameMinWidth < 1 || p.FrameMinHeight < 1 {
		validationErrors = append(validationErrors, "preview.frame_min_width and frame_min_height must be positive")
	}
	if p.FrameMaxWidth < p.FrameMinWidth {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"preview.frame_max_width (%d) must be at least frame_min_width (%d)", p.FrameMaxWidth, p.FrameMinWidth))
	}
	if p.FrameMaxHeight < p.FrameMinHeight {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"preview.frame_max_height (%d) must be at least frame_min_height (%d)", p.FrameMaxHeight, p.FrameMinHeight))
	}
	if p.BreathingRoomX < 0 || p.BreathingRoomY < 0 {
		validationErrors = append(validationErrors, "preview.breathing_room_x and breathing_room_y must be non-negative")
	}
	return validationErrors
}
