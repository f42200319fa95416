package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero delays", mutate: func(c *Config) {
			c.Popups.TriggerDelayMs = 0
			c.Popups.FadeoutDurationMs = 0
		}},
		{name: "negative trigger delay", mutate: func(c *Config) { c.Popups.TriggerDelayMs = -1 }, wantErr: "popups.trigger_delay_ms"},
		{name: "negative fade duration", mutate: func(c *Config) { c.Popups.FadeoutDurationMs = -10 }, wantErr: "popups.fadeout_duration_ms"},
		{name: "negative z-index", mutate: func(c *Config) { c.Popups.ContainerZIndex = -1 }, wantErr: "popups.container_z_index"},
		{name: "tight margin may be negative", mutate: func(c *Config) { c.Popups.BreathingRoomYTight = -20 }},
		{name: "unknown log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
		{name: "zero log size", mutate: func(c *Config) { c.Logging.MaxSizeMB = 0 }, wantErr: "logging.max_size_mb"},
		{name: "min frame width", mutate: func(c *Config) { c.Preview.FrameMinWidth = 0 }, wantErr: "preview.frame_min_width"},
		{name: "max below min", mutate: func(c *Config) { c.Preview.FrameMaxHeight = 2 }, wantErr: "preview.frame_max_height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
