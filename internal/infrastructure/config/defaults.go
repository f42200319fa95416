package config

const (
	// Popup defaults, in page pixels and milliseconds
	defaultContainerZIndex     = 10000
	defaultBreathingRoomX      = 12.0
	defaultBreathingRoomY      = 8.0
	defaultBreathingRoomYTight = -4.0
	defaultTriggerDelayMs      = 750
	defaultFadeoutDelayMs      = 100
	defaultFadeoutDurationMs   = 250

	// Logging defaults
	defaultLogMaxSizeMB = 10
	defaultLogMaxFiles  = 3

	// Preview defaults, in terminal cells
	defaultPreviewBreathingRoomX = 2.0
	defaultPreviewBreathingRoomY = 1.0
	defaultPreviewFrameMaxWidth  = 60
	defaultPreviewFrameMaxHeight = 14
	defaultPreviewFrameMinWidth  = 16
	defaultPreviewFrameMinHeight = 3
)

func getDefaultLogDir() string {
	logDir, err := GetLogDir()
	if err != nil {
		return ""
	}
	return logDir
}

// DefaultConfig returns the default configuration values for popframe.
func DefaultConfig() *Config {
	return &Config{
		Popups: PopupsConfig{
			ContainerZIndex:     defaultContainerZIndex,
			BreathingRoomX:      defaultBreathingRoomX,
			BreathingRoomY:      defaultBreathingRoomY,
			BreathingRoomYTight: defaultBreathingRoomYTight,
			TriggerDelayMs:      defaultTriggerDelayMs,
			FadeoutDelayMs:      defaultFadeoutDelayMs,
			FadeoutDurationMs:   defaultFadeoutDurationMs,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "console",
			LogDir:    getDefaultLogDir(),
			MaxSizeMB: defaultLogMaxSizeMB,
			MaxFiles:  defaultLogMaxFiles,
		},
		Database: DatabaseConfig{
			Path: "", // resolved to the XDG data dir on load
		},
		Preview: PreviewConfig{
			BreathingRoomX:      defaultPreviewBreathingRoomX,
			BreathingRoomY:      defaultPreviewBreathingRoomY,
			BreathingRoomYTight: 0,
			FrameMaxWidth:       defaultPreviewFrameMaxWidth,
			FrameMaxHeight:      defaultPreviewFrameMaxHeight,
			FrameMinWidth:       defaultPreviewFrameMinWidth,
			FrameMinHeight:      defaultPreviewFrameMinHeight,
		},
	}
}
