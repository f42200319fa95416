package config

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/popframe/internal/logging"
)

// Watch reloads the file whenever it changes on disk and notifies
// OnConfigChange callbacks. Invalid edits are logged and ignored, as are
// writes that leave the decoded values unchanged (editors often save twice).
// Calling Watch again is a no-op.
func (m *Manager) Watch(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}
	log := logging.FromContext(logging.WithComponent(ctx, "config"))

	m.viper.OnConfigChange(func(e fsnotify.Event) {
		log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("config file changed")

		m.mu.Lock()
		var previous Config
		if m.config != nil {
			previous = *m.config
		}
		if err := m.reload(); err != nil {
			m.mu.Unlock()
			log.Warn().Err(err).Msg("invalid config, keeping previous values")
			return
		}
		if *m.config == previous {
			m.mu.Unlock()
			log.Trace().Msg("config unchanged")
			return
		}
		log.Info().Str("file", e.Name).Msg("config reloaded")
		m.notifyLocked()
	})
	m.viper.WatchConfig()

	m.watching = true
	return nil
}

// notifyLocked releases m.mu and then runs the callbacks, each with its own
// copy. The caller holds m.mu for write.
func (m *Manager) notifyLocked() {
	snapshot := *m.config
	callbacks := append(([]func(*Config))(nil), m.callbacks...)
	m.mu.Unlock()

	for _, cb := range callbacks {
		cfg := snapshot
		cb(&cfg)
	}
}

// OnConfigChange registers fn to run after each effective reload.
func (m *Manager) OnConfigChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// reload re-reads and decodes the file. The caller holds m.mu for write.
func (m *Manager) reload() error {
	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}
	cfg, err := m.decode()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}
