package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"weatherlux/datasource"
	"weatherlux/logger"
	"weatherlux/models"
)

// SettingsKey is the key the settings record is stored under
const SettingsKey = "weatherlux-settings"

// SettingsStore owns the user settings. Reads come from memory; writes go
// through Update or Save.
type SettingsStore struct {
	kv       KV
	mu       sync.RWMutex
	settings models.Settings
}

// NewSettingsStore creates a store holding the default settings until Load is called
func NewSettingsStore(kv KV) *SettingsStore {
	return &SettingsStore{kv: kv, settings: models.DefaultSettings()}
}

// Load reads the stored record and merges it over the defaults, so keys
// missing from an older record keep their default values. Unsupported
// values fall back to their defaults one field at a time; an unreadable
// record is ignored.
func (s *SettingsStore) Load(ctx context.Context) (models.Settings, error) {
	raw, ok, err := s.kv.Get(ctx, SettingsKey)
	if err != nil {
		return s.Get(), err
	}

	loaded := models.DefaultSettings()
	if ok {
		if err := json.Unmarshal(raw, &loaded); err != nil {
			logger.Warnf("ignoring unreadable settings: %v", err)
			loaded = models.DefaultSettings()
		} else {
			var reset []string
			if loaded, reset = loaded.WithDefaults(); len(reset) > 0 {
				logger.Warnf("reset unsupported settings to defaults: %s", strings.Join(reset, ", "))
			}
		}
	}

	s.mu.Lock()
	s.settings = loaded
	s.mu.Unlock()
	return loaded, nil
}

// Get returns the current settings
func (s *SettingsStore) Get() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update applies patch, validates the result and persists it. On error the
// settings are left unchanged.
func (s *SettingsStore) Update(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := patch.Apply(s.settings)
	if err := next.Validate(); err != nil {
		return s.settings, datasource.NewInvalidInput("update settings", err)
	}
	if err := s.write(ctx, next); err != nil {
		return s.settings, err
	}
	s.settings = next
	return next, nil
}

// Save persists the current settings
func (s *SettingsStore) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.write(ctx, s.settings)
}

func (s *SettingsStore) write(ctx context.Context, settings models.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return s.kv.Set(ctx, SettingsKey, raw)
}
