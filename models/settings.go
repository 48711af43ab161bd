package models

import (
	"fmt"
)

// UnitSystem selects the display units
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

// Theme selects the UI colour scheme
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// SupportedLanguages lists the languages with translation tables
var SupportedLanguages = []string{"es", "en", "fr", "de"}

// Settings are the user preferences
type Settings struct {
	Units         UnitSystem `json:"units"`
	Language      string     `json:"language"`
	Notifications bool       `json:"notifications"`
	AutoLocation  bool       `json:"autoLocation"`
	Theme         Theme      `json:"theme"`
}

// DefaultSettings returns the settings used when nothing is stored
func DefaultSettings() Settings {
	return Settings{
		Units:         Metric,
		Language:      "es",
		Notifications: true,
		AutoLocation:  true,
		Theme:         ThemeAuto,
	}
}

func validUnits(u UnitSystem) bool { return u == Metric || u == Imperial }

func validTheme(t Theme) bool { return t == ThemeAuto || t == ThemeLight || t == ThemeDark }

func validLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if lang == l {
			return true
		}
	}
	return false
}

// Validate rejects unknown enum values
func (s Settings) Validate() error {
	if !validUnits(s.Units) {
		return fmt.Errorf("unsupported unit system %q", s.Units)
	}
	if !validTheme(s.Theme) {
		return fmt.Errorf("unsupported theme %q", s.Theme)
	}
	if !validLanguage(s.Language) {
		return fmt.Errorf("unsupported language %q", s.Language)
	}
	return nil
}

// WithDefaults replaces every unsupported field by its default value and
// names the fields it reset. Valid fields are kept.
func (s Settings) WithDefaults() (Settings, []string) {
	d := DefaultSettings()
	var reset []string
	if !validUnits(s.Units) {
		s.Units = d.Units
		reset = append(reset, "units")
	}
	if !validLanguage(s.Language) {
		s.Language = d.Language
		reset = append(reset, "language")
	}
	if !validTheme(s.Theme) {
		s.Theme = d.Theme
		reset = append(reset, "theme")
	}
	return s, reset
}

// SettingsPatch is a partial update; nil fields are left unchanged
type SettingsPatch struct {
	Units         *UnitSystem `json:"units,omitempty"`
	Language      *string     `json:"language,omitempty"`
	Notifications *bool       `json:"notifications,omitempty"`
	AutoLocation  *bool       `json:"autoLocation,omitempty"`
	Theme         *Theme      `json:"theme,omitempty"`
}

// Apply returns a copy of s with the patch applied
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Units != nil {
		s.Units = *p.Units
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.AutoLocation != nil {
		s.AutoLocation = *p.AutoLocation
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	return s
}
