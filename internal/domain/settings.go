package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Cycle start day bounds. Every month has days 1-28, so no month-length overflow is possible.
const (
	MinCycleStartDay = 1
	MaxCycleStartDay = 28
)

// Theme is the user's colour scheme preference
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// IsValid reports whether t is a known theme
func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// Resolve maps the preference to a concrete light/dark theme given the platform preference
func (t Theme) Resolve(platformPrefersDark bool) Theme {
	switch t {
	case ThemeLight, ThemeDark:
		return t
	}
	if platformPrefersDark {
		return ThemeDark
	}
	return ThemeLight
}

// Settings is the single settings record
type Settings struct {
	Salary               decimal.Decimal `json:"salary"`
	CycleStartDay        int             `json:"cycleStartDay"`
	Theme                Theme           `json:"theme"`
	NotificationsEnabled bool            `json:"notificationsEnabled"`
}

// DefaultSettings mirrors the seeded settings row
func DefaultSettings() Settings {
	return Settings{
		Salary:               decimal.Zero,
		CycleStartDay:        MinCycleStartDay,
		Theme:                ThemeSystem,
		NotificationsEnabled: true,
	}
}

// SettingsPatch is a partial settings update; nil fields are left unchanged
type SettingsPatch struct {
	Salary               *decimal.Decimal
	CycleStartDay        *int
	Theme                *Theme
	NotificationsEnabled *bool
}

// IsValidCycleStartDay reports whether day can anchor a cycle
func IsValidCycleStartDay(day int) bool {
	return day >= MinCycleStartDay && day <= MaxCycleStartDay
}

// SettingsRepository is the persistence collaborator for settings
type SettingsRepository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, settings *Settings) (*Settings, error)
}
