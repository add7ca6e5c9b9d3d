package service

import (
	"context"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/HoussamEddineSmati/SpendKiler/internal/websocket"
)

// SettingsService is the validation boundary for settings changes
type SettingsService struct {
	settingsRepo   domain.SettingsRepository
	eventPublisher websocket.EventPublisher
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo domain.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SettingsService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// GetSettings returns the stored settings
func (s *SettingsService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return s.settingsRepo.Get(ctx)
}

// UpdateSettings applies a partial update. Every field is validated before anything is
// written, so a rejected patch leaves the stored settings untouched.
func (s *SettingsService) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (*domain.Settings, error) {
	if patch.Salary != nil && patch.Salary.IsNegative() {
		return nil, domain.ErrInvalidSalary
	}
	if patch.CycleStartDay != nil && !domain.IsValidCycleStartDay(*patch.CycleStartDay) {
		return nil, domain.ErrInvalidCycleStartDay
	}
	if patch.Theme != nil && !patch.Theme.IsValid() {
		return nil, domain.ErrInvalidTheme
	}

	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if patch.Salary != nil {
		current.Salary = *patch.Salary
	}
	if patch.CycleStartDay != nil {
		current.CycleStartDay = *patch.CycleStartDay
	}
	if patch.Theme != nil {
		current.Theme = *patch.Theme
	}
	if patch.NotificationsEnabled != nil {
		current.NotificationsEnabled = *patch.NotificationsEnabled
	}

	updated, err := s.settingsRepo.Update(ctx, current)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.SettingsUpdated(updated))
	}
	return updated, nil
}

// ResolveTheme maps the stored preference to the theme to render
func ResolveTheme(theme domain.Theme, platformPrefersDark bool) domain.Theme {
	return theme.Resolve(platformPrefersDark)
}
