package service

import (
	"context"
	"errors"
	"testing"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/HoussamEddineSmati/SpendKiler/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateSettings_PartialPatch(t *testing.T) {
	repo := testutil.NewMockSettingsRepository()
	publisher := testutil.NewRecordingPublisher()
	svc := NewSettingsService(repo)
	svc.SetEventPublisher(publisher)

	salary := decimal.NewFromInt(7000)
	day := 25

	updated, err := svc.UpdateSettings(context.Background(), domain.SettingsPatch{
		Salary:        &salary,
		CycleStartDay: &day,
	})

	require.NoError(t, err)
	assert.Equal(t, "7000", updated.Salary.String())
	assert.Equal(t, 25, updated.CycleStartDay)
	assert.Equal(t, domain.ThemeSystem, updated.Theme)
	assert.True(t, updated.NotificationsEnabled)
	assert.Equal(t, []string{"settings.updated"}, publisher.Types())
}

func TestUpdateSettings_ThemeAndNotifications(t *testing.T) {
	repo := testutil.NewMockSettingsRepository()
	svc := NewSettingsService(repo)

	theme := domain.ThemeDark
	off := false

	updated, err := svc.UpdateSettings(context.Background(), domain.SettingsPatch{
		Theme:                &theme,
		NotificationsEnabled: &off,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, updated.Theme)
	assert.False(t, updated.NotificationsEnabled)
	assert.Equal(t, 1, updated.CycleStartDay)
}

func TestUpdateSettings_Rejections(t *testing.T) {
	negative := decimal.NewFromInt(-1)
	zeroDay := 0
	lateDay := 29
	badTheme := domain.Theme("sepia")
	goodDay := 10

	tests := []struct {
		name     string
		patch    domain.SettingsPatch
		expected error
	}{
		{"negative salary", domain.SettingsPatch{Salary: &negative}, domain.ErrInvalidSalary},
		{"day zero", domain.SettingsPatch{CycleStartDay: &zeroDay}, domain.ErrInvalidCycleStartDay},
		{"day 29", domain.SettingsPatch{CycleStartDay: &lateDay}, domain.ErrInvalidCycleStartDay},
		{"unknown theme", domain.SettingsPatch{Theme: &badTheme}, domain.ErrInvalidTheme},
		{"valid field with invalid field", domain.SettingsPatch{CycleStartDay: &goodDay, Salary: &negative}, domain.ErrInvalidSalary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockSettingsRepository()
			publisher := testutil.NewRecordingPublisher()
			svc := NewSettingsService(repo)
			svc.SetEventPublisher(publisher)

			_, err := svc.UpdateSettings(context.Background(), tt.patch)

			assert.True(t, errors.Is(err, tt.expected), "expected %v, got %v", tt.expected, err)
			assert.Equal(t, 0, repo.UpdateCalls)
			assert.Equal(t, domain.DefaultSettings(), repo.Settings)
			assert.Empty(t, publisher.Events())
		})
	}
}

func TestUpdateSettings_GetError(t *testing.T) {
	repo := testutil.NewMockSettingsRepository()
	repo.GetFn = func(ctx context.Context) (*domain.Settings, error) {
		return nil, domain.ErrSettingsNotFound
	}
	svc := NewSettingsService(repo)
	day := 3

	_, err := svc.UpdateSettings(context.Background(), domain.SettingsPatch{CycleStartDay: &day})

	assert.True(t, errors.Is(err, domain.ErrSettingsNotFound))
}

func TestGetSettings_Defaults(t *testing.T) {
	svc := NewSettingsService(testutil.NewMockSettingsRepository())

	settings, err := svc.GetSettings(context.Background())

	require.NoError(t, err)
	assert.True(t, settings.Salary.IsZero())
	assert.Equal(t, 1, settings.CycleStartDay)
	assert.Equal(t, domain.ThemeSystem, settings.Theme)
}

func TestResolveTheme(t *testing.T) {
	assert.Equal(t, domain.ThemeLight, ResolveTheme(domain.ThemeLight, true))
	assert.Equal(t, domain.ThemeDark, ResolveTheme(domain.ThemeDark, false))
	assert.Equal(t, domain.ThemeDark, ResolveTheme(domain.ThemeSystem, true))
	assert.Equal(t, domain.ThemeLight, ResolveTheme(domain.ThemeSystem, false))
}
