package handler

import (
	"net/http"
	"strconv"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/HoussamEddineSmati/SpendKiler/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SettingsHandler handles settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// SettingsResponse is the stored settings plus the theme to render
type SettingsResponse struct {
	domain.Settings
	ResolvedTheme domain.Theme `json:"resolvedTheme"`
}

// UpdateSettingsRequest represents a partial settings update; omitted fields are unchanged
type UpdateSettingsRequest struct {
	Salary               *decimal.Decimal `json:"salary"`
	CycleStartDay        *int             `json:"cycleStartDay"`
	Theme                *string          `json:"theme"`
	NotificationsEnabled *bool            `json:"notificationsEnabled"`
}

// GetSettings handles GET /settings. The optional prefersDark query parameter is the
// client's platform colour scheme, used to resolve the "system" theme.
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings, err := h.settingsService.GetSettings(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get settings")
	}
	return c.JSON(http.StatusOK, newSettingsResponse(settings, prefersDark(c)))
}

// UpdateSettings handles PATCH /settings
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	patch := domain.SettingsPatch{
		Salary:               req.Salary,
		CycleStartDay:        req.CycleStartDay,
		NotificationsEnabled: req.NotificationsEnabled,
	}
	if req.Theme != nil {
		theme := domain.Theme(*req.Theme)
		patch.Theme = &theme
	}

	settings, err := h.settingsService.UpdateSettings(c.Request().Context(), patch)
	if err != nil {
		return handleServiceError(c, err, "update settings")
	}

	log.Info().
		Str("salary", settings.Salary.String()).
		Int("cycle_start_day", settings.CycleStartDay).
		Str("theme", string(settings.Theme)).
		Msg("Settings updated")

	return c.JSON(http.StatusOK, newSettingsResponse(settings, prefersDark(c)))
}

func newSettingsResponse(settings *domain.Settings, platformPrefersDark bool) SettingsResponse {
	return SettingsResponse{
		Settings:      *settings,
		ResolvedTheme: service.ResolveTheme(settings.Theme, platformPrefersDark),
	}
}

func prefersDark(c echo.Context) bool {
	v, err := strconv.ParseBool(c.QueryParam("prefersDark"))
	return err == nil && v
}
