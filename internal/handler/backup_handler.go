package handler

import (
	"net/http"

	"github.com/HoussamEddineSmati/SpendKiler/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// BackupHandler handles backup requests
type BackupHandler struct {
	backupService *service.BackupService
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// CreateBackup handles POST /backups
func (h *BackupHandler) CreateBackup(c echo.Context) error {
	result, err := h.backupService.CreateBackup(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "create backup")
	}

	log.Info().Str("key", result.Key).Int("expenses", result.ExpenseCount).Msg("Backup created")
	return c.JSON(http.StatusCreated, result)
}
