package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/shopspring/decimal"
)

// SettingsRepository implements domain.SettingsRepository using SQLite
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row
func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	var (
		settings domain.Settings
		salary   string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT salary, cycle_start_day, theme, notifications_enabled FROM settings WHERE id = 1`,
	).Scan(&salary, &settings.CycleStartDay, &settings.Theme, &settings.NotificationsEnabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings.Salary, err = decimal.NewFromString(salary)
	if err != nil {
		return nil, fmt.Errorf("parse salary: %w", err)
	}
	return &settings, nil
}

// Update overwrites the settings row
func (r *SettingsRepository) Update(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE settings
		 SET salary = ?, cycle_start_day = ?, theme = ?, notifications_enabled = ?
		 WHERE id = 1`,
		settings.Salary.String(), settings.CycleStartDay, string(settings.Theme), settings.NotificationsEnabled,
	)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrSettingsNotFound
	}
	return r.Get(ctx)
}
