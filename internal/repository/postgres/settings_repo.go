package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository implements domain.SettingsRepository using PostgreSQL
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

const settingsColumns = "salary, cycle_start_day, theme, notifications_enabled"

func scanSettings(row pgx.Row) (*domain.Settings, error) {
	var (
		settings domain.Settings
		salary   pgtype.Numeric
		day      int16
		theme    string
	)
	if err := row.Scan(&salary, &day, &theme, &settings.NotificationsEnabled); err != nil {
		return nil, err
	}
	settings.Salary = pgNumericToDecimal(salary)
	settings.CycleStartDay = int(day)
	settings.Theme = domain.Theme(theme)
	return &settings, nil
}

// Get returns the settings row
func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	settings, err := scanSettings(r.pool.QueryRow(ctx,
		`SELECT `+settingsColumns+` FROM settings WHERE id = 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// Update overwrites the settings row
func (r *SettingsRepository) Update(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	salary, err := decimalToPgNumeric(settings.Salary)
	if err != nil {
		return nil, err
	}

	updated, err := scanSettings(r.pool.QueryRow(ctx,
		`UPDATE settings
		 SET salary = $1, cycle_start_day = $2, theme = $3, notifications_enabled = $4, updated_at = NOW()
		 WHERE id = 1
		 RETURNING `+settingsColumns,
		salary, int16(settings.CycleStartDay), string(settings.Theme), settings.NotificationsEnabled,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		if isPgCheckViolation(err) {
			return nil, fmt.Errorf("update settings: %w", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return updated, nil
}
