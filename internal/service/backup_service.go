package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/HoussamEddineSmati/SpendKiler/internal/export"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BackupURLExpiry is how long a backup download link stays valid
const BackupURLExpiry = 15 * time.Minute

// BackupStore is where CSV snapshots are written
type BackupStore interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// BackupResult describes a stored snapshot
type BackupResult struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	ExpenseCount int       `json:"expenseCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BackupService snapshots every expense as CSV into object storage
type BackupService struct {
	expenseRepo domain.ExpenseRepository
	store       BackupStore
	now         func() time.Time
}

// NewBackupService creates a new BackupService. A nil store disables backups.
func NewBackupService(expenseRepo domain.ExpenseRepository, store BackupStore) *BackupService {
	return &BackupService{
		expenseRepo: expenseRepo,
		store:       store,
		now:         time.Now,
	}
}

// SetClock overrides the clock used for object keys
func (s *BackupService) SetClock(now func() time.Time) {
	s.now = now
}

// Enabled reports whether a backup store is configured
func (s *BackupService) Enabled() bool {
	return s.store != nil
}

// CreateBackup uploads a CSV snapshot and returns a temporary download link
func (s *BackupService) CreateBackup(ctx context.Context) (*BackupResult, error) {
	if s.store == nil {
		return nil, domain.ErrBackupNotConfigured
	}

	expenses, err := s.expenseRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, expenses); err != nil {
		return nil, err
	}

	createdAt := s.now().UTC()
	key := fmt.Sprintf("backups/%s-%s.csv", createdAt.Format("20060102T150405Z"), uuid.New().String())

	if _, err := s.store.Upload(ctx, key, buf.Bytes(), export.ContentType); err != nil {
		return nil, err
	}

	url, err := s.store.GeneratePresignedURL(ctx, key, BackupURLExpiry)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("key", key).
		Int("expenses", len(expenses)).
		Msg("Backup created")

	return &BackupResult{
		Key:          key,
		URL:          url,
		ExpenseCount: len(expenses),
		CreatedAt:    createdAt,
	}, nil
}
