package service

import (
	"context"
	"sync"
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/HoussamEddineSmati/SpendKiler/internal/websocket"
	"github.com/rs/zerolog"
)

// ReminderWorker publishes a daily "log your expenses" reminder
type ReminderWorker struct {
	settingsRepo domain.SettingsRepository
	publisher    websocket.EventPublisher
	logger       zerolog.Logger
	hour         int
	minute       int
	interval     time.Duration
	now          func() time.Time
	lastSent     time.Time
	stopCh       chan struct{}
	doneCh       chan struct{}
	mu           sync.Mutex
	running      bool
	started      bool
}

// ReminderWorkerConfig holds configuration for the reminder worker
type ReminderWorkerConfig struct {
	Hour     int           // Local hour of the reminder
	Minute   int           // Local minute of the reminder
	Interval time.Duration // How often to check whether the reminder is due
}

// DefaultReminderWorkerConfig returns the 20:00 daily reminder
func DefaultReminderWorkerConfig() ReminderWorkerConfig {
	return ReminderWorkerConfig{
		Hour:     20,
		Minute:   0,
		Interval: 1 * time.Minute,
	}
}

// ReminderPayload is the body of a reminder.due event
type ReminderPayload struct {
	Message string    `json:"message"`
	DueAt   time.Time `json:"dueAt"`
}

// NewReminderWorker creates a new reminder worker
func NewReminderWorker(
	settingsRepo domain.SettingsRepository,
	publisher websocket.EventPublisher,
	logger zerolog.Logger,
	config ReminderWorkerConfig,
) *ReminderWorker {
	if config.Interval <= 0 {
		config.Interval = 1 * time.Minute
	}
	if config.Hour < 0 || config.Hour > 23 {
		config.Hour = 20
	}
	if config.Minute < 0 || config.Minute > 59 {
		config.Minute = 0
	}

	return &ReminderWorker{
		settingsRepo: settingsRepo,
		publisher:    publisher,
		logger:       logger.With().Str("component", "reminder_worker").Logger(),
		hour:         config.Hour,
		minute:       config.Minute,
		interval:     config.Interval,
		now:          time.Now,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// SetClock overrides the worker's clock
func (w *ReminderWorker) SetClock(now func() time.Time) {
	w.now = now
}

// Start begins checking for due reminders. A worker runs at most once;
// later calls are no-ops.
func (w *ReminderWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.running = true
	w.mu.Unlock()

	w.logger.Info().
		Dur("interval", w.interval).
		Time("next_reminder", w.NextReminder(w.now())).
		Msg("Starting reminder worker")

	go w.run(ctx)
}

// Stop gracefully stops the reminder worker
func (w *ReminderWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	// cleared under the lock so only one caller closes stopCh
	w.running = false
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping reminder worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Reminder worker stopped")
}

func (w *ReminderWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.setStopped()
			return
		case <-w.stopCh:
			w.setStopped()
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

func (w *ReminderWorker) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// reminderAt returns today's reminder instant in the location of now
func (w *ReminderWorker) reminderAt(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), w.hour, w.minute, 0, 0, now.Location())
}

// NextReminder returns the first reminder instant strictly after now
func (w *ReminderWorker) NextReminder(now time.Time) time.Time {
	next := w.reminderAt(now)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Check publishes the reminder when today's reminder time has passed and it has not
// been sent yet. It reports whether an event was published.
func (w *ReminderWorker) Check(ctx context.Context) bool {
	now := w.now()
	due := w.reminderAt(now)
	if now.Before(due) {
		return false
	}

	w.mu.Lock()
	alreadySent := !w.lastSent.Before(due)
	w.mu.Unlock()
	if alreadySent {
		return false
	}

	settings, err := w.settingsRepo.Get(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to load settings for reminder")
		return false
	}

	w.mu.Lock()
	w.lastSent = due
	w.mu.Unlock()

	if !settings.NotificationsEnabled {
		w.logger.Debug().Msg("Notifications disabled, skipping reminder")
		return false
	}

	w.publisher.Publish(websocket.ReminderDue(ReminderPayload{
		Message: "Don't forget to log today's expenses",
		DueAt:   due,
	}))
	w.logger.Info().Time("due_at", due).Msg("Published daily reminder")
	return true
}

// IsRunning returns whether the worker is currently running
func (w *ReminderWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
