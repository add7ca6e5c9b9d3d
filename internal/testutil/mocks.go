package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/HoussamEddineSmati/SpendKiler/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[int64]*domain.Expense
	nextID   int64
	mu       sync.Mutex

	// Override hooks for error injection
	CreateFn     func(ctx context.Context, expense *domain.Expense) (*domain.Expense, error)
	CreateManyFn func(ctx context.Context, expenses []*domain.Expense) ([]*domain.Expense, error)
	ListFn       func(ctx context.Context) ([]domain.Expense, error)
	DeleteFn     func(ctx context.Context, id int64) error
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int64]*domain.Expense),
		nextID:   1,
	}
}

// AddExpense seeds an expense, assigning an ID when none is set
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expense.ID == 0 {
		expense.ID = m.nextID
	}
	if expense.ID >= m.nextID {
		m.nextID = expense.ID + 1
	}
	m.Expenses[expense.ID] = expense
}

// Create stores a new expense
func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *expense
	created.ID = m.nextID
	m.nextID++
	m.Expenses[created.ID] = &created
	return &created, nil
}

// CreateMany stores all expenses or none. When CreateFn is set it is called per
// row and any error discards the whole batch.
func (m *MockExpenseRepository) CreateMany(ctx context.Context, expenses []*domain.Expense) ([]*domain.Expense, error) {
	if m.CreateManyFn != nil {
		return m.CreateManyFn(ctx, expenses)
	}
	if m.CreateFn != nil {
		for _, expense := range expenses {
			if _, err := m.CreateFn(ctx, expense); err != nil {
				return nil, err
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	created := make([]*domain.Expense, 0, len(expenses))
	for _, expense := range expenses {
		stored := *expense
		stored.ID = m.nextID
		m.nextID++
		m.Expenses[stored.ID] = &stored
		copied := stored
		created = append(created, &copied)
	}
	return created, nil
}

// GetByID retrieves an expense by ID
func (m *MockExpenseRepository) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expense, ok := m.Expenses[id]; ok {
		copied := *expense
		return &copied, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// List returns every expense ordered by date descending, then ID descending
func (m *MockExpenseRepository) List(ctx context.Context) ([]domain.Expense, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Expense, 0, len(m.Expenses))
	for _, expense := range m.Expenses {
		result = append(result, *expense)
	}
	slices.SortFunc(result, func(a, b domain.Expense) int {
		if a.Date != b.Date {
			if a.Date > b.Date {
				return -1
			}
			return 1
		}
		return int(b.ID - a.ID)
	})
	return result, nil
}

// Delete removes an expense
func (m *MockExpenseRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// MockSettingsRepository is a mock implementation of domain.SettingsRepository
type MockSettingsRepository struct {
	Settings    domain.Settings
	UpdateCalls int
	mu          sync.Mutex

	GetFn    func(ctx context.Context) (*domain.Settings, error)
	UpdateFn func(ctx context.Context, settings *domain.Settings) (*domain.Settings, error)
}

// NewMockSettingsRepository creates a MockSettingsRepository holding the seeded defaults
func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{Settings: domain.DefaultSettings()}
}

// SetSalary is a test helper for seeding the budget
func (m *MockSettingsRepository) SetSalary(amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Settings.Salary = decimal.NewFromInt(amount)
}

// Get returns the stored settings
func (m *MockSettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := m.Settings
	return &copied, nil
}

// Update replaces the stored settings
func (m *MockSettingsRepository) Update(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, settings)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	m.Settings = *settings
	copied := m.Settings
	return &copied, nil
}

// RecordingPublisher captures published events
type RecordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

// NewRecordingPublisher creates a new RecordingPublisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records the event
func (p *RecordingPublisher) Publish(event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []websocket.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]websocket.Event(nil), p.events...)
}

// Types returns the recorded event types in publish order
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

// FixedClock returns a clock function that always reports t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
