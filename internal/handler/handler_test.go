package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/HoussamEddineSmati/SpendKiler/internal/service"
	"github.com/HoussamEddineSmati/SpendKiler/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testNow is inside the cycle [2024-02-01, 2024-03-01) for a start day of 1
var testNow = time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	expenseRepo  *testutil.MockExpenseRepository
	settingsRepo *testutil.MockSettingsRepository
	publisher    *testutil.RecordingPublisher
	expenses     *service.ExpenseService
	settings     *service.SettingsService
	cycles       *service.CycleService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		expenseRepo:  testutil.NewMockExpenseRepository(),
		settingsRepo: testutil.NewMockSettingsRepository(),
		publisher:    testutil.NewRecordingPublisher(),
	}
	env.expenses = service.NewExpenseService(env.expenseRepo)
	env.expenses.SetEventPublisher(env.publisher)
	env.expenses.SetClock(testutil.FixedClock(testNow))
	env.settings = service.NewSettingsService(env.settingsRepo)
	env.settings.SetEventPublisher(env.publisher)
	env.cycles = service.NewCycleService(env.expenseRepo, env.settingsRepo)
	env.cycles.SetClock(testutil.FixedClock(testNow))
	return env
}

func (env *testEnv) addExpense(id int64, category domain.Category, amount int64, date string) {
	env.expenseRepo.AddExpense(&domain.Expense{
		ID:       id,
		Category: category,
		Amount:   decimal.NewFromInt(amount),
		Date:     date,
	})
}

func newRequestContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, "body: %s", rec.Body.String())
}
