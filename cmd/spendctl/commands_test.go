package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `id,date,category,amount,note
1,2024-02-03T10:00:00.000Z,Grocery,45.20,market
2,2024-02-10T10:00:00.000Z,Rent,900.00,
3,2024-01-20T10:00:00.000Z,Taxi,15.00,
`

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seededDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "spend.db")
	csvPath := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o600))

	out, err := runCmd(t, "import", "--db", dbPath, "--in", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 expenses")
	return dbPath
}

func TestRootCommand_Metadata(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, "spendctl", cmd.Use)
	names := []string{}
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"summary", "export", "import"}, names)
}

func TestSummaryCommand(t *testing.T) {
	dbPath := seededDB(t)

	out, err := runCmd(t, "summary", "--db", dbPath, "--now", "2024-02-15T12:00:00Z")

	require.NoError(t, err)
	assert.Contains(t, out, "Spent:   945.20")
	assert.Contains(t, out, "Budget:  0.00")
	assert.Contains(t, out, "Used:    100% (over budget)")
	assert.Contains(t, out, "market")
	assert.NotContains(t, out, "Taxi")
}

func TestSummaryCommand_JSONSortedByAmount(t *testing.T) {
	dbPath := seededDB(t)

	out, err := runCmd(t, "summary", "--db", dbPath, "--now", "2024-02-15T12:00:00Z", "--sort", "amount", "--json")
	require.NoError(t, err)

	var decoded struct {
		Expenses []struct {
			Category string `json:"category"`
		} `json:"expenses"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Expenses, 2)
	assert.Equal(t, "Rent", decoded.Expenses[0].Category)
}

func TestSummaryCommand_InvalidFlags(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "spend.db")

	_, err := runCmd(t, "summary", "--db", dbPath, "--sort", "category")
	assert.Error(t, err)

	_, err = runCmd(t, "summary", "--db", dbPath, "--now", "15/02/2024")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dbPath := seededDB(t)
	outPath := filepath.Join(t.TempDir(), "out.csv")

	_, err := runCmd(t, "export", "--db", dbPath, "--out", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,date,category,amount,note", lines[0])
	assert.Contains(t, lines[1], "Rent,900.00")
}

func TestImportCommand_InvalidRowWritesNothing(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "spend.db")
	csvPath := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("id,date,category,amount,note\n1,2024-02-03T10:00:00.000Z,Cinema,5.00,\n"), 0o600))

	_, err := runCmd(t, "import", "--db", dbPath, "--in", csvPath)
	require.Error(t, err)

	out, err := runCmd(t, "export", "--db", dbPath)
	require.NoError(t, err)
	assert.NotContains(t, out, "Cinema")
}

func TestImportCommand_MissingFlag(t *testing.T) {
	_, err := runCmd(t, "import", "--db", filepath.Join(t.TempDir(), "spend.db"))
	assert.Error(t, err)
}
