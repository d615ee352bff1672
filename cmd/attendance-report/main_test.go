package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Employee Code,Name,Company Name,Function Name,Department Name,Attendance Date,Flag,Is Late,Shift In Time,Shift Out Time,In Time,Out Time
E1,Ana,Acme,Sales,North,2025-01-06,P,No,09:00,17:00,09:00,16:00
E2,Budi,Acme,Operations,South,2025-01-06,P,Yes,09:00,17:00,09:00,17:00
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "attendance.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs([]string{
		"-period", "week",
		"-level", "function",
		"-rate", "12.5",
		"-function-rate", "Sales=25",
		"-function-rate", "Operations = 7",
		"-function", "Sales,Operations",
		"-week", "1,2",
		"file.csv",
	})
	require.NoError(t, err)

	assert.Equal(t, "file.csv", opts.path)
	assert.Equal(t, "week", opts.request.Period)
	assert.Equal(t, "function", opts.request.Level)
	assert.Equal(t, "12.5", opts.rates.DefaultRate.Decimal.String())
	assert.Equal(t, "25", opts.rates.FunctionRates["Sales"].String())
	assert.Equal(t, "7", opts.rates.FunctionRates["Operations"].String())
	assert.Equal(t, []string{"Sales", "Operations"}, opts.request.Functions)
	assert.Equal(t, []int{1, 2}, opts.request.Weeks)
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"-period", "week"}},
		{"bad rate", []string{"-rate", "cheap", "f.csv"}},
		{"bad function rate", []string{"-function-rate", "Sales", "f.csv"}},
		{"negative function rate", []string{"-function-rate", "Sales=-1", "f.csv"}},
		{"bad week", []string{"-week", "first", "f.csv"}},
		{"unknown report", []string{"-report", "payroll", "f.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestRun_Metrics(t *testing.T) {
	path := writeSample(t, sampleCSV)

	var out bytes.Buffer
	require.NoError(t, run([]string{"-rate", "10", path}, &out))

	var got report.MetricsReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))

	assert.Equal(t, 2, got.Included)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "Acme", got.Rows[0].Company)
	assert.Equal(t, 2, got.Rows[0].MemberCount)
	assert.Equal(t, 1.0, got.Rows[0].LostHours)
	assert.Equal(t, "10.00", got.Rows[0].CostDisplay)
	assert.Empty(t, got.Warnings)
}

func TestRun_Adjacency(t *testing.T) {
	path := writeSample(t, sampleCSV)

	var out bytes.Buffer
	require.NoError(t, run([]string{"-report", "adjacency", "-level", "user", path}, &out))

	var got report.AdjacencyReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "user", got.Level)
	assert.Len(t, got.Rows, 2)
}

func TestRun_EmptySheet(t *testing.T) {
	path := writeSample(t, "Employee Code,Attendance Date\n")

	err := run([]string{path}, &bytes.Buffer{})
	assert.ErrorIs(t, err, attendance.ErrNoRecords)
}
