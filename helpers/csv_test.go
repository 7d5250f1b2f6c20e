package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/qimen/calendar"
	"github.com/spektr-org/qimen/engine"
	"github.com/spektr-org/qimen/refdata"
)

func TestParseStamps_Header(t *testing.T) {
	data := "label,Timestamp\nmorning,20250901060000\n,\nnoon, 20250901120000\n"
	stamps, err := ParseStamps(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"20250901060000", "20250901120000"}, stamps)
}

func TestParseStamps_NoHeader(t *testing.T) {
	data := "20250901060000\n20250901080000,extra\n"
	stamps, err := ParseStamps(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"20250901060000", "20250901080000"}, stamps)
}

func TestParseStamps_Invalid(t *testing.T) {
	data := "timestamp\n20250901060000\n2025-09-01\n"
	_, err := ParseStamps(strings.NewReader(data))
	require.Error(t, err)
	assert.True(t, errors.Is(err, calendar.ErrInvalidTimestamp))
	assert.Contains(t, err.Error(), "line 3")
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "cast_time", toSnakeCase("Cast Time"))
	assert.Equal(t, "cast_time", toSnakeCase("cast-time"))
}

func castFixed(t *testing.T, ts string) *engine.ChartResult {
	t.Helper()
	tables, err := refdata.Default()
	require.NoError(t, err)
	m := calendar.Moment{SolarTerm: "冬至"}
	for i, s := range []string{"甲子", "丙子", "甲子", "甲子"} {
		p, err := calendar.ParsePillar(s)
		require.NoError(t, err)
		switch i {
		case 0:
			m.Pillars.Year = p
		case 1:
			m.Pillars.Month = p
		case 2:
			m.Pillars.Day = p
		case 3:
			m.Pillars.Hour = p
		}
	}
	e, err := engine.New(tables,
		engine.WithCalendar(calendar.ResolverFunc(func(time.Time) (calendar.Moment, error) { return m, nil })),
		engine.WithLocation(time.UTC),
	)
	require.NoError(t, err)
	res, err := e.Cast(ts)
	require.NoError(t, err)
	return res
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, castFixed(t, "20240101000000")))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+9)
	assert.Equal(t, "timestamp", rows[0][0])
	assert.Len(t, rows[0], 1+len(engine.PalaceColumns))
	assert.Equal(t, "20240101000000", rows[1][0])
}

func TestWriteBatchCSV(t *testing.T) {
	results := []*engine.ChartResult{
		castFixed(t, "20240101000000"),
		nil,
		castFixed(t, "20240101020000"),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteBatchCSV(&buf, results))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+18)
	assert.Equal(t, "20240101020000", rows[len(rows)-1][0])
}
