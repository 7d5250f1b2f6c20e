package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/qimen/calendar"
	"github.com/spektr-org/qimen/engine"
)

// ============================================================================
// CSV HELPER: timestamps in, palace tables out
// ============================================================================
// ParseStamps reads a batch input file (a "timestamp" column, or the first
// column when no header names one). WriteCSV and WriteBatchCSV export the
// palace table built by engine.BuildTable.
// ============================================================================

// ParseStamps reads casting timestamps from CSV data. Blank cells are
// skipped; malformed timestamps fail with calendar.ErrInvalidTimestamp and
// the line they came from.
func ParseStamps(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	col := 0
	var stamps []string
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		if line == 1 {
			if i, ok := headerColumn(row, "timestamp"); ok {
				col = i
				continue
			}
		}
		if col >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[col])
		if val == "" {
			continue
		}
		if _, err := calendar.ParseTimestamp(val, nil); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		stamps = append(stamps, val)
	}
	return stamps, nil
}

// WriteCSV writes the palace table of one chart with a header row.
func WriteCSV(w io.Writer, r *engine.ChartResult) error {
	return WriteBatchCSV(w, []*engine.ChartResult{r})
}

// WriteBatchCSV writes the palace tables of several charts under one header,
// prefixing each row with its chart's timestamp.
func WriteBatchCSV(w io.Writer, results []*engine.ChartResult) error {
	cw := csv.NewWriter(w)

	header := []string{"timestamp"}
	for _, c := range engine.PalaceColumns {
		header = append(header, c.Key)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, res := range results {
		if res == nil {
			continue
		}
		for _, row := range engine.BuildTable(res).Rows {
			if err := cw.Write(append([]string{res.Timestamp}, row...)); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// headerColumn finds key among header cells, comparing in snake case.
func headerColumn(header []string, key string) (int, bool) {
	for i, h := range header {
		if toSnakeCase(strings.TrimSpace(h)) == key {
			return i, true
		}
	}
	return 0, false
}

// toSnakeCase converts "Column Name" → "column_name".
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
