package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/spektr-org/qimen/engine"
	"github.com/spektr-org/qimen/helpers"
)

// render writes results in the named format.
func render(w io.Writer, format string, results []*engine.ChartResult) error {
	switch format {
	case "json", "pretty":
		var v interface{} = results
		if len(results) == 1 {
			v = results[0]
		}
		return writeJSON(w, v, format == "pretty")
	case "csv":
		return helpers.WriteBatchCSV(w, results)
	case "grid":
		for _, r := range results {
			fmt.Fprintln(w, renderGrid(engine.BuildGrid(r)))
		}
		return nil
	default:
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprint(w, engine.BuildText(r))
		}
		return nil
	}
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return nil
}

// ── Grid rendering ────────────────────────────────────────────────────────────

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cellStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(18)
	struckStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6"))
)

func renderGrid(g *engine.GridData) string {
	rows := make([]string, 0, len(g.Cells))
	for _, row := range g.Cells {
		cells := make([]string, 0, len(row))
		for _, c := range row {
			cells = append(cells, renderCell(c))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return titleStyle.Render(g.Title) + "\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(c engine.GridCell) string {
	lines := make([]string, 0, len(c.Lines)+len(c.Annotations))
	lines = append(lines, c.Lines...)
	for _, a := range c.Annotations {
		if strings.Contains(a, "~") {
			lines = append(lines, struckStyle.Render(strings.ReplaceAll(a, "~", "")))
		} else {
			lines = append(lines, noteStyle.Render(a))
		}
	}
	style := cellStyle.BorderForeground(lipgloss.Color(c.Color))
	if c.Chief {
		style = style.Bold(true)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// ── Metrics dump ──────────────────────────────────────────────────────────────

func dumpMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
