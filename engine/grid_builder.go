package engine

import (
	"strconv"
	"strings"
)

// ============================================================================
// GRID BUILDER: 3×3 Luo Shu arrangement for terminal or web rendering
// ============================================================================

// LuoShu is the palace layout as drawn, south at the top.
var LuoShu = [3][3]int{
	{4, 9, 2},
	{3, 5, 7},
	{8, 1, 6},
}

// Element color palette.
var elementColors = map[string]string{
	"水": "#3B82F6",
	"木": "#10B981",
	"火": "#EF4444",
	"土": "#F59E0B",
	"金": "#A3A3A3",
}

// GridCell is one drawn palace.
type GridCell struct {
	Palace      int      `json:"palace"`
	Element     string   `json:"element"`
	Color       string   `json:"color"`
	Lines       []string `json:"lines"`
	Annotations []string `json:"annotations,omitempty"`
	Chief       bool     `json:"chief"` // holds the chief star on the heaven plate
}

// GridData is the whole square plus a header line.
type GridData struct {
	Title string         `json:"title"`
	Cells [3][3]GridCell `json:"cells"`
}

// BuildGrid arranges the palaces of r on the Luo Shu square.
func BuildGrid(r *ChartResult) *GridData {
	g := &GridData{}
	if r == nil {
		return g
	}
	g.Title = r.Timestamp + " " + r.SolarTerm + " " + r.Pattern.Polarity.String() + strconv.Itoa(r.Pattern.Number) + "局"

	for row, palaces := range LuoShu {
		for col, n := range palaces {
			p := r.Palaces[n]
			g.Cells[row][col] = GridCell{
				Palace:  n,
				Element: p.Element,
				Color:   elementColors[p.Element],
				Lines: []string{
					orDash(p.God),
					joinOrDash(p.HeavenStars) + " " + joinOrDash(p.HeavenStems),
					joinOrDash(p.HeavenGates) + " " + joinOrDash(p.EarthStems),
					strconv.Itoa(n) + p.Element,
				},
				Annotations: PalaceAnnotations(r, n),
				Chief:       containsString(p.HeavenStars, r.ChiefStar),
			}
		}
	}
	return g
}

// Text renders the grid with fixed-width cells for plain terminals.
func (g *GridData) Text() string {
	var b strings.Builder
	b.WriteString(g.Title)
	b.WriteByte('\n')
	for _, row := range g.Cells {
		height := 0
		for _, c := range row {
			if n := len(c.Lines) + len(c.Annotations); n > height {
				height = n
			}
		}
		for line := 0; line < height; line++ {
			for col, c := range row {
				if col > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(padCell(cellLine(c, line), 14))
			}
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat("-", 14*3+6))
		b.WriteByte('\n')
	}
	return b.String()
}

func cellLine(c GridCell, i int) string {
	if i < len(c.Lines) {
		return c.Lines[i]
	}
	i -= len(c.Lines)
	if i < len(c.Annotations) {
		return c.Annotations[i]
	}
	return ""
}

// padCell pads s to width display columns, counting CJK runes as two.
func padCell(s string, width int) string {
	w := 0
	for _, r := range s {
		if r >= 0x2E80 {
			w += 2
		} else {
			w++
		}
	}
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
