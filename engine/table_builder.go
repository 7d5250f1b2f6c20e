package engine

import (
	"strconv"
	"strings"
)

// ============================================================================
// TABLE BUILDER: one row per palace
// ============================================================================

// PalaceColumns are the columns BuildTable emits, in order.
var PalaceColumns = []Column{
	{Key: "palace", Label: "Palace", Type: "text", Align: "center"},
	{Key: "element", Label: "Element", Type: "text", Align: "center"},
	{Key: "god", Label: "God", Type: "text", Align: "left"},
	{Key: "heaven_stars", Label: "Heaven Stars", Type: "list", Align: "left"},
	{Key: "heaven_gates", Label: "Heaven Gates", Type: "list", Align: "left"},
	{Key: "heaven_stems", Label: "Heaven Stems", Type: "list", Align: "left"},
	{Key: "earth_stems", Label: "Earth Stems", Type: "list", Align: "left"},
	{Key: "home_star", Label: "Home Star", Type: "text", Align: "left"},
	{Key: "home_gate", Label: "Home Gate", Type: "text", Align: "left"},
	{Key: "annotations", Label: "Annotations", Type: "list", Align: "left"},
}

// BuildTable produces a TableData with palaces 1..9 in numeric order and
// the chart-level values in the summary.
func BuildTable(r *ChartResult) *TableData {
	if r == nil {
		return &TableData{Columns: []Column{}, Rows: [][]string{}}
	}

	rows := make([][]string, 0, 9)
	for n := 1; n <= 9; n++ {
		p := r.Palaces[n]
		rows = append(rows, []string{
			strconv.Itoa(n),
			p.Element,
			p.God,
			strings.Join(p.HeavenStars, " "),
			strings.Join(p.HeavenGates, " "),
			strings.Join(p.HeavenStems, " "),
			strings.Join(p.EarthStems, " "),
			p.HomeStar,
			p.HomeGate,
			strings.Join(PalaceAnnotations(r, n), " "),
		})
	}

	return &TableData{
		Title:   r.Timestamp + " " + r.SolarTerm,
		Columns: PalaceColumns,
		Rows:    rows,
		Summary: &Summary{
			Label: r.Pattern.Era + r.Pattern.Polarity.String() + strconv.Itoa(r.Pattern.Number) + "局",
			Values: map[string]string{
				"chief_star": r.ChiefStar,
				"chief_gate": r.ChiefGate,
				"tian_yi":    r.TianYi,
				"horse":      r.HorseBranch,
				"xun":        "甲" + r.Xun.HeadBranch + r.Xun.HiddenStem,
			},
		},
	}
}

// PalaceAnnotations lists "<branch>:<text>" for every annotation on a
// branch that sits on palace n.
func PalaceAnnotations(r *ChartResult, n int) []string {
	var out []string
	for _, bp := range branchPalaces {
		if bp.Palace != n {
			continue
		}
		for _, a := range r.Annotations[bp.Branch] {
			out = append(out, bp.Branch+":"+AnnotationText(a.Text, a.Struck))
		}
	}
	return out
}
