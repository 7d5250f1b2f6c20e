package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// TEXT BUILDER: plain multi-line chart summary
// ============================================================================

// TextOrder lists palaces the way summaries print them: the eight outer
// palaces first, the center last.
var TextOrder = []int{1, 2, 3, 4, 6, 7, 8, 9, CenterPalace}

// BuildText renders a chart summary followed by one line per palace.
func BuildText(r *ChartResult) string {
	if r == nil {
		return ""
	}
	var b strings.Builder

	p := r.Pillars
	fmt.Fprintf(&b, "时间: %s\n", r.Timestamp)
	fmt.Fprintf(&b, "四柱: %s %s %s %s\n", p.Year, p.Month, p.Day, p.Hour)
	fmt.Fprintf(&b, "节气: %s  %s%s%d局\n", r.SolarTerm, r.Pattern.Era, r.Pattern.Polarity, r.Pattern.Number)
	fmt.Fprintf(&b, "旬首: 甲%s(%s)  值符: %s  值使: %s  天乙: %s\n",
		r.Xun.HeadBranch, r.Xun.HiddenStem, r.ChiefStar, r.ChiefGate, orDash(r.TianYi))
	fmt.Fprintf(&b, "马星: %s  日空: %s  时空: %s\n",
		orDash(r.HorseBranch), strings.Join(r.Void.Day, ""), strings.Join(r.Void.Hour, ""))
	if len(r.Chongdong) > 0 {
		targets := make([]string, len(r.Chongdong))
		for i, t := range r.Chongdong {
			targets[i] = t.Branch + ":" + AnnotationText(t.Text, t.Struck)
		}
		fmt.Fprintf(&b, "马星冲动: %s\n", strings.Join(targets, " "))
	}

	for _, n := range TextOrder {
		pal := r.Palaces[n]
		fmt.Fprintf(&b, "%d宫[%s] 神:%s 星:%s 门:%s 天:%s 地:%s\n",
			n, pal.Element, orDash(pal.God),
			joinOrDash(pal.HeavenStars), joinOrDash(pal.HeavenGates),
			joinOrDash(pal.HeavenStems), joinOrDash(pal.EarthStems))
	}
	return b.String()
}

// AnnotationText marks struck annotations with tildes.
func AnnotationText(text string, struck bool) string {
	if struck {
		return "~" + text + "~"
	}
	return text
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinOrDash(list []string) string {
	return orDash(strings.Join(list, ""))
}
