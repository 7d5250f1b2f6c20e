package engine

import (
	"fmt"
)

// ============================================================================
// ANNOTATIONS: per-branch side notes
// ============================================================================
// Rules run over the finished palaces in a fixed order (clash, tomb, void,
// month, horse), then each branch's list goes through one merge pass.
// ============================================================================

// Kind classifies an annotation.
type Kind int

const (
	KindClash Kind = iota + 1
	KindTomb
	KindVoid
	KindMonthDominant
	KindHorse
	KindDoubled
)

var kindNames = map[Kind]string{
	KindClash:         "clash",
	KindTomb:          "tomb",
	KindVoid:          "void",
	KindMonthDominant: "month_dominant",
	KindHorse:         "horse",
	KindDoubled:       "doubled",
}

// String returns the lowercase kind name, or "" for an unknown kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return ""
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name; empty input yields the zero Kind.
func (k *Kind) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*k = 0
		return nil
	}
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown annotation kind %q", b)
}

// Annotation is one note attached to a branch. A doubled annotation keeps
// the kind it merged in Inner and how many records it replaced in Count.
type Annotation struct {
	Kind   Kind   `json:"kind"`
	Inner  Kind   `json:"inner,omitempty"`
	Count  int    `json:"count,omitempty"`
	Stem   string `json:"stem,omitempty"`
	Source string `json:"source,omitempty"` // "day" or "hour" for voids
	Struck bool   `json:"struck"`
	Text   string `json:"text"`
}

// Base returns the kind an annotation counts as, looking through doubling.
func (a Annotation) Base() Kind {
	if a.Kind == KindDoubled {
		return a.Inner
	}
	return a.Kind
}

// ── Rule tables ─────────────────────────────────────────────────────────────

var clashRules = []struct {
	Stem   string
	Palace int
	Branch string
}{
	{"戊", 3, "卯"},
	{"己", 2, "未"},
	{"庚", 8, "寅"},
	{"辛", 9, "午"},
	{"壬", 4, "辰"},
	{"癸", 4, "巳"},
}

var tombRules = []struct {
	Palace int
	Stems  []string
	Branch string
}{
	{8, []string{"丁", "己", "庚"}, "丑"},
	{4, []string{"辛", "壬"}, "辰"},
	{2, []string{"乙", "癸"}, "未"},
	{6, []string{"丙", "戊"}, "戌"},
}

const (
	voidSourceDay  = "day"
	voidSourceHour = "hour"
)

// Annotate evaluates every rule against r and returns one merged list per
// branch. Every branch of the reference table has an entry.
func (e *Engine) Annotate(r *ChartResult) map[string][]Annotation {
	raw := make(map[string][]Annotation, len(e.tables.Branches))
	add := func(branch string, a Annotation) {
		raw[branch] = append(raw[branch], a)
	}

	// ── Stem clash: one record per rule whose stem sits in its palace ────
	for _, rule := range clashRules {
		if containsString(palaceStems(r, rule.Palace), rule.Stem) {
			add(rule.Branch, Annotation{Kind: KindClash, Stem: rule.Stem, Text: rule.Stem + "六击"})
		}
	}

	// ── Stem tomb: one record per matching stem occurrence ───────────────
	for _, rule := range tombRules {
		for _, s := range palaceStems(r, rule.Palace) {
			if containsString(rule.Stems, s) {
				add(rule.Branch, Annotation{Kind: KindTomb, Stem: s, Text: s + "入墓"})
			}
		}
	}

	// ── Void: day then hour, struck when the month branch is void ────────
	month := r.Pillars.Month.Branch
	for _, v := range []struct {
		source, text string
		branches     []string
	}{
		{voidSourceDay, "日空", r.Void.Day},
		{voidSourceHour, "时空", r.Void.Hour},
	} {
		for _, b := range v.branches {
			add(b, Annotation{Kind: KindVoid, Source: v.source, Struck: b == month, Text: v.text})
		}
	}

	// ── Month dominance + horse ──────────────────────────────────────────
	add(month, Annotation{Kind: KindMonthDominant, Text: "月令"})
	if r.HorseBranch != "" {
		add(r.HorseBranch, Annotation{Kind: KindHorse, Text: "马星"})
	}

	out := make(map[string][]Annotation, len(e.tables.Branches))
	for _, b := range e.tables.Branches {
		out[b] = MergeAnnotations(b, raw[b])
	}
	return out
}

// MergeAnnotations collapses repeats on one branch, keeping first-occurrence
// order. All voids fold into one record; two or more become 双<branch>空,
// struck if any contributor was. Other records fold only with identical
// ones (same text), so tombs of different stems stay apart.
func MergeAnnotations(branch string, list []Annotation) []Annotation {
	out := make([]Annotation, 0, len(list))
	if len(list) <= 1 {
		return append(out, list...)
	}

	type group struct {
		first  Annotation
		count  int
		struck bool
	}
	var order []string
	groups := make(map[string]*group, len(list))
	for _, a := range list {
		key := a.Kind.String() + ":" + a.Text
		if a.Kind == KindVoid {
			key = KindVoid.String()
		}
		g, ok := groups[key]
		if !ok {
			g = &group{first: a}
			groups[key] = g
			order = append(order, key)
		}
		g.count++
		g.struck = g.struck || a.Struck
	}

	for _, key := range order {
		g := groups[key]
		if g.count == 1 {
			out = append(out, g.first)
			continue
		}
		d := Annotation{
			Kind:   KindDoubled,
			Inner:  g.first.Kind,
			Count:  g.count,
			Stem:   g.first.Stem,
			Struck: g.struck,
			Text:   "双" + g.first.Text,
		}
		if g.first.Kind == KindVoid {
			d.Text = "双" + branch + "空"
		}
		out = append(out, d)
	}
	return out
}

// palaceStems lists heaven stems followed by earth stems.
func palaceStems(r *ChartResult, palace int) []string {
	p := r.Palaces[palace]
	out := make([]string, 0, len(p.HeavenStems)+len(p.EarthStems))
	out = append(out, p.HeavenStems...)
	return append(out, p.EarthStems...)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
