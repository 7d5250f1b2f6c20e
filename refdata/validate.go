package refdata

import (
	"fmt"
	"strings"
)

// Expected table sizes.
const (
	SexagenaryCount = 60
	SolarTermCount  = 24
	StarCount       = 9
	GateCount       = 8
	GodCount        = 8
	BranchCount     = 12
	CenterPalace    = 5
)

var eras = []string{EraUpper, EraMiddle, EraLower}

// Validate checks the structural shape of every table. All problems are
// reported together so a broken document can be fixed in one pass.
func (t *Tables) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil tables", ErrInvalid)
	}

	var problems []string
	addf := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	// ── Branches ──────────────────────────────────────────────────────────
	branchSet := make(map[string]bool, len(t.Branches))
	if len(t.Branches) != BranchCount {
		addf("diZhi: want %d branches, got %d", BranchCount, len(t.Branches))
	}
	for _, b := range t.Branches {
		if b == "" {
			addf("diZhi: empty branch name")
			continue
		}
		if branchSet[b] {
			addf("diZhi: duplicate branch %s", b)
		}
		branchSet[b] = true
	}

	// ── Sexagenary cycle ──────────────────────────────────────────────────
	if len(t.Sexagenary) != SexagenaryCount {
		addf("liuShiJiaZi: want %d entries, got %d", SexagenaryCount, len(t.Sexagenary))
	}
	seen := make(map[string]bool, len(t.Sexagenary))
	for i, e := range t.Sexagenary {
		key := e.Stem + e.Branch
		if e.Stem == "" || e.Branch == "" {
			addf("liuShiJiaZi[%d]: missing stem or branch", i)
			continue
		}
		if seen[key] {
			addf("liuShiJiaZi[%d]: duplicate pillar %s", i, key)
		}
		seen[key] = true
		if !contains(eras, e.Era) {
			addf("liuShiJiaZi[%d] %s: unknown era %q", i, key, e.Era)
		}
		if !branchSet[e.XunHead] {
			addf("liuShiJiaZi[%d] %s: xun head %q is not a branch", i, key, e.XunHead)
		}
		if e.HiddenStem == "" {
			addf("liuShiJiaZi[%d] %s: missing hidden stem", i, key)
		}
		for _, v := range e.Void {
			if !branchSet[v] {
				addf("liuShiJiaZi[%d] %s: void %q is not a branch", i, key, v)
			}
		}
	}

	// ── Solar terms ───────────────────────────────────────────────────────
	if len(t.SolarTerms) != SolarTermCount {
		addf("jieQiJuShu: want %d terms, got %d", SolarTermCount, len(t.SolarTerms))
	}
	for term, p := range t.SolarTerms {
		if p.Polarity != PolarityYang && p.Polarity != PolarityYin {
			addf("jieQiJuShu[%s]: unknown polarity %q", term, p.Polarity)
		}
		for _, era := range eras {
			n, ok := p.Numbers[era]
			if !ok {
				addf("jieQiJuShu[%s]: missing %s", term, era)
				continue
			}
			if n < 1 || n > 9 {
				addf("jieQiJuShu[%s][%s]: pattern number %d out of range", term, era, n)
			}
		}
	}

	// ── Catalogs ──────────────────────────────────────────────────────────
	validateCatalog("jiuXing", t.Stars, StarCount, true, false, addf)
	validateCatalog("baMen", t.Gates, GateCount, true, true, addf)
	validateCatalog("baShen", t.Gods, GodCount, false, false, addf)
	if _, ok := t.StarAt(CenterPalace); !ok && len(t.Stars) == StarCount {
		addf("jiuXing: no star homed at the center palace")
	}

	// ── Palace elements ───────────────────────────────────────────────────
	for p := 1; p <= 9; p++ {
		if t.Elements[p] == "" {
			addf("jiuGong: palace %d has no element", p)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func validateCatalog(table string, entries []CatalogEntry, want int, homed, skipCenter bool, addf func(string, ...interface{})) {
	if len(entries) != want {
		addf("%s: want %d entries, got %d", table, want, len(entries))
	}
	labels := make(map[string]bool, len(entries))
	homes := make(map[int]bool, len(entries))
	for i, e := range entries {
		if e.Label == "" {
			addf("%s[%d]: missing label", table, i)
		} else if labels[e.Label] {
			addf("%s[%d]: duplicate label %s", table, i, e.Label)
		}
		labels[e.Label] = true

		if !homed {
			continue
		}
		switch {
		case e.Home < 1 || e.Home > 9:
			addf("%s[%d] %s: home palace %d out of range", table, i, e.Label, e.Home)
		case skipCenter && e.Home == CenterPalace:
			addf("%s[%d] %s: cannot be homed at the center palace", table, i, e.Label)
		case homes[e.Home]:
			addf("%s[%d] %s: home palace %d already taken", table, i, e.Label, e.Home)
		}
		homes[e.Home] = true
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
