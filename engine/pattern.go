package engine

import (
	"fmt"

	"github.com/spektr-org/qimen/calendar"
	"github.com/spektr-org/qimen/refdata"
)

// ============================================================================
// PATTERN + EARTH PLATE + CHIEF
// ============================================================================

// LeadingStem is the stem that never sits on the plate; it hides under the
// decade's hidden stem.
const LeadingStem = "甲"

// EarthOrder is the fixed order the nine visible stems are laid down in.
var EarthOrder = [9]string{"戊", "己", "庚", "辛", "壬", "癸", "丁", "丙", "乙"}

// Plate holds per-palace stem lists, indexed 1..9.
type Plate [10][]string

// ResolveEra returns the era of a day pillar.
func (e *Engine) ResolveEra(stem, branch string) (string, error) {
	entry, ok := e.tables.FindSexagenary(stem, branch)
	if !ok {
		return "", fmt.Errorf("%w: day pillar %s%s is not in the sexagenary table", ErrLookup, stem, branch)
	}
	return entry.Era, nil
}

// ResolvePattern looks up the polarity and pattern number of (term, era).
func (e *Engine) ResolvePattern(term, era string) (PatternInfo, error) {
	entry, ok := e.tables.SolarTerms[term]
	if !ok {
		return PatternInfo{}, fmt.Errorf("%w: unknown solar term %q", ErrLookup, term)
	}
	n, ok := entry.Numbers[era]
	if !ok {
		return PatternInfo{}, fmt.Errorf("%w: solar term %s has no pattern for %s", ErrLookup, term, era)
	}
	pol, err := ParsePolarity(entry.Polarity)
	if err != nil {
		return PatternInfo{}, err
	}
	return PatternInfo{Polarity: pol, Number: n, Era: era}, nil
}

// ResolveXun returns the decade head and hidden stem of a pillar.
func (e *Engine) ResolveXun(p calendar.Pillar) (XunInfo, error) {
	entry, ok := e.tables.FindSexagenary(p.Stem, p.Branch)
	if !ok {
		return XunInfo{}, fmt.Errorf("%w: pillar %s is not in the sexagenary table", ErrLookup, p)
	}
	return XunInfo{HeadBranch: entry.XunHead, HiddenStem: entry.HiddenStem}, nil
}

// LayoutEarth lays EarthOrder over palaces 1..9 starting at the pattern
// number, forward for Yang and backward for Yin. The center stem is also
// listed in palace 2.
func LayoutEarth(p PatternInfo) Plate {
	var plate Plate
	dir := p.Polarity.step()
	for i, stem := range EarthOrder {
		palace := ring9(p.Number + dir*i)
		plate[palace] = append(plate[palace], stem)
	}
	plate[2] = append(plate[2], plate[CenterPalace]...)
	return plate
}

// FindStemPalace returns the first palace (scanning 1..9) whose stems hold
// stem. The leading stem is replaced by the xun's hidden stem first.
func FindStemPalace(stem string, plate Plate, xun XunInfo) (int, error) {
	target := stem
	if stem == LeadingStem {
		target = xun.HiddenStem
	}
	for p := 1; p <= 9; p++ {
		for _, s := range plate[p] {
			if s == target {
				return p, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: stem %s not on the plate", ErrLookup, target)
}

// Chief is the chief star and chief gate with the palace they were read from.
type Chief struct {
	Origin int
	Star   refdata.CatalogEntry
	Gate   refdata.CatalogEntry
}

// ResolveChief reads the chief star and gate from the palace holding the
// xun's hidden stem. A center origin yields the non-traveling star and the
// gate homed at palace 2.
func (e *Engine) ResolveChief(xun XunInfo, plate Plate) (Chief, error) {
	origin, err := FindStemPalace(LeadingStem, plate, xun)
	if err != nil {
		return Chief{}, fmt.Errorf("chief origin: %w", err)
	}

	gateHome := origin
	if origin == CenterPalace {
		gateHome = 2
	}
	star, ok := e.tables.StarAt(origin)
	if !ok {
		return Chief{}, fmt.Errorf("%w: no star homed at palace %d", ErrLookup, origin)
	}
	gate, ok := e.tables.GateAt(gateHome)
	if !ok {
		return Chief{}, fmt.Errorf("%w: no gate homed at palace %d", ErrLookup, gateHome)
	}
	return Chief{Origin: origin, Star: star, Gate: gate}, nil
}

// ring9 wraps n onto the 1..9 ring.
func ring9(n int) int {
	return ((n-1)%9+9)%9 + 1
}
