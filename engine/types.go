package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/spektr-org/qimen/calendar"
	"github.com/spektr-org/qimen/refdata"
)

// ============================================================================
// QIMEN ENGINE TYPES
// ============================================================================
// Every value here is built fresh per cast and never mutated afterwards by
// the engine. Palace slices are indexed 1..9; slot 0 is unused so palace
// numbers read the same in code as on the Luo Shu square.
// ============================================================================

// ErrLookup marks a computed stem, star, gate or palace that the reference
// tables cannot account for. It signals a data/algorithm mismatch and is
// never retried.
var ErrLookup = errors.New("reference lookup failed")

// CenterPalace is the palace that never appears on the flying path.
const CenterPalace = refdata.CenterPalace

// ============================================================================
// PATTERN
// ============================================================================

// Polarity is the dun direction of a pattern.
type Polarity int

const (
	Yang Polarity = iota + 1
	Yin
)

// String returns the reference-table label (阳遁 or 阴遁); other values
// print as Polarity(n).
func (p Polarity) String() string {
	switch p {
	case Yang:
		return refdata.PolarityYang
	case Yin:
		return refdata.PolarityYin
	default:
		return fmt.Sprintf("Polarity(%d)", int(p))
	}
}

// MarshalText renders the polarity with its reference-table label.
func (p Polarity) MarshalText() ([]byte, error) {
	if p != Yang && p != Yin {
		return nil, fmt.Errorf("unknown polarity %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText parses a reference-table label.
func (p *Polarity) UnmarshalText(b []byte) error {
	v, err := ParsePolarity(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePolarity maps 阳遁/阴遁 to a Polarity.
func ParsePolarity(label string) (Polarity, error) {
	switch label {
	case refdata.PolarityYang:
		return Yang, nil
	case refdata.PolarityYin:
		return Yin, nil
	}
	return 0, fmt.Errorf("%w: unknown polarity %q", ErrLookup, label)
}

// step is +1 for Yang and -1 for Yin.
func (p Polarity) step() int {
	if p == Yin {
		return -1
	}
	return 1
}

// PatternInfo is the dun polarity and pattern number (1-9) of a cast.
type PatternInfo struct {
	Polarity Polarity `json:"polarity"`
	Number   int      `json:"number"`
	Era      string   `json:"era"`
}

// XunInfo identifies the decade of the hour pillar.
type XunInfo struct {
	HeadBranch string `json:"headBranch"` // branch of the decade's leading 甲
	HiddenStem string `json:"hiddenStem"` // stem the leading 甲 hides under
}

// VoidInfo holds the void branches of the day and hour pillars.
type VoidInfo struct {
	Day  []string `json:"day"`
	Hour []string `json:"hour"`
}

// ============================================================================
// PALACE + RESULT
// ============================================================================

// Palace is one cell of the nine-palace grid.
type Palace struct {
	Index       int            `json:"index"`
	God         string         `json:"god"`
	HeavenStars []string       `json:"heavenStars"`
	HeavenGates []string       `json:"heavenGates"`
	HeavenStems []string       `json:"heavenStems"`
	EarthStems  []string       `json:"earthStems"`
	HomeStar    string         `json:"homeStar"`
	HomeGate    string         `json:"homeGate"`
	Element     string         `json:"element"`
	Analysis    map[string]any `json:"analysis,omitempty"` // reserved for consumers; the engine leaves it empty
}

// ChartResult is everything one cast produces.
type ChartResult struct {
	Timestamp   string                  `json:"timestamp"`
	CastAt      time.Time               `json:"castAt"`
	Pillars     calendar.FourPillars    `json:"pillars"`
	SolarTerm   string                  `json:"solarTerm"`
	Pattern     PatternInfo             `json:"pattern"`
	Xun         XunInfo                 `json:"xun"`
	ChiefStar   string                  `json:"chiefStar"`
	ChiefGate   string                  `json:"chiefGate"`
	TianYi      string                  `json:"tianYi"`
	HorseBranch string                  `json:"horseBranch"`
	Void        VoidInfo                `json:"void"`
	Palaces     [10]Palace              `json:"palaces"`
	Annotations map[string][]Annotation `json:"annotations"`
	Chongdong   []ChongdongTarget       `json:"chongdong"`
	Index       *Index                  `json:"index"`
}

// Palace returns palace n (1..9), or nil when n is out of range.
func (r *ChartResult) Palace(n int) *Palace {
	if n < 1 || n > 9 {
		return nil
	}
	return &r.Palaces[n]
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "list"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary carries the chart-level values shown under a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}
