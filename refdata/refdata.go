package refdata

// ============================================================================
// REFERENCE DATA: the fixed tables the chart engine reads
// ============================================================================
// Loaded once (from the embedded document or a consumer-supplied file),
// validated, then treated as read-only for the lifetime of an engine.
//
// Document keys:
//   liuShiJiaZi : 60 sexagenary entries (stem, branch, era, xun, void pair)
//   jieQiJuShu  : solar term → polarity + pattern number per era
//   jiuXing     : 9 stars with home palaces
//   baMen       : 8 gates with home palaces
//   baShen      : 8 gods in flying order
//   diZhi       : 12 earthly branches in cyclic order
//   jiuGong     : palace → element affinity
// ============================================================================

// Eras in the order the pattern table lists them.
const (
	EraUpper  = "上元"
	EraMiddle = "中元"
	EraLower  = "下元"
)

// Polarity labels used by the pattern table.
const (
	PolarityYang = "阳遁"
	PolarityYin  = "阴遁"
)

// Tables holds every reference table the engine needs.
type Tables struct {
	Version    string                  `json:"version,omitempty" yaml:"version,omitempty"`
	Sexagenary []SexagenaryEntry       `json:"sexagenary" yaml:"sexagenary"`
	SolarTerms map[string]PatternEntry `json:"solarTerms" yaml:"solar_terms"`
	Stars      []CatalogEntry          `json:"stars" yaml:"stars"`
	Gates      []CatalogEntry          `json:"gates" yaml:"gates"`
	Gods       []CatalogEntry          `json:"gods" yaml:"gods"`
	Branches   []string                `json:"branches" yaml:"branches"`
	Elements   map[int]string          `json:"elements" yaml:"elements"`
}

// SexagenaryEntry is one of the sixty stem+branch combinations.
type SexagenaryEntry struct {
	Stem       string    `json:"stem" yaml:"stem"`
	Branch     string    `json:"branch" yaml:"branch"`
	Era        string    `json:"era" yaml:"era"`
	XunHead    string    `json:"xunHead" yaml:"xun_head"`       // branch of the decade's leading 甲
	HiddenStem string    `json:"hiddenStem" yaml:"hidden_stem"` // stem the leading 甲 hides under
	Void       [2]string `json:"void" yaml:"void"`
}

// PatternEntry maps one solar term to its dun polarity and per-era pattern numbers.
type PatternEntry struct {
	Polarity string         `json:"polarity" yaml:"polarity"`
	Numbers  map[string]int `json:"numbers" yaml:"numbers"`
}

// CatalogEntry is a star, gate or god. Home is 0 for gods.
type CatalogEntry struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
	Home  int    `json:"home,omitempty" yaml:"home,omitempty"`
}

// FindSexagenary returns the entry for an exact stem+branch pair.
func (t *Tables) FindSexagenary(stem, branch string) (SexagenaryEntry, bool) {
	for _, e := range t.Sexagenary {
		if e.Stem == stem && e.Branch == branch {
			return e, true
		}
	}
	return SexagenaryEntry{}, false
}

// FindXun returns the first entry whose decade head is the given branch.
func (t *Tables) FindXun(head string) (SexagenaryEntry, bool) {
	for _, e := range t.Sexagenary {
		if e.XunHead == head {
			return e, true
		}
	}
	return SexagenaryEntry{}, false
}

// StarAt returns the star whose home is palace.
func (t *Tables) StarAt(palace int) (CatalogEntry, bool) {
	return homedAt(t.Stars, palace)
}

// GateAt returns the gate whose home is palace.
func (t *Tables) GateAt(palace int) (CatalogEntry, bool) {
	return homedAt(t.Gates, palace)
}

// BranchIndex returns the cyclic position of branch, or -1.
func (t *Tables) BranchIndex(branch string) int {
	for i, b := range t.Branches {
		if b == branch {
			return i
		}
	}
	return -1
}

// Labels returns the display labels of a catalog in document order.
func Labels(entries []CatalogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Label
	}
	return out
}

func homedAt(entries []CatalogEntry, palace int) (CatalogEntry, bool) {
	for _, e := range entries {
		if e.Home == palace {
			return e, true
		}
	}
	return CatalogEntry{}, false
}
