package engine

// ============================================================================
// CHONGDONG: which annotations the horse star strikes
// ============================================================================
// Tiers are tried in order; the first tier with any match wins and all of
// its matches are returned.
// ============================================================================

// ChongdongTarget is one annotation struck by the horse star.
type ChongdongTarget struct {
	Branch string `json:"branch"`
	Palace int    `json:"palace"`
	Kind   Kind   `json:"kind"` // base kind: tomb or void
	Struck bool   `json:"struck"`
	Text   string `json:"text"`
}

// branchPalaces lists the branches in cyclic order with the palace each sits on.
var branchPalaces = []struct {
	Branch string
	Palace int
}{
	{"子", 1}, {"丑", 8}, {"寅", 8}, {"卯", 3}, {"辰", 4}, {"巳", 4},
	{"午", 9}, {"未", 2}, {"申", 2}, {"酉", 7}, {"戌", 6}, {"亥", 6},
}

// BranchPalace returns the palace a branch sits on, or 0.
func BranchPalace(branch string) int {
	for _, bp := range branchPalaces {
		if bp.Branch == branch {
			return bp.Palace
		}
	}
	return 0
}

// OppositePalace returns 10-p, or 0 for the center and out-of-range input.
func OppositePalace(p int) int {
	if p < 1 || p > 9 || p == CenterPalace {
		return 0
	}
	return 10 - p
}

type chongdongTier struct {
	kind     Kind
	opposite bool
}

var chongdongTiers = []chongdongTier{
	{KindTomb, false},
	{KindTomb, true},
	{KindVoid, false},
	{KindVoid, true},
}

// Chongdong finds the annotations struck by the horse branch.
func Chongdong(horse string, annotations map[string][]Annotation) []ChongdongTarget {
	own := BranchPalace(horse)
	if own == 0 {
		return nil
	}
	opposite := OppositePalace(own)

	for _, tier := range chongdongTiers {
		palace := own
		if tier.opposite {
			palace = opposite
		}
		if palace == 0 {
			continue
		}
		var found []ChongdongTarget
		for _, bp := range branchPalaces {
			if bp.Palace != palace {
				continue
			}
			for _, a := range annotations[bp.Branch] {
				if a.Base() == tier.kind {
					found = append(found, ChongdongTarget{
						Branch: bp.Branch,
						Palace: palace,
						Kind:   tier.kind,
						Struck: a.Struck,
						Text:   a.Text,
					})
				}
			}
		}
		if len(found) > 0 {
			return found
		}
	}
	return nil
}
