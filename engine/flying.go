package engine

import (
	"fmt"

	"github.com/spektr-org/qimen/refdata"
)

// ============================================================================
// FLYING PATH LAYOUTS: gods, heaven stars + stems, gates
// ============================================================================
// All three rotate an 8-item sequence along Path from an anchor palace.
// Each walks forward for Yang and backward for Yin.
// ============================================================================

// pathIndex returns the position of palace on Path. The center is read as
// palace 2.
func pathIndex(palace int) (int, error) {
	if palace == CenterPalace {
		palace = 2
	}
	for i, p := range Path {
		if p == palace {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: palace %d is not on the flying path", ErrLookup, palace)
}

// walk calls visit for each of the 8 steps, passing the step number and the
// palace reached. dir is +1 (forward) or -1 (backward).
func walk(anchor, dir int, visit func(step, palace int)) error {
	start, err := pathIndex(anchor)
	if err != nil {
		return err
	}
	for i := 0; i < len(Path); i++ {
		visit(i, Path[((start+dir*i)%8+8)%8])
	}
	return nil
}

// LayoutGods places the god sequence with its first god at anchor.
func (e *Engine) LayoutGods(anchor int, pol Polarity) ([10]string, error) {
	var out [10]string
	err := walk(anchor, pol.step(), func(step, palace int) {
		out[palace] = e.gods[step]
	})
	return out, err
}

// HeavenPlate is the rotated star layer and the stems each star carries.
type HeavenPlate struct {
	Stars [10][]string
	Stems Plate
}

// LayoutStars flies the traveling stars from anchor in the polarity's
// direction, starting with the chief star (the non-traveling star flies as its palace-2 partner). Each star
// carries the earth stems of its home palace. The palace receiving the
// partner also hosts the non-traveling star, and the center always holds the
// non-traveling star over its own earth stems.
func (e *Engine) LayoutStars(anchor int, chief refdata.CatalogEntry, earth Plate, pol Polarity) (HeavenPlate, error) {
	var hp HeavenPlate

	lead := chief.Label
	if lead == e.center.Label {
		lead = e.partner.Label
	}
	first := -1
	for i, s := range e.stars {
		if s.Label == lead {
			first = i
			break
		}
	}
	if first < 0 {
		return hp, fmt.Errorf("%w: chief star %s does not travel", ErrLookup, chief.Label)
	}

	partnerAt := 0
	err := walk(anchor, pol.step(), func(step, palace int) {
		star := e.stars[(first+step)%len(e.stars)]
		hp.Stars[palace] = append(hp.Stars[palace], star.Label)
		hp.Stems[palace] = append(hp.Stems[palace], earth[star.Home]...)
		if star.Label == e.partner.Label {
			partnerAt = palace
		}
	})
	if err != nil {
		return hp, err
	}

	if partnerAt != 0 {
		hp.Stars[partnerAt] = append(hp.Stars[partnerAt], e.center.Label)
	}
	hp.Stars[CenterPalace] = append(hp.Stars[CenterPalace], e.center.Label)
	hp.Stems[CenterPalace] = append(hp.Stems[CenterPalace], earth[e.center.Home]...)
	return hp, nil
}

// LayoutGates shifts the chief gate's home by the hour's distance from the
// xun head (ring 1..9, polarity direction, center read as 2), then flies the
// gates from there in the same direction, starting with the chief gate.
func (e *Engine) LayoutGates(hourBranch, xunHead string, chief refdata.CatalogEntry, pol Polarity) ([10]string, error) {
	var out [10]string

	h, x := e.tables.BranchIndex(hourBranch), e.tables.BranchIndex(xunHead)
	if h < 0 || x < 0 {
		return out, fmt.Errorf("%w: branch %s or %s unknown", ErrLookup, hourBranch, xunHead)
	}
	offset := (h - x + len(e.tables.Branches)) % len(e.tables.Branches)

	anchor := ring9(chief.Home + pol.step()*offset)
	if anchor == CenterPalace {
		anchor = 2
	}

	first := -1
	for i, g := range e.gates {
		if g.Label == chief.Label {
			first = i
			break
		}
	}
	if first < 0 {
		return out, fmt.Errorf("%w: chief gate %s not in the gate sequence", ErrLookup, chief.Label)
	}

	err := walk(anchor, pol.step(), func(step, palace int) {
		out[palace] = e.gates[(first+step)%len(e.gates)].Label
	})
	return out, err
}

// TianYi returns the first heaven star in the chief star's home palace, or ""
// when that palace holds none.
func TianYi(chief refdata.CatalogEntry, stars [10][]string) string {
	if chief.Home < 1 || chief.Home > 9 || len(stars[chief.Home]) == 0 {
		return ""
	}
	return stars[chief.Home][0]
}
