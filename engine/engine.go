package engine

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/qimen/calendar"
	"github.com/spektr-org/qimen/refdata"
)

// ============================================================================
// ENGINE: construction + cast pipeline
// ============================================================================
// Entry point: New(tables, opts...) then Cast(ts)
//
// Pipeline:
//   1. Timestamp → calendar moment (solar term + four pillars)
//   2. Day pillar → era; (term, era) → pattern
//   3. Earth plate
//   4. Hour xun → chief star / chief gate
//   5. Gods, heaven stars + stems, gates along the flying path
//   6. Horse + void branches
//   7. Annotations → chongdong targets
//   8. Palaces + reverse index
//
// Any failure aborts the cast; no partial ChartResult is returned.
// An Engine holds no mutable state after New and is safe for concurrent use.
// ============================================================================

// Path is the flying order shared by every rotating layout.
var Path = [8]int{1, 8, 3, 4, 9, 2, 7, 6}

// Engine casts charts against one set of reference tables.
type Engine struct {
	tables   *refdata.Tables
	resolver calendar.Resolver
	log      *zap.Logger
	metrics  *metrics
	loc      *time.Location

	stars    []refdata.CatalogEntry // traveling stars in path order of their homes
	gates    []refdata.CatalogEntry // gates in path order of their homes
	gods     []string
	center   refdata.CatalogEntry // the non-traveling star
	partner  refdata.CatalogEntry // traveling star homed at palace 2
	elements [10]string
}

// New validates tables and builds an engine. The tables must not be
// modified afterwards.
func New(tables *refdata.Tables, opts ...Option) (*Engine, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)

	m, err := newMetrics(cfg.Registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	e := &Engine{
		tables:   tables,
		resolver: cfg.Resolver,
		log:      cfg.Logger,
		metrics:  m,
		loc:      cfg.Location,
		gods:     refdata.Labels(tables.Gods),
	}

	// ── Catalog sequences along the path ──────────────────────────────────
	for _, p := range Path {
		star, ok := tables.StarAt(p)
		if !ok {
			return nil, fmt.Errorf("%w: no star homed at palace %d", refdata.ErrInvalid, p)
		}
		gate, ok := tables.GateAt(p)
		if !ok {
			return nil, fmt.Errorf("%w: no gate homed at palace %d", refdata.ErrInvalid, p)
		}
		e.stars = append(e.stars, star)
		e.gates = append(e.gates, gate)
	}
	e.center, _ = tables.StarAt(CenterPalace)
	e.partner, _ = tables.StarAt(2)

	for p := 1; p <= 9; p++ {
		e.elements[p] = tables.Elements[p]
	}

	e.log.Debug("engine ready",
		zap.String("refdata_version", tables.Version),
		zap.Strings("stars", refdata.Labels(e.stars)),
		zap.Strings("gates", refdata.Labels(e.gates)),
	)
	return e, nil
}

// Tables returns the reference tables the engine was built with.
func (e *Engine) Tables() *refdata.Tables { return e.tables }

// Cast validates a YYYYMMDDHHMMSS timestamp, resolves it through the
// calendar and runs the full pipeline.
func (e *Engine) Cast(ts string) (*ChartResult, error) {
	started := time.Now()

	at, err := calendar.ParseTimestamp(ts, e.loc)
	if err != nil {
		e.metrics.observe(outcomeBadTimestamp, started)
		e.log.Warn("cast rejected", zap.String("timestamp", ts), zap.Error(err))
		return nil, err
	}

	moment, err := e.resolver.Resolve(at)
	if err != nil {
		e.metrics.observe(outcomeCalendar, started)
		e.log.Warn("calendar resolution failed", zap.String("timestamp", ts), zap.Error(err))
		return nil, fmt.Errorf("resolve %s: %w", ts, err)
	}

	res, err := e.cast(at, moment)
	if err != nil {
		e.metrics.observe(outcomeLookup, started)
		e.log.Warn("cast failed", zap.String("timestamp", ts), zap.Error(err))
		return nil, err
	}
	e.metrics.observe(outcomeOK, started)
	return res, nil
}

// CastMoment runs the pipeline for callers that already hold the solar
// term and pillars of at.
func (e *Engine) CastMoment(at time.Time, m calendar.Moment) (*ChartResult, error) {
	started := time.Now()
	res, err := e.cast(at, m)
	if err != nil {
		e.metrics.observe(outcomeLookup, started)
		return nil, err
	}
	e.metrics.observe(outcomeOK, started)
	return res, nil
}

func (e *Engine) cast(at time.Time, m calendar.Moment) (*ChartResult, error) {
	day, hour := m.Pillars.Day, m.Pillars.Hour

	// 1. Pattern
	era, err := e.ResolveEra(day.Stem, day.Branch)
	if err != nil {
		return nil, err
	}
	pattern, err := e.ResolvePattern(m.SolarTerm, era)
	if err != nil {
		return nil, err
	}

	// 2. Earth plate
	earth := LayoutEarth(pattern)

	// 3. Chief
	xun, err := e.ResolveXun(hour)
	if err != nil {
		return nil, err
	}
	chief, err := e.ResolveChief(xun, earth)
	if err != nil {
		return nil, err
	}
	hourPalace, err := FindStemPalace(hour.Stem, earth, xun)
	if err != nil {
		return nil, fmt.Errorf("hour stem: %w", err)
	}

	// 4. Flying layouts
	gods, err := e.LayoutGods(hourPalace, pattern.Polarity)
	if err != nil {
		return nil, err
	}
	heaven, err := e.LayoutStars(hourPalace, chief.Star, earth, pattern.Polarity)
	if err != nil {
		return nil, err
	}
	gates, err := e.LayoutGates(hour.Branch, xun.HeadBranch, chief.Gate, pattern.Polarity)
	if err != nil {
		return nil, err
	}

	// 5. Horse + void
	horse := Horse(hour.Branch)
	dayVoid, err := e.Void(day)
	if err != nil {
		return nil, err
	}
	hourVoid, err := e.Void(hour)
	if err != nil {
		return nil, err
	}

	res := &ChartResult{
		Timestamp:   calendar.FormatTimestamp(at),
		CastAt:      at,
		Pillars:     m.Pillars,
		SolarTerm:   m.SolarTerm,
		Pattern:     pattern,
		Xun:         xun,
		ChiefStar:   chief.Star.Label,
		ChiefGate:   chief.Gate.Label,
		TianYi:      TianYi(chief.Star, heaven.Stars),
		HorseBranch: horse,
		Void:        VoidInfo{Day: dayVoid, Hour: hourVoid},
	}

	// 6. Palaces
	for p := 1; p <= 9; p++ {
		pal := &res.Palaces[p]
		pal.Index = p
		pal.God = gods[p]
		pal.HeavenStars = heaven.Stars[p]
		pal.HeavenStems = heaven.Stems[p]
		pal.EarthStems = earth[p]
		if gates[p] != "" {
			pal.HeavenGates = []string{gates[p]}
		}
		pal.Element = e.elements[p]
		if star, ok := e.tables.StarAt(p); ok {
			pal.HomeStar = star.Label
		}
		home := p
		if p == CenterPalace {
			home = 2
		}
		if gate, ok := e.tables.GateAt(home); ok {
			pal.HomeGate = gate.Label
		}
	}

	// 7. Annotations
	res.Annotations = e.Annotate(res)
	res.Chongdong = Chongdong(horse, res.Annotations)

	// 8. Index
	res.Index = BuildIndex(res)

	e.log.Debug("chart cast",
		zap.String("timestamp", res.Timestamp),
		zap.String("solar_term", res.SolarTerm),
		zap.Stringer("polarity", pattern.Polarity),
		zap.Int("pattern", pattern.Number),
		zap.String("chief_star", res.ChiefStar),
		zap.String("chief_gate", res.ChiefGate),
		zap.String("horse", horse),
		zap.Int("chongdong", len(res.Chongdong)),
	)
	return res, nil
}

// IsLookupError reports whether err came from an internal table lookup.
func IsLookupError(err error) bool {
	return errors.Is(err, ErrLookup)
}
