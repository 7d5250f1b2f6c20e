package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ============================================================================
// REVERSE INDEX: stable id → palace attribute
// ============================================================================
// Ids read palace_<n>_<attribute> for single-valued attributes and
// palace_<n>_<attribute>_<sub> for list entries. The same input always
// yields the same ids; nothing is promised across different charts.
// ============================================================================

// Index categories.
const (
	CategoryGod  = "god"
	CategoryStar = "star"
	CategoryGate = "gate"
	CategoryStem = "stem"
)

// Palace attributes, in the order the index lists them.
const (
	AttrGod         = "god"
	AttrHeavenStars = "heaven_stars"
	AttrHeavenGates = "heaven_gates"
	AttrHeavenStems = "heaven_stems"
	AttrEarthStems  = "earth_stems"
	AttrHomeStar    = "home_star"
	AttrHomeGate    = "home_gate"
)

// IndexEntry locates one populated value.
type IndexEntry struct {
	ID        string `json:"id"`
	Palace    int    `json:"palace"`
	Category  string `json:"category"`
	Attribute string `json:"attribute"`
	SubIndex  int    `json:"subIndex"` // -1 for single-valued attributes
	Text      string `json:"text"`
}

// Index is the reverse lookup built for one ChartResult.
type Index struct {
	entries []IndexEntry
	byID    map[string]int
}

type attribute struct {
	name     string
	category string
	multi    bool
	get      func(p *Palace) []string
}

var attributes = []attribute{
	{AttrGod, CategoryGod, false, func(p *Palace) []string { return []string{p.God} }},
	{AttrHeavenStars, CategoryStar, true, func(p *Palace) []string { return p.HeavenStars }},
	{AttrHeavenGates, CategoryGate, true, func(p *Palace) []string { return p.HeavenGates }},
	{AttrHeavenStems, CategoryStem, true, func(p *Palace) []string { return p.HeavenStems }},
	{AttrEarthStems, CategoryStem, true, func(p *Palace) []string { return p.EarthStems }},
	{AttrHomeStar, CategoryStar, false, func(p *Palace) []string { return []string{p.HomeStar} }},
	{AttrHomeGate, CategoryGate, false, func(p *Palace) []string { return []string{p.HomeGate} }},
}

// BuildIndex walks palaces 1..9 and records every non-empty value.
func BuildIndex(r *ChartResult) *Index {
	idx := &Index{byID: make(map[string]int)}
	for n := 1; n <= 9; n++ {
		p := &r.Palaces[n]
		for _, attr := range attributes {
			for sub, text := range attr.get(p) {
				if text == "" {
					continue
				}
				e := IndexEntry{
					Palace:    n,
					Category:  attr.category,
					Attribute: attr.name,
					SubIndex:  -1,
					Text:      text,
				}
				if attr.multi {
					e.SubIndex = sub
				}
				e.ID = entryID(n, attr.name, e.SubIndex)
				idx.byID[e.ID] = len(idx.entries)
				idx.entries = append(idx.entries, e)
			}
		}
	}
	return idx
}

func entryID(palace int, attr string, sub int) string {
	id := "palace_" + strconv.Itoa(palace) + "_" + attr
	if sub >= 0 {
		id += "_" + strconv.Itoa(sub)
	}
	return id
}

// Len returns the number of entries.
func (x *Index) Len() int { return len(x.entries) }

// Entries returns a copy of all entries in palace/attribute order.
func (x *Index) Entries() []IndexEntry {
	out := make([]IndexEntry, len(x.entries))
	copy(out, x.entries)
	return out
}

// Lookup returns the entry with the given id.
func (x *Index) Lookup(id string) (IndexEntry, bool) {
	i, ok := x.byID[id]
	if !ok {
		return IndexEntry{}, false
	}
	return x.entries[i], true
}

// Find returns every entry of category whose text equals text.
func (x *Index) Find(category, text string) []IndexEntry {
	return x.Select(IndexFilter{Categories: []string{category}, Texts: []string{text}})
}

// ByCategory groups entries as category → text → locations.
func (x *Index) ByCategory() map[string]map[string][]IndexEntry {
	out := make(map[string]map[string][]IndexEntry)
	for _, e := range x.entries {
		byText, ok := out[e.Category]
		if !ok {
			byText = make(map[string][]IndexEntry)
			out[e.Category] = byText
		}
		byText[e.Text] = append(byText[e.Text], e)
	}
	return out
}

// IndexFilter restricts Select. OR within a field, AND across fields,
// empty fields match everything.
type IndexFilter struct {
	Palaces    []int
	Categories []string
	Attributes []string
	Texts      []string
}

// Select returns the entries matching f in index order.
func (x *Index) Select(f IndexFilter) []IndexEntry {
	palaces := make(map[int]bool, len(f.Palaces))
	for _, p := range f.Palaces {
		palaces[p] = true
	}
	cats, attrs, texts := toSet(f.Categories), toSet(f.Attributes), toSet(f.Texts)

	var out []IndexEntry
	for _, e := range x.entries {
		if len(palaces) > 0 && !palaces[e.Palace] {
			continue
		}
		if len(cats) > 0 && !cats[e.Category] {
			continue
		}
		if len(attrs) > 0 && !attrs[e.Attribute] {
			continue
		}
		if len(texts) > 0 && !texts[e.Text] {
			continue
		}
		out = append(out, e)
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// MarshalJSON writes the entries as a list.
func (x *Index) MarshalJSON() ([]byte, error) {
	if x == nil {
		return []byte("null"), nil
	}
	return json.Marshal(x.entries)
}

// UnmarshalJSON reads a list written by MarshalJSON.
func (x *Index) UnmarshalJSON(b []byte) error {
	var entries []IndexEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return err
	}
	x.entries = entries
	x.byID = make(map[string]int, len(entries))
	for i, e := range entries {
		x.byID[e.ID] = i
	}
	return nil
}

// Resolve reads the live value an index id points at.
func (r *ChartResult) Resolve(id string) (string, error) {
	palace, attr, sub, err := parseEntryID(id)
	if err != nil {
		return "", err
	}
	p := r.Palace(palace)
	if p == nil {
		return "", fmt.Errorf("id %q: palace %d out of range", id, palace)
	}
	for _, a := range attributes {
		if a.name != attr {
			continue
		}
		values := a.get(p)
		if !a.multi {
			sub = 0
		}
		if sub < 0 || sub >= len(values) {
			return "", fmt.Errorf("id %q: sub-index %d out of range", id, sub)
		}
		return values[sub], nil
	}
	return "", fmt.Errorf("id %q: unknown attribute %q", id, attr)
}

// parseEntryID splits palace_<n>_<attribute>[_<sub>].
func parseEntryID(id string) (palace int, attr string, sub int, err error) {
	rest, ok := strings.CutPrefix(id, "palace_")
	if !ok {
		return 0, "", 0, fmt.Errorf("id %q: missing palace_ prefix", id)
	}
	num, rest, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, "", 0, fmt.Errorf("id %q: missing attribute", id)
	}
	if palace, err = strconv.Atoi(num); err != nil {
		return 0, "", 0, fmt.Errorf("id %q: bad palace number: %w", id, err)
	}

	sub = -1
	if i := strings.LastIndexByte(rest, '_'); i >= 0 {
		if n, convErr := strconv.Atoi(rest[i+1:]); convErr == nil {
			sub, rest = n, rest[:i]
		}
	}
	return palace, rest, sub, nil
}
