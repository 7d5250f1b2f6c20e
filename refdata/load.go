package refdata

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
)

// ============================================================================
// LOADER: reference JSON document → Tables
// ============================================================================
// The document is walked with gjson paths rather than unmarshalled into
// mirror structs: field names stay those of the original data file
// (gan/zhi/yuan/xun/kong/guxiang/cn) while Tables exposes descriptive names.
// Every load ends in Validate, so a Tables value returned from here is safe
// to hand to the engine.
// ============================================================================

// ErrInvalid marks a missing or structurally invalid reference document.
var ErrInvalid = errors.New("invalid reference data")

//go:embed data/core_parameters.json
var defaultDocument []byte

var requiredKeys = []string{"liuShiJiaZi", "jieQiJuShu", "jiuXing", "baMen", "baShen", "diZhi", "jiuGong"}

// Default parses the reference document compiled into the module.
func Default() (*Tables, error) {
	return Parse(defaultDocument)
}

// DefaultDocument returns a copy of the embedded reference document.
func DefaultDocument() []byte {
	out := make([]byte, len(defaultDocument))
	copy(out, defaultDocument)
	return out
}

// LoadFile reads and parses a reference document from disk.
func LoadFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalid, path, err)
	}
	return Parse(data)
}

// Load reads and parses a reference document from r.
func Load(r io.Reader) (*Tables, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrInvalid, err)
	}
	return Parse(data)
}

// Parse builds validated Tables from a reference JSON document.
func Parse(data []byte) (*Tables, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalid)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: document is not valid JSON", ErrInvalid)
	}

	doc := gjson.ParseBytes(data)
	for _, key := range requiredKeys {
		if !doc.Get(key).Exists() {
			return nil, fmt.Errorf("%w: missing table %q", ErrInvalid, key)
		}
	}

	t := &Tables{
		Version:    doc.Get("version").String(),
		SolarTerms: make(map[string]PatternEntry),
		Elements:   make(map[int]string),
	}

	doc.Get("liuShiJiaZi").ForEach(func(_, v gjson.Result) bool {
		e := SexagenaryEntry{
			Stem:       v.Get("gan").String(),
			Branch:     v.Get("zhi").String(),
			Era:        v.Get("yuan").String(),
			XunHead:    v.Get("xun.zhi").String(),
			HiddenStem: v.Get("xun.jun").String(),
		}
		for i, k := range v.Get("kong").Array() {
			if i < len(e.Void) {
				e.Void[i] = k.String()
			}
		}
		t.Sexagenary = append(t.Sexagenary, e)
		return true
	})

	doc.Get("jieQiJuShu").ForEach(func(term, v gjson.Result) bool {
		entry := PatternEntry{
			Polarity: v.Get("yinyang").String(),
			Numbers:  make(map[string]int),
		}
		v.Get("jv").ForEach(func(era, n gjson.Result) bool {
			entry.Numbers[era.String()] = int(n.Int())
			return true
		})
		t.SolarTerms[term.String()] = entry
		return true
	})

	t.Stars = readCatalog(doc.Get("jiuXing"))
	t.Gates = readCatalog(doc.Get("baMen"))
	t.Gods = readCatalog(doc.Get("baShen"))

	doc.Get("diZhi").ForEach(func(_, v gjson.Result) bool {
		t.Branches = append(t.Branches, v.Get("cn").String())
		return true
	})

	doc.Get("jiuGong").ForEach(func(_, v gjson.Result) bool {
		t.Elements[int(v.Get("index").Int())] = v.Get("wuxing").String()
		return true
	})

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func readCatalog(list gjson.Result) []CatalogEntry {
	var out []CatalogEntry
	list.ForEach(func(_, v gjson.Result) bool {
		out = append(out, CatalogEntry{
			Name:  v.Get("name").String(),
			Label: v.Get("cn").String(),
			Home:  int(v.Get("guxiang").Int()),
		})
		return true
	})
	return out
}
