package calendar

import (
	"fmt"
	"time"

	lunar "github.com/6tail/lunar-go/calendar"
)

// lunar-go keys the solar terms that straddle a year boundary by pinyin.
var termAliases = map[string]string{
	"DONG_ZHI": "冬至",
	"XIAO_HAN": "小寒",
	"DA_HAN":   "大寒",
	"LI_CHUN":  "立春",
	"YU_SHUI":  "雨水",
	"JING_ZHE": "惊蛰",
}

// LunarResolver resolves moments with the 6tail lunar-go almanac.
// The zero value is ready to use.
type LunarResolver struct{}

// NewLunarResolver returns the default almanac-backed resolver.
func NewLunarResolver() *LunarResolver { return &LunarResolver{} }

// Resolve reports the most recent solar term at or before at, and the four
// pillars of at in its own time zone.
func (LunarResolver) Resolve(at time.Time) (Moment, error) {
	solar := lunar.NewSolar(at.Year(), int(at.Month()), at.Day(), at.Hour(), at.Minute(), at.Second())
	l := solar.GetLunar()

	jq := l.GetPrevJieQi()
	if jq == nil {
		return Moment{}, fmt.Errorf("no solar term before %s", FormatTimestamp(at))
	}
	term := NormalizeTerm(jq.GetName())

	ec := l.GetEightChar()
	var m Moment
	m.SolarTerm = term
	for _, f := range []struct {
		dst  *Pillar
		name string
		raw  string
	}{
		{&m.Pillars.Year, "year", ec.GetYear()},
		{&m.Pillars.Month, "month", ec.GetMonth()},
		{&m.Pillars.Day, "day", ec.GetDay()},
		{&m.Pillars.Hour, "hour", ec.GetTime()},
	} {
		p, err := ParsePillar(f.raw)
		if err != nil {
			return Moment{}, fmt.Errorf("%s pillar: %w", f.name, err)
		}
		*f.dst = p
	}
	return m, nil
}

// NormalizeTerm maps almanac-specific term keys to their Chinese names.
func NormalizeTerm(name string) string {
	if cn, ok := termAliases[name]; ok {
		return cn
	}
	return name
}
