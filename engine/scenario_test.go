package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/qimen/refdata"
)

// These cast through the real almanac.

func TestScenarioHourVoidAnnotated(t *testing.T) {
	e := newTestEngine(t, WithLocation(time.UTC))
	r, err := e.Cast("20220101060000")
	require.NoError(t, err)

	require.Len(t, r.Void.Hour, 2)
	for _, b := range r.Void.Hour {
		var voids []Annotation
		for _, a := range r.Annotations[b] {
			if a.Base() == KindVoid {
				voids = append(voids, a)
			}
		}
		require.Len(t, voids, 1, "branch %s should carry exactly one void record", b)
		if containsString(r.Void.Day, b) {
			assert.Equal(t, "双"+b+"空", voids[0].Text)
		} else {
			assert.Equal(t, "时空", voids[0].Text)
		}
	}
}

func TestScenarioChiefStarStable(t *testing.T) {
	e := newTestEngine(t, WithLocation(time.UTC))
	stars := refdata.Labels(e.Tables().Stars)

	var first string
	for i := 0; i < 5; i++ {
		r, err := e.Cast("20250901153000")
		require.NoError(t, err)
		if i == 0 {
			first = r.ChiefStar
		}
		assert.Equal(t, first, r.ChiefStar)
		assert.Contains(t, stars, r.ChiefStar)
	}
}

func TestScenarioAlmanacPatterns(t *testing.T) {
	e := newTestEngine(t, WithLocation(time.UTC))

	r, err := e.Cast("20220101060000")
	require.NoError(t, err)
	assert.Equal(t, "冬至", r.SolarTerm)
	assert.Equal(t, Yang, r.Pattern.Polarity)
	assert.Equal(t, 7, r.Pattern.Number)
	assert.Equal(t, []string{"戌", "亥"}, r.Void.Hour)

	r, err = e.Cast("20250901153000")
	require.NoError(t, err)
	assert.Equal(t, "处暑", r.SolarTerm)
	assert.Equal(t, Yin, r.Pattern.Polarity)
	assert.Equal(t, 4, r.Pattern.Number)
	assert.Equal(t, "任", r.ChiefStar)
}
