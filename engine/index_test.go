package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRoundTrip(t *testing.T) {
	for name, m := range allMoments {
		t.Run(name, func(t *testing.T) {
			r := castMoment(t, m)
			require.NotNil(t, r.Index)
			require.NotZero(t, r.Index.Len())

			ids := map[string]bool{}
			for _, e := range r.Index.Entries() {
				assert.False(t, ids[e.ID], "duplicate id %s", e.ID)
				ids[e.ID] = true

				got, ok := r.Index.Lookup(e.ID)
				require.True(t, ok, e.ID)
				assert.Equal(t, e, got)

				live, err := r.Resolve(e.ID)
				require.NoError(t, err, e.ID)
				assert.Equal(t, e.Text, live, e.ID)
			}
		})
	}
}

func TestIndexIDs(t *testing.T) {
	r := castMoment(t, momentYangHome)

	e, ok := r.Index.Lookup("palace_1_god")
	require.True(t, ok)
	assert.Equal(t, IndexEntry{ID: "palace_1_god", Palace: 1, Category: CategoryGod, Attribute: AttrGod, SubIndex: -1, Text: "直符"}, e)

	e, ok = r.Index.Lookup("palace_2_heaven_stars_1")
	require.True(t, ok)
	assert.Equal(t, "禽", e.Text)
	assert.Equal(t, CategoryStar, e.Category)

	e, ok = r.Index.Lookup("palace_5_home_gate")
	require.True(t, ok)
	assert.Equal(t, "死", e.Text)

	// Empty values are not indexed.
	_, ok = r.Index.Lookup("palace_5_god")
	assert.False(t, ok)
	_, ok = r.Index.Lookup("palace_5_heaven_gates_0")
	assert.False(t, ok)
}

func TestIndexQueries(t *testing.T) {
	r := castMoment(t, momentYangHome)

	zhifu := r.Index.Find(CategoryGod, "直符")
	require.Len(t, zhifu, 1)
	assert.Equal(t, 1, zhifu[0].Palace)

	// 禽 is a heaven star in 2 and 5 and the home star of 5.
	qin := r.Index.Find(CategoryStar, "禽")
	assert.Len(t, qin, 3)

	grouped := r.Index.ByCategory()
	assert.Len(t, grouped[CategoryGod], 8)
	assert.Len(t, grouped[CategoryGate]["休"], 2) // heaven gate and home gate of palace 1

	stems := r.Index.Select(IndexFilter{Palaces: []int{2}, Attributes: []string{AttrEarthStems}})
	require.Len(t, stems, 2)
	assert.Equal(t, "palace_2_earth_stems_1", stems[1].ID)
	assert.Equal(t, "壬", stems[1].Text)
}

func TestResolveRejectsBadIDs(t *testing.T) {
	r := castMoment(t, momentYangHome)
	for _, id := range []string{"", "god_1", "palace_x_god", "palace_10_god", "palace_1_aura", "palace_1_heaven_stars_4", "palace_1_heaven_stars"} {
		_, err := r.Resolve(id)
		assert.Error(t, err, id)
	}
}

func TestIndexJSON(t *testing.T) {
	r := castMoment(t, momentYangHome)
	b, err := json.Marshal(r.Index)
	require.NoError(t, err)

	var back Index
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, r.Index.Entries(), back.Entries())
	_, ok := back.Lookup("palace_9_god")
	assert.True(t, ok)
}
