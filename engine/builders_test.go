package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildText(t *testing.T) {
	r := castMoment(t, momentTombStrike)
	text := BuildText(r)

	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 6+9)
	assert.Equal(t, "四柱: 辛丑 庚子 丁卯 癸卯", lines[1])
	assert.Contains(t, lines[2], "上元阳遁1局")
	assert.Contains(t, lines[3], "值符: 辅")
	assert.Equal(t, "马星冲动: 辰:辛入墓", lines[5])
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "5宫[土]"))

	assert.Empty(t, BuildText(nil))
}

func TestBuildTable(t *testing.T) {
	r := castMoment(t, momentYangHome)
	table := BuildTable(r)

	require.Len(t, table.Rows, 9)
	assert.Len(t, table.Columns, len(PalaceColumns))
	assert.Equal(t, []string{"2", "土", "玄武", "芮 禽", "死", "己 壬", "己 壬", "芮", "死", "未:己六击"}, table.Rows[1])
	assert.Equal(t, "上元阳遁1局", table.Summary.Label)
	assert.Equal(t, "蓬", table.Summary.Values["chief_star"])

	empty := BuildTable(nil)
	assert.Empty(t, empty.Rows)
}

func TestPalaceAnnotations(t *testing.T) {
	r := castMoment(t, momentYangHome)
	assert.Equal(t, []string{"双戌空", "双亥空"}, trimBranches(PalaceAnnotations(r, 6)))
	assert.Equal(t, []string{"子:月令"}, PalaceAnnotations(r, 1))
	assert.Empty(t, PalaceAnnotations(r, CenterPalace))
}

func trimBranches(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		_, out[i], _ = strings.Cut(s, ":")
	}
	return out
}

func TestBuildGrid(t *testing.T) {
	r := castMoment(t, momentYangHome)
	g := BuildGrid(r)

	for row := range LuoShu {
		for col, n := range LuoShu[row] {
			assert.Equal(t, n, g.Cells[row][col].Palace)
		}
	}
	center := g.Cells[1][1]
	assert.Equal(t, CenterPalace, center.Palace)
	assert.Equal(t, "-", center.Lines[0])
	assert.Equal(t, elementColors["土"], center.Color)

	north := g.Cells[2][1]
	assert.True(t, north.Chief)
	assert.Equal(t, "直符", north.Lines[0])

	text := g.Text()
	assert.True(t, strings.HasPrefix(text, g.Title+"\n"))
	assert.Contains(t, text, "直符")
	assert.Contains(t, text, "子:月令")
}

func TestStruckAnnotationText(t *testing.T) {
	assert.Equal(t, "~日空~", AnnotationText("日空", true))
	assert.Equal(t, "日空", AnnotationText("日空", false))
}
