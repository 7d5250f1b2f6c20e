package engine

import (
	"fmt"

	"github.com/spektr-org/qimen/calendar"
)

// horseOf maps each hour branch to its horse branch by triad.
var horseOf = map[string]string{
	"寅": "申", "午": "申", "戌": "申",
	"亥": "巳", "卯": "巳", "未": "巳",
	"申": "寅", "子": "寅", "辰": "寅",
	"巳": "亥", "酉": "亥", "丑": "亥",
}

// Horse returns the horse branch of an hour branch, or "" when unknown.
func Horse(hourBranch string) string {
	return horseOf[hourBranch]
}

// Void returns the two void branches of a pillar's decade.
func (e *Engine) Void(p calendar.Pillar) ([]string, error) {
	xun, err := e.ResolveXun(p)
	if err != nil {
		return nil, err
	}
	head, ok := e.tables.FindXun(xun.HeadBranch)
	if !ok {
		return nil, fmt.Errorf("%w: no decade headed by %s", ErrLookup, xun.HeadBranch)
	}
	return []string{head.Void[0], head.Void[1]}, nil
}
