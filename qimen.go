// Package qimen casts Qi Men Dun Jia charts.
//
// Usage:
//
//	import "github.com/spektr-org/qimen/engine"
//
//	tables, err := refdata.Default()
//	e, err := engine.New(tables,
//	    engine.WithLogger(logger),
//	    engine.WithLocation(loc),
//	)
//	chart, err := e.Cast("20250901153000")
//
// A cast resolves the solar term and four pillars of the moment through a
// calendar.Resolver, then lays out the earth, heaven, star, gate and god
// plates of the nine palaces. The result carries an id-addressable Index of
// every palace attribute and is rendered by the text, table and grid
// builders in the engine package.
//
// The reference tables (sexagenary cycle, solar-term patterns, stars, gates,
// gods, branches) live in the refdata package and can be replaced by a JSON
// file of the same shape.
package qimen
