// Package gasschedule selects among named static-cost tables and caches
// them, mirroring the teacher's jump-table cache: tables are immutable
// once built, so building one per lookup key once and sharing it is
// strictly better than rebuilding per compilation.
package gasschedule

import (
	lru "github.com/hashicorp/golang-lru/v2"

	ci "github.com/evmlir/evmlir/internal/compilerinput"
)

// Schedule is a named variant of the opcode gas table. The core ships one
// real schedule (Default); FrontierStrict exists to exercise the cache with
// more than a single key and to demonstrate how a second hardfork-style
// variant would be added without touching dispatcher.go.
type Schedule struct {
	Name string
	// StaticCost mirrors compiler.StaticCost's signature so a Schedule can
	// be swapped in wherever the default table is used.
	StaticCost func(kind ci.OpKind, logTopics int) uint64
}

const (
	Default         = "default"
	FrontierStrict  = "frontier-strict"
	expFrontierCost = 10
)

var cache *lru.Cache[string, *Schedule]

func init() {
	c, err := lru.New[string, *Schedule](8)
	if err != nil {
		panic(err)
	}
	cache = c
}

// Get returns the named schedule, building and caching it on first use.
func Get(name string, staticCost func(ci.OpKind, int) uint64) *Schedule {
	if s, ok := cache.Get(name); ok {
		return s
	}
	s := build(name, staticCost)
	cache.Add(name, s)
	return s
}

func build(name string, staticCost func(ci.OpKind, int) uint64) *Schedule {
	switch name {
	case FrontierStrict:
		return &Schedule{
			Name: name,
			StaticCost: func(kind ci.OpKind, logTopics int) uint64 {
				if kind == ci.Exp {
					return expFrontierCost
				}
				return staticCost(kind, logTopics)
			},
		}
	default:
		return &Schedule{Name: Default, StaticCost: staticCost}
	}
}
