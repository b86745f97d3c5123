package search

// Difficulty is one of the four fixed tiers forming the outer search
// axis. Traversal order is Difficulties.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
	Expert       Difficulty = "expert"
)

// Difficulties is the fixed traversal order.
var Difficulties = []Difficulty{Beginner, Intermediate, Advanced, Expert}

// Series groups expansions within a difficulty.
type Series string

const (
	SeriesA Series = "A"
	SeriesB Series = "B"
)

// SeriesOrder is the fixed traversal order within a difficulty.
var SeriesOrder = []Series{SeriesA, SeriesB}

// Catalog maps each series to its total expansion count. Read-only
// reference data; update when new expansions release.
type Catalog map[Series]int

// DefaultCatalog reflects the current in-game expansion counts.
func DefaultCatalog() Catalog {
	return Catalog{SeriesA: 11, SeriesB: 1}
}

// counts converts to the string-keyed form the progress store helpers
// take.
func (c Catalog) counts() map[string]int {
	m := make(map[string]int, len(c))
	for s, n := range c {
		m[string(s)] = n
	}
	return m
}

func difficultyNames() []string {
	names := make([]string, len(Difficulties))
	for i, d := range Difficulties {
		names[i] = string(d)
	}
	return names
}
