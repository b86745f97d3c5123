// Package progress tracks the high-water mark of reward-free
// expansions per (difficulty, series) key, so a session never rescans
// a region it has already confirmed empty.
package progress

import (
	"fmt"
	"sort"
	"sync"
)

// Store is the contract the search core depends on. Durability is a
// configuration choice, not a core invariant: implementations may be
// in-memory (reset every session) or persistent (keyed by device
// identity); callers must not assume either.
type Store interface {
	// StartPosition returns the 1-indexed next-unchecked expansion
	// ordinal for the key.
	StartPosition(difficulty, series string) int

	// MarkChecked records that expansions 1..n are confirmed empty.
	// The count is monotonic: marking a smaller ordinal is a no-op, so
	// retries and forward jumps never regress progress.
	MarkChecked(difficulty, series string, n int)

	// SeriesExhausted reports whether all `total` expansions of the
	// series are confirmed empty.
	SeriesExhausted(difficulty, series string, total int) bool

	// Reset zeroes every key (fresh pass, e.g. after a catalog change).
	Reset()
}

// Key builds the persisted record key, "<difficulty>_<series>".
func Key(difficulty, series string) string {
	return fmt.Sprintf("%s_%s", difficulty, series)
}

// DifficultyExhausted reports whether every series in the catalog is
// exhausted for the difficulty.
func DifficultyExhausted(s Store, difficulty string, counts map[string]int) bool {
	for series, total := range counts {
		if !s.SeriesExhausted(difficulty, series, total) {
			return false
		}
	}
	return true
}

// FullyExhausted reports whether every (difficulty, series) pair is
// exhausted.
func FullyExhausted(s Store, difficulties []string, counts map[string]int) bool {
	for _, d := range difficulties {
		if !DifficultyExhausted(s, d, counts) {
			return false
		}
	}
	return true
}

// Memory is the default in-memory store. Progress deliberately resets
// when the session ends: emulator ports change between sessions, so a
// stale record could describe a different device.
type Memory struct {
	mu      sync.Mutex
	checked map[string]int
}

func NewMemory() *Memory {
	return &Memory{checked: make(map[string]int)}
}

func (m *Memory) StartPosition(difficulty, series string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checked[Key(difficulty, series)] + 1
}

func (m *Memory) MarkChecked(difficulty, series string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := Key(difficulty, series)
	if n > m.checked[key] {
		m.checked[key] = n
	}
}

func (m *Memory) SeriesExhausted(difficulty, series string, total int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checked[Key(difficulty, series)] >= total
}

func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.checked {
		m.checked[k] = 0
	}
}

// Snapshot returns the current counts as "key=count" lines, sorted,
// for status logging.
func (m *Memory) Snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]string, 0, len(m.checked))
	for k, v := range m.checked {
		lines = append(lines, fmt.Sprintf("%s=%d", k, v))
	}
	sort.Strings(lines)
	return lines
}
