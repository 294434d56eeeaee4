// Package histutil provides the history store of the line editor.
package histutil

// Store is an append-only, insertion-ordered sequence of committed lines.
// Entries are never mutated or removed once added.
//
// A Store is not safe for concurrent use; it is owned by a single session.
type Store struct {
	lines []string
}

// NewMemStore returns a Store that keeps history in memory, seeded with the
// given lines.
func NewMemStore(lines ...string) *Store {
	return &Store{append([]string(nil), lines...)}
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.lines) }

// Get returns the entry at index i. It panics if i is out of range.
func (s *Store) Get(i int) string { return s.lines[i] }

// All returns a copy of all the entries, oldest first.
func (s *Store) All() []string { return append([]string(nil), s.lines...) }

// Add appends a line and returns its index.
func (s *Store) Add(line string) int {
	s.lines = append(s.lines, line)
	return len(s.lines) - 1
}
