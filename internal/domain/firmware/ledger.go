package firmware

import "sort"

// Ledger is the set of compressed artifact names produced by a run.
// It remembers which candidate produced each name so collisions can be reported.
type Ledger struct {
	// sources maps an artifact name to the candidate that produced it most recently.
	sources map[string]string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		sources: make(map[string]string),
	}
}

// Add records that candidate produced artifact name.
// It returns the candidate previously recorded under the same name, if any.
func (l *Ledger) Add(name, candidate string) (string, bool) {
	previous, exists := l.sources[name]
	l.sources[name] = candidate

	return previous, exists
}

// Remove forgets name.
func (l *Ledger) Remove(name string) {
	delete(l.sources, name)
}

// Contains reports whether name was recorded.
func (l *Ledger) Contains(name string) bool {
	_, ok := l.sources[name]

	return ok
}

// Source returns the candidate that last produced name.
func (l *Ledger) Source(name string) string {
	return l.sources[name]
}

// Len returns the number of distinct artifact names.
func (l *Ledger) Len() int {
	return len(l.sources)
}

// Names returns the distinct artifact names in lexicographic order.
// The result is a fresh slice and is used verbatim as the archive member list.
func (l *Ledger) Names() []string {
	names := make([]string, 0, len(l.sources))
	for name := range l.sources {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
