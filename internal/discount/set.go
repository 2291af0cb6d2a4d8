package discount

import "sort"

// mapCodeSet implements CodeSet using a map for O(1) lookups.
type mapCodeSet struct {
	codes map[string]struct{}
}

// NewMapCodeSet creates a new map-based code set.
func NewMapCodeSet(capacity int) CodeSet {
	return &mapCodeSet{
		codes: make(map[string]struct{}, capacity),
	}
}

func (s *mapCodeSet) Contains(code string) bool {
	_, exists := s.codes[code]
	return exists
}

func (s *mapCodeSet) Size() int {
	return len(s.codes)
}

func (s *mapCodeSet) Codes() []string {
	out := make([]string, 0, len(s.codes))
	for c := range s.codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Add adds a code to the set.
func (s *mapCodeSet) Add(code string) {
	s.codes[code] = struct{}{}
}
