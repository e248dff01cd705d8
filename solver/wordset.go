package solver

import "sort"

// WordSet is the set of words found on one board.
type WordSet map[string]struct{}

func (s WordSet) Add(word string) {
	s[word] = struct{}{}
}

func (s WordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Union adds every word of o to s.
func (s WordSet) Union(o WordSet) {
	for w := range o {
		s[w] = struct{}{}
	}
}

// Sorted returns the words in lexical order.
func (s WordSet) Sorted() []string {
	words := make([]string, 0, len(s))
	for w := range s {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
