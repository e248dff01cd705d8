package solver

import "fmt"

// LengthScore is the point value of a word with n letters.  A Qu tile counts
// as two letters.
func LengthScore(n int) int {
	switch {
	case n <= 2:
		return 0
	case n <= 4:
		return 1
	case n == 5:
		return 2
	case n == 6:
		return 3
	case n == 7:
		return 5
	default:
		return 11
	}
}

// ScoreOf returns the score of word, or 0 if word is not in the dictionary.
func (s *Solver) ScoreOf(word string) int {
	if !s.trie.Contains(word) {
		return 0
	}
	return LengthScore(len(word))
}

// ScoreOfOptional is ScoreOf for callers whose word may be absent, such as a
// decoded request.  A nil word is an ErrInvalidArgument.
func (s *Solver) ScoreOfOptional(word *string) (int, error) {
	if word == nil {
		return 0, fmt.Errorf("word must be non-nil: %w", ErrInvalidArgument)
	}
	return s.ScoreOf(*word), nil
}

// TotalScore sums ScoreOf over words.
func (s *Solver) TotalScore(words WordSet) int {
	total := 0
	for w := range words {
		total += s.ScoreOf(w)
	}
	return total
}
