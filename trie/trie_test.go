package trie

import (
	"errors"
	"testing"
)

func TestTrieSingle(t *testing.T) {
	tr := New()

	if err := tr.Insert("A"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !tr.Contains("A") {
		t.Errorf("Expected trie to contain %q", "A")
	}
	if tr.Contains("") {
		t.Errorf("Expected trie not to contain the empty word")
	}
}

func TestTrieDouble(t *testing.T) {
	tr := New()

	if err := tr.Insert("AB"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if isPrefix, isWord := tr.HasPrefix("A"); !isPrefix || isWord {
		t.Errorf("HasPrefix(%q) = %v, %v; want true, false", "A", isPrefix, isWord)
	}

	if isPrefix, isWord := tr.HasPrefix("AB"); !isPrefix || !isWord {
		t.Errorf("HasPrefix(%q) = %v, %v; want true, true", "AB", isPrefix, isWord)
	}

	if tr.Contains("A") {
		t.Errorf("Prefix %q reported as a word", "A")
	}
}

func TestTrieMultiple(t *testing.T) {
	words := []string{
		"ABCDE",
		"FGHIJ",
		"KLMNO",
	}

	tr, err := NewFromWords(words)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, w := range words {
		for i := 0; i < len(w); i++ {
			if isPrefix, _ := tr.HasPrefix(w[0 : i+1]); !isPrefix {
				t.Errorf("Expected trie to contain prefix %q", w[0:i+1])
			}
		}
		if !tr.Contains(w) {
			t.Errorf("Expected trie to contain %q", w)
		}
	}

	for _, w := range []string{"ABCD", "ABCDEF", "FGX", "Z", "abcde"} {
		if tr.Contains(w) {
			t.Errorf("Trie unexpectedly contains %q", w)
		}
	}

	if got, want := tr.Len(), 3; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	if got, want := tr.NodeCount(), 16; got != want {
		t.Errorf("NodeCount() = %d, want %d", got, want)
	}
}

func TestTrieDuplicateInsert(t *testing.T) {
	tr, err := NewFromWords([]string{"CAT", "CAT", "CATS"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got, want := tr.Len(), 2; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	if got, want := tr.NodeCount(), 5; got != want {
		t.Errorf("NodeCount() = %d, want %d", got, want)
	}
}

func TestTrieIgnoresEmptyWord(t *testing.T) {
	tr := New()

	if err := tr.Insert(""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if tr.Contains("") {
		t.Errorf("Expected trie not to contain the empty word")
	}
	if tr.Len() != 0 || tr.NodeCount() != 1 {
		t.Errorf("Len() = %d, NodeCount() = %d; want 0, 1", tr.Len(), tr.NodeCount())
	}
}

func TestTrieRejectsInvalidLetters(t *testing.T) {
	tr := New()

	for _, w := range []string{"cat", "CA T", "CAFÉ", "C4T"} {
		err := tr.Insert(w)
		if !errors.Is(err, ErrInvalidLetter) {
			t.Errorf("Insert(%q) error = %v, want ErrInvalidLetter", w, err)
		}
	}

	if tr.NodeCount() != 1 {
		t.Errorf("Rejected inserts created nodes; NodeCount() = %d", tr.NodeCount())
	}
}

func TestChildQuToken(t *testing.T) {
	tr, err := NewFromWords([]string{"QUIT", "QAT"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	qu := tr.ChildOfRoot('Q')
	if qu == nil {
		t.Fatalf("Expected a node for the QU token")
	}

	i := tr.Child(qu, 'I')
	if i == nil {
		t.Fatalf("Expected QU -> I edge")
	}
	tNode := tr.Child(i, 'T')
	if tNode == nil || !tNode.Terminal() {
		t.Errorf("Expected QUIT to end at a terminal node")
	}

	// QAT is stored, but a Q tile always means QU, so no token walk reaches it.
	if tr.Child(qu, 'A') != nil {
		t.Errorf("QU -> A edge should not exist")
	}
}

func TestChildQWithoutU(t *testing.T) {
	tr, err := NewFromWords([]string{"QAT"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if tr.ChildOfRoot('Q') != nil {
		t.Errorf("Q token matched a dictionary with no QU prefix")
	}
	if tr.Child(nil, 'A') != nil {
		t.Errorf("Child of a nil parent should be nil")
	}
}

func TestToken(t *testing.T) {
	if got := Token('Q'); got != "QU" {
		t.Errorf("Token('Q') = %q, want %q", got, "QU")
	}
	if got := Token('E'); got != "E" {
		t.Errorf("Token('E') = %q, want %q", got, "E")
	}
}
