// Package trie implements an uppercase A-Z prefix tree used to steer the board
// search.
//
// Words are stored letter by letter.  Board tiles are consumed token by token,
// where the Q tile is the two-letter token "QU", so Child walks two edges for
// a Q.  A stored word that contains a Q not followed by U can therefore never
// be reached from a board.
package trie

import (
	"errors"
	"fmt"
)

const alphabetSize = 26

var ErrInvalidLetter = errors.New("letter is not uppercase A-Z")

// Node is one vertex of the tree.  A nil *Node means "no match".
type Node struct {
	children [alphabetSize]*Node
	terminal bool
}

// Terminal reports whether a dictionary word ends at n.
func (n *Node) Terminal() bool {
	return n.terminal
}

func (n *Node) child(letter byte) *Node {
	if letter < 'A' || letter > 'Z' {
		return nil
	}
	return n.children[letter-'A']
}

// Trie owns the root node and every node below it.  It is not safe for
// concurrent Insert, but once construction is finished any number of
// goroutines may read it.
type Trie struct {
	root      *Node
	nodeCount int
	wordCount int
}

func New() *Trie {
	return &Trie{
		root:      &Node{},
		nodeCount: 1,
	}
}

// NewFromWords builds a trie holding every word in words.
func NewFromWords(words []string) (*Trie, error) {
	t := New()
	for _, w := range words {
		if err := t.Insert(w); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Insert adds word to the trie.  The word is validated before any node is
// created, so a rejected word leaves the trie untouched.  The empty word is ignored.
func (t *Trie) Insert(word string) error {
	if word == "" {
		return nil
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'A' || word[i] > 'Z' {
			return fmt.Errorf("while inserting %q: byte %q at offset %d: %w", word, word[i], i, ErrInvalidLetter)
		}
	}

	curNode := t.root
	for i := 0; i < len(word); i++ {
		idx := word[i] - 'A'
		if curNode.children[idx] == nil {
			curNode.children[idx] = &Node{}
			t.nodeCount++
		}
		curNode = curNode.children[idx]
	}

	if !curNode.terminal {
		curNode.terminal = true
		t.wordCount++
	}
	return nil
}

func (t *Trie) walk(s string) *Node {
	curNode := t.root
	for i := 0; i < len(s); i++ {
		curNode = curNode.child(s[i])
		if curNode == nil {
			return nil
		}
	}
	return curNode
}

// Contains reports whether word was inserted.  A proper prefix of a stored
// word is not contained unless it was inserted itself.
func (t *Trie) Contains(word string) bool {
	n := t.walk(word)
	return n != nil && n.terminal
}

// HasPrefix walks prefix once and reports whether some stored word starts with
// it, and whether prefix is itself a stored word.
func (t *Trie) HasPrefix(prefix string) (isPrefix, isWord bool) {
	n := t.walk(prefix)
	if n == nil {
		return false, false
	}
	return true, n.terminal
}

// Root returns the root node, the starting point for token-by-token walks.
func (t *Trie) Root() *Node {
	return t.root
}

// Child consumes one board token from parent.  For 'Q' the token is "QU" and
// both edges must exist.  It returns nil when the token leaves the dictionary.
func (t *Trie) Child(parent *Node, letter byte) *Node {
	if parent == nil {
		return nil
	}
	n := parent.child(letter)
	if n == nil || letter != 'Q' {
		return n
	}
	return n.child('U')
}

// ChildOfRoot is Child(t.Root(), letter).
func (t *Trie) ChildOfRoot(letter byte) *Node {
	return t.Child(t.root, letter)
}

// Token returns the text a board letter contributes to a word.
func Token(letter byte) string {
	if letter == 'Q' {
		return "QU"
	}
	return string(letter)
}

// NodeCount returns the number of nodes, root included.
func (t *Trie) NodeCount() int {
	return t.nodeCount
}

// Len returns the number of distinct words stored.
func (t *Trie) Len() int {
	return t.wordCount
}
