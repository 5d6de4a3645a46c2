package huffman

import (
	"fmt"
	"slices"
	"strings"
)

// Code is the path from the root of a tree to a leaf, '0' for every step
// to the left and '1' for every step to the right.
type Code string

func (c Code) Len() int { return len(c) }

// Bit reports whether the i-th bit of c is set.
func (c Code) Bit(i int) bool { return c[i] == '1' }

func (c Code) Valid() bool {
	for i := 0; i < len(c); i++ {
		if c[i] != '0' && c[i] != '1' {
			return false
		}
	}
	return true
}

func (c Code) HasPrefix(p Code) bool {
	return strings.HasPrefix(string(c), string(p))
}

// leadingZeros returns the index of the first one bit, or Len when there
// is none.
func (c Code) leadingZeros() int {
	if i := strings.IndexByte(string(c), '1'); i >= 0 {
		return i
	}
	return len(c)
}

// word returns c as the low Len bits of a uint64. ok is false for codes
// longer than 64 bits.
func (c Code) word() (w uint64, ok bool) {
	if len(c) > 64 {
		return 0, false
	}
	for i := 0; i < len(c); i++ {
		w <<= 1
		if c[i] == '1' {
			w |= 1
		}
	}
	return w, true
}

// Table is the decoder ring: the code of every symbol of a message.
type Table map[byte]Code

// Codes walks the tree from the root and records the path to every leaf.
// A tree made of a single leaf gives that symbol the empty code.
func (t *Tree) Codes() Table {
	type frame struct {
		id   int32
		code Code
	}

	table := make(Table, (len(t.nodes)+1)/2)
	stack := []frame{{id: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.nodes[f.id]
		if n.IsLeaf() {
			table[n.Symbol] = f.code
			continue
		}
		// right first so the left subtree is visited first
		stack = append(stack,
			frame{id: n.Right, code: f.code + "1"},
			frame{id: n.Left, code: f.code + "0"},
		)
	}
	return table
}

// Symbols returns the symbols of the table in ascending order.
func (t Table) Symbols() []byte {
	symbols := make([]byte, 0, len(t))
	for s := range t {
		symbols = append(symbols, s)
	}
	slices.Sort(symbols)
	return symbols
}

// Validate checks that every code is a bit string and that no two symbols
// share a code.
func (t Table) Validate() error {
	seen := make(map[Code]byte, len(t))
	for _, s := range t.Symbols() {
		c := t[s]
		if !c.Valid() {
			return fmt.Errorf("code %q of symbol %d: %w", c, s, ErrInvalidBit)
		}
		if other, ok := seen[c]; ok {
			return fmt.Errorf("symbols %d and %d share code %q: %w", other, s, c, ErrDuplicateCode)
		}
		seen[c] = s
	}
	return nil
}

// PrefixFree reports whether no code of t is a prefix of another one.
func (t Table) PrefixFree() bool {
	codes := make([]string, 0, len(t))
	for _, c := range t {
		codes = append(codes, string(c))
	}
	// after sorting, a prefix sorts directly before some code it prefixes
	slices.Sort(codes)
	for i := 1; i < len(codes); i++ {
		if strings.HasPrefix(codes[i], codes[i-1]) {
			return false
		}
	}
	return true
}

// MessageBits is the length of the encoded message for the given
// frequencies.
func (t Table) MessageBits(freq Frequencies) uint64 {
	var n uint64
	for s, c := range freq {
		n += c * uint64(len(t[s]))
	}
	return n
}
