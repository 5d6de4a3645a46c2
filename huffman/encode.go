package huffman

import (
	"fmt"
	"strings"
)

// Encode builds the code table of input and returns the concatenated codes
// of its symbols as a string of '0' and '1'.
func Encode(input []byte) (string, Table, error) {
	table, err := buildTable(input)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.Grow(int(table.MessageBits(Count(input))))
	for _, b := range input {
		sb.WriteString(string(table[b]))
	}
	dbg("huffman.encode", "symbols", len(table), "in", len(input), "bits", sb.Len())
	return sb.String(), table, nil
}

// Decode reverses Encode. A code is emitted as soon as the bits read since
// the last emitted code match it exactly.
func Decode(bits string, table Table) ([]byte, error) {
	d, err := newDecoder(table)
	if err != nil {
		return nil, err
	}
	out, err := d.decode(&stringBits{s: bits}, len(bits), len(bits)/8)
	if err != nil {
		return nil, err
	}
	dbg("huffman.decode", "bits", len(bits), "out", len(out))
	return out, nil
}

func buildTable(input []byte) (Table, error) {
	tree, err := BuildTree(Count(input))
	if err != nil {
		return nil, err
	}
	return tree.Codes(), nil
}

type bitSource interface {
	ReadBool() (bool, error)
}

type stringBits struct {
	s   string
	pos int
}

func (r *stringBits) ReadBool() (bool, error) {
	c := r.s[r.pos]
	r.pos++
	switch c {
	case '0':
		return false, nil
	case '1':
		return true, nil
	}
	return false, fmt.Errorf("bit %d is %q: %w", r.pos-1, c, ErrInvalidBit)
}

type trieNode struct {
	next   [2]int32
	symbol int16
}

// decoder is the inverse of a Table, stored as a binary trie whose nodes
// carry the symbol of the code ending there.
type decoder struct {
	nodes []trieNode
}

func newDecoder(table Table) (*decoder, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	d := &decoder{nodes: []trieNode{{next: [2]int32{none, none}, symbol: -1}}}
	for _, s := range table.Symbols() {
		code := table[s]
		cur := int32(0)
		for i := 0; i < code.Len(); i++ {
			bit := 0
			if code.Bit(i) {
				bit = 1
			}
			next := d.nodes[cur].next[bit]
			if next == none {
				d.nodes = append(d.nodes, trieNode{next: [2]int32{none, none}, symbol: -1})
				next = int32(len(d.nodes) - 1)
				d.nodes[cur].next[bit] = next
			}
			cur = next
		}
		d.nodes[cur].symbol = int16(s)
	}
	return d, nil
}

// decode reads n bits from src. The candidate code is only compared after
// a bit has been added to it, so an empty code never matches.
func (d *decoder) decode(src bitSource, n, sizeHint int) ([]byte, error) {
	out := make([]byte, 0, sizeHint)
	cur := int32(0)
	for i := 0; i < n; i++ {
		bit, err := src.ReadBool()
		if err != nil {
			return nil, err
		}
		next := d.nodes[cur].next[0]
		if bit {
			next = d.nodes[cur].next[1]
		}
		if next == none {
			// no code starts with the current candidate, so it can never match
			return nil, fmt.Errorf("no code matches the bits ending at %d: %w", i, ErrIncompleteCode)
		}
		cur = next
		if s := d.nodes[cur].symbol; s >= 0 {
			out = append(out, byte(s))
			cur = 0
		}
	}
	if cur != 0 {
		return nil, fmt.Errorf("%d decoded symbols followed by a partial code: %w", len(out), ErrIncompleteCode)
	}
	return out, nil
}
