package huffman

import "slices"

// Frequencies maps every symbol present in a message to its number of
// occurrences.
type Frequencies map[byte]uint64

func Count(input []byte) Frequencies {
	var counts [256]uint64
	for _, b := range input {
		counts[b]++
	}

	freq := make(Frequencies)
	for i, c := range counts {
		if c > 0 {
			freq[byte(i)] = c
		}
	}
	return freq
}

func (f Frequencies) Total() uint64 {
	var n uint64
	for _, c := range f {
		n += c
	}
	return n
}

// Symbols returns the symbols in ascending order.
func (f Frequencies) Symbols() []byte {
	symbols := make([]byte, 0, len(f))
	for s := range f {
		symbols = append(symbols, s)
	}
	slices.Sort(symbols)
	return symbols
}
