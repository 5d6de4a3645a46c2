package huffman

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/icza/bitio"
)

// headerSize is the size of the container header:
// | 1B pad count | 1B leading zero count | packed bits ... |
const headerSize = 2

// MaxRun is the longest single-symbol input Compress accepts and the longest
// run Decompress expands. A run container is a few bytes long whatever the
// run, so the limit bounds what a small container can allocate.
const MaxRun = 1 << 28

type symbolCode struct {
	code    Code
	word    uint64
	short   bool
	leading int
}

// Compress encodes input and packs the bits MSB-first behind a two byte
// header. The returned table is needed to decompress the container.
//
// A leading run of more than 255 zero bits does not fit in the header and
// fails with ErrHeaderOverflow.
func Compress(input []byte) ([]byte, Table, error) {
	table, err := buildTable(input)
	if err != nil {
		return nil, nil, err
	}

	var container []byte
	if single, ok := singleSymbol(table); ok && table[single] == "" {
		if len(input) > MaxRun {
			return nil, nil, fmt.Errorf("run of %d symbols: %w", len(input), ErrRunTooLong)
		}
		container = packRun(uint64(len(input)))
	} else {
		container, err = pack(input, table)
		if err != nil {
			return nil, nil, err
		}
	}

	dbg("huffman.compress", "symbols", len(table), "in", len(input), "out", len(container))
	return container, table, nil
}

func pack(input []byte, table Table) ([]byte, error) {
	var lookup [256]*symbolCode
	for s, c := range table {
		sc := &symbolCode{code: c, leading: c.leadingZeros()}
		sc.word, sc.short = c.word()
		lookup[s] = sc
	}

	var buf bytes.Buffer
	buf.Write([]byte{0, 0})
	w := bitio.NewWriter(&buf)

	var (
		nbits   uint64
		leading uint64
		seenOne bool
	)
	for i, b := range input {
		sc := lookup[b]
		if sc == nil {
			return nil, fmt.Errorf("input byte %d (%d): %w", i, b, ErrUnknownSymbol)
		}

		// an all-zero stream counts its whole unpadded length
		if !seenOne {
			if sc.leading < sc.code.Len() {
				seenOne = true
			}
			leading += uint64(sc.leading)
			if leading > math.MaxUint8 {
				return nil, fmt.Errorf("%d leading zero bits after %d symbols: %w", leading, i+1, ErrHeaderOverflow)
			}
		}

		if sc.short {
			if err := w.WriteBits(sc.word, uint8(sc.code.Len())); err != nil {
				return nil, err
			}
		} else {
			for j := 0; j < sc.code.Len(); j++ {
				if err := w.WriteBool(sc.code.Bit(j)); err != nil {
					return nil, err
				}
			}
		}
		nbits += uint64(sc.code.Len())
	}

	pad, err := w.Align()
	if err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	out[0] = pad
	out[1] = byte(leading)
	dbg("huffman.pack", "bits", nbits, "pad", pad, "leading_zeros", leading)
	return out, nil
}

// packRun stores the message length of a single-symbol input, whose code is
// empty, as a uvarint after a zero header. A uvarint cut short never parses,
// so a truncated run is detected like a truncated bitstream. A run expands
// to n bytes from at most 12, so n is capped at MaxRun on both sides.
func packRun(n uint64) []byte {
	out := make([]byte, headerSize, headerSize+binary.MaxVarintLen64)
	return binary.AppendUvarint(out, n)
}

func unpackRun(container []byte) (uint64, error) {
	if len(container) < headerSize {
		return 0, fmt.Errorf("container of %d bytes is shorter than the header: %w", len(container), ErrIncompleteCode)
	}
	if container[0] != 0 || container[1] != 0 {
		return 0, fmt.Errorf("run container with header %d/%d: %w", container[0], container[1], ErrIncompleteCode)
	}
	run := container[headerSize:]
	n, size := binary.Uvarint(run)
	if size <= 0 || size != len(run) {
		return 0, fmt.Errorf("run length of %d bytes: %w", len(run), ErrIncompleteCode)
	}
	if n > MaxRun {
		return 0, fmt.Errorf("run of %d symbols: %w", n, ErrRunTooLong)
	}
	return n, nil
}

func singleSymbol(table Table) (byte, bool) {
	if len(table) != 1 {
		return 0, false
	}
	for s := range table {
		return s, true
	}
	return 0, false
}

// header is the parsed and validated container header.
type header struct {
	pad     uint8
	leading uint8
	packed  []byte
	nbits   int
}

// parseHeader checks that the packed bits agree with the header. For a
// consistent container, reading the packed bytes as a big-endian integer,
// dropping pad bits and restoring the leading zeros gives back exactly the
// first nbits bits of the packed region.
func parseHeader(container []byte) (header, error) {
	if len(container) < headerSize {
		return header{}, fmt.Errorf("container of %d bytes is shorter than the header: %w", len(container), ErrIncompleteCode)
	}
	h := header{
		pad:     container[0],
		leading: container[1],
		packed:  container[headerSize:],
	}
	if h.pad > 7 {
		return header{}, fmt.Errorf("pad count %d: %w", h.pad, ErrIncompleteCode)
	}
	h.nbits = 8*len(h.packed) - int(h.pad)
	if h.nbits < 0 {
		return header{}, fmt.Errorf("pad count %d without packed bytes: %w", h.pad, ErrIncompleteCode)
	}
	if h.pad > 0 && h.packed[len(h.packed)-1]&(1<<h.pad-1) != 0 {
		return header{}, fmt.Errorf("padding bits are not zero: %w", ErrIncompleteCode)
	}

	first := h.nbits
	for i, b := range h.packed {
		if b != 0 {
			first = 8*i + bits.LeadingZeros8(b)
			break
		}
	}
	if first != int(h.leading) {
		return header{}, fmt.Errorf("leading zero count %d, packed bits start with %d zeros: %w", h.leading, first, ErrIncompleteCode)
	}
	return h, nil
}

// Decompress unpacks a container made by Compress and decodes it with
// table.
//
// The container does not record its own length. A container cut on a byte
// boundary that is also a code boundary, with no padding in the last byte,
// passes every header check and decodes to a prefix of the message. Callers
// that need to detect that keep a length or checksum next to the container.
func Decompress(container []byte, table Table) ([]byte, error) {
	if single, ok := singleSymbol(table); ok && table[single] == "" {
		n, err := unpackRun(container)
		if err != nil {
			return nil, err
		}
		dbg("huffman.decompress", "run", n, "symbol", single)
		return bytes.Repeat([]byte{single}, int(n)), nil
	}

	d, err := newDecoder(table)
	if err != nil {
		return nil, err
	}
	h, err := parseHeader(container)
	if err != nil {
		return nil, err
	}

	r := bitio.NewReader(bytes.NewReader(h.packed))
	out, err := d.decode(r, h.nbits, 2*len(h.packed))
	if err != nil {
		return nil, err
	}
	dbg("huffman.decompress", "bits", h.nbits, "pad", h.pad, "leading_zeros", h.leading, "out", len(out))
	return out, nil
}
