// Package archive stores a decoder ring next to the payload it decodes.
//
// Layout, big-endian:
//
//	| "HUFA" | 1B version | 1B kind | 32B blake3 of the original |
//	| 2B entry count | (1B symbol, 1B code length) per entry |
//	| code bits MSB-first, zero-padded to a byte |
//	| 4B payload length | payload |
package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/icza/bitio"
	"lukechampine.com/blake3"

	"github.com/Vyacheslav1557/huffman-archivator-go/huffman"
)

const (
	magic   = "HUFA"
	version = 1

	maxEntries = 256
	maxPayload = 1<<32 - 1
)

type Kind byte

const (
	// KindContainer payloads are made by huffman.Compress.
	KindContainer Kind = 1
	// KindBitstring payloads are the '0'/'1' text made by huffman.Encode.
	KindBitstring Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindBitstring:
		return "bitstring"
	default:
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
}

var (
	ErrInvalidHeader      = errors.New("invalid header")
	ErrUnsupportedVersion = errors.New("unsupported archive version")
	ErrChecksumMismatch   = errors.New("checksum mismatch")
)

type Archive struct {
	Kind    Kind
	Table   huffman.Table
	Payload []byte
	Sum     [32]byte
}

// New wraps a payload and its table, checksumming the original input.
func New(kind Kind, table huffman.Table, payload, original []byte) Archive {
	return Archive{
		Kind:    kind,
		Table:   table,
		Payload: payload,
		Sum:     blake3.Sum256(original),
	}
}

// Verify checks that original is the input the archive was made from.
func (a Archive) Verify(original []byte) error {
	if blake3.Sum256(original) != a.Sum {
		return ErrChecksumMismatch
	}
	return nil
}

func Write(w io.Writer, a Archive) error {
	if a.Kind != KindContainer && a.Kind != KindBitstring {
		return fmt.Errorf("write %v: %w", a.Kind, ErrInvalidHeader)
	}
	if len(a.Table) == 0 || len(a.Table) > maxEntries {
		return fmt.Errorf("table with %d entries: %w", len(a.Table), ErrInvalidHeader)
	}
	if uint64(len(a.Payload)) > maxPayload {
		return fmt.Errorf("payload of %d bytes: %w", len(a.Payload), ErrInvalidHeader)
	}
	if err := a.Table.Validate(); err != nil {
		return err
	}
	symbols := a.Table.Symbols()
	for _, s := range symbols {
		if c := a.Table[s]; c.Len() > 255 {
			return fmt.Errorf("code of symbol %d has %d bits: %w", s, c.Len(), ErrInvalidHeader)
		}
	}

	bw := bitio.NewWriter(w)
	bw.TryWrite([]byte(magic))
	bw.TryWriteByte(version)
	bw.TryWriteByte(byte(a.Kind))
	bw.TryWrite(a.Sum[:])

	bw.TryWriteBits(uint64(len(symbols)), 16)
	for _, s := range symbols {
		bw.TryWriteByte(s)
		bw.TryWriteByte(byte(a.Table[s].Len()))
	}
	for _, s := range symbols {
		c := a.Table[s]
		for i := 0; i < c.Len(); i++ {
			bw.TryWriteBool(c.Bit(i))
		}
	}
	bw.TryAlign()

	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(a.Payload)))
	bw.TryWrite(n[:])
	bw.TryWrite(a.Payload)
	if bw.TryError != nil {
		return bw.TryError
	}
	return bw.Close()
}

func Read(r io.Reader) (Archive, error) {
	br := bitio.NewReader(r)

	var head [len(magic) + 2 + 32]byte
	if _, err := io.ReadFull(br, head[:]); err != nil {
		return Archive{}, fmt.Errorf("read header: %w", err)
	}
	if string(head[:len(magic)]) != magic {
		return Archive{}, ErrInvalidHeader
	}
	if v := head[len(magic)]; v != version {
		return Archive{}, fmt.Errorf("version %d: %w", v, ErrUnsupportedVersion)
	}

	a := Archive{Kind: Kind(head[len(magic)+1])}
	if a.Kind != KindContainer && a.Kind != KindBitstring {
		return Archive{}, fmt.Errorf("kind %d: %w", a.Kind, ErrInvalidHeader)
	}
	copy(a.Sum[:], head[len(magic)+2:])

	count := br.TryReadBits(16)
	if br.TryError == nil && (count == 0 || count > maxEntries) {
		return Archive{}, fmt.Errorf("table with %d entries: %w", count, ErrInvalidHeader)
	}
	symbols := make([]byte, count)
	lengths := make([]int, count)
	for i := range symbols {
		symbols[i] = br.TryReadByte()
		lengths[i] = int(br.TryReadByte())
	}

	a.Table = make(huffman.Table, count)
	var sb strings.Builder
	for i, s := range symbols {
		sb.Reset()
		for j := 0; j < lengths[i]; j++ {
			if br.TryReadBool() {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		if _, dup := a.Table[s]; dup {
			return Archive{}, fmt.Errorf("symbol %d listed twice: %w", s, ErrInvalidHeader)
		}
		a.Table[s] = huffman.Code(sb.String())
	}
	br.Align()

	size := br.TryReadBits(32)
	if br.TryError != nil {
		return Archive{}, fmt.Errorf("read table: %w", br.TryError)
	}
	if err := a.Table.Validate(); err != nil {
		return Archive{}, err
	}

	var payload bytes.Buffer
	if _, err := io.CopyN(&payload, br, int64(size)); err != nil {
		return Archive{}, fmt.Errorf("read payload of %d bytes: %w", size, err)
	}
	a.Payload = payload.Bytes()
	return a, nil
}
