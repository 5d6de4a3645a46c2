package archive

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/Vyacheslav1557/huffman-archivator-go/huffman"
)

func TestWriteRead(t *testing.T) {
	original := []byte("she sells sea shells by the sea shore")
	container, table, err := huffman.Compress(original)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, New(KindContainer, table, container, original)); err != nil {
		t.Fatalf("write: %v", err)
	}
	a, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if a.Kind != KindContainer {
		t.Fatalf("kind = %v, want %v", a.Kind, KindContainer)
	}
	if !bytes.Equal(a.Payload, container) {
		t.Fatalf("payload = % x, want % x", a.Payload, container)
	}
	if len(a.Table) != len(table) {
		t.Fatalf("got %d codes, want %d", len(a.Table), len(table))
	}
	for s, c := range table {
		if a.Table[s] != c {
			t.Fatalf("code of %q = %q, want %q", s, a.Table[s], c)
		}
	}

	out, err := huffman.Decompress(a.Payload, a.Table)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if err := a.Verify(out); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := a.Verify(out[1:]); !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("verify of other data: got %v, want ErrChecksumMismatch", err)
	}
}

func TestWriteReadBitstring(t *testing.T) {
	original := []byte("ABCDD")
	bits, table, err := huffman.Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, New(KindBitstring, table, []byte(bits), original)); err != nil {
		t.Fatalf("write: %v", err)
	}
	// 4 magic + 2 + 32 sum + 2 count + 4 entries * 2 + 1 byte of code bits + 4 size + 10 payload
	if buf.Len() != 63 {
		t.Fatalf("archive is %d bytes, want 63", buf.Len())
	}

	a, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if a.Kind != KindBitstring || string(a.Payload) != bits {
		t.Fatalf("got %v %q, want %v %q", a.Kind, a.Payload, KindBitstring, bits)
	}
	out, err := huffman.Decode(string(a.Payload), a.Table)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := a.Verify(out); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestWriteReadSingleSymbol(t *testing.T) {
	original := bytes.Repeat([]byte{'q'}, 5000)
	container, table, err := huffman.Compress(original)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, New(KindContainer, table, container, original)); err != nil {
		t.Fatalf("write: %v", err)
	}
	a, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if c, ok := a.Table['q']; !ok || c != "" || len(a.Table) != 1 {
		t.Fatalf("table = %v, want {q: \"\"}", a.Table)
	}
	out, err := huffman.Decompress(a.Payload, a.Table)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(out, original) {
		t.Fatal("roundtrip mismatch")
	}
}

func TestReadErrors(t *testing.T) {
	original := []byte("abracadabra")
	container, table, err := huffman.Compress(original)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, New(KindContainer, table, container, original)); err != nil {
		t.Fatalf("write: %v", err)
	}
	good := buf.Bytes()

	corrupt := func(i int, b byte) []byte {
		out := bytes.Clone(good)
		out[i] = b
		return out
	}
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", corrupt(0, 'X'), ErrInvalidHeader},
		{"bad version", corrupt(4, 9), ErrUnsupportedVersion},
		{"bad kind", corrupt(5, 7), ErrInvalidHeader},
		{"no entries", corrupt(39, 0), ErrInvalidHeader},
		{"short header", good[:10], io.ErrUnexpectedEOF},
		{"short payload", good[:len(good)-1], io.EOF},
	}
	for _, tt := range tests {
		if _, err := Read(bytes.NewReader(tt.data)); !errors.Is(err, tt.want) {
			t.Fatalf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestWriteErrors(t *testing.T) {
	tests := []struct {
		name string
		a    Archive
		want error
	}{
		{"no table", Archive{Kind: KindContainer}, ErrInvalidHeader},
		{"bad kind", Archive{Kind: 3, Table: huffman.Table{'a': "0"}}, ErrInvalidHeader},
		{"duplicate code", Archive{Kind: KindContainer, Table: huffman.Table{'a': "0", 'b': "0"}}, huffman.ErrDuplicateCode},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Write(&buf, tt.a); !errors.Is(err, tt.want) {
			t.Fatalf("%s: got %v, want %v", tt.name, err, tt.want)
		}
		if buf.Len() != 0 {
			t.Fatalf("%s: %d bytes written alongside an error", tt.name, buf.Len())
		}
	}
}
