package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Vyacheslav1557/huffman-archivator-go/huffman"
	"github.com/Vyacheslav1557/huffman-archivator-go/internal/archive"
)

const (
	bufSize = 1024 * 1024
)

var errUsage = errors.New("usage: huffman-archivator [-debug] -c|-d|-v|-w infile outfile")

type mode int

const (
	modeCompress mode = iota
	modeDecompress
	modeEncode
	modeDecode
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	default:
		slog.Error("huffman-archivator failed", "err", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("huffman-archivator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		compress   = fs.Bool("c", false, "compress infile into an archive")
		decompress = fs.Bool("d", false, "restore infile from an archive")
		encode     = fs.Bool("v", false, "encode infile, print the bitstring and code table, store the bitstring")
		decode     = fs.Bool("w", false, "restore infile from a stored bitstring, printing it and its code table")
		debug      = fs.Bool("debug", false, "log debug records")
	)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var m mode
	selected := 0
	for _, f := range []struct {
		set bool
		m   mode
	}{
		{*compress, modeCompress},
		{*decompress, modeDecompress},
		{*encode, modeEncode},
		{*decode, modeDecode},
	} {
		if f.set {
			m = f.m
			selected++
		}
	}
	if selected != 1 {
		return fmt.Errorf("%w: exactly one of -c, -d, -v, -w is required", errUsage)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: expected 2 arguments, got %d", errUsage, fs.NArg())
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	in, out := fs.Arg(0), fs.Arg(1)
	switch m {
	case modeCompress:
		return compressFile(in, out)
	case modeEncode:
		return encodeFile(in, out, stdout)
	default:
		return restoreFile(in, out, m == modeDecode, stdout)
	}
}

func compressFile(in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	container, table, err := huffman.Compress(data)
	if err != nil {
		return fmt.Errorf("compress %s: %w", in, err)
	}
	if err := writeArchive(out, archive.New(archive.KindContainer, table, container, data)); err != nil {
		return err
	}
	slog.Info("compressed", "in", in, "out", out, "bytes", len(data), "packed", len(container), "symbols", len(table))
	return nil
}

func encodeFile(in, out string, stdout io.Writer) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	bits, table, err := huffman.Encode(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", in, err)
	}
	printVerbose(stdout, bits, table, huffman.Count(data))

	// an empty bitstring cannot say how long the run was
	a := archive.New(archive.KindBitstring, table, []byte(bits), data)
	if isRun(table) {
		container, _, err := huffman.Compress(data)
		if err != nil {
			return fmt.Errorf("encode %s: %w", in, err)
		}
		a = archive.New(archive.KindContainer, table, container, data)
	}
	if err := writeArchive(out, a); err != nil {
		return err
	}
	slog.Info("encoded", "in", in, "out", out, "bytes", len(data), "bits", len(bits), "symbols", len(table))
	return nil
}

// restoreFile reads an archive, rebuilds the original and checks it against
// the stored checksum before writing anything.
func restoreFile(in, out string, verbose bool, stdout io.Writer) error {
	a, err := readArchive(in)
	if err != nil {
		return err
	}

	var data []byte
	switch a.Kind {
	case archive.KindContainer:
		if verbose && !isRun(a.Table) {
			return fmt.Errorf("%s holds a %v, not a bitstring", in, a.Kind)
		}
		data, err = huffman.Decompress(a.Payload, a.Table)
		if err == nil && verbose {
			printVerbose(stdout, "", a.Table, huffman.Count(data))
		}
	case archive.KindBitstring:
		data, err = huffman.Decode(string(a.Payload), a.Table)
		if err == nil && verbose {
			printVerbose(stdout, string(a.Payload), a.Table, huffman.Count(data))
		}
	}
	if err != nil {
		return fmt.Errorf("restore %s: %w", in, err)
	}
	if err := a.Verify(data); err != nil {
		return fmt.Errorf("restore %s: %w", in, err)
	}

	if err := os.WriteFile(out, data, 0644); err != nil {
		return err
	}
	slog.Info("restored", "in", in, "out", out, "kind", a.Kind, "bytes", len(data))
	return nil
}

// isRun reports whether table is the single empty code of a one-symbol input.
func isRun(table huffman.Table) bool {
	if len(table) != 1 {
		return false
	}
	for _, c := range table {
		return c == ""
	}
	return false
}

func printVerbose(w io.Writer, bits string, table huffman.Table, freq huffman.Frequencies) {
	fmt.Fprintln(w, bits)
	fmt.Fprintln(w, renderCodes(table, freq))
	fmt.Fprintln(w, renderStats(freq, table))
}

func writeArchive(path string, a archive.Archive) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriterSize(file, bufSize)
	if err := archive.Write(writer, a); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	return file.Close()
}

func readArchive(path string) (archive.Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return archive.Archive{}, err
	}
	defer file.Close()

	a, err := archive.Read(bufio.NewReaderSize(file, bufSize))
	if err != nil {
		return archive.Archive{}, fmt.Errorf("read %s: %w", path, err)
	}
	return a, nil
}
