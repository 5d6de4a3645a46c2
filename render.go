package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Vyacheslav1557/huffman-archivator-go/huffman"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// renderCodes draws the decoder ring, one row per symbol in ascending order.
func renderCodes(codes huffman.Table, freq huffman.Frequencies) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("SYMBOL", "COUNT", "BITS", "CODE")

	for _, s := range codes.Symbols() {
		c := codes[s]
		code := string(c)
		if code == "" {
			code = "(run)"
		}
		t.Row(symbolLabel(s), strconv.FormatUint(freq[s], 10), strconv.Itoa(c.Len()), code)
	}
	return t.String()
}

func renderStats(freq huffman.Frequencies, codes huffman.Table) string {
	n := freq.Total()
	bits := codes.MessageBits(freq)
	per := 0.0
	if n > 0 {
		per = float64(bits) / float64(n)
	}
	return mutedStyle.Render(fmt.Sprintf("%d symbols, %d distinct, %d bits, %.3f bits/symbol",
		n, len(codes), bits, per))
}

func symbolLabel(s byte) string {
	if s > ' ' && s < 0x7f {
		return fmt.Sprintf("'%c'", s)
	}
	return fmt.Sprintf("0x%02x", s)
}
