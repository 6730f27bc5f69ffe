// Package sequence computes nucleotide composition and organism-level
// genome statistics.
package sequence

import (
	"math"
	"strings"
)

// WeightPerBase is the approximate molecular weight (Da) of one base pair.
// Comparative display only, not laboratory precise.
const WeightPerBase = 650

// Composition holds per-base counts and content percentages of a cleaned sequence.
type Composition struct {
	Length          int     `json:"length" yaml:"length"`
	A               int     `json:"a" yaml:"a"`
	T               int     `json:"t" yaml:"t"`
	C               int     `json:"c" yaml:"c"`
	G               int     `json:"g" yaml:"g"`
	GCContent       float64 `json:"gc_content" yaml:"gc_content"` // percent, one decimal
	ATContent       float64 `json:"at_content" yaml:"at_content"` // 100 - GCContent
	MolecularWeight int64   `json:"molecular_weight" yaml:"molecular_weight"`
}

// Clean uppercases raw and drops every character that is not A, T, C or G.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; c {
		case 'A', 'T', 'C', 'G':
			b.WriteByte(c)
		case 'a', 't', 'c', 'g':
			b.WriteByte(c - 'a' + 'A')
		}
	}
	return b.String()
}

// Analyze computes the composition of raw after cleaning.
// Returns nil when nothing valid remains; that is not an error.
func Analyze(raw string) *Composition {
	seq := Clean(raw)
	if len(seq) == 0 {
		return nil
	}

	c := &Composition{Length: len(seq)}
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A':
			c.A++
		case 'T':
			c.T++
		case 'C':
			c.C++
		case 'G':
			c.G++
		}
	}

	c.GCContent = round1(100 * float64(c.G+c.C) / float64(c.Length))
	c.ATContent = round1(100 - c.GCContent)
	c.MolecularWeight = int64(c.Length) * WeightPerBase
	return c
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
