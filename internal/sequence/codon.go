package sequence

import "strings"

// Standard genetic code: DNA codon to amino acid (single letter).
var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// complement maps each cleaned base to its pair.
func complement(base byte) byte {
	switch base {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'G':
		return 'C'
	case 'C':
		return 'G'
	default:
		return 'N'
	}
}

// Complement returns the base-wise complement of raw after cleaning.
func Complement(raw string) string {
	seq := []byte(Clean(raw))
	for i, b := range seq {
		seq[i] = complement(b)
	}
	return string(seq)
}

// ReverseComplement returns the reverse complement of raw after cleaning.
func ReverseComplement(raw string) string {
	seq := Clean(raw)
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = complement(seq[n-1-i])
	}
	return string(out)
}

// Translate translates raw after cleaning in reading frame 0. A trailing
// partial codon is ignored and stop codons are rendered as '*'.
func Translate(raw string) string {
	seq := Clean(raw)
	n := (len(seq) / 3) * 3

	var b strings.Builder
	b.Grow(n / 3)
	for i := 0; i < n; i += 3 {
		b.WriteByte(codonTable[seq[i:i+3]])
	}
	return b.String()
}
