// Package cross enumerates monohybrid crosses (Punnett squares).
package cross

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalidGenotype is the sentinel matched by every *GenotypeError.
var ErrInvalidGenotype = errors.New("invalid genotype")

// GenotypeError reports a genotype whose alleles do not belong to one gene.
type GenotypeError struct {
	Input  string
	Reason string
}

func (e *GenotypeError) Error() string {
	return fmt.Sprintf("invalid genotype %q: %s", e.Input, e.Reason)
}

func (e *GenotypeError) Unwrap() error {
	return ErrInvalidGenotype
}

// Allele is a single-letter gene variant. Uppercase is dominant.
type Allele byte

// IsDominant returns true for the uppercase form.
func (a Allele) IsDominant() bool {
	return a >= 'A' && a <= 'Z'
}

// Letter returns the case-folded gene letter.
func (a Allele) Letter() byte {
	return byte(unicode.ToUpper(rune(a)))
}

func (a Allele) valid() bool {
	return (a >= 'A' && a <= 'Z') || (a >= 'a' && a <= 'z')
}

func (a Allele) String() string {
	return string(rune(a))
}

// less orders dominant before recessive for the same letter.
func (a Allele) less(b Allele) bool {
	if a.Letter() != b.Letter() {
		return a.Letter() < b.Letter()
	}
	return a.IsDominant() && !b.IsDominant()
}

// Zygosity classifies a genotype.
type Zygosity int

const (
	HomozygousDominant Zygosity = iota
	Heterozygous
	HomozygousRecessive
)

func (z Zygosity) String() string {
	switch z {
	case HomozygousDominant:
		return "homozygous_dominant"
	case Heterozygous:
		return "heterozygous"
	default:
		return "homozygous_recessive"
	}
}

// Genotype is a canonical (sorted) pair of alleles of one gene.
// The zero value is not a valid genotype; use NewGenotype or ParseGenotype.
type Genotype struct {
	first, second Allele
}

// NewGenotype builds the canonical genotype for two alleles.
func NewGenotype(a, b Allele) (Genotype, error) {
	input := string([]byte{byte(a), byte(b)})
	if !a.valid() || !b.valid() {
		return Genotype{}, &GenotypeError{Input: input, Reason: "alleles must be letters"}
	}
	if a.Letter() != b.Letter() {
		return Genotype{}, &GenotypeError{Input: input, Reason: "alleles must share the same base letter"}
	}
	if b.less(a) {
		a, b = b, a
	}
	return Genotype{first: a, second: b}, nil
}

// ParseGenotype parses a two-character genotype such as "Aa" or "aA".
func ParseGenotype(s string) (Genotype, error) {
	if len(s) != 2 {
		return Genotype{}, &GenotypeError{Input: s, Reason: "expected exactly two alleles"}
	}
	return NewGenotype(Allele(s[0]), Allele(s[1]))
}

// MustParseGenotype is like ParseGenotype but panics on error.
func MustParseGenotype(s string) Genotype {
	g, err := ParseGenotype(s)
	if err != nil {
		panic(err)
	}
	return g
}

// Alleles returns both alleles, dominant first.
func (g Genotype) Alleles() [2]Allele {
	return [2]Allele{g.first, g.second}
}

// Letter returns the gene letter.
func (g Genotype) Letter() byte {
	return g.first.Letter()
}

// Zygosity classifies the genotype.
func (g Genotype) Zygosity() Zygosity {
	switch {
	case g.first.IsDominant() && g.second.IsDominant():
		return HomozygousDominant
	case g.first.IsDominant():
		return Heterozygous
	default:
		return HomozygousRecessive
	}
}

// ExpressesDominant returns true if at least one allele is dominant.
func (g Genotype) ExpressesDominant() bool {
	return g.first.IsDominant()
}

func (g Genotype) String() string {
	return string([]byte{byte(g.first), byte(g.second)})
}

// MarshalText renders the canonical form so genotypes can key JSON maps.
func (g Genotype) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText parses a genotype in any allele order.
func (g *Genotype) UnmarshalText(b []byte) error {
	parsed, err := ParseGenotype(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
