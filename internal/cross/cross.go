package cross

import (
	"fmt"
	"math"
	"sort"

	"github.com/inodb/vibe-genetics/internal/validate"
)

// gametes is the number of equiprobable gamete pairings in a monohybrid cross.
const gametes = 4

// Default labels and counts used when the caller has no preference.
const (
	DefaultDominantLabel  = "Dominant"
	DefaultRecessiveLabel = "Recessive"
	DefaultOffspringCount = 100
)

// Result is the outcome of a monohybrid cross.
type Result struct {
	Parent1        Genotype             `json:"parent1" yaml:"parent1"`
	Parent2        Genotype             `json:"parent2" yaml:"parent2"`
	OffspringCount int                  `json:"offspring_count" yaml:"offspring_count"`
	Genotypes      map[Genotype]float64 `json:"genotypes" yaml:"genotypes"`
	Phenotypes     map[string]float64   `json:"phenotypes" yaml:"phenotypes"`
	Expected       map[Genotype]int     `json:"expected" yaml:"expected"`
	Punnett        Punnett              `json:"punnett" yaml:"punnett"`

	dominantLabel  string
	recessiveLabel string
}

// Punnett is the 2x2 grid of gamete combinations. Rows are parent 1's
// gametes, columns are parent 2's.
type Punnett struct {
	Rows    [2]Allele      `json:"-" yaml:"-"`
	Columns [2]Allele      `json:"-" yaml:"-"`
	Cells   [2][2]Genotype `json:"cells" yaml:"cells"`
}

// Outcome is one row of an ordered cross summary.
type Outcome struct {
	Genotype  Genotype
	Zygosity  Zygosity
	Phenotype string
	Frequency float64
	Expected  int
}

// ComputeCross enumerates the offspring of two parents for one gene.
//
// Each parent contributes either of its alleles with probability 1/2, so
// every cross has four equiprobable combinations. Expected counts are
// rounded independently per genotype and may sum to offspringCount±1.
func ComputeCross(p1, p2 Genotype, dominantLabel, recessiveLabel string, offspringCount int) (*Result, error) {
	if p1 == (Genotype{}) || p2 == (Genotype{}) {
		return nil, &GenotypeError{Input: p1.String() + "x" + p2.String(), Reason: "parent genotype is empty"}
	}
	if p1.Letter() != p2.Letter() {
		return nil, &GenotypeError{
			Input:  p1.String() + "x" + p2.String(),
			Reason: fmt.Sprintf("parents carry different genes (%c and %c)", p1.Letter(), p2.Letter()),
		}
	}
	if err := validate.AtLeast("offspringCount", offspringCount, 1); err != nil {
		return nil, err
	}

	r := &Result{
		Parent1:        p1,
		Parent2:        p2,
		OffspringCount: offspringCount,
		Genotypes:      make(map[Genotype]float64, 3),
		Phenotypes:     make(map[string]float64, 2),
		Expected:       make(map[Genotype]int, 3),
		dominantLabel:  dominantLabel,
		recessiveLabel: recessiveLabel,
	}
	r.Punnett.Rows = p1.Alleles()
	r.Punnett.Columns = p2.Alleles()

	counts := make(map[Genotype]int, 3)
	for i, a := range r.Punnett.Rows {
		for j, b := range r.Punnett.Columns {
			// Both alleles share a letter, so this cannot fail.
			g, err := NewGenotype(a, b)
			if err != nil {
				return nil, err
			}
			r.Punnett.Cells[i][j] = g
			counts[g]++
		}
	}

	for g, n := range counts {
		freq := float64(n) / gametes
		r.Genotypes[g] = freq
		r.Phenotypes[r.PhenotypeOf(g)] += freq
		r.Expected[g] = int(math.Round(freq * float64(offspringCount)))
	}

	return r, nil
}

// PhenotypeOf returns the phenotype label a genotype expresses in this cross.
func (r *Result) PhenotypeOf(g Genotype) string {
	if g.ExpressesDominant() {
		return r.dominantLabel
	}
	return r.recessiveLabel
}

// Ordered returns the produced genotypes, homozygous dominant first.
func (r *Result) Ordered() []Outcome {
	out := make([]Outcome, 0, len(r.Genotypes))
	for g, f := range r.Genotypes {
		out = append(out, Outcome{
			Genotype:  g,
			Zygosity:  g.Zygosity(),
			Phenotype: r.PhenotypeOf(g),
			Frequency: f,
			Expected:  r.Expected[g],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Zygosity < out[j].Zygosity
	})
	return out
}

// ExpectedTotal sums the rounded expected counts.
func (r *Result) ExpectedTotal() int {
	total := 0
	for _, n := range r.Expected {
		total += n
	}
	return total
}
