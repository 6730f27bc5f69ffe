// Package equilibrium simulates Hardy-Weinberg allele frequencies across
// generations under viability selection and mutation.
package equilibrium

import (
	"math"

	"github.com/inodb/vibe-genetics/internal/validate"
)

// Defaults used when the caller has no preference.
const (
	DefaultPopulationSize = 1000
	DefaultGenerations    = 10
)

// Params describes one simulation run.
type Params struct {
	InitialP       float64 `json:"initial_p" yaml:"initial_p"`             // dominant allele frequency, [0,1]
	PopulationSize int     `json:"population_size" yaml:"population_size"` // >= 1, only used for expected counts
	Generations    int     `json:"generations" yaml:"generations"`         // >= 0
	Selection      float64 `json:"selection" yaml:"selection"`             // against aa, [0,1]
	MutationRate   float64 `json:"mutation_rate" yaml:"mutation_rate"`     // per generation, [0,1)
}

// Validate checks every parameter against its domain.
func (p Params) Validate() error {
	if err := validate.Closed("initialP", p.InitialP, 0, 1); err != nil {
		return err
	}
	if err := validate.AtLeast("populationSize", p.PopulationSize, 1); err != nil {
		return err
	}
	if err := validate.AtLeast("generations", p.Generations, 0); err != nil {
		return err
	}
	if err := validate.Closed("selectionCoefficient", p.Selection, 0, 1); err != nil {
		return err
	}
	return validate.HalfOpen("mutationRate", p.MutationRate, 0, 1)
}

// Generation is one immutable generation of a simulation.
type Generation struct {
	Index        int     `json:"generation" yaml:"generation"`
	P            float64 `json:"p" yaml:"p"`
	Q            float64 `json:"q" yaml:"q"`
	HomDominant  float64 `json:"AA" yaml:"AA"` // p²
	Heterozygous float64 `json:"Aa" yaml:"Aa"` // 2pq
	HomRecessive float64 `json:"aa" yaml:"aa"` // q²
}

// GenotypeCounts holds expected individuals per genotype.
type GenotypeCounts struct {
	HomDominant  int `json:"AA" yaml:"AA"`
	Heterozygous int `json:"Aa" yaml:"Aa"`
	HomRecessive int `json:"aa" yaml:"aa"`
}

// Total sums the three counts.
func (c GenotypeCounts) Total() int {
	return c.HomDominant + c.Heterozygous + c.HomRecessive
}

// newGeneration expands allele frequency p into Hardy-Weinberg proportions.
func newGeneration(index int, p float64) Generation {
	q := 1 - p
	return Generation{
		Index:        index,
		P:            p,
		Q:            q,
		HomDominant:  p * p,
		Heterozygous: 2 * p * q,
		HomRecessive: q * q,
	}
}

// Expected returns round(frequency × populationSize) per genotype. The
// counts are rounded independently and may sum to populationSize±1.
func (g Generation) Expected(populationSize int) GenotypeCounts {
	n := float64(populationSize)
	return GenotypeCounts{
		HomDominant:  int(math.Round(g.HomDominant * n)),
		Heterozygous: int(math.Round(g.Heterozygous * n)),
		HomRecessive: int(math.Round(g.HomRecessive * n)),
	}
}

// Simulate returns generations 0 through p.Generations inclusive.
//
// Generation 0 is the Hardy-Weinberg expansion of InitialP. Each following
// generation applies selection against the recessive homozygote first and
// then mutation p'' = p'(1-μ) + q'μ. The order is fixed.
func Simulate(p Params) ([]Generation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	gens := make([]Generation, 0, p.Generations+1)
	gens = append(gens, newGeneration(0, p.InitialP))

	for i := 1; i <= p.Generations; i++ {
		gens = append(gens, Step(gens[i-1], p.Selection, p.MutationRate))
	}
	return gens, nil
}

// Step advances one generation.
func Step(prev Generation, selection, mutationRate float64) Generation {
	pf, qf := prev.P, prev.Q

	if selection > 0 {
		meanFitness := pf*pf + 2*pf*qf + qf*qf*(1-selection)
		// With q=1 and s=1 nobody survives; frequencies stay put.
		if meanFitness > 0 {
			qf = (qf*qf*(1-selection) + qf*pf) / meanFitness
			pf = 1 - qf
		}
	}

	if mutationRate > 0 {
		pf = pf*(1-mutationRate) + qf*mutationRate
	}

	return newGeneration(prev.Index+1, clamp01(pf))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Summary describes how a run changed allele frequencies.
type Summary struct {
	Generations   int            `json:"generations" yaml:"generations"`
	InitialP      float64        `json:"initial_p" yaml:"initial_p"`
	FinalP        float64        `json:"final_p" yaml:"final_p"`
	FinalQ        float64        `json:"final_q" yaml:"final_q"`
	DeltaP        float64        `json:"delta_p" yaml:"delta_p"`
	FinalExpected GenotypeCounts `json:"final_expected" yaml:"final_expected"`
}

// Summarize reports the change between the first and last generation.
// gens must be non-empty.
func Summarize(gens []Generation, populationSize int) Summary {
	first, last := gens[0], gens[len(gens)-1]
	return Summary{
		Generations:   last.Index,
		InitialP:      first.P,
		FinalP:        last.P,
		FinalQ:        last.Q,
		DeltaP:        last.P - first.P,
		FinalExpected: last.Expected(populationSize),
	}
}
