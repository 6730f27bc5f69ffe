package sequence

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/inodb/vibe-genetics/internal/validate"
)

// Organism identifiers of the built-in table.
const (
	OrganismHuman     = "human"
	OrganismMouse     = "mouse"
	OrganismFruitFly  = "fruit-fly"
	OrganismYeast     = "yeast"
	OrganismEColi     = "e.coli"
	OrganismCustom    = "custom"
	DefaultOrganism   = OrganismHuman
	DefaultCodingPerc = 20.0
)

// GenomeProfile describes an organism's genome.
type GenomeProfile struct {
	Size        int64   `json:"genome_size" yaml:"genome_size"` // base pairs
	Chromosomes int     `json:"chromosomes" yaml:"chromosomes"`
	Genes       int     `json:"genes" yaml:"genes"`
	GCContent   float64 `json:"gc_content" yaml:"gc_content"` // percent
}

// GenomeStats holds values derived from a GenomeProfile.
type GenomeStats struct {
	Profile            GenomeProfile `json:"profile" yaml:"profile"`
	AvgChromosomeSize  int64         `json:"avg_chromosome_size" yaml:"avg_chromosome_size"`
	GenesPerChromosome int           `json:"genes_per_chromosome" yaml:"genes_per_chromosome"`
	AvgGeneSize        int64         `json:"avg_gene_size" yaml:"avg_gene_size"`
	ATContent          float64       `json:"at_content" yaml:"at_content"`
}

// DeriveGenomeStatistics computes averages from a profile. Chromosome and
// gene counts must be at least 1.
func DeriveGenomeStatistics(profile GenomeProfile) (GenomeStats, error) {
	if err := validate.AtLeast("genomeSize", profile.Size, 0); err != nil {
		return GenomeStats{}, err
	}
	if err := validate.AtLeast("chromosomeCount", profile.Chromosomes, 1); err != nil {
		return GenomeStats{}, err
	}
	if err := validate.AtLeast("geneCount", profile.Genes, 1); err != nil {
		return GenomeStats{}, err
	}
	if err := validate.Closed("gcContent", profile.GCContent, 0, 100); err != nil {
		return GenomeStats{}, err
	}

	size := float64(profile.Size)
	return GenomeStats{
		Profile:            profile,
		AvgChromosomeSize:  int64(math.Round(size / float64(profile.Chromosomes))),
		GenesPerChromosome: int(math.Round(float64(profile.Genes) / float64(profile.Chromosomes))),
		AvgGeneSize:        int64(math.Round(size / float64(profile.Genes))),
		ATContent:          round1(100 - profile.GCContent),
	}, nil
}

// Organism is a reference entry of the organism table.
type Organism struct {
	Name          string        `json:"name" yaml:"name"`
	Profile       GenomeProfile `json:"profile" yaml:"profile"`
	CodingPercent float64       `json:"coding_percent" yaml:"coding_percent"` // share of genome that is protein coding
}

// OrganismTable maps organism identifiers to reference entries.
type OrganismTable map[string]Organism

// Names returns the identifiers in sorted order.
func (t OrganismTable) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var builtinOrganisms = OrganismTable{
	OrganismHuman: {
		Name:          OrganismHuman,
		Profile:       GenomeProfile{Size: 3_200_000_000, Chromosomes: 23, Genes: 20_000, GCContent: 41},
		CodingPercent: 2,
	},
	OrganismMouse: {
		Name:          OrganismMouse,
		Profile:       GenomeProfile{Size: 2_700_000_000, Chromosomes: 20, Genes: 22_000, GCContent: 42},
		CodingPercent: DefaultCodingPerc,
	},
	OrganismFruitFly: {
		Name:          OrganismFruitFly,
		Profile:       GenomeProfile{Size: 140_000_000, Chromosomes: 4, Genes: 14_000, GCContent: 42},
		CodingPercent: DefaultCodingPerc,
	},
	OrganismYeast: {
		Name:          OrganismYeast,
		Profile:       GenomeProfile{Size: 12_000_000, Chromosomes: 16, Genes: 6_000, GCContent: 38},
		CodingPercent: 70,
	},
	OrganismEColi: {
		Name:          OrganismEColi,
		Profile:       GenomeProfile{Size: 4_600_000, Chromosomes: 1, Genes: 4_300, GCContent: 51},
		CodingPercent: 85,
	},
}

// BuiltinOrganisms returns a copy of the built-in organism table.
func BuiltinOrganisms() OrganismTable {
	t := make(OrganismTable, len(builtinOrganisms))
	for k, v := range builtinOrganisms {
		t[k] = v
	}
	return t
}

// ResolveOrganism picks the profile for name. A known organism replaces the
// caller's profile; "custom" keeps it and uses the default coding percentage.
func ResolveOrganism(name string, custom GenomeProfile, table OrganismTable) (Organism, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == OrganismCustom {
		return Organism{Name: OrganismCustom, Profile: custom, CodingPercent: DefaultCodingPerc}, nil
	}
	org, ok := table[key]
	if !ok {
		return Organism{}, fmt.Errorf("unknown organism %q (known: %s)", name, strings.Join(table.Names(), ", "))
	}
	return org, nil
}
