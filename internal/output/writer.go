// Package output renders genetics results as aligned tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-genetics/internal/cross"
	"github.com/inodb/vibe-genetics/internal/equilibrium"
	"github.com/inodb/vibe-genetics/internal/sequence"
	"github.com/inodb/vibe-genetics/internal/traits"
)

// Format selects the rendering of results.
type Format string

const (
	FormatTab  Format = "tab"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTab, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTab, nil
	default:
		return "", fmt.Errorf("unknown output format %q (tab, json, yaml)", s)
	}
}

// Writer renders results to an io.Writer.
type Writer struct {
	out    io.Writer
	tw     *tabwriter.Writer
	format Format
}

// NewWriter creates a writer for the given format.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{
		out:    w,
		tw:     tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		format: format,
	}
}

// Flush flushes buffered table output.
func (w *Writer) Flush() error {
	return w.tw.Flush()
}

func (w *Writer) encode(doc any) error {
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format %q is not structured", w.format)
}

func (w *Writer) row(cols ...any) error {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	_, err := fmt.Fprintln(w.tw, strings.Join(parts, "\t"))
	return err
}

type outcomeDoc struct {
	Genotype  string  `json:"genotype" yaml:"genotype"`
	Zygosity  string  `json:"zygosity" yaml:"zygosity"`
	Phenotype string  `json:"phenotype" yaml:"phenotype"`
	Frequency float64 `json:"frequency" yaml:"frequency"`
	Expected  int     `json:"expected" yaml:"expected"`
}

type crossDoc struct {
	Parent1        string             `json:"parent1" yaml:"parent1"`
	Parent2        string             `json:"parent2" yaml:"parent2"`
	OffspringCount int                `json:"offspring_count" yaml:"offspring_count"`
	Outcomes       []outcomeDoc       `json:"outcomes" yaml:"outcomes"`
	Phenotypes     map[string]float64 `json:"phenotypes" yaml:"phenotypes"`
	Punnett        [2][2]string       `json:"punnett" yaml:"punnett"`
}

// WriteCross renders a cross: Punnett grid, then one row per genotype.
func (w *Writer) WriteCross(r *cross.Result) error {
	outcomes := r.Ordered()

	if w.format != FormatTab {
		doc := crossDoc{
			Parent1:        r.Parent1.String(),
			Parent2:        r.Parent2.String(),
			OffspringCount: r.OffspringCount,
			Phenotypes:     r.Phenotypes,
		}
		for _, o := range outcomes {
			doc.Outcomes = append(doc.Outcomes, outcomeDoc{
				Genotype:  o.Genotype.String(),
				Zygosity:  o.Zygosity.String(),
				Phenotype: o.Phenotype,
				Frequency: o.Frequency,
				Expected:  o.Expected,
			})
		}
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				doc.Punnett[i][j] = r.Punnett.Cells[i][j].String()
			}
		}
		return w.encode(doc)
	}

	p := r.Punnett
	if err := w.row("#Punnett", p.Columns[0], p.Columns[1]); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		if err := w.row(p.Rows[i], p.Cells[i][0], p.Cells[i][1]); err != nil {
			return err
		}
	}
	if err := w.row(); err != nil {
		return err
	}

	if err := w.row("#Genotype", "Zygosity", "Phenotype", "Frequency", "Expected"); err != nil {
		return err
	}
	for _, o := range outcomes {
		if err := w.row(o.Genotype, o.Zygosity, o.Phenotype, formatFloat(o.Frequency), o.Expected); err != nil {
			return err
		}
	}
	if err := w.row(); err != nil {
		return err
	}

	if err := w.row("#Phenotype", "Frequency"); err != nil {
		return err
	}
	for _, name := range sortedKeys(r.Phenotypes) {
		if err := w.row(name, formatFloat(r.Phenotypes[name])); err != nil {
			return err
		}
	}
	return nil
}

type generationDoc struct {
	equilibrium.Generation `yaml:",inline"`
	Expected               equilibrium.GenotypeCounts `json:"expected" yaml:"expected"`
}

type simulationDoc struct {
	Params      equilibrium.Params  `json:"params" yaml:"params"`
	Generations []generationDoc     `json:"generations,omitempty" yaml:"generations,omitempty"`
	Summary     equilibrium.Summary `json:"summary" yaml:"summary"`
	Error       string              `json:"error,omitempty" yaml:"error,omitempty"`
}

func newSimulationDoc(params equilibrium.Params, gens []equilibrium.Generation) simulationDoc {
	doc := simulationDoc{Params: params}
	for _, g := range gens {
		doc.Generations = append(doc.Generations, generationDoc{Generation: g, Expected: g.Expected(params.PopulationSize)})
	}
	if len(gens) > 0 {
		doc.Summary = equilibrium.Summarize(gens, params.PopulationSize)
	}
	return doc
}

// WriteGenerations renders one simulation run, one row per generation.
func (w *Writer) WriteGenerations(params equilibrium.Params, gens []equilibrium.Generation) error {
	if w.format != FormatTab {
		return w.encode(newSimulationDoc(params, gens))
	}

	if err := w.row("#Generation", "p", "q", "AA", "Aa", "aa", "N_AA", "N_Aa", "N_aa"); err != nil {
		return err
	}
	for _, g := range gens {
		n := g.Expected(params.PopulationSize)
		if err := w.row(g.Index, formatFloat(g.P), formatFloat(g.Q),
			formatFloat(g.HomDominant), formatFloat(g.Heterozygous), formatFloat(g.HomRecessive),
			n.HomDominant, n.Heterozygous, n.HomRecessive); err != nil {
			return err
		}
	}
	return nil
}

// WriteSweep renders the final generation of several independent runs.
func (w *Writer) WriteSweep(results []equilibrium.JobResult) error {
	if w.format != FormatTab {
		docs := make([]simulationDoc, 0, len(results))
		for _, r := range results {
			doc := newSimulationDoc(r.Params, nil)
			if r.Err != nil {
				doc.Error = r.Err.Error()
			} else if len(r.Generations) > 0 {
				doc.Summary = equilibrium.Summarize(r.Generations, r.Params.PopulationSize)
			}
			docs = append(docs, doc)
		}
		return w.encode(docs)
	}

	if err := w.row("#Run", "p0", "s", "mu", "Generations", "p_final", "q_final", "delta_p", "Error"); err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			if err := w.row(r.Seq, formatFloat(r.Params.InitialP), formatFloat(r.Params.Selection),
				formatFloat(r.Params.MutationRate), r.Params.Generations, "-", "-", "-", r.Err); err != nil {
				return err
			}
			continue
		}
		s := equilibrium.Summarize(r.Generations, r.Params.PopulationSize)
		if err := w.row(r.Seq, formatFloat(r.Params.InitialP), formatFloat(r.Params.Selection),
			formatFloat(r.Params.MutationRate), s.Generations,
			formatFloat(s.FinalP), formatFloat(s.FinalQ), formatFloat(s.DeltaP), "-"); err != nil {
			return err
		}
	}
	return nil
}

// SequenceExtras carries optional derived sequences printed with a composition.
type SequenceExtras struct {
	ReverseComplement string `json:"reverse_complement,omitempty" yaml:"reverse_complement,omitempty"`
	Translation       string `json:"translation,omitempty" yaml:"translation,omitempty"`
}

type compositionDoc struct {
	Analyzed       bool                  `json:"analyzed" yaml:"analyzed"`
	Composition    *sequence.Composition `json:"composition,omitempty" yaml:"composition,omitempty"`
	SequenceExtras `yaml:",inline"`
}

// WriteComposition renders a sequence composition. A nil composition is
// reported as "nothing to analyze".
func (w *Writer) WriteComposition(c *sequence.Composition, extras SequenceExtras) error {
	if w.format != FormatTab {
		return w.encode(compositionDoc{Analyzed: c != nil, Composition: c, SequenceExtras: extras})
	}

	if c == nil {
		return w.row("#No valid nucleotides to analyze")
	}
	rows := [][2]any{
		{"Length", c.Length},
		{"A", c.A},
		{"T", c.T},
		{"C", c.C},
		{"G", c.G},
		{"GC_content", fmt.Sprintf("%.1f%%", c.GCContent)},
		{"AT_content", fmt.Sprintf("%.1f%%", c.ATContent)},
		{"Molecular_weight", fmt.Sprintf("%d Da", c.MolecularWeight)},
	}
	if extras.ReverseComplement != "" {
		rows = append(rows, [2]any{"Reverse_complement", extras.ReverseComplement})
	}
	if extras.Translation != "" {
		rows = append(rows, [2]any{"Translation", extras.Translation})
	}
	for _, r := range rows {
		if err := w.row(r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}

type genomeDoc struct {
	Organism      string               `json:"organism" yaml:"organism"`
	CodingPercent float64              `json:"coding_percent" yaml:"coding_percent"`
	Stats         sequence.GenomeStats `json:"stats" yaml:"stats"`
}

// WriteGenome renders derived genome statistics for an organism.
func (w *Writer) WriteGenome(org sequence.Organism, stats sequence.GenomeStats) error {
	if w.format != FormatTab {
		return w.encode(genomeDoc{Organism: org.Name, CodingPercent: org.CodingPercent, Stats: stats})
	}

	p := stats.Profile
	rows := [][2]any{
		{"Organism", org.Name},
		{"Genome_size", fmt.Sprintf("%d bp", p.Size)},
		{"Chromosomes", p.Chromosomes},
		{"Genes", p.Genes},
		{"GC_content", fmt.Sprintf("%.1f%%", p.GCContent)},
		{"AT_content", fmt.Sprintf("%.1f%%", stats.ATContent)},
		{"Avg_chromosome_size", fmt.Sprintf("%d bp", stats.AvgChromosomeSize)},
		{"Genes_per_chromosome", stats.GenesPerChromosome},
		{"Avg_gene_size", fmt.Sprintf("%d bp", stats.AvgGeneSize)},
		{"Protein_coding", fmt.Sprintf("%g%%", org.CodingPercent)},
	}
	for _, r := range rows {
		if err := w.row(r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}

// WriteTraits renders trait predictions, one row per trait and value.
func (w *Writer) WriteTraits(preds map[string]traits.Prediction) error {
	if w.format != FormatTab {
		return w.encode(preds)
	}

	if err := w.row("#Trait", "Most_likely", "Probabilities"); err != nil {
		return err
	}
	for _, name := range sortedKeys(preds) {
		p := preds[name]
		values := sortedKeys(p.Probabilities)
		sort.SliceStable(values, func(i, j int) bool {
			return p.Probabilities[values[i]] > p.Probabilities[values[j]]
		})
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprintf("%s=%d%%", v, p.Probabilities[v])
		}
		if err := w.row(name, p.MostLikely, strings.Join(parts, ",")); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
