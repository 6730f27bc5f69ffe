package main

import (
	"github.com/spf13/cobra"

	"github.com/inodb/vibe-genetics/internal/sequence"
)

func (a *app) newGenomeCmd() *cobra.Command {
	var (
		organism string
		custom   sequence.GenomeProfile
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "genome",
		Short: "Derive genome statistics for an organism",
		Long: `Derive average chromosome size, genes per chromosome and average gene size
from a genome profile.

A known organism (see --list) replaces the profile flags; "custom" uses them
as given. With --catalog the organism table is read from the DuckDB catalog.`,
		Example: `  vibe-genetics genome --organism yeast
  vibe-genetics genome --organism custom --size 5000000 --chromosomes 2 --genes 4500 --gc 48
  vibe-genetics genome --list`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.organismTable()
			if err != nil {
				return err
			}

			w, err := a.writer()
			if err != nil {
				return err
			}

			if list {
				for _, name := range table.Names() {
					org := table[name]
					stats, err := sequence.DeriveGenomeStatistics(org.Profile)
					if err != nil {
						return err
					}
					if err := w.WriteGenome(org, stats); err != nil {
						return err
					}
					if err := w.Flush(); err != nil {
						return err
					}
				}
				return nil
			}

			if !cmd.Flags().Changed("organism") {
				organism = a.v.GetString(keyOrganism)
			}
			org, err := sequence.ResolveOrganism(organism, custom, table)
			if err != nil {
				return &usageError{err: err}
			}
			stats, err := sequence.DeriveGenomeStatistics(org.Profile)
			if err != nil {
				return err
			}
			if err := w.WriteGenome(org, stats); err != nil {
				return err
			}
			return w.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&organism, "organism", sequence.DefaultOrganism, "Organism: human, mouse, fruit-fly, yeast, e.coli or custom")
	f.Int64Var(&custom.Size, "size", 0, "Genome size in base pairs (custom organism)")
	f.IntVar(&custom.Chromosomes, "chromosomes", 1, "Chromosome count (custom organism)")
	f.IntVar(&custom.Genes, "genes", 1, "Estimated gene count (custom organism)")
	f.Float64Var(&custom.GCContent, "gc", 50, "GC content percent (custom organism)")
	f.BoolVar(&list, "list", false, "List every known organism")

	return cmd
}

// organismTable returns the catalog's organisms, or the built-in table when
// no catalog is configured.
func (a *app) organismTable() (sequence.OrganismTable, error) {
	store, err := a.openCatalog()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return sequence.BuiltinOrganisms(), nil
	}
	defer store.Close()
	return store.Organisms()
}
