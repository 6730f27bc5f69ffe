package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-genetics/internal/catalog"
)

func (a *app) newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the DuckDB reference catalog",
		Long: `Manage the reference catalog of organism genome profiles and trait dominance
lists. The catalog is seeded with the built-in tables on first use and
versioned on every import. Path: --catalog, catalog.path in the config, or
~/.vibe-genetics/catalog.duckdb.`,
		Example: `  vibe-genetics catalog init
  vibe-genetics catalog import --organisms organisms.tsv --traits traits.tsv
  vibe-genetics catalog list`,
	}

	cmd.AddCommand(a.newCatalogInitCmd())
	cmd.AddCommand(a.newCatalogImportCmd())
	cmd.AddCommand(a.newCatalogListCmd())

	return cmd
}

// catalogStore opens the configured catalog, falling back to the default path.
func (a *app) catalogStore() (*catalog.Store, error) {
	path := a.v.GetString(keyCatalog)
	if path == "" {
		var err error
		if path, err = defaultCatalogPath(); err != nil {
			return nil, err
		}
	}
	return a.openCatalogAt(path)
}

func (a *app) newCatalogInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create and seed the catalog",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.catalogStore()
			if err != nil {
				return err
			}
			defer store.Close()

			v, err := store.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Catalog %s at version %d\n", store.Path(), v)
			return nil
		},
	}
}

func (a *app) newCatalogImportCmd() *cobra.Command {
	var organisms, traitsFile string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import organism or trait tables from TSV",
		Long: `Import reference tables from tab-separated files.

Organisms: columns organism, genome_size, chromosomes, genes, gc_content and
optional coding_percent.
Traits: columns trait and values, values comma separated, most dominant first.

Files already imported with the same size and modification time are skipped.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if organisms == "" && traitsFile == "" {
				return usagef("--organisms or --traits required")
			}

			store, err := a.catalogStore()
			if err != nil {
				return err
			}
			defer store.Close()

			report := func(path string, imported bool) {
				if imported {
					fmt.Fprintf(a.stdout, "Imported %s\n", path)
				} else {
					fmt.Fprintf(a.stdout, "Unchanged %s\n", path)
				}
			}

			if organisms != "" {
				imported, err := store.ImportOrganismsTSV(organisms)
				if err != nil {
					return err
				}
				report(organisms, imported)
			}
			if traitsFile != "" {
				imported, err := store.ImportTraitsTSV(traitsFile)
				if err != nil {
					return err
				}
				report(traitsFile, imported)
			}

			v, err := store.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Catalog version %d\n", v)
			return nil
		},
	}

	cmd.Flags().StringVar(&organisms, "organisms", "", "Organism TSV file")
	cmd.Flags().StringVar(&traitsFile, "traits", "", "Trait TSV file")

	return cmd
}

func (a *app) newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog contents and imported sources",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.catalogStore()
			if err != nil {
				return err
			}
			defer store.Close()

			v, err := store.Version()
			if err != nil {
				return err
			}
			orgs, err := store.Organisms()
			if err != nil {
				return err
			}
			specs, err := store.Traits()
			if err != nil {
				return err
			}
			sources, err := store.Sources()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "#Catalog\t%s\tversion %d\n", store.Path(), v)
			fmt.Fprintln(tw, "#Organism\tGenome_size\tChromosomes\tGenes\tGC\tCoding")
			for _, name := range orgs.Names() {
				o := orgs[name]
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%g\t%g\n", o.Name, o.Profile.Size,
					o.Profile.Chromosomes, o.Profile.Genes, o.Profile.GCContent, o.CodingPercent)
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "#Trait\tDominance")
			for _, name := range specs.Names() {
				fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(specs[name].Values, " > "))
			}
			if len(sources) > 0 {
				fmt.Fprintln(tw)
				fmt.Fprintln(tw, "#Source\tKind\tVersion")
				for _, s := range sources {
					fmt.Fprintf(tw, "%s\t%s\t%d\n", s.Path, s.Kind, s.Version)
				}
			}
			return tw.Flush()
		},
	}
}
