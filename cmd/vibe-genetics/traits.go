package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-genetics/internal/traits"
)

func (a *app) newTraitsCmd() *cobra.Command {
	var (
		parent1 map[string]string
		parent2 map[string]string
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "traits",
		Short: "Predict a child's simply-dominant traits",
		Long: `Predict the most likely value of each trait for a child of two parents.

Each trait has a dominance-ordered list of values. Identical parent values are
inherited with 100% probability; otherwise the more dominant value is
predicted at 75% and the other at 25%. This is a single-gene heuristic, not a
polygenic model.`,
		Example: `  vibe-genetics traits --parent1 eyes=brown,hair=red --parent2 eyes=blue,hair=black
  vibe-genetics traits --list`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := a.traitSpecs()
			if err != nil {
				return err
			}

			if list {
				for _, name := range specs.Names() {
					fmt.Fprintf(a.stdout, "%s\t%s\n", name, strings.Join(specs[name].Values, " > "))
				}
				return nil
			}

			if len(parent1) == 0 && len(parent2) == 0 {
				return usagef("--parent1 and --parent2 are required")
			}

			preds, err := traits.Predict(parent1, parent2, specs)
			if err != nil {
				return err
			}

			w, err := a.writer()
			if err != nil {
				return err
			}
			if err := w.WriteTraits(preds); err != nil {
				return err
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringToStringVar(&parent1, "parent1", nil, "First parent's traits as trait=value pairs")
	cmd.Flags().StringToStringVar(&parent2, "parent2", nil, "Second parent's traits as trait=value pairs")
	cmd.Flags().BoolVar(&list, "list", false, "List known traits and their dominance order")

	return cmd
}

// traitSpecs returns the catalog's trait specs, or the defaults when no
// catalog is configured.
func (a *app) traitSpecs() (traits.Specs, error) {
	store, err := a.openCatalog()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return traits.DefaultSpecs(), nil
	}
	defer store.Close()
	return store.Traits()
}
