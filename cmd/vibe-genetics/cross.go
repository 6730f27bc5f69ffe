package main

import (
	"github.com/spf13/cobra"

	"github.com/inodb/vibe-genetics/internal/cross"
)

func (a *app) newCrossCmd() *cobra.Command {
	var (
		dominant  string
		recessive string
		offspring int
	)

	cmd := &cobra.Command{
		Use:   "cross <parent1> <parent2>",
		Short: "Enumerate a monohybrid cross (Punnett square)",
		Long:  "Enumerate genotype and phenotype frequencies of a single-gene cross and project expected offspring counts.",
		Example: `  vibe-genetics cross Aa Aa
  vibe-genetics cross AA aa --dominant Purple --recessive White -n 400
  vibe-genetics cross Bb bb -f json`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			p1, err := cross.ParseGenotype(args[0])
			if err != nil {
				return &usageError{err: err}
			}
			p2, err := cross.ParseGenotype(args[1])
			if err != nil {
				return &usageError{err: err}
			}
			if !cmd.Flags().Changed("offspring") {
				offspring = a.v.GetInt(keyOffspring)
			}

			res, err := cross.ComputeCross(p1, p2, dominant, recessive, offspring)
			if err != nil {
				return err
			}

			w, err := a.writer()
			if err != nil {
				return err
			}
			if err := w.WriteCross(res); err != nil {
				return err
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dominant, "dominant", cross.DefaultDominantLabel, "Dominant phenotype label")
	cmd.Flags().StringVar(&recessive, "recessive", cross.DefaultRecessiveLabel, "Recessive phenotype label")
	cmd.Flags().IntVarP(&offspring, "offspring", "n", cross.DefaultOffspringCount, "Number of offspring to project")

	return cmd
}
