package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-genetics/internal/equilibrium"
)

func (a *app) newSimulateCmd() *cobra.Command {
	var (
		params     equilibrium.Params
		sweepSel   []float64
		sweepMut   []float64
		workers    int
		summaryOne bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate Hardy-Weinberg equilibrium across generations",
		Long: `Simulate allele and genotype frequencies across generations.

Each generation applies viability selection against the recessive homozygote
(fitness 1-s) and then mutation p'' = p'(1-mu) + q'mu. Generation 0 is the
Hardy-Weinberg expansion of the initial allele frequency.

With --sweep-selection or --sweep-mutation, one independent run per value is
simulated in parallel and only each run's final generation is reported.`,
		Example: `  vibe-genetics simulate -p 0.6 --population 1000 --generations 0
  vibe-genetics simulate -p 0.5 --generations 50 --selection 0.1 --mutation 0.001
  vibe-genetics simulate -p 0.5 --generations 100 --sweep-selection 0,0.05,0.1,0.5`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("population") {
				params.PopulationSize = a.v.GetInt(keyPopulation)
			}
			if !cmd.Flags().Changed("generations") {
				params.Generations = a.v.GetInt(keyGenerations)
			}

			w, err := a.writer()
			if err != nil {
				return err
			}

			if len(sweepSel) > 0 || len(sweepMut) > 0 {
				runs := sweepParams(params, sweepSel, sweepMut)
				runner := equilibrium.NewRunner(workers)
				runner.SetLogger(a.logger)
				a.logger.Debug("running sweep", zap.Int("runs", len(runs)))

				if err := w.WriteSweep(runner.RunAll(runs)); err != nil {
					return err
				}
				return w.Flush()
			}

			a.logger.Debug("simulating", zap.String("params", describeParams(params)))
			gens, err := equilibrium.Simulate(params)
			if err != nil {
				return err
			}
			if summaryOne {
				gens = gens[len(gens)-1:]
			}
			if err := w.WriteGenerations(params, gens); err != nil {
				return err
			}
			return w.Flush()
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&params.InitialP, "initial-p", "p", 0.5, "Initial dominant allele frequency [0,1]")
	f.IntVar(&params.PopulationSize, "population", equilibrium.DefaultPopulationSize, "Population size for expected individuals")
	f.IntVarP(&params.Generations, "generations", "g", equilibrium.DefaultGenerations, "Number of generations to simulate")
	f.Float64VarP(&params.Selection, "selection", "s", 0, "Selection coefficient against aa [0,1]")
	f.Float64Var(&params.MutationRate, "mutation", 0, "Mutation rate per generation [0,1)")
	f.Float64SliceVar(&sweepSel, "sweep-selection", nil, "Run one simulation per selection coefficient")
	f.Float64SliceVar(&sweepMut, "sweep-mutation", nil, "Run one simulation per mutation rate")
	f.IntVar(&workers, "workers", 0, "Parallel workers for sweeps (default: number of CPUs)")
	f.BoolVar(&summaryOne, "final-only", false, "Only print the final generation")

	return cmd
}

// sweepParams expands the base parameters over the cartesian product of
// selection and mutation values. An empty list keeps the base value.
func sweepParams(base equilibrium.Params, selections, mutations []float64) []equilibrium.Params {
	if len(selections) == 0 {
		selections = []float64{base.Selection}
	}
	if len(mutations) == 0 {
		mutations = []float64{base.MutationRate}
	}

	out := make([]equilibrium.Params, 0, len(selections)*len(mutations))
	for _, s := range selections {
		for _, mu := range mutations {
			p := base
			p.Selection = s
			p.MutationRate = mu
			out = append(out, p)
		}
	}
	return out
}

func describeParams(p equilibrium.Params) string {
	return fmt.Sprintf("p0=%g N=%d gens=%d s=%g mu=%g", p.InitialP, p.PopulationSize, p.Generations, p.Selection, p.MutationRate)
}
