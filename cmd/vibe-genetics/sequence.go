package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-genetics/internal/output"
	"github.com/inodb/vibe-genetics/internal/sequence"
)

func (a *app) newSequenceCmd() *cobra.Command {
	var (
		file      string
		revComp   bool
		translate bool
	)

	cmd := &cobra.Command{
		Use:   "sequence [nucleotides]",
		Short: "Analyze nucleotide composition",
		Long: `Count A/T/C/G, compute GC and AT content and estimate molecular weight.

Input is case-insensitive; every character other than A, T, C or G is
ignored. FASTA header lines (starting with '>') are skipped when reading a
file. Use '-' to read from stdin.`,
		Example: `  vibe-genetics sequence ATCGNNNXXatcg
  vibe-genetics sequence --file gene.fa --translate
  cat gene.fa | vibe-genetics sequence -`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := a.readSequence(cmd, args, file)
			if err != nil {
				return err
			}

			comp := sequence.Analyze(raw)
			var extras output.SequenceExtras
			if comp != nil && revComp {
				extras.ReverseComplement = sequence.ReverseComplement(raw)
			}
			if comp != nil && translate {
				extras.Translation = sequence.Translate(raw)
			}

			w, err := a.writer()
			if err != nil {
				return err
			}
			if err := w.WriteComposition(comp, extras); err != nil {
				return err
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read the sequence from a file (FASTA or plain)")
	cmd.Flags().BoolVar(&revComp, "reverse-complement", false, "Also print the reverse complement")
	cmd.Flags().BoolVar(&translate, "translate", false, "Also print the frame-0 protein translation")

	return cmd
}

func (a *app) readSequence(cmd *cobra.Command, args []string, file string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", usagef("give either a sequence argument or --file, not both")
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("open sequence file: %w", err)
		}
		defer f.Close()
		return readFASTA(f)
	case len(args) == 1 && args[0] == "-":
		return readFASTA(cmd.InOrStdin())
	case len(args) == 1:
		return args[0], nil
	default:
		return "", usagef("sequence argument or --file required")
	}
}

// readFASTA concatenates sequence lines, skipping '>' headers and ';' comments.
func readFASTA(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read sequence: %w", err)
	}
	var b strings.Builder
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, ">") || strings.HasPrefix(line, ";") {
			continue
		}
		b.WriteString(line)
	}
	return b.String(), nil
}
