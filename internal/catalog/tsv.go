package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vibe-genetics/internal/sequence"
	"github.com/inodb/vibe-genetics/internal/traits"
)

// Organism TSV columns.
const (
	ColOrganism      = "organism"
	ColGenomeSize    = "genome_size"
	ColChromosomes   = "chromosomes"
	ColGenes         = "genes"
	ColGCContent     = "gc_content"
	ColCodingPercent = "coding_percent"
)

// Trait TSV columns. Values are listed most dominant first, comma separated.
const (
	ColTrait  = "trait"
	ColValues = "values"
)

// headerIndex maps required column names to their positions.
func headerIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing %q column", col)
		}
	}
	return idx, nil
}

// ParseOrganisms reads an organism table. Optional coding_percent defaults
// to the generic 20%.
func ParseOrganisms(r io.Reader) ([]sequence.Organism, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, fmt.Errorf("organisms: empty file")
	}
	idx, err := headerIndex(strings.Split(scanner.Text(), "\t"),
		ColOrganism, ColGenomeSize, ColChromosomes, ColGenes, ColGCContent)
	if err != nil {
		return nil, fmt.Errorf("organisms: %w", err)
	}

	var orgs []sequence.Organism
	line := 1
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		o := sequence.Organism{
			Name:          strings.ToLower(get(ColOrganism)),
			CodingPercent: sequence.DefaultCodingPerc,
		}
		if o.Name == "" {
			return nil, fmt.Errorf("organisms line %d: empty organism name", line)
		}
		if o.Profile.Size, err = strconv.ParseInt(get(ColGenomeSize), 10, 64); err != nil {
			return nil, fmt.Errorf("organisms line %d: genome_size: %w", line, err)
		}
		if o.Profile.Chromosomes, err = strconv.Atoi(get(ColChromosomes)); err != nil {
			return nil, fmt.Errorf("organisms line %d: chromosomes: %w", line, err)
		}
		if o.Profile.Genes, err = strconv.Atoi(get(ColGenes)); err != nil {
			return nil, fmt.Errorf("organisms line %d: genes: %w", line, err)
		}
		if o.Profile.GCContent, err = strconv.ParseFloat(get(ColGCContent), 64); err != nil {
			return nil, fmt.Errorf("organisms line %d: gc_content: %w", line, err)
		}
		if v := get(ColCodingPercent); v != "" {
			if o.CodingPercent, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("organisms line %d: coding_percent: %w", line, err)
			}
		}
		orgs = append(orgs, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading organisms: %w", err)
	}
	return orgs, nil
}

// ParseTraits reads a trait table with one trait per line.
func ParseTraits(r io.Reader) ([]traits.Spec, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, fmt.Errorf("traits: empty file")
	}
	idx, err := headerIndex(strings.Split(scanner.Text(), "\t"), ColTrait, ColValues)
	if err != nil {
		return nil, fmt.Errorf("traits: %w", err)
	}

	var specs []traits.Spec
	line := 1
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) <= idx[ColTrait] || len(fields) <= idx[ColValues] {
			return nil, fmt.Errorf("traits line %d: missing %s or %s column", line, ColTrait, ColValues)
		}
		name := strings.TrimSpace(fields[idx[ColTrait]])
		if name == "" {
			return nil, fmt.Errorf("traits line %d: empty trait name", line)
		}
		var values []string
		for _, v := range strings.Split(fields[idx[ColValues]], ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("traits line %d: trait %s has no values", line, name)
		}
		specs = append(specs, traits.Spec{Name: name, Values: values})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading traits: %w", err)
	}
	return specs, nil
}

// ImportOrganismsTSV loads an organism TSV into the catalog. Files whose
// fingerprint was already imported are skipped; the return value reports
// whether anything was written.
func (s *Store) ImportOrganismsTSV(path string) (bool, error) {
	return s.importFile(path, "organisms", func(f io.Reader) (int64, int, error) {
		orgs, err := ParseOrganisms(f)
		if err != nil {
			return 0, 0, err
		}
		v, err := s.putOrganisms(orgs)
		return v, len(orgs), err
	})
}

// ImportTraitsTSV loads a trait TSV into the catalog, skipping files that
// were already imported.
func (s *Store) ImportTraitsTSV(path string) (bool, error) {
	return s.importFile(path, "traits", func(f io.Reader) (int64, int, error) {
		specs, err := ParseTraits(f)
		if err != nil {
			return 0, 0, err
		}
		v, err := s.putTraits(specs)
		return v, len(specs), err
	})
}

func (s *Store) importFile(path, kind string, load func(io.Reader) (int64, int, error)) (bool, error) {
	fp, err := StatFile(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	done, err := s.Imported(fp)
	if err != nil {
		return false, err
	}
	if done {
		s.logger.Info("catalog source unchanged, skipping", zap.String("path", path))
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	version, n, err := load(f)
	if err != nil {
		return false, fmt.Errorf("import %s: %w", path, err)
	}

	if _, err := s.db.Exec(`INSERT INTO catalog_sources (path, kind, size, mod_time_us, version)
		VALUES (?, ?, ?, ?, ?)`, fp.Path, kind, fp.Size, fp.ModTime.UnixMicro(), version); err != nil {
		return false, fmt.Errorf("record source: %w", err)
	}

	s.logger.Info("imported catalog source",
		zap.String("path", path),
		zap.String("kind", kind),
		zap.Int("records", n),
		zap.Int64("version", version))
	return true, nil
}
