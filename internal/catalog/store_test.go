package catalog

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-genetics/internal/sequence"
	"github.com/inodb/vibe-genetics/internal/traits"
	"github.com/inodb/vibe-genetics/internal/validate"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenEmpty(t *testing.T) {
	s := openInMemory(t)

	v, err := s.Version()
	require.NoError(t, err)
	assert.Zero(t, v)

	orgs, err := s.Organisms()
	require.NoError(t, err)
	assert.Empty(t, orgs)

	specs, err := s.Traits()
	require.NoError(t, err)
	assert.Empty(t, specs)
}

func TestSeed(t *testing.T) {
	s := openInMemory(t)

	seeded, err := s.Seed()
	require.NoError(t, err)
	assert.True(t, seeded)

	orgs, err := s.Organisms()
	require.NoError(t, err)
	assert.Equal(t, sequence.BuiltinOrganisms(), orgs)

	specs, err := s.Traits()
	require.NoError(t, err)
	assert.Equal(t, traits.DefaultSpecs(), specs)

	v, err := s.Version()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	// Second seed is a no-op.
	seeded, err = s.Seed()
	require.NoError(t, err)
	assert.False(t, seeded)
	v2, err := s.Version()
	require.NoError(t, err)
	assert.Equal(t, v, v2)
}

func TestPutOrganisms_Replace(t *testing.T) {
	s := openInMemory(t)
	_, err := s.Seed()
	require.NoError(t, err)

	zebrafish := sequence.Organism{
		Name:          "zebrafish",
		Profile:       sequence.GenomeProfile{Size: 1_400_000_000, Chromosomes: 25, Genes: 26_000, GCContent: 36.5},
		CodingPercent: 20,
	}
	human := sequence.BuiltinOrganisms()[sequence.OrganismHuman]
	human.Profile.Genes = 19_900

	require.NoError(t, s.PutOrganisms([]sequence.Organism{zebrafish, human}))

	orgs, err := s.Organisms()
	require.NoError(t, err)
	assert.Len(t, orgs, 6)
	assert.Equal(t, zebrafish, orgs["zebrafish"])
	assert.Equal(t, 19_900, orgs[sequence.OrganismHuman].Profile.Genes)

	org, err := sequence.ResolveOrganism("zebrafish", sequence.GenomeProfile{}, orgs)
	require.NoError(t, err)
	assert.Equal(t, 25, org.Profile.Chromosomes)
}

func TestPutOrganisms_Invalid(t *testing.T) {
	s := openInMemory(t)

	err := s.PutOrganisms([]sequence.Organism{{Name: "custom", Profile: sequence.GenomeProfile{Size: 1, Chromosomes: 1, Genes: 1}}})
	assert.Error(t, err)

	err = s.PutOrganisms([]sequence.Organism{{Name: "broken", Profile: sequence.GenomeProfile{Size: 1, Chromosomes: 0, Genes: 1}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, validate.ErrInvalidParameter))

	orgs, err := s.Organisms()
	require.NoError(t, err)
	assert.Empty(t, orgs)
}

func TestPutTraits_Replace(t *testing.T) {
	s := openInMemory(t)
	_, err := s.Seed()
	require.NoError(t, err)

	require.NoError(t, s.PutTraits([]traits.Spec{
		{Name: traits.TraitEyes, Values: []string{"brown", "green", "blue"}},
		{Name: "petal", Values: []string{"purple", "white"}},
	}))

	specs, err := s.Traits()
	require.NoError(t, err)
	assert.Equal(t, []string{"brown", "green", "blue"}, specs[traits.TraitEyes].Values)
	assert.Equal(t, []string{"purple", "white"}, specs["petal"].Values)
	assert.Equal(t, traits.DefaultSpecs()[traits.TraitHair], specs[traits.TraitHair])
}

func TestPutTraits_DuplicateNameKeepsCatalog(t *testing.T) {
	s := openInMemory(t)
	_, err := s.Seed()
	require.NoError(t, err)

	err = s.PutTraits([]traits.Spec{
		{Name: traits.TraitEyes, Values: []string{"brown", "blue"}},
		{Name: traits.TraitEyes, Values: []string{"green"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")

	specs, err := s.Traits()
	require.NoError(t, err)
	assert.Equal(t, traits.DefaultSpecs()[traits.TraitEyes], specs[traits.TraitEyes])

	v, err := s.Version()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestUpdate_RollsBackOnError(t *testing.T) {
	s := openInMemory(t)
	_, err := s.Seed()
	require.NoError(t, err)

	failed := errors.New("write failed")
	_, err = s.update(func(ctx context.Context, conn *sql.Conn) error {
		if err := writeTraits(ctx, conn, []traits.Spec{{Name: traits.TraitEyes, Values: []string{"green"}}}); err != nil {
			return err
		}
		if _, err := conn.ExecContext(ctx, `DELETE FROM organisms`); err != nil {
			return err
		}
		return failed
	})
	require.ErrorIs(t, err, failed)

	specs, err := s.Traits()
	require.NoError(t, err)
	assert.Equal(t, traits.DefaultSpecs(), specs)

	orgs, err := s.Organisms()
	require.NoError(t, err)
	assert.Equal(t, sequence.BuiltinOrganisms(), orgs)

	v, err := s.Version()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestPutOrganisms_DuplicateName(t *testing.T) {
	s := openInMemory(t)
	profile := sequence.GenomeProfile{Size: 1000, Chromosomes: 1, Genes: 1, GCContent: 50}
	err := s.PutOrganisms([]sequence.Organism{{Name: "x", Profile: profile}, {Name: "x", Profile: profile}})
	require.Error(t, err)

	orgs, err := s.Organisms()
	require.NoError(t, err)
	assert.Empty(t, orgs)
}

func TestPutTraits_Invalid(t *testing.T) {
	s := openInMemory(t)
	assert.Error(t, s.PutTraits([]traits.Spec{{Name: "", Values: []string{"x"}}}))
	assert.Error(t, s.PutTraits([]traits.Spec{{Name: "empty"}}))
	assert.Error(t, s.PutTraits([]traits.Spec{{Name: "dup", Values: []string{"x", "x"}}}))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportOrganismsTSV(t *testing.T) {
	s := openInMemory(t)
	path := writeFile(t, "organisms.tsv", strings.Join([]string{
		"organism\tgenome_size\tchromosomes\tgenes\tgc_content\tcoding_percent",
		"Arabidopsis\t135000000\t5\t27000\t36\t",
		"# comment",
		"",
		"chicken\t1050000000\t39\t17000\t42\t3",
	}, "\n"))

	imported, err := s.ImportOrganismsTSV(path)
	require.NoError(t, err)
	assert.True(t, imported)

	orgs, err := s.Organisms()
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, 5, orgs["arabidopsis"].Profile.Chromosomes)
	assert.InDelta(t, sequence.DefaultCodingPerc, orgs["arabidopsis"].CodingPercent, 1e-9)
	assert.InDelta(t, 3.0, orgs["chicken"].CodingPercent, 1e-9)

	// Unchanged file is skipped.
	imported, err = s.ImportOrganismsTSV(path)
	require.NoError(t, err)
	assert.False(t, imported)

	sources, err := s.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, path, sources[0].Path)
	assert.Equal(t, "organisms", sources[0].Kind)
	assert.Equal(t, int64(1), sources[0].Version)
}

func TestImportTraitsTSV(t *testing.T) {
	s := openInMemory(t)
	path := writeFile(t, "traits.tsv", "trait\tvalues\nwidowsPeak\tpresent, absent\n")

	imported, err := s.ImportTraitsTSV(path)
	require.NoError(t, err)
	assert.True(t, imported)

	specs, err := s.Traits()
	require.NoError(t, err)
	assert.Equal(t, traits.Specs{"widowsPeak": {Name: "widowsPeak", Values: []string{"present", "absent"}}}, specs)
}

func TestImport_Errors(t *testing.T) {
	s := openInMemory(t)

	_, err := s.ImportOrganismsTSV("/nonexistent/organisms.tsv")
	assert.Error(t, err)

	bad := writeFile(t, "bad.tsv", "organism\tgenome_size\nhuman\t1\n")
	_, err = s.ImportOrganismsTSV(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	badNum := writeFile(t, "num.tsv", "organism\tgenome_size\tchromosomes\tgenes\tgc_content\nx\tlots\t1\t1\t40\n")
	_, err = s.ImportOrganismsTSV(badNum)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "genome_size")

	sources, err := s.Sources()
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestParseTraits_BadRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short row", "trait\tvalues\neyes\tbrown,blue\nhair\n", "traits line 3"},
		{"empty name", "trait\tvalues\n\tbrown,blue\n", "traits line 2: empty trait name"},
		{"no values", "trait\tvalues\n# comment\neyes\t , \n", "traits line 3: trait eyes has no values"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTraits(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestImportTraitsTSV_DuplicateTrait(t *testing.T) {
	s := openInMemory(t)
	_, err := s.Seed()
	require.NoError(t, err)

	path := writeFile(t, "traits.tsv", "trait\tvalues\neyes\tbrown,blue\neyes\tgreen\n")
	_, err = s.ImportTraitsTSV(path)
	require.Error(t, err)

	specs, err := s.Traits()
	require.NoError(t, err)
	assert.Equal(t, traits.DefaultSpecs()[traits.TraitEyes], specs[traits.TraitEyes])

	sources, err := s.Sources()
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestParseTraits_MissingColumn(t *testing.T) {
	_, err := ParseTraits(strings.NewReader("name\tvalues\n"))
	assert.Error(t, err)

	_, err = ParseTraits(strings.NewReader(""))
	assert.Error(t, err)
}

func TestOpen_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Seed()
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())

	orgs, err := s.Organisms()
	require.NoError(t, err)
	assert.Len(t, orgs, 5)
}
