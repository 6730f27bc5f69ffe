package sequence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-genetics/internal/validate"
)

func TestDeriveGenomeStatistics(t *testing.T) {
	stats, err := DeriveGenomeStatistics(GenomeProfile{
		Size:        3_200_000_000,
		Chromosomes: 23,
		Genes:       20_000,
		GCContent:   41,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(139_130_435), stats.AvgChromosomeSize)
	assert.Equal(t, 870, stats.GenesPerChromosome)
	assert.Equal(t, int64(160_000), stats.AvgGeneSize)
	assert.InDelta(t, 59.0, stats.ATContent, 1e-9)
}

func TestDeriveGenomeStatistics_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		profile GenomeProfile
	}{
		{"zero chromosomes", GenomeProfile{Size: 100, Chromosomes: 0, Genes: 10, GCContent: 40}},
		{"zero genes", GenomeProfile{Size: 100, Chromosomes: 1, Genes: 0, GCContent: 40}},
		{"negative size", GenomeProfile{Size: -1, Chromosomes: 1, Genes: 1, GCContent: 40}},
		{"gc above 100", GenomeProfile{Size: 100, Chromosomes: 1, Genes: 1, GCContent: 101}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveGenomeStatistics(tt.profile)
			require.Error(t, err)
			assert.True(t, errors.Is(err, validate.ErrInvalidParameter))
		})
	}
}

func TestResolveOrganism_Known(t *testing.T) {
	table := BuiltinOrganisms()

	org, err := ResolveOrganism("Yeast", GenomeProfile{Size: 1, Chromosomes: 1, Genes: 1}, table)
	require.NoError(t, err)
	assert.Equal(t, OrganismYeast, org.Name)
	assert.Equal(t, 16, org.Profile.Chromosomes)
	assert.InDelta(t, 70.0, org.CodingPercent, 1e-9)

	org, err = ResolveOrganism(OrganismEColi, GenomeProfile{}, table)
	require.NoError(t, err)
	assert.InDelta(t, 85.0, org.CodingPercent, 1e-9)

	org, err = ResolveOrganism(OrganismHuman, GenomeProfile{}, table)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, org.CodingPercent, 1e-9)

	org, err = ResolveOrganism(OrganismMouse, GenomeProfile{}, table)
	require.NoError(t, err)
	assert.InDelta(t, DefaultCodingPerc, org.CodingPercent, 1e-9)
}

func TestResolveOrganism_CustomKeepsProfile(t *testing.T) {
	custom := GenomeProfile{Size: 5000, Chromosomes: 2, Genes: 10, GCContent: 55}
	org, err := ResolveOrganism(OrganismCustom, custom, BuiltinOrganisms())
	require.NoError(t, err)
	assert.Equal(t, custom, org.Profile)
	assert.InDelta(t, DefaultCodingPerc, org.CodingPercent, 1e-9)
}

func TestResolveOrganism_Unknown(t *testing.T) {
	_, err := ResolveOrganism("tardigrade", GenomeProfile{}, BuiltinOrganisms())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tardigrade")
}

func TestBuiltinOrganisms_AllDerive(t *testing.T) {
	table := BuiltinOrganisms()
	assert.Equal(t, []string{"e.coli", "fruit-fly", "human", "mouse", "yeast"}, table.Names())
	for name, org := range table {
		_, err := DeriveGenomeStatistics(org.Profile)
		assert.NoError(t, err, name)
	}

	// Copies must not alias the built-in table.
	delete(table, OrganismHuman)
	assert.Contains(t, BuiltinOrganisms(), OrganismHuman)
}
