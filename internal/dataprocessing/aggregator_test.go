package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proposalradar/pkg/contracts/domain"
)

func proposal(id int, party, dimension, category, quote string, maturity domain.Maturity) domain.Proposal {
	return domain.Proposal{ID: id, Party: party, Dimension: dimension, Category: category, Quote: quote, Maturity: maturity}
}

func TestAggregator_EndToEndExample(t *testing.T) {
	raws := []domain.RawRecord{
		rawRecord(2, "PartyA", "Econ", "AI", "Invertir en IA", "Programmatic"),
		rawRecord(3, "PartyA", "Econ", "AI", "plan digital", "Unknown"),
	}

	proposals, warnings, err := NewNormalizer(nil, defaultColumns()).Normalize(context.Background(), raws)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings[0].ID)

	agg := NewAggregator(nil).Aggregate(context.Background(), proposals)

	assert.Equal(t, []string{"PartyA"}, agg.Parties)
	stats := agg.Statistics.ByParty["PartyA"]
	assert.Equal(t, 2, stats.TotalProposals)
	assert.Equal(t, map[string]int{"Programmatic": 1, "Declarative": 1}, stats.MaturityCounts)
	assert.Equal(t, 3.0, stats.AvgMaturity)
	assert.Equal(t, 1, stats.TechCounts["AI"])
	assert.Equal(t, 1, stats.TechCounts["Digital"])
}

func TestAggregator_Aggregate(t *testing.T) {
	proposals := []domain.Proposal{
		proposal(1, "Verde", "Salud", "IoT", "sensores en hospitales", domain.MaturityInstrumental),
		proposal(2, "Azul", "Economía", "AI", "inteligencia artificial y big data", domain.MaturityProgrammatic),
		proposal(3, "Verde", "Economía", "Cloud", "migrar a la nube", domain.MaturityNormative),
		proposal(4, "Azul", "Economía", "AI", "drones", domain.MaturityProgrammatic),
	}

	agg := NewAggregator(nil).Aggregate(context.Background(), proposals)

	assert.Equal(t, []string{"Azul", "Verde"}, agg.Parties)
	assert.Equal(t, []string{"Economía", "Salud"}, agg.Dimensions)
	assert.Equal(t, []string{"AI", "Cloud", "IoT"}, agg.Categories)
	assert.Equal(t, domain.MaturityTypes(), agg.MaturityTypes)

	azul := agg.Statistics.ByParty["Azul"]
	assert.Equal(t, 2, azul.TotalProposals)
	assert.Equal(t, map[string]int{"Economía": 2}, azul.DimensionCounts)
	assert.Equal(t, map[string]int{"AI": 2}, azul.CategoryCounts)
	assert.Equal(t, map[string]int{"Programmatic": 2}, azul.MaturityCounts)
	assert.Equal(t, 4.0, azul.AvgMaturity)
	assert.Equal(t, 1, azul.TechCounts["AI"])
	assert.Equal(t, 1, azul.TechCounts["Big Data"])
	assert.Equal(t, 1, azul.TechCounts["Drones"])
	assert.Equal(t, 0, azul.TechCounts["Blockchain"])

	verde := agg.Statistics.ByParty["Verde"]
	assert.Equal(t, 4.0, verde.AvgMaturity)
	assert.Equal(t, 1, verde.TechCounts["IoT"])
	assert.Equal(t, 1, verde.TechCounts["Cloud"])

	assert.Equal(t, domain.DimensionStats{
		TotalProposals: 3,
		PartyCounts:    map[string]int{"Azul": 2, "Verde": 1},
	}, agg.Statistics.ByDimension["Economía"])
	assert.Equal(t, domain.DimensionStats{
		TotalProposals: 1,
		PartyCounts:    map[string]int{"Verde": 1},
	}, agg.Statistics.ByDimension["Salud"])

	assert.Equal(t, domain.CategoryStats{
		TotalProposals: 2,
		MaturityCounts: map[string]int{"Programmatic": 2},
	}, agg.Statistics.ByCategory["AI"])
	assert.Len(t, agg.Statistics.ByCategory, 3)
}

func sumCounts(counts map[string]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

func TestAggregator_PartyCountsAddUp(t *testing.T) {
	tests := []struct {
		name      string
		proposals []domain.Proposal
	}{
		{
			name: "single party",
			proposals: []domain.Proposal{
				proposal(1, "Verde", "Salud", "IoT", "sensores", domain.MaturityDeclarative),
			},
		},
		{
			name: "several parties and dimensions",
			proposals: []domain.Proposal{
				proposal(1, "Verde", "Salud", "IoT", "sensores", domain.MaturityInstrumental),
				proposal(2, "Azul", "Economía", "AI", "ia para pymes", domain.MaturityProgrammatic),
				proposal(3, "Verde", "Economía", "Cloud", "nube pública", domain.MaturityNormative),
				proposal(4, "Rojo", "Educación", "AI", "robótica en aulas", domain.MaturityDeclarative),
				proposal(5, "Azul", "Salud", "Blockchain", "historias clínicas", domain.MaturityNormative),
				proposal(6, "Rojo", "Educación", "Digital", "5g rural", domain.MaturityProgrammatic),
				proposal(7, "Azul", "Economía", "AI", "drones", domain.MaturityDeclarative),
			},
		},
		{
			name: "out of enumeration maturity",
			proposals: []domain.Proposal{
				proposal(1, "Gris", "Salud", "IoT", "q", domain.Maturity("Pendiente")),
				proposal(2, "Gris", "Salud", "IoT", "q", domain.Maturity("")),
				proposal(3, "Blanco", "Salud", "AI", "q", domain.MaturityNormative),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(nil).Aggregate(context.Background(), tt.proposals)

			require.Len(t, agg.Statistics.ByParty, len(agg.Parties))
			grand := 0
			for party, stats := range agg.Statistics.ByParty {
				assert.Equal(t, stats.TotalProposals, sumCounts(stats.DimensionCounts), "dimension counts of %s", party)
				assert.Equal(t, stats.TotalProposals, sumCounts(stats.CategoryCounts), "category counts of %s", party)
				assert.Equal(t, stats.TotalProposals, sumCounts(stats.MaturityCounts), "maturity counts of %s", party)
				assert.GreaterOrEqual(t, stats.AvgMaturity, 1.0, "avg maturity of %s", party)
				assert.LessOrEqual(t, stats.AvgMaturity, 5.0, "avg maturity of %s", party)
				for label, n := range stats.TechCounts {
					assert.LessOrEqual(t, n, stats.TotalProposals, "tech %s of %s", label, party)
				}
				grand += stats.TotalProposals
			}
			assert.Equal(t, len(tt.proposals), grand)
		})
	}
}

func TestAggregator_TechCountsCarryEveryLabel(t *testing.T) {
	agg := NewAggregator(nil).Aggregate(context.Background(), []domain.Proposal{
		proposal(1, "Solo", "Econ", "Other", "Reforma del sistema de salud", domain.MaturityDeclarative),
	})

	counts := agg.Statistics.ByParty["Solo"].TechCounts
	assert.Len(t, counts, len(domain.TechnologyLabels()))
	for _, label := range domain.TechnologyLabels() {
		assert.Equal(t, 0, counts[label], label)
	}
}

func TestAggregator_Empty(t *testing.T) {
	agg := NewAggregator(nil).Aggregate(context.Background(), nil)

	assert.Empty(t, agg.Parties)
	assert.NotNil(t, agg.Parties)
	assert.Empty(t, agg.Statistics.ByParty)
	assert.NotNil(t, agg.Statistics.ByParty)
	assert.Len(t, agg.MaturityTypes, 4)
}

func TestAverageMaturity(t *testing.T) {
	tests := []struct {
		name       string
		maturities []domain.Maturity
		want       float64
	}{
		{name: "empty partition", want: 0},
		{name: "single", maturities: []domain.Maturity{domain.MaturityNormative}, want: 5},
		{name: "exact mean", maturities: []domain.Maturity{domain.MaturityNormative, domain.MaturityDeclarative, domain.MaturityDeclarative}, want: 3},
		{name: "rounded to two decimals", maturities: []domain.Maturity{domain.MaturityNormative, domain.MaturityProgrammatic, domain.MaturityProgrammatic}, want: 4.33},
		{name: "unmapped label scores one", maturities: []domain.Maturity{"Other", domain.MaturityInstrumental}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var proposals []domain.Proposal
			for i, m := range tt.maturities {
				proposals = append(proposals, proposal(i+1, "P", "D", "C", "", m))
			}
			assert.Equal(t, tt.want, AverageMaturity(proposals))
		})
	}
}
