package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"proposalradar/pkg/contracts/domain"
)

// Aggregation is everything derived from the normalized proposals
type Aggregation struct {
	Parties       []string
	Dimensions    []string
	Categories    []string
	MaturityTypes []string
	Statistics    domain.Statistics
}

// Aggregator computes vocabularies and grouped statistics. It does no I/O.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger.With("component", "aggregator")}
}

// Aggregate builds the three grouped views over proposals
func (a *Aggregator) Aggregate(ctx context.Context, proposals []domain.Proposal) Aggregation {
	agg := Aggregation{
		Parties:       distinct(proposals, func(p domain.Proposal) string { return p.Party }),
		Dimensions:    distinct(proposals, func(p domain.Proposal) string { return p.Dimension }),
		Categories:    distinct(proposals, func(p domain.Proposal) string { return p.Category }),
		MaturityTypes: domain.MaturityTypes(),
		Statistics: domain.Statistics{
			ByParty:     make(map[string]domain.PartyStats),
			ByDimension: make(map[string]domain.DimensionStats),
			ByCategory:  make(map[string]domain.CategoryStats),
		},
	}

	byParty := groupBy(proposals, func(p domain.Proposal) string { return p.Party })
	for _, party := range agg.Parties {
		agg.Statistics.ByParty[party] = partyStats(byParty[party])
	}

	byDimension := groupBy(proposals, func(p domain.Proposal) string { return p.Dimension })
	for _, dimension := range agg.Dimensions {
		group := byDimension[dimension]
		agg.Statistics.ByDimension[dimension] = domain.DimensionStats{
			TotalProposals: len(group),
			PartyCounts:    countBy(group, func(p domain.Proposal) string { return p.Party }),
		}
	}

	byCategory := groupBy(proposals, func(p domain.Proposal) string { return p.Category })
	for _, category := range agg.Categories {
		group := byCategory[category]
		agg.Statistics.ByCategory[category] = domain.CategoryStats{
			TotalProposals: len(group),
			MaturityCounts: countBy(group, func(p domain.Proposal) string { return string(p.Maturity) }),
		}
	}

	a.logger.DebugContext(ctx, "Proposals aggregated",
		slog.Int("proposal_count", len(proposals)),
		slog.Int("party_count", len(agg.Parties)),
		slog.Int("dimension_count", len(agg.Dimensions)),
		slog.Int("category_count", len(agg.Categories)))

	return agg
}

// partyStats summarizes one party's proposals
func partyStats(group []domain.Proposal) domain.PartyStats {
	techCounts := make(map[string]int)
	for _, label := range domain.TechnologyLabels() {
		techCounts[label] = 0
	}
	for _, p := range group {
		for _, label := range domain.MentionedTechnologies(p.Quote) {
			techCounts[label]++
		}
	}

	return domain.PartyStats{
		TotalProposals:  len(group),
		DimensionCounts: countBy(group, func(p domain.Proposal) string { return p.Dimension }),
		CategoryCounts:  countBy(group, func(p domain.Proposal) string { return p.Category }),
		MaturityCounts:  countBy(group, func(p domain.Proposal) string { return string(p.Maturity) }),
		AvgMaturity:     AverageMaturity(group),
		TechCounts:      techCounts,
	}
}

// AverageMaturity is the mean maturity score rounded to two decimals,
// or 0 for no proposals.
func AverageMaturity(proposals []domain.Proposal) float64 {
	if len(proposals) == 0 {
		return 0
	}
	total := 0
	for _, p := range proposals {
		total += p.Maturity.Score()
	}
	avg := float64(total) / float64(len(proposals))
	return math.Round(avg*100) / 100
}

// distinct returns the sorted set of key over proposals
func distinct(proposals []domain.Proposal, key func(domain.Proposal) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, p := range proposals {
		k := key(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		values = append(values, k)
	}
	sort.Strings(values)
	return values
}

func groupBy(proposals []domain.Proposal, key func(domain.Proposal) string) map[string][]domain.Proposal {
	groups := make(map[string][]domain.Proposal)
	for _, p := range proposals {
		k := key(p)
		groups[k] = append(groups[k], p)
	}
	return groups
}

// countBy counts observed values of key; absent values get no entry
func countBy(proposals []domain.Proposal, key func(domain.Proposal) string) map[string]int {
	counts := make(map[string]int)
	for _, p := range proposals {
		counts[key(p)]++
	}
	return counts
}
