package domain

// Document is the aggregated payload consumed by the visualization front-end.
// Key names and nesting are part of the contract with that consumer.
type Document struct {
	Metadata      Metadata   `json:"metadata"`
	Parties       []string   `json:"parties"`
	Dimensions    []string   `json:"dimensions"`
	Categories    []string   `json:"categories"`
	MaturityTypes []string   `json:"maturity_types"`
	Proposals     []Proposal `json:"proposals"`
	Statistics    Statistics `json:"statistics"`
}

// Metadata summarizes the document
type Metadata struct {
	TotalProposals  int      `json:"total_proposals"`
	TotalParties    int      `json:"total_parties"`
	TotalDimensions int      `json:"total_dimensions"`
	TotalCategories int      `json:"total_categories"`
	MaturityTypes   []string `json:"maturity_types"`
	GeneratedAt     string   `json:"generated_at"`
}

// Statistics holds the three grouped views
type Statistics struct {
	ByParty     map[string]PartyStats     `json:"by_party"`
	ByDimension map[string]DimensionStats `json:"by_dimension"`
	ByCategory  map[string]CategoryStats  `json:"by_category"`
}

// PartyStats aggregates one party's proposals. Count maps only carry observed
// values; TechCounts always carries every technology label.
type PartyStats struct {
	TotalProposals  int            `json:"total_proposals"`
	DimensionCounts map[string]int `json:"dimension_counts"`
	CategoryCounts  map[string]int `json:"category_counts"`
	MaturityCounts  map[string]int `json:"maturity_counts"`
	AvgMaturity     float64        `json:"avg_maturity"`
	TechCounts      map[string]int `json:"tech_counts"`
}

// DimensionStats aggregates one dimension's proposals
type DimensionStats struct {
	TotalProposals int            `json:"total_proposals"`
	PartyCounts    map[string]int `json:"party_counts"`
}

// CategoryStats aggregates one technology category's proposals
type CategoryStats struct {
	TotalProposals int            `json:"total_proposals"`
	MaturityCounts map[string]int `json:"maturity_counts"`
}
