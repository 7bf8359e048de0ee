package domain

// Proposal is one normalized row of the source sheet
type Proposal struct {
	ID        int      `json:"id"`
	Party     string   `json:"party"`
	Dimension string   `json:"dimension"`
	Category  string   `json:"category"`
	Quote     string   `json:"quote"`
	Maturity  Maturity `json:"maturity"`
}

// RawRecord is a source row keyed by header name, before any cleaning.
// Row is the 1-based line of the record in the source, header included.
type RawRecord struct {
	Row    int
	Fields map[string]string
}

// Get returns the field stored under column
func (r RawRecord) Get(column string) (string, bool) {
	v, ok := r.Fields[column]
	return v, ok
}
