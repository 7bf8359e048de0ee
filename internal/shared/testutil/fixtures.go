package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ProposalHeader is the default header of a proposal sheet
var ProposalHeader = []string{"Party", "Dimension", "Technology Category", "Verbatim Proposal Quote", "Maturity"}

// ProposalRow is one row of a proposal sheet
type ProposalRow struct {
	Party     string
	Dimension string
	Category  string
	Quote     string
	Maturity  string
}

// ExampleRows is the two-row sheet of the documented conversion example:
// one programmatic AI proposal and one with an unknown maturity label.
var ExampleRows = []ProposalRow{
	{Party: "PartyA", Dimension: "Econ", Category: "AI", Quote: "Invertir en IA", Maturity: "Programmatic"},
	{Party: "PartyA", Dimension: "Econ", Category: "AI", Quote: "plan digital", Maturity: "Unknown"},
}

// ProposalsCSV renders rows under the default header
func ProposalsCSV(t *testing.T, rows []ProposalRow) string {
	t.Helper()
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(ProposalHeader); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Party, r.Dimension, r.Category, r.Quote, r.Maturity}); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush csv: %v", err)
	}
	return b.String()
}

// WriteProposalsCSV writes rows to path, creating its directory
func WriteProposalsCSV(t *testing.T, path string, rows []ProposalRow) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(ProposalsCSV(t, rows)), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}
