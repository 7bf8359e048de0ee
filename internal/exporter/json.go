package exporter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"proposalradar/internal/config"
	"proposalradar/internal/dataprocessing"
	"proposalradar/pkg/contracts/domain"
)

// JSONWriter writes the aggregated document
type JSONWriter struct {
	logger *slog.Logger
}

// NewJSONWriter creates a new JSON writer
func NewJSONWriter(logger *slog.Logger) *JSONWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONWriter{logger: logger.With("component", "json_writer")}
}

// WriteDocument replaces path with doc encoded as two-space indented JSON.
// Non-ASCII and HTML characters are written literally. It returns the
// number of bytes written.
func (w *JSONWriter) WriteDocument(ctx context.Context, path string, doc domain.Document) (int64, error) {
	n, err := writeAtomic(path, func(out io.Writer) error {
		return EncodeDocument(out, doc)
	})
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to write document",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return 0, err
	}

	w.logger.InfoContext(ctx, "Document written",
		slog.String("path", path),
		slog.Int64("size_bytes", n),
		slog.Int("proposal_count", len(doc.Proposals)))

	return n, nil
}

// EncodeDocument writes doc to out in the output format, ending with a newline
func EncodeDocument(out io.Writer, doc domain.Document) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// BuildDocument assembles the output document. Proposals keep input order.
func BuildDocument(proposals []domain.Proposal, agg dataprocessing.Aggregation, generatedAt string) domain.Document {
	if proposals == nil {
		proposals = []domain.Proposal{}
	}
	return domain.Document{
		Metadata: domain.Metadata{
			TotalProposals:  len(proposals),
			TotalParties:    len(agg.Parties),
			TotalDimensions: len(agg.Dimensions),
			TotalCategories: len(agg.Categories),
			MaturityTypes:   agg.MaturityTypes,
			GeneratedAt:     generatedAt,
		},
		Parties:       agg.Parties,
		Dimensions:    agg.Dimensions,
		Categories:    agg.Categories,
		MaturityTypes: agg.MaturityTypes,
		Proposals:     proposals,
		Statistics:    agg.Statistics,
	}
}

// ResolveGeneratedAt returns the label stamped into metadata.generated_at.
// The label "now" is replaced by the current UTC time in RFC 3339.
func ResolveGeneratedAt(label string, now func() time.Time) string {
	if label != config.GeneratedAtNow {
		return label
	}
	return now().UTC().Format(time.RFC3339)
}
