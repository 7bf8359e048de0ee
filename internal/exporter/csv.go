package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"proposalradar/pkg/contracts/domain"
)

// utf8BOM helps Excel recognize UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With("component", "csv_writer")}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV replaces filePath with the given header and records
func (w *CSVWriter) WriteCSV(ctx context.Context, filePath string, options WriteOptions) (int64, error) {
	n, err := writeAtomic(filePath, func(out io.Writer) error {
		if options.BOMPrefix {
			if _, err := out.Write(utf8BOM); err != nil {
				return fmt.Errorf("failed to write BOM: %w", err)
			}
		}

		writer := csv.NewWriter(out)
		if len(options.Headers) > 0 {
			if err := writer.Write(options.Headers); err != nil {
				return fmt.Errorf("failed to write headers: %w", err)
			}
		}
		for i, record := range options.Records {
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write record %d: %w", i, err)
			}
		}
		writer.Flush()
		return writer.Error()
	})
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to write CSV file",
			slog.String("file_path", filePath),
			slog.String("error", err.Error()))
		return 0, err
	}

	w.logger.InfoContext(ctx, "CSV file written",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)),
		slog.Int64("size_bytes", n))

	return n, nil
}

// WritePartySummary writes one row per party of doc: totals, average
// maturity, maturity counts and technology mentions.
func (w *CSVWriter) WritePartySummary(ctx context.Context, filePath string, doc domain.Document) (int64, error) {
	headers, records := PartySummary(doc)
	return w.WriteCSV(ctx, filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// PartySummary flattens the by-party statistics into CSV rows, in party order.
// Maturity columns follow the document's maturity types and technology
// columns follow the keyword table.
func PartySummary(doc domain.Document) ([]string, [][]string) {
	techLabels := domain.TechnologyLabels()

	headers := []string{"Party", "TotalProposals", "AvgMaturity"}
	headers = append(headers, doc.MaturityTypes...)
	headers = append(headers, techLabels...)

	records := make([][]string, 0, len(doc.Parties))
	for _, party := range doc.Parties {
		stats := doc.Statistics.ByParty[party]

		record := []string{
			party,
			formatInt(stats.TotalProposals),
			formatFloat(stats.AvgMaturity),
		}
		for _, maturity := range doc.MaturityTypes {
			record = append(record, formatInt(stats.MaturityCounts[maturity]))
		}
		for _, label := range techLabels {
			record = append(record, formatInt(stats.TechCounts[label]))
		}
		records = append(records, record)
	}

	return headers, records
}
