// Package exporter writes the aggregated proposal document and its
// spreadsheet-friendly party summary.
//
// This package contains two main components:
//
// JSONWriter: encodes the document as indented UTF-8 JSON for the
// visualization front-end.
//
// CSVWriter: writes CSV files with an optional UTF-8 BOM for Excel, and the
// one-row-per-party summary built from the same document.
//
// Every file is written through a temp file in the destination directory that
// is renamed into place, so readers see either the previous file or the
// complete new one.
//
// Example usage:
//
//	doc := exporter.BuildDocument(proposals, agg, exporter.ResolveGeneratedAt(cfg.Pipeline.GeneratedAt, time.Now))
//
//	n, err := exporter.NewJSONWriter(logger).WriteDocument(ctx, "public/data/proposals.json", doc)
//
//	_, err = exporter.NewCSVWriter(logger).WritePartySummary(ctx, "reports/parties.csv", doc)
package exporter
