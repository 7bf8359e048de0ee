// Package dataprocessing turns a proposal sheet into aggregated statistics.
//
// # Architecture
//
// The package is organized into three components, run in this order:
//
// 1. Loader: reads a CSV or XLSX sheet into raw records keyed by header name
// 2. Normalizer: cleans fields, assigns ids and coerces invalid maturity labels
// 3. Aggregator: builds vocabularies and the by-party/dimension/category views
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, dataprocessing.LoaderOptions{Delimiter: ','})
//	raws, err := loader.Load(ctx, "proposals.csv")
//
//	normalizer := dataprocessing.NewNormalizer(logger, cfg.Columns)
//	proposals, warnings, err := normalizer.Normalize(ctx, raws)
//
//	agg := dataprocessing.NewAggregator(logger).Aggregate(ctx, proposals)
//
// # Data Flow
//
//	Sheet → Loader → RawRecords → Normalizer → Proposals → Aggregator → Aggregation
//
// # Error Handling
//
// The loader reports missing or unreadable sources. Rows are read by header
// name, so a row too short to reach a column is reported by the normalizer as
// a MALFORMED_ROW error when that column is read. Invalid maturity labels are
// the only recovered condition; they come back as warnings.
package dataprocessing
