package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"proposalradar/internal/config"
	apperrors "proposalradar/internal/errors"
	"proposalradar/pkg/contracts/domain"
)

// Warning records a value the normalizer replaced instead of failing on
type Warning struct {
	ID          int
	Row         int
	Field       string
	Value       string
	Replacement string
	Err         error
}

// Normalizer cleans raw records into proposals
type Normalizer struct {
	logger  *slog.Logger
	columns config.ColumnsConfig
}

// NewNormalizer creates a normalizer reading the given header names
func NewNormalizer(logger *slog.Logger, columns config.ColumnsConfig) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		logger:  logger.With("component", "normalizer"),
		columns: columns,
	}
}

// Normalize converts raws into proposals with ids 1..N in input order.
// A record missing one of the configured columns fails the whole batch.
func (n *Normalizer) Normalize(ctx context.Context, raws []domain.RawRecord) ([]domain.Proposal, []Warning, error) {
	proposals := make([]domain.Proposal, 0, len(raws))
	var warnings []Warning

	for i, raw := range raws {
		id := i + 1

		party, err := n.field(raw, n.columns.Party)
		if err != nil {
			return nil, nil, err
		}
		dimension, err := n.field(raw, n.columns.Dimension)
		if err != nil {
			return nil, nil, err
		}
		category, err := n.field(raw, n.columns.Category)
		if err != nil {
			return nil, nil, err
		}
		quote, err := n.field(raw, n.columns.Quote)
		if err != nil {
			return nil, nil, err
		}
		maturityText, err := n.field(raw, n.columns.Maturity)
		if err != nil {
			return nil, nil, err
		}

		maturity := domain.Maturity(maturityText)
		if !maturity.Valid() {
			w := Warning{
				ID:          id,
				Row:         raw.Row,
				Field:       "maturity",
				Value:       maturityText,
				Replacement: string(domain.DefaultMaturity),
				Err:         apperrors.NewInvalidEnumValueError("maturity", maturityText, id),
			}
			warnings = append(warnings, w)
			n.logger.WarnContext(ctx, "Invalid maturity value, defaulting",
				slog.Int("proposal_id", id),
				slog.Int("row", raw.Row),
				slog.String("value", maturityText),
				slog.String("replacement", w.Replacement))
			maturity = domain.DefaultMaturity
		}

		proposals = append(proposals, domain.Proposal{
			ID:        id,
			Party:     party,
			Dimension: dimension,
			Category:  category,
			Quote:     stripQuoteLayer(quote),
			Maturity:  maturity,
		})
	}

	n.logger.DebugContext(ctx, "Records normalized",
		slog.Int("proposal_count", len(proposals)),
		slog.Int("warning_count", len(warnings)))

	return proposals, warnings, nil
}

// field returns the trimmed value of column in raw
func (n *Normalizer) field(raw domain.RawRecord, column string) (string, error) {
	v, ok := raw.Get(column)
	if !ok {
		return "", apperrors.NewMalformedRowError(raw.Row, column)
	}
	return strings.TrimSpace(v), nil
}

// stripQuoteLayer removes at most one leading and one trailing double quote
func stripQuoteLayer(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}
