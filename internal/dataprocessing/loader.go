package dataprocessing

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "proposalradar/internal/errors"
	"proposalradar/pkg/contracts/domain"
)

// utf8BOM is written by spreadsheet tools in front of CSV exports
const utf8BOM = '\ufeff'

// LoaderOptions configures source decoding
type LoaderOptions struct {
	// Delimiter separates CSV fields; zero means comma
	Delimiter rune

	// Sheet selects the XLSX worksheet; empty means the first sheet
	Sheet string
}

// Loader reads a proposal sheet into raw records, preserving row order
type Loader struct {
	logger    *slog.Logger
	delimiter rune
	sheet     string
}

// NewLoader creates a new loader
func NewLoader(logger *slog.Logger, opts LoaderOptions) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	return &Loader{
		logger:    logger.With("component", "loader"),
		delimiter: opts.Delimiter,
		sheet:     opts.Sheet,
	}
}

// Load reads every data row of the sheet at path. The format follows the
// extension: .xlsx and .xlsm are read as workbooks, anything else as CSV.
//
// Rows are keyed by header name. A row shorter than the header simply lacks
// the trailing keys; extra trailing fields are dropped.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewSourceNotFoundError(path, err)
		}
		return nil, apperrors.NewSourceUnreadableError(path, err)
	}
	if info.IsDir() {
		return nil, apperrors.NewSourceUnreadableError(path, errors.New("path is a directory"))
	}

	format := sourceFormat(path)

	var records []domain.RawRecord
	switch format {
	case "xlsx":
		records, err = l.loadXLSX(path)
	default:
		records, err = l.loadCSV(path)
	}
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to load source",
			slog.String("path", path),
			slog.String("format", format),
			slog.String("error", err.Error()))
		return nil, err
	}

	l.logger.InfoContext(ctx, "Source loaded",
		slog.String("path", path),
		slog.String("format", format),
		slog.Int64("size_bytes", info.Size()),
		slog.Int("record_count", len(records)))

	return records, nil
}

// sourceFormat picks the decoder from the file extension
func sourceFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	default:
		return "csv"
	}
}

// loadCSV decodes a delimited file with a header row
func (l *Loader) loadCSV(path string) ([]domain.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewSourceUnreadableError(path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if r, _, err := br.ReadRune(); err == nil && r != utf8BOM {
		if err := br.UnreadRune(); err != nil {
			return nil, apperrors.NewSourceUnreadableError(path, err)
		}
	}

	reader := csv.NewReader(br)
	reader.Comma = l.delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []domain.RawRecord{}, nil
	}
	if err != nil {
		return nil, csvReadError(path, err)
	}

	records := make([]domain.RawRecord, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvReadError(path, err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, newRawRecord(line, header, row))
	}

	return records, nil
}

// csvReadError classifies a csv decoding failure
func csvReadError(path string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return apperrors.NewRowParseError(parseErr.StartLine, err).WithContext("path", path)
	}
	return apperrors.NewSourceUnreadableError(path, err)
}

// loadXLSX reads the configured worksheet of a workbook. Spreadsheet rows drop
// trailing empty cells, so short rows are padded with empty values up to the
// header width rather than treated as missing fields.
func (l *Loader) loadXLSX(path string) ([]domain.RawRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewSourceUnreadableError(path, err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewSourceUnreadableError(path, errors.New("workbook has no sheets"))
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewSourceUnreadableError(path, err).WithContext("sheet", sheet)
	}

	records := make([]domain.RawRecord, 0, len(rows))
	var header []string
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if header == nil {
			header = row
			continue
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		records = append(records, newRawRecord(i+1, header, row))
	}

	return records, nil
}

// newRawRecord keys row by header. Duplicate header names keep the last column.
func newRawRecord(line int, header, row []string) domain.RawRecord {
	fields := make(map[string]string, len(header))
	for i, name := range header {
		if i >= len(row) {
			break
		}
		fields[name] = row[i]
	}
	return domain.RawRecord{Row: line, Fields: fields}
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
