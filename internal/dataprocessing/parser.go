package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"b3dash/internal/errors"
	"b3dash/internal/infrastructure"
	"b3dash/pkg/contracts/domain"
)

// Columns consumed from the export. Everything else in the file
// (DataReferencia, AcaoAtualizacao, CodigoIdentificadorNegocio,
// TipoSessaoPregao and the participant codes) is dropped by never
// reading past the header map.
const (
	colInstrumentCode = "CodigoInstrumento"
	colCloseTime      = "HoraFechamento"
	colTradeDate      = "DataNegocio"
	colPrice          = "PrecoNegocio"
)

// maxInstrumentCodeLen separates spot tickers from derivative codes.
// Longer codes are excluded from the cleaned table.
const maxInstrumentCodeLen = 5

// Exclusion reasons reported through metrics and logs.
const (
	reasonInstrumentCode = "instrument_code"
	reasonCloseTime      = "close_time"
)

// Parser reads a semicolon-delimited B3 trade export and produces the
// cleaned, aggregated dataset. It runs exactly once per process.
type Parser struct {
	logger  *slog.Logger
	metrics *infrastructure.Metrics
}

// NewParser creates a parser with the given logger and metrics.
func NewParser(logger *slog.Logger, metrics *infrastructure.Metrics) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger:  logger.With(slog.String("component", "parser")),
		metrics: metrics,
	}
}

// ParseFile loads and cleans the export at path. A missing file, a header
// without the required columns, an inconsistent column count, an unparseable
// price, or zero surviving rows all fail the load outright; only invalid
// close times are excluded row by row.
func (p *Parser) ParseFile(ctx context.Context, path string) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataLoadError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	dataset, err := p.parse(ctx, f)
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.Int("rows", len(dataset.Trades)),
		slog.Int("instruments", len(dataset.Instruments)))

	return dataset, nil
}

// parse cleans the export read from r. Split from ParseFile so tests can
// feed raw CSV without touching the filesystem.
func (p *Parser) parse(ctx context.Context, r io.Reader) (*domain.Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewDataLoadError("failed to read header row", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		trades        []domain.Trade
		excludedCode  int
		excludedTime  int
		rowNumber     = 1 // header already consumed
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewDataLoadError("malformed row structure", err)
		}
		rowNumber++
		p.metrics.RowsParsed.Inc()

		code := strings.TrimSpace(row[columns[colInstrumentCode]])
		if len(code) > maxInstrumentCodeLen {
			excludedCode++
			p.metrics.RowsExcluded.WithLabelValues(reasonInstrumentCode).Inc()
			continue
		}

		closeTime, err := domain.ParseCloseTime(strings.TrimSpace(row[columns[colCloseTime]]))
		if err != nil {
			excludedTime++
			p.metrics.RowsExcluded.WithLabelValues(reasonCloseTime).Inc()
			p.logger.DebugContext(ctx, "row excluded",
				slog.Int("row", rowNumber),
				slog.String("reason", reasonCloseTime),
				slog.String("error", err.Error()))
			continue
		}

		price, err := parsePrice(row[columns[colPrice]])
		if err != nil {
			// A non-numeric price after comma substitution poisons the
			// whole table, unlike the row-filtered time field.
			return nil, errors.NewDataLoadError(
				fmt.Sprintf("unparseable price on row %d", rowNumber), err)
		}

		trades = append(trades, domain.Trade{
			InstrumentCode: code,
			CloseTime:      closeTime,
			TradeDate:      reformatTradeDate(strings.TrimSpace(row[columns[colTradeDate]])),
			Price:          price,
		})
	}

	if len(trades) == 0 {
		return nil, errors.NewDataLoadError("no valid rows after cleaning", nil)
	}

	if excludedCode > 0 || excludedTime > 0 {
		p.logger.InfoContext(ctx, "rows excluded during cleaning",
			slog.Int("instrument_code", excludedCode),
			slog.Int("close_time", excludedTime))
	}

	p.metrics.RowsLoaded.Set(float64(len(trades)))

	return Summarize(trades), nil
}

// mapColumns maps the required column names to their positions in the header.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, 4)
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	for _, required := range []string{colInstrumentCode, colCloseTime, colTradeDate, colPrice} {
		if _, ok := columns[required]; !ok {
			return nil, errors.NewDataLoadError(
				fmt.Sprintf("missing required column %s", required), nil)
		}
	}

	return columns, nil
}

// parsePrice converts the decimal-comma price notation to a float64.
func parsePrice(raw string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	return strconv.ParseFloat(normalized, 64)
}

// reformatTradeDate turns the source YYYY-MM-DD form into the DD-MM-YYYY
// display form. Pure string transform; the date is display-only and never
// filtered on, so it is not validated.
func reformatTradeDate(raw string) string {
	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return raw
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}
