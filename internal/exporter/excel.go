package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"b3dash/pkg/contracts/domain"
)

const (
	tradesSheet  = "Trades"
	summarySheet = "Summary"
)

// ExcelExporter writes the cleaned dataset as an Excel workbook.
type ExcelExporter struct {
	logger *slog.Logger
}

// NewExcelExporter creates an Excel exporter.
func NewExcelExporter(logger *slog.Logger) *ExcelExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExporter{logger: logger.With(slog.String("component", "excel_exporter"))}
}

// Write renders the dataset into w as an xlsx workbook: a Trades sheet with
// every cleaned record and a Summary sheet with the per-instrument
// aggregates in dropdown order.
func (e *ExcelExporter) Write(w io.Writer, dataset *domain.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the trades sheet.
	if err := f.SetSheetName("Sheet1", tradesSheet); err != nil {
		return fmt.Errorf("failed to name trades sheet: %w", err)
	}

	header := []interface{}{"CodigoInstrumento", "HoraFechamento", "DataNegocio", "PrecoNegocio"}
	if err := f.SetSheetRow(tradesSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write trades header: %w", err)
	}

	for i, t := range dataset.Trades {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell for row %d: %w", i+2, err)
		}
		row := []interface{}{t.InstrumentCode, t.CloseTime.String(), t.TradeDate, t.Price}
		if err := f.SetSheetRow(tradesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write trade row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	summaryHeader := []interface{}{"CodigoInstrumento", "MeanPrice", "TradeCount"}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	for i, code := range dataset.Instruments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute summary cell for row %d: %w", i+2, err)
		}
		row := []interface{}{code, dataset.MeanPrice[code], dataset.TradeCount[code]}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("dataset exported",
		slog.Int("trades", len(dataset.Trades)),
		slog.Int("instruments", len(dataset.Instruments)))

	return nil
}
