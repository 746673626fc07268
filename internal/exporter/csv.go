package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"b3dash/pkg/contracts/domain"
)

// WriteCSV streams the cleaned table to w using the same semicolon delimiter
// as the source export, so the output round-trips through the loader.
func WriteCSV(w io.Writer, dataset *domain.Dataset) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	defer writer.Flush()

	if err := writer.Write([]string{"CodigoInstrumento", "HoraFechamento", "DataNegocio", "PrecoNegocio"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range dataset.Trades {
		row := []string{
			t.InstrumentCode,
			t.CloseTime.String(),
			t.TradeDate,
			strconv.FormatFloat(t.Price, 'f', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
