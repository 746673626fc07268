package dataprocessing

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b3dash/internal/errors"
	"b3dash/internal/infrastructure"
)

const sampleHeader = "DataReferencia;CodigoInstrumento;AcaoAtualizacao;PrecoNegocio;QuantidadeNegociada;HoraFechamento;CodigoIdentificadorNegocio;TipoSessaoPregao;DataNegocio;CodigoParticipanteComprador;CodigoParticipanteVendedor"

func sampleRow(code, price, closeTime, tradeDate string) string {
	return strings.Join([]string{
		"2024-06-10", code, "0", price, "100", closeTime, "10", "1", tradeDate, "114", "3",
	}, ";")
}

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewParser(logger, infrastructure.NewMetrics())
}

func parseCSV(t *testing.T, lines ...string) (*Parser, string) {
	t.Helper()
	return newTestParser(t), strings.Join(lines, "\n") + "\n"
}

func TestParseCleanExport(t *testing.T) {
	p, input := parseCSV(t,
		sampleHeader,
		sampleRow("PETR4", "32,50", "10000000", "2024-06-10"),
		sampleRow("VALE3", "60,10", "10150000", "2024-06-10"),
		sampleRow("PETR4", "33,00", "11000000", "2024-06-10"),
	)

	dataset, err := p.parse(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, dataset.Trades, 3)
	assert.Equal(t, 32.75, dataset.MeanPrice["PETR4"])
	assert.Equal(t, 60.10, dataset.MeanPrice["VALE3"])
	assert.Equal(t, 2, dataset.TradeCount["PETR4"])
	assert.Equal(t, 1, dataset.TradeCount["VALE3"])
	assert.Equal(t, []string{"PETR4", "VALE3"}, dataset.Instruments)

	// Decimal comma parsed, date flipped to display order.
	assert.Equal(t, 32.50, dataset.Trades[0].Price)
	assert.Equal(t, "10-06-2024", dataset.Trades[0].TradeDate)
	assert.Equal(t, "10:00:00.00", dataset.Trades[0].CloseTime.String())
}

func TestParseExcludesLongInstrumentCodes(t *testing.T) {
	p, input := parseCSV(t,
		sampleHeader,
		sampleRow("PETR4", "32,50", "10000000", "2024-06-10"),
		sampleRow("PETR4F", "32,60", "10000000", "2024-06-10"),
		sampleRow("VALE3X20", "60,10", "10000000", "2024-06-10"),
	)

	dataset, err := p.parse(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, dataset.Trades, 1)
	assert.Equal(t, []string{"PETR4"}, dataset.Instruments)
	assert.False(t, dataset.HasInstrument("PETR4F"))
}

func TestParseExcludesInvalidCloseTimes(t *testing.T) {
	tests := []struct {
		name      string
		closeTime string
	}{
		{name: "empty", closeTime: ""},
		{name: "non numeric", closeTime: "10:30:55"},
		{name: "too many digits", closeTime: "103055123"},
		{name: "hour out of range", closeTime: "25000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, input := parseCSV(t,
				sampleHeader,
				sampleRow("PETR4", "32,50", "10000000", "2024-06-10"),
				sampleRow("VALE3", "60,10", tt.closeTime, "2024-06-10"),
			)

			dataset, err := p.parse(context.Background(), strings.NewReader(input))
			require.NoError(t, err)

			// Only the row is dropped, never the whole load.
			require.Len(t, dataset.Trades, 1)
			assert.Equal(t, "PETR4", dataset.Trades[0].InstrumentCode)
		})
	}
}

func TestParseUnparseablePriceFailsLoad(t *testing.T) {
	p, input := parseCSV(t,
		sampleHeader,
		sampleRow("PETR4", "32,50", "10000000", "2024-06-10"),
		sampleRow("VALE3", "N/A", "10000000", "2024-06-10"),
	)

	dataset, err := p.parse(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, dataset)
	assert.True(t, errors.IsDataLoadError(err))
	assert.Contains(t, err.Error(), "row 3")
}

func TestParseMissingColumnFailsLoad(t *testing.T) {
	p, input := parseCSV(t,
		"DataReferencia;CodigoInstrumento;PrecoNegocio;DataNegocio",
		"2024-06-10;PETR4;32,50;2024-06-10",
	)

	_, err := p.parse(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, errors.IsDataLoadError(err))
	assert.Contains(t, err.Error(), "HoraFechamento")
}

func TestParseMalformedRowFailsLoad(t *testing.T) {
	p, input := parseCSV(t,
		sampleHeader,
		sampleRow("PETR4", "32,50", "10000000", "2024-06-10"),
		"2024-06-10;PETR4;0",
	)

	_, err := p.parse(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, errors.IsDataLoadError(err))
}

func TestParseNoSurvivingRowsFailsLoad(t *testing.T) {
	p, input := parseCSV(t,
		sampleHeader,
		sampleRow("VALE3X20", "60,10", "10000000", "2024-06-10"),
		sampleRow("PETR4", "32,50", "99999999", "2024-06-10"),
	)

	_, err := p.parse(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, errors.IsDataLoadError(err))
	assert.Contains(t, err.Error(), "no valid rows")
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "b3.csv")
	content := strings.Join([]string{
		sampleHeader,
		sampleRow("PETR4", "32,50", "10000000", "2024-06-10"),
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p := newTestParser(t)

	dataset, err := p.ParseFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, dataset.Trades, 1)

	_, err = p.ParseFile(context.Background(), filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsDataLoadError(err))
}

func TestReformatTradeDate(t *testing.T) {
	assert.Equal(t, "10-06-2024", reformatTradeDate("2024-06-10"))
	assert.Equal(t, "20240610", reformatTradeDate("20240610"))
}
