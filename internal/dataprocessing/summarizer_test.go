package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b3dash/pkg/contracts/domain"
)

func trade(code string, price float64) domain.Trade {
	return domain.Trade{InstrumentCode: code, Price: price}
}

func TestSummarizeAggregates(t *testing.T) {
	dataset := Summarize([]domain.Trade{
		trade("PETR4", 32.50),
		trade("VALE3", 60.10),
		trade("PETR4", 33.00),
		trade("ITUB4", 28.333),
	})

	assert.Equal(t, 32.75, dataset.MeanPrice["PETR4"])
	assert.Equal(t, 60.10, dataset.MeanPrice["VALE3"])
	// Rounded to 2 decimal places, half away from zero.
	assert.Equal(t, 28.33, dataset.MeanPrice["ITUB4"])

	assert.Equal(t, 2, dataset.TradeCount["PETR4"])
	assert.Equal(t, 1, dataset.TradeCount["VALE3"])
	assert.Equal(t, 1, dataset.TradeCount["ITUB4"])
}

func TestSummarizeOrdersByMeanAscending(t *testing.T) {
	dataset := Summarize([]domain.Trade{
		trade("VALE3", 60.10),
		trade("PETR4", 32.75),
		trade("ITUB4", 28.33),
	})

	assert.Equal(t, []string{"ITUB4", "PETR4", "VALE3"}, dataset.Instruments)
}

func TestSummarizeTiesKeepFirstSeenOrder(t *testing.T) {
	dataset := Summarize([]domain.Trade{
		trade("BBDC4", 25.00),
		trade("ABEV3", 25.00),
		trade("WEGE3", 25.00),
	})

	assert.Equal(t, []string{"BBDC4", "ABEV3", "WEGE3"}, dataset.Instruments)
}

func TestSummarizeRounding(t *testing.T) {
	dataset := Summarize([]domain.Trade{
		trade("PETR4", 32.456),
	})

	require.Contains(t, dataset.MeanPrice, "PETR4")
	assert.Equal(t, 32.46, dataset.MeanPrice["PETR4"])
}
