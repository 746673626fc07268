package dataprocessing

import (
	"math"
	"sort"

	"b3dash/pkg/contracts/domain"
)

// Summarize computes the per-instrument aggregates over the cleaned trades
// and assembles the immutable dataset. Means are rounded to 2 decimal places;
// the instrument list is ordered ascending by mean price with ties keeping
// first-seen order.
func Summarize(trades []domain.Trade) *domain.Dataset {
	meanPrice := make(map[string]float64)
	tradeCount := make(map[string]int)
	sums := make(map[string]float64)

	// firstSeen preserves source order for the tie-break.
	var firstSeen []string
	for _, t := range trades {
		if _, ok := tradeCount[t.InstrumentCode]; !ok {
			firstSeen = append(firstSeen, t.InstrumentCode)
		}
		tradeCount[t.InstrumentCode]++
		sums[t.InstrumentCode] += t.Price
	}

	for code, sum := range sums {
		meanPrice[code] = round2(sum / float64(tradeCount[code]))
	}

	instruments := make([]string, len(firstSeen))
	copy(instruments, firstSeen)
	sort.SliceStable(instruments, func(i, j int) bool {
		return meanPrice[instruments[i]] < meanPrice[instruments[j]]
	})

	return &domain.Dataset{
		Trades:      trades,
		MeanPrice:   meanPrice,
		TradeCount:  tradeCount,
		Instruments: instruments,
	}
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
