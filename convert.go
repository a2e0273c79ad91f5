package k4

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Rates maps a currency code to its SEK multiplier.
type Rates map[string]float64

// Convert expresses every trade's monetary fields in SEK.
//
// The whole batch is validated first: if any trade is in a currency with no
// rate, no trade is converted and the error names every missing currency.
//
// Cost basis, proceeds and commission are rounded half-to-even to whole
// kronor, matching the integer amounts the K4 form expects. The
// broker-reported PnL is kept with two decimals since it only serves the
// discrepancy comparison.
func Convert(trades []Trade, rates Rates) ([]ConvertedTrade, error) {
	var missing []string
	seen := make(map[string]bool)
	for _, t := range trades {
		if _, ok := rates[t.Currency]; !ok && !seen[t.Currency] {
			seen[t.Currency] = true
			missing = append(missing, t.Currency)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("no exchange rate for currencies: %s", strings.Join(missing, ", "))
	}

	converted := make([]ConvertedTrade, 0, len(trades))
	for _, t := range trades {
		fx := decimal.NewFromFloat(rates[t.Currency])
		converted = append(converted, ConvertedTrade{
			Trade:      t,
			Commission: decimal.NewFromFloat(t.Commission).Abs().Mul(fx).RoundBank(0).IntPart(),
			CostBasis:  decimal.NewFromFloat(t.CostBasis).Mul(fx).RoundBank(0).IntPart(),
			Proceeds:   decimal.NewFromFloat(t.Proceeds).Mul(fx).RoundBank(0).IntPart(),
			PnL:        decimal.NewFromFloat(t.RealizedPnL).Mul(fx).RoundBank(2),
		})
	}
	debugf("converted %d trades to SEK", len(converted))
	return converted, nil
}
