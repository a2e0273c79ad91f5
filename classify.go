package k4

import (
	"log"

	"github.com/shopspring/decimal"
)

// Result is one reportable line of the K4 report.
//
// Gain and Loss are never both nonzero, and Gain-Loss always equals
// Proceeds-Cost.
type Result struct {
	Quantity int64  // Antal
	Label    string // Beteckning
	Symbol   string
	Proceeds int64 // Försäljningspris
	Cost     int64 // Omkostnadsbelopp
	Gain     int64 // Vinst
	Loss     int64 // Förlust

	// BrokerPnL is the broker's own realized PnL in SEK, and Diff the
	// discrepancy between our figure and theirs. Comparison only.
	BrokerPnL decimal.Decimal
	Diff      decimal.Decimal

	Side  Side
	Date  Date
	Codes string

	Kind Kind
	// Degraded is set when a specialized delivery formula could not find
	// its option leg and the standard formula was used instead.
	Degraded bool
}

// Classify selects the reportable rows of a converted trade table and
// computes proceeds and cost for each under the applicable formula.
//
// A trade is reportable iff it closes a position and either has a nonzero
// broker PnL or is a stock delivery flagged as exercise/assignment. Option
// legs that are themselves the paired leg of an exercise/assignment feed
// the matched stock delivery's computation and never get a line of their own.
func Classify(table []ConvertedTrade) []Result {
	var results []Result
	for _, ct := range table {
		t := ct.Trade
		if !t.IsClose() {
			continue
		}
		delivery := t.AssetClass == Stock && t.ExerciseOrAssignment()
		if ct.PnL.IsZero() && !delivery {
			continue
		}
		if t.AssetClass == Option && t.ExerciseOrAssignment() {
			debugf("skipping exercised/assigned option leg %s", t.Description)
			continue
		}
		if delivery {
			results = append(results, classifyDelivery(ct, table))
		} else {
			results = append(results, standard(ct))
		}
	}
	debugf("found %d trades to report", len(results))
	return results
}

// standard computes the ordinary closing-trade formula: for a sell the
// proceeds are as reported and the cost is what the position cost to open;
// for a buy closing a short it is the mirror image.
func standard(ct ConvertedTrade) Result {
	var proceeds, cost int64
	if ct.Trade.Side == Sell {
		proceeds = ct.Proceeds
		cost = abs64(ct.CostBasis) + ct.Commission
	} else {
		proceeds = abs64(ct.CostBasis)
		cost = abs64(ct.Proceeds) + ct.Commission
	}
	return newResult(ct, Standard, proceeds, cost, false)
}

// deliveryFormula describes one exercise/assignment scenario: which option
// leg pairs with the stock delivery, and how proceeds and cost derive from
// the pair.
type deliveryFormula struct {
	legSide  Side
	legRight Right
	legCode  string
	compute  func(stock, option ConvertedTrade) (proceeds, cost int64)
}

var deliveryFormulas = map[Kind]deliveryFormula{
	// Long call exercised: stock bought at strike, option sold with Ex.
	// The purchase has no sale proceeds beyond its own cost-basis field;
	// the strike paid and the premium both go into the cost.
	LongCallExercise: {Sell, Call, CodeExercise, func(stock, option ConvertedTrade) (int64, int64) {
		return stock.CostBasis, abs64(stock.Proceeds) + abs64(option.CostBasis) + stock.Commission
	}},
	// Long put exercised: stock sold at strike, option sold with Ex.
	LongPutExercise: {Sell, Put, CodeExercise, func(stock, option ConvertedTrade) (int64, int64) {
		return stock.Proceeds, abs64(stock.CostBasis) + abs64(option.CostBasis) + stock.Commission
	}},
	// Short call assigned: stock sold, option bought back with A. The
	// option cost basis is signed; a received premium is negative and
	// reduces the cost.
	ShortCallAssignment: {Buy, Call, CodeAssignment, func(stock, option ConvertedTrade) (int64, int64) {
		return stock.Proceeds, abs64(stock.CostBasis) - option.CostBasis + stock.Commission
	}},
	// Short put assigned: stock bought at strike, option bought back with A.
	ShortPutAssignment: {Buy, Put, CodeAssignment, func(stock, option ConvertedTrade) (int64, int64) {
		return stock.CostBasis, abs64(stock.Proceeds) - option.CostBasis + stock.Commission
	}},
}

// classifyDelivery applies the scenario formula for a stock delivery, or
// degrades to the standard formula when no option leg matches.
func classifyDelivery(ct ConvertedTrade, table []ConvertedTrade) Result {
	t := ct.Trade
	kind := DeliveryKind(t)
	debugf("delivery %s: %s %s codes %q", t.Description, t.Side, kind, t.Codes)

	formula, ok := deliveryFormulas[kind]
	if !ok {
		log.Printf("warning, unknown exercise/assignment pattern for %s (%s %q), using standard formula",
			t.Description, t.Side, t.Codes)
		res := standard(ct)
		res.Kind = Unrecognized
		res.Degraded = true
		return res
	}

	option, ok := findOptionLeg(table, t, formula.legSide, formula.legRight, formula.legCode)
	if !ok {
		log.Printf("warning, no matching option leg for %s delivery of %s on %s, using standard formula",
			kind, t.Symbol, t.Date)
		res := standard(ct)
		res.Kind = kind
		res.Degraded = true
		return res
	}

	debugf("matched option leg %s (cost basis %d)", option.Trade.Description, option.CostBasis)
	proceeds, cost := formula.compute(ct, option)
	return newResult(ct, kind, proceeds, cost, false)
}

// findOptionLeg returns the first option trade pairing with the given stock
// delivery: same trade date, same underlying, matching side, right and
// code, and itself flagged as exercise/assignment. The table keeps the
// ingestion order of the input file, so when several legs qualify the
// choice is stable across runs.
func findOptionLeg(table []ConvertedTrade, stock Trade, side Side, right Right, code string) (ConvertedTrade, bool) {
	for _, ct := range table {
		t := ct.Trade
		if t.AssetClass != Option || t.Date != stock.Date || t.Underlying != stock.Symbol {
			continue
		}
		if t.Side == side && t.Right == right && t.HasCode(code) {
			return ct, true
		}
	}
	return ConvertedTrade{}, false
}

func newResult(ct ConvertedTrade, kind Kind, proceeds, cost int64, degraded bool) Result {
	t := ct.Trade
	net := proceeds - cost
	return Result{
		Quantity:  abs64(t.Quantity),
		Label:     t.Description,
		Symbol:    t.Symbol,
		Proceeds:  proceeds,
		Cost:      cost,
		Gain:      max(net, 0),
		Loss:      max(-net, 0),
		BrokerPnL: ct.PnL,
		Diff:      decimal.NewFromInt(net).Sub(ct.PnL).RoundBank(2),
		Side:      t.Side,
		Date:      t.Date,
		Codes:     t.Codes,
		Kind:      kind,
		Degraded:  degraded,
	}
}
