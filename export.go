package k4

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Column order of the report CSVs. The grouped report inserts GroupInfo
// right after Notes/Codes.
var resultColumns = []string{
	"Antal", "Beteckning", "Symbol", "Försäljningspris", "Omkostnadsbelopp",
	"Vinst", "Förlust", "IBKRPnL", "Diff vs IBKR", "BuySell", "TradeDate", "Notes/Codes",
}

// WriteResults writes the full classified results as a semicolon-separated
// CSV with decimal commas.
func WriteResults(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(resultColumns); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write(resultRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGrouped writes the aggregated results, with the merge annotation.
func WriteGrouped(w io.Writer, grouped []GroupedResult) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	header := append(append([]string{}, resultColumns...), "GroupInfo")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, g := range grouped {
		if err := cw.Write(append(resultRecord(g.Result), g.GroupInfo())); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func resultRecord(r Result) []string {
	return []string{
		strconv.FormatInt(r.Quantity, 10),
		r.Label,
		r.Symbol,
		strconv.FormatInt(r.Proceeds, 10),
		strconv.FormatInt(r.Cost, 10),
		strconv.FormatInt(r.Gain, 10),
		strconv.FormatInt(r.Loss, 10),
		decComma(r.BrokerPnL),
		decComma(r.Diff),
		string(r.Side),
		r.Date.String(),
		r.Codes,
	}
}

// decComma renders a decimal with the locale's decimal comma.
func decComma(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
