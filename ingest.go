package k4

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// The columns a trade export must carry. IBCommission is special-cased:
// when it is the only missing column the commissions are assumed zero.
var requiredTradeColumns = []string{
	"DateTime", "Open/CloseIndicator", "FifoPnlRealized", "Description",
	"Quantity", "CostBasis", "Proceeds", "CurrencyPrimary", "Buy/Sell",
	"Notes/Codes", "AssetClass", "Symbol", "UnderlyingSymbol", "IBCommission",
}

// Columns required in a supplementary pre-computed trades file.
var requiredPrecomputedColumns = []string{
	"Symbol", "Beteckning", "Antal", "Försäljningspris", "Omkostnadsbelopp", "Vinst", "Förlust",
}

// ReadTrades reads a brokerage trade export: a semicolon-separated CSV with
// a header row and decimal commas. The row order of the file is preserved;
// it is the order option-leg matching relies on.
func ReadTrades(r io.Reader) ([]Trade, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read trade file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("trade file is empty")
	}

	header := records[0]
	col, missing := indexHeader(header, requiredTradeColumns)
	noCommission := false
	if len(missing) == 1 && missing[0] == "IBCommission" {
		log.Println("warning, missing IBCommission column, assuming zero commissions")
		noCommission = true
	} else if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns in input file: %s", strings.Join(missing, ", "))
	}

	trades := make([]Trade, 0, len(records)-1)
	for n, record := range records[1:] {
		if len(record) < len(header) {
			return nil, fmt.Errorf("line %d: %d fields, header has %d", n+2, len(record), len(header))
		}
		t, err := parseTrade(record, col, noCommission)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+2, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}

func parseTrade(record []string, col map[string]int, noCommission bool) (Trade, error) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	dt, err := ParseDateTime(field("DateTime"))
	if err != nil {
		return Trade{}, err
	}

	// Fractional shares are truncated; proceeds are carried regardless.
	qty, err := parseAmount(field("Quantity"))
	if err != nil {
		return Trade{}, fmt.Errorf("invalid Quantity: %w", err)
	}

	costBasis, err := parseAmount(field("CostBasis"))
	if err != nil {
		return Trade{}, fmt.Errorf("invalid CostBasis: %w", err)
	}
	proceeds, err := parseAmount(field("Proceeds"))
	if err != nil {
		return Trade{}, fmt.Errorf("invalid Proceeds: %w", err)
	}
	pnl, err := parseAmount(field("FifoPnlRealized"))
	if err != nil {
		return Trade{}, fmt.Errorf("invalid FifoPnlRealized: %w", err)
	}
	var commission float64
	if !noCommission {
		commission, err = parseAmount(field("IBCommission"))
		if err != nil {
			return Trade{}, fmt.Errorf("invalid IBCommission: %w", err)
		}
	}

	class := AssetClass(field("AssetClass"))
	description := field("Description")

	return Trade{
		DateTime:    dt,
		Date:        DateOf(dt),
		Symbol:      field("Symbol"),
		Underlying:  field("UnderlyingSymbol"),
		AssetClass:  class,
		Side:        Side(strings.ToUpper(field("Buy/Sell"))),
		Right:       rightOf(class, description),
		Quantity:    int64(qty),
		CostBasis:   costBasis,
		Proceeds:    proceeds,
		Commission:  commission,
		RealizedPnL: pnl,
		Currency:    field("CurrencyPrimary"),
		Codes:       field("Notes/Codes"),
		OpenClose:   field("Open/CloseIndicator"),
		Description: description,
	}, nil
}

// rightOf derives the option right from the instrument description.
// Option descriptions carry the right as a bare "P" or "C" token; only the
// put marker is reliable enough to test for, everything else is a call.
func rightOf(class AssetClass, description string) Right {
	if class != Option {
		return NoRight
	}
	if strings.Contains(description, " P ") || strings.HasSuffix(description, " P") {
		return Put
	}
	return Call
}

// ReadPrecomputed reads supplementary pre-computed trades: rows already
// expressed in SEK integers that join the result set after classification.
// They contribute nothing to the broker-PnL comparison fields.
func ReadPrecomputed(r io.Reader) ([]Result, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read pre-computed trades: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("pre-computed trades file is empty")
	}

	col, missing := indexHeader(records[0], requiredPrecomputedColumns)
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns in pre-computed trades file: %s", strings.Join(missing, ", "))
	}

	results := make([]Result, 0, len(records)-1)
	for n, record := range records[1:] {
		res, err := parsePrecomputed(record, col)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+2, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func parsePrecomputed(record []string, col map[string]int) (Result, error) {
	text := func(name string) (string, error) {
		i := col[name]
		if i >= len(record) {
			return "", fmt.Errorf("missing value for %s", name)
		}
		return strings.TrimSpace(record[i]), nil
	}
	integer := func(name string) (int64, error) {
		s, err := text(name)
		if err != nil {
			return 0, err
		}
		v, err := parseAmount(s)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", name, err)
		}
		return int64(v), nil
	}

	var res Result
	var err error
	if res.Quantity, err = integer("Antal"); err != nil {
		return Result{}, err
	}
	if res.Proceeds, err = integer("Försäljningspris"); err != nil {
		return Result{}, err
	}
	if res.Cost, err = integer("Omkostnadsbelopp"); err != nil {
		return Result{}, err
	}
	if res.Gain, err = integer("Vinst"); err != nil {
		return Result{}, err
	}
	if res.Loss, err = integer("Förlust"); err != nil {
		return Result{}, err
	}
	if res.Symbol, err = text("Symbol"); err != nil {
		return Result{}, err
	}
	if res.Label, err = text("Beteckning"); err != nil {
		return Result{}, err
	}
	res.BrokerPnL = decimal.Zero
	res.Diff = decimal.Zero
	return res, nil
}

// indexHeader maps column names to their position and returns the sorted
// list of required columns absent from the header.
func indexHeader(header, required []string) (map[string]int, []string) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return col, missing
}

// parseAmount parses a number written with either a decimal comma or a
// decimal point. Empty strings are zero.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
