package k4

import (
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Debug enables per-trade tracing on the standard logger.
// It maps to the -v flag of the CLI.
var Debug bool

func debugf(format string, args ...any) {
	if Debug {
		log.Printf(format, args...)
	}
}

// Side is the direction of an execution.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// AssetClass distinguishes stock from option executions.
type AssetClass string

const (
	Stock  AssetClass = "STK"
	Option AssetClass = "OPT"
)

// Right is the option right, derived from the instrument description.
type Right int

const (
	NoRight Right = iota // not an option
	Call
	Put
)

func (r Right) String() string {
	switch r {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return "none"
	}
}

// Codes found in the free-text Notes/Codes field of the export.
const (
	CodeExercise   = "Ex" // execution caused by exercising a long option
	CodeAssignment = "A"  // execution caused by assignment of a short option
	CodePartial    = "P"  // partial fill
)

// Trade is one brokerage execution row, immutable once ingested.
// Monetary fields are in the trade's own currency.
type Trade struct {
	DateTime    time.Time
	Date        Date // derived from DateTime
	Symbol      string
	Underlying  string
	AssetClass  AssetClass
	Side        Side
	Right       Right
	Quantity    int64 // signed; fractional shares are truncated at ingestion
	CostBasis   float64
	Proceeds    float64
	Commission  float64
	RealizedPnL float64 // as reported by the broker
	Currency    string
	Codes       string // free-text code field, see Code constants
	OpenClose   string // "O" or "C"
	Description string
}

// IsClose reports whether the execution closes a position.
func (t Trade) IsClose() bool { return t.OpenClose == "C" }

// HasCode reports whether the free-text code field contains the given code.
func (t Trade) HasCode(code string) bool { return strings.Contains(t.Codes, code) }

// ExerciseOrAssignment reports whether the execution was caused by an
// option exercise or assignment.
func (t Trade) ExerciseOrAssignment() bool {
	return t.HasCode(CodeExercise) || t.HasCode(CodeAssignment)
}

// ConvertedTrade is a Trade with its monetary fields expressed in SEK.
//
// Commission is stored as an absolute value. Cost basis and proceeds keep
// the broker's sign: the classification formulas take absolute values where
// they need to, and the assignment formulas depend on the signed option
// cost basis (a received premium is negative).
type ConvertedTrade struct {
	Trade      Trade
	Commission int64
	CostBasis  int64
	Proceeds   int64
	// PnL is the broker-reported realized PnL in SEK, kept with two
	// decimals. It is used only for comparison against our own figures,
	// never for the filed totals.
	PnL decimal.Decimal
}

// Kind tags the formula applied to a reportable row.
type Kind int

const (
	Standard Kind = iota
	LongCallExercise
	LongPutExercise
	ShortCallAssignment
	ShortPutAssignment
	Unrecognized // delivery code pattern matched no known scenario
)

func (k Kind) String() string {
	switch k {
	case Standard:
		return "standard"
	case LongCallExercise:
		return "long-call-exercise"
	case LongPutExercise:
		return "long-put-exercise"
	case ShortCallAssignment:
		return "short-call-assignment"
	case ShortPutAssignment:
		return "short-put-assignment"
	default:
		return "unrecognized"
	}
}

// DeliveryKind classifies a stock delivery by its side and code field.
// Any combination outside the four exercise/assignment scenarios is
// Unrecognized and falls back to the standard formula.
func DeliveryKind(t Trade) Kind {
	switch {
	case t.Side == Buy && t.HasCode(CodeExercise):
		return LongCallExercise
	case t.Side == Sell && t.HasCode(CodeExercise):
		return LongPutExercise
	case t.Side == Sell && t.HasCode(CodeAssignment):
		return ShortCallAssignment
	case t.Side == Buy && t.HasCode(CodeAssignment):
		return ShortPutAssignment
	default:
		return Unrecognized
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
