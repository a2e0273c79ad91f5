package k4

import "github.com/shopspring/decimal"

// Summary holds the run totals reported to the user at the end of a batch.
type Summary struct {
	Rows      int
	Merged    int // lines that absorbed at least one other row
	Degraded  int // lines where a delivery formula fell back to standard
	TotalGain int64
	TotalLoss int64
	TotalDiff decimal.Decimal
}

// Net is the net result, gain minus loss.
func (s Summary) Net() int64 { return s.TotalGain - s.TotalLoss }

// Summarize totals the classified results.
func Summarize(results []Result) Summary {
	s := Summary{Rows: len(results), TotalDiff: decimal.Zero}
	for _, r := range results {
		s.TotalGain += r.Gain
		s.TotalLoss += r.Loss
		s.TotalDiff = s.TotalDiff.Add(r.Diff)
		if r.Degraded {
			s.Degraded++
		}
	}
	return s
}

// SummarizeGrouped totals the aggregated results.
func SummarizeGrouped(grouped []GroupedResult) Summary {
	s := Summary{Rows: len(grouped), TotalDiff: decimal.Zero}
	for _, g := range grouped {
		s.TotalGain += g.Gain
		s.TotalLoss += g.Loss
		s.TotalDiff = s.TotalDiff.Add(g.Diff)
		if g.Merged > 1 {
			s.Merged++
		}
		if g.Degraded {
			s.Degraded++
		}
	}
	return s
}
