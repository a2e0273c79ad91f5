package k4

import "fmt"

// GroupedResult is a Result merged with every other result sharing its
// instrument label. Merged counts the rows behind the line; 1 for a
// pass-through.
type GroupedResult struct {
	Result
	Merged int
}

// GroupInfo returns the annotation recorded when rows were merged, or ""
// for a pass-through line.
func (g GroupedResult) GroupInfo() string {
	if g.Merged <= 1 {
		return ""
	}
	return fmt.Sprintf("merged %d rows", g.Merged)
}

// Aggregate merges results sharing the same instrument label (exact string
// match) into one reporting line, summing quantity, proceeds, cost, gain,
// loss and the broker comparison fields. The first-seen row's side, date
// and codes are kept verbatim, and first-seen order is preserved.
//
// Aggregating an already aggregated set is a no-op since labels are unique
// after the first pass.
func Aggregate(results []Result) []GroupedResult {
	index := make(map[string]int, len(results))
	grouped := make([]GroupedResult, 0, len(results))
	for _, r := range results {
		i, ok := index[r.Label]
		if !ok {
			index[r.Label] = len(grouped)
			grouped = append(grouped, GroupedResult{Result: r, Merged: 1})
			continue
		}
		g := &grouped[i]
		g.Quantity += r.Quantity
		g.Proceeds += r.Proceeds
		g.Cost += r.Cost
		g.Gain += r.Gain
		g.Loss += r.Loss
		g.BrokerPnL = g.BrokerPnL.Add(r.BrokerPnL)
		g.Diff = g.Diff.Add(r.Diff)
		g.Merged++
	}
	if len(grouped) < len(results) {
		debugf("aggregated %d results into %d lines", len(results), len(grouped))
	}
	return grouped
}
