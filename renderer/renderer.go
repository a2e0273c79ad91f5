// Package renderer produces the markdown reports printed at the end of a
// run: the result summary and the filing overview.
package renderer

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/evhols/k4"
)

// sek formats whole kronor for display.
func sek(v int64) string {
	return money.New(v*100, money.SEK).Display()
}

// SummaryMarkdown renders the totals of a report stage.
func SummaryMarkdown(title string, s k4.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", title)
	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Reported lines | %d |\n", s.Rows)
	if s.Merged > 0 {
		fmt.Fprintf(&b, "| Merged lines | %d |\n", s.Merged)
	}
	if s.Degraded > 0 {
		fmt.Fprintf(&b, "| Degraded lines | %d |\n", s.Degraded)
	}
	fmt.Fprintf(&b, "| Total gain | %s |\n", sek(s.TotalGain))
	fmt.Fprintf(&b, "| Total loss | %s |\n", sek(s.TotalLoss))
	fmt.Fprintf(&b, "| Net result | %s |\n", sek(s.Net()))
	fmt.Fprintf(&b, "| Diff vs broker | %s kr |\n", strings.Replace(s.TotalDiff.StringFixed(2), ".", ",", 1))

	return b.String()
}

// FilingMarkdown renders the filing overview: per-section counts and
// totals, the grand totals to carry into the declaration, and the number
// of forms generated.
func FilingMarkdown(f *k4.Filing) string {
	var b strings.Builder

	fmt.Fprint(&b, "## Filing\n\n")
	fmt.Fprintln(&b, "| Section | Securities | Gain | Loss |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	fmt.Fprintf(&b, "| A (securities) | %d | %s | %s |\n",
		f.StandardCount, sek(f.StandardGain), sek(f.StandardLoss))
	fmt.Fprintf(&b, "| D (designated) | %d | %s | %s |\n",
		f.DesignatedCount, sek(f.DesignatedGain), sek(f.DesignatedLoss))
	fmt.Fprintf(&b, "| **Total** | **%d** | **%s** | **%s** |\n",
		f.StandardCount+f.DesignatedCount, sek(f.TotalGain()), sek(f.TotalLoss()))
	fmt.Fprintf(&b, "\nForms generated: %d\n", len(f.Forms))

	return b.String()
}
