package renderer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/evhols/k4"
)

// headings parses the markdown and returns the text of every heading.
func headings(t *testing.T, md string) []string {
	t.Helper()

	source := []byte(md)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var got []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			var sb strings.Builder
			for i := 0; i < h.Lines().Len(); i++ {
				line := h.Lines().At(i)
				sb.Write(line.Value(source))
			}
			got = append(got, strings.TrimSpace(sb.String()))
		}
		return ast.WalkContinue, nil
	})
	return got
}

func TestSummaryMarkdown(t *testing.T) {
	s := k4.Summary{
		Rows:      12,
		Merged:    3,
		Degraded:  1,
		TotalGain: 35000,
		TotalLoss: 4000,
		TotalDiff: decimal.NewFromFloat(-0.5),
	}

	md := SummaryMarkdown("Aggregated results", s)

	hs := headings(t, md)
	if len(hs) != 1 || hs[0] != "Aggregated results" {
		t.Fatalf("headings = %v, want the title only", hs)
	}

	for _, want := range []string{
		"| Reported lines | 12 |",
		"| Merged lines | 3 |",
		"| Degraded lines | 1 |",
		"| Diff vs broker | -0,50 kr |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing row %q in:\n%s", want, md)
		}
	}
}

func TestSummaryMarkdown_OmitsEmptyRows(t *testing.T) {
	md := SummaryMarkdown("Results", k4.Summary{Rows: 2, TotalDiff: decimal.Zero})

	if strings.Contains(md, "Merged lines") {
		t.Error("merged row rendered for a summary without merges")
	}
	if strings.Contains(md, "Degraded lines") {
		t.Error("degraded row rendered for a summary without degradations")
	}
}

func TestFilingMarkdown(t *testing.T) {
	results := []k4.GroupedResult{
		{Result: k4.Result{Label: "AAPL Apple", Symbol: "AAPL", Gain: 3000}, Merged: 1},
		{Result: k4.Result{Label: "GOOGL Alphabet", Symbol: "GOOGL", Loss: 1000}, Merged: 1},
		{Result: k4.Result{Label: "BTC Bitcoin", Symbol: "BTC", Gain: 5000}, Merged: 1},
	}
	f := k4.NewFiling(results)

	md := FilingMarkdown(f)

	hs := headings(t, md)
	if len(hs) != 1 || hs[0] != "Filing" {
		t.Fatalf("headings = %v, want [Filing]", hs)
	}
	if !strings.Contains(md, "| A (securities) | 2 |") {
		t.Errorf("section A row missing or wrong count:\n%s", md)
	}
	if !strings.Contains(md, "| D (designated) | 1 |") {
		t.Errorf("section D row missing or wrong count:\n%s", md)
	}
	if !strings.Contains(md, "| **Total** | **3** |") {
		t.Errorf("total row missing or wrong count:\n%s", md)
	}
	if !strings.Contains(md, "Forms generated: 1") {
		t.Errorf("form count missing:\n%s", md)
	}
}
