package k4

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Form capacities fixed by the K4 layout.
const (
	maxStandardRows   = 9 // section A rows per form
	maxDesignatedRows = 7 // section D rows per form

	// labelMaxLen is the widest Beteckning the form accepts.
	labelMaxLen = 80

	// maxFilingRows caps the rows fed into a filing.
	maxFilingRows = 2000
)

// designatedSymbols lists the instruments reported in section D of the
// form (crypto proxies); everything else goes to section A.
var designatedSymbols = map[string]bool{
	"BITW": true, "BTC": true, "ETH": true, "GBTC": true,
	"ETHE": true, "SOL": true, "DOT": true, "ADA": true,
}

// Form is one physical K4 page: up to 9 section A rows, up to 7 section D
// rows, and a sequence number starting at 1.
type Form struct {
	Seq        int
	Standard   []GroupedResult
	Designated []GroupedResult
}

// SectionTotals sums the monetary columns of a slice of rows. On the form
// these are per-page subtotals, not whole-section ones.
func SectionTotals(rows []GroupedResult) (proceeds, cost, gain, loss int64) {
	for _, r := range rows {
		proceeds += r.Proceeds
		cost += r.Cost
		gain += r.Gain
		loss += r.Loss
	}
	return
}

// Filing is the paginated K4 submission: the partition of results into the
// two sections and the resulting sequence of forms.
type Filing struct {
	Forms []Form

	StandardCount   int
	DesignatedCount int
	StandardGain    int64
	StandardLoss    int64
	DesignatedGain  int64
	DesignatedLoss  int64
}

// TotalGain is the filing's grand total gain across both sections.
func (f *Filing) TotalGain() int64 { return f.StandardGain + f.DesignatedGain }

// TotalLoss is the filing's grand total loss across both sections.
func (f *Filing) TotalLoss() int64 { return f.StandardLoss + f.DesignatedLoss }

// NewFiling partitions the aggregated results into the standard and
// designated sections and paginates each onto forms. The form count is
// whatever the fuller section needs, and never less than one: an empty
// result set still produces a single empty form.
func NewFiling(results []GroupedResult) *Filing {
	if len(results) > maxFilingRows {
		log.Printf("warning, limiting filing to the first %d of %d rows", maxFilingRows, len(results))
		results = results[:maxFilingRows]
	}

	var standard, designated []GroupedResult
	for _, r := range results {
		if designatedSymbols[r.Symbol] {
			designated = append(designated, r)
		} else {
			standard = append(standard, r)
		}
	}

	n := max(pages(len(standard), maxStandardRows), pages(len(designated), maxDesignatedRows), 1)
	forms := make([]Form, 0, n)
	for i := 0; i < n; i++ {
		forms = append(forms, Form{
			Seq:        i + 1,
			Standard:   page(standard, i*maxStandardRows, maxStandardRows),
			Designated: page(designated, i*maxDesignatedRows, maxDesignatedRows),
		})
	}

	f := &Filing{
		Forms:           forms,
		StandardCount:   len(standard),
		DesignatedCount: len(designated),
	}
	_, _, f.StandardGain, f.StandardLoss = SectionTotals(standard)
	_, _, f.DesignatedGain, f.DesignatedLoss = SectionTotals(designated)
	return f
}

func pages(count, capacity int) int { return (count + capacity - 1) / capacity }

func page(rows []GroupedResult, offset, size int) []GroupedResult {
	if offset >= len(rows) {
		return nil
	}
	return rows[offset:min(offset+size, len(rows))]
}

// Info renders the INFO.SRU delivery description for the filer.
func Info(p Personal) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("#DATABESKRIVNING_START\n")
	b.WriteString("#PRODUKT SRU\n")
	b.WriteString("#FILNAMN BLANKETTER.SRU\n")
	b.WriteString("#DATABESKRIVNING_SLUT\n")
	b.WriteString("#MEDIELEV_START\n")
	fmt.Fprintf(&b, "#ORGNR %s\n", p.OrgNr())
	fmt.Fprintf(&b, "#NAMN %s\n", p.Name)
	fmt.Fprintf(&b, "#ADRESS %s\n", p.Address)
	fmt.Fprintf(&b, "#POSTNR %s\n", p.PostalCode)
	fmt.Fprintf(&b, "#POSTORT %s\n", p.City)
	fmt.Fprintf(&b, "#EMAIL %s\n", p.Email)
	b.WriteString("#MEDIELEV_SLUT\n")
	return []byte(b.String()), nil
}

// Blanketter renders the BLANKETTER.SRU payload: one block per form and a
// file terminator. The tag scheme is part of the wire contract: section A
// rows use prefix 31 with a 0-based row index, section D rows use prefix 34
// with a 1-based row index, and each non-empty section is followed by its
// per-form subtotal tags.
func (f *Filing) Blanketter(p Personal, now time.Time) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	orgnr := p.OrgNr()
	stamp := now.Format("20060102 150405")

	var b strings.Builder
	for _, form := range f.Forms {
		fmt.Fprintf(&b, "#BLANKETT K4-%sP4\n", p.IncomeYear)
		fmt.Fprintf(&b, "#IDENTITET %s %s\n", orgnr, stamp)

		if len(form.Standard) > 0 {
			for i, r := range form.Standard {
				writeRow(&b, "31", i, r)
			}
			proceeds, cost, gain, loss := SectionTotals(form.Standard)
			uppgift(&b, "3300", proceeds)
			uppgift(&b, "3301", cost)
			uppgift(&b, "3304", gain)
			uppgift(&b, "3305", loss)
		}

		if len(form.Designated) > 0 {
			for i, r := range form.Designated {
				writeRow(&b, "34", i+1, r)
			}
			proceeds, cost, gain, loss := SectionTotals(form.Designated)
			uppgift(&b, "3500", proceeds)
			uppgift(&b, "3501", cost)
			uppgift(&b, "3503", gain)
			uppgift(&b, "3504", loss)
		}

		uppgift(&b, "7014", int64(form.Seq))
		b.WriteString("#BLANKETTSLUT\n")
	}
	b.WriteString("#FIL_SLUT\n")
	return []byte(b.String()), nil
}

// writeRow emits the six positional tags of one result row: quantity,
// label, proceeds, cost, gain, loss.
func writeRow(b *strings.Builder, prefix string, index int, r GroupedResult) {
	label := r.Label
	if runes := []rune(label); len(runes) > labelMaxLen {
		label = string(runes[:labelMaxLen])
	}
	fmt.Fprintf(b, "#UPPGIFT %s%d0 %d\n", prefix, index, r.Quantity)
	fmt.Fprintf(b, "#UPPGIFT %s%d1 %s\n", prefix, index, label)
	fmt.Fprintf(b, "#UPPGIFT %s%d2 %d\n", prefix, index, r.Proceeds)
	fmt.Fprintf(b, "#UPPGIFT %s%d3 %d\n", prefix, index, r.Cost)
	fmt.Fprintf(b, "#UPPGIFT %s%d4 %d\n", prefix, index, r.Gain)
	fmt.Fprintf(b, "#UPPGIFT %s%d5 %d\n", prefix, index, r.Loss)
}

func uppgift(b *strings.Builder, tag string, value int64) {
	fmt.Fprintf(b, "#UPPGIFT %s %d\n", tag, value)
}
