package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
)

const testConfig = `{
    "personal": {
        "personnummer": "19800101-1234",
        "namn": "Test Person",
        "adress": "Testgatan 1",
        "postnummer": "12345",
        "postort": "Teststad",
        "email": "test@example.com",
        "inkomstar": "2023"
    },
    "fx_rates": {"USD": 10.0, "SEK": 1.0}
}`

const testTrades = "DateTime;Open/CloseIndicator;FifoPnlRealized;Description;Quantity;CostBasis;Proceeds;CurrencyPrimary;Buy/Sell;Notes/Codes;AssetClass;Symbol;UnderlyingSymbol;IBCommission\n" +
	"2023-07-21 15:30:00;C;300;AAPL Apple Inc.;-10;-1200;1500;USD;SELL;;STK;AAPL;AAPL;0\n"

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "trades.csv")
	config := filepath.Join(dir, "config.json")
	out := filepath.Join(dir, "output")
	if err := os.WriteFile(input, []byte(testTrades), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(config, []byte(testConfig), 0644); err != nil {
		t.Fatal(err)
	}

	var c generateCmd
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse([]string{"-c", config, "-o", out, input}); err != nil {
		t.Fatal(err)
	}

	if status := c.Execute(context.Background(), fs); status != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v, want success", status)
	}

	// Every artifact lands in the output directory in one pass.
	for _, name := range []string{"trades_k4.csv", "trades_k4_grouped.csv", "INFO.SRU", "BLANKETTER.SRU"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output file %s: %v", name, err)
		}
	}

	blanketter, err := os.ReadFile(filepath.Join(out, "BLANKETTER.SRU"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(blanketter), "#BLANKETT K4-2023P4\n#IDENTITET 198001011234 ") {
		t.Errorf("unexpected BLANKETTER.SRU header:\n%s", blanketter)
	}
	// 1500 USD at 10.0 against a 1200 USD cost basis.
	for _, wantLine := range []string{
		"#UPPGIFT 3100 10",
		"#UPPGIFT 3101 AAPL Apple Inc.",
		"#UPPGIFT 3102 15000",
		"#UPPGIFT 3103 12000",
		"#UPPGIFT 3104 3000",
	} {
		if !strings.Contains(string(blanketter), wantLine+"\n") {
			t.Errorf("BLANKETTER.SRU missing line %q", wantLine)
		}
	}
}

func TestGenerate_NoSRU(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "trades.csv")
	out := filepath.Join(dir, "output")
	if err := os.WriteFile(input, []byte(testTrades), 0644); err != nil {
		t.Fatal(err)
	}

	var c generateCmd
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse([]string{"-c", filepath.Join(dir, "absent.json"), "-o", out, "-no-sru", input}); err != nil {
		t.Fatal(err)
	}

	if status := c.Execute(context.Background(), fs); status != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v, want success", status)
	}
	for _, name := range []string{"INFO.SRU", "BLANKETTER.SRU"} {
		if _, err := os.Stat(filepath.Join(out, name)); err == nil {
			t.Errorf("%s generated despite -no-sru", name)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "trades_k4.csv")); err != nil {
		t.Errorf("missing report CSV: %v", err)
	}
}
