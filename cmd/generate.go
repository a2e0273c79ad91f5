package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/evhols/k4"
	"github.com/evhols/k4/renderer"
	"github.com/google/subcommands"
)

// generateCmd holds the flags for the 'generate' subcommand.
type generateCmd struct {
	configPath string
	outputDir  string
	additional string
	noSRU      bool
	verbose    bool
}

func (*generateCmd) Name() string     { return "generate" }
func (*generateCmd) Synopsis() string { return "generate the K4 report and SRU files from a trade export" }
func (*generateCmd) Usage() string {
	return `k4gen generate [-c <config>] [-o <dir>] [-additional <csv>] [-no-sru] [-v] <trades.csv>

  Reads a brokerage trade export, converts it to SEK, classifies the
  closing trades and option exercise/assignment deliveries, and writes the
  K4 report CSVs plus the INFO.SRU and BLANKETTER.SRU submission files.
`
}

func (c *generateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "c", "config.json", "Path to the configuration file")
	f.StringVar(&c.outputDir, "o", "output", "Directory receiving the generated files")
	f.StringVar(&c.additional, "additional", "", "Path to a pre-computed trades CSV merged into the report")
	f.BoolVar(&c.noSRU, "no-sru", false, "Skip SRU file generation")
	f.BoolVar(&c.verbose, "v", false, "Enable verbose output")
}

func (c *generateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	input := f.Arg(0)
	if input == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		return subcommands.ExitUsageError
	}
	k4.Debug = c.verbose

	cfg := k4.LoadConfig(c.configPath)

	in, err := os.Open(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening input file %q: %v\n", input, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	trades, err := k4.ReadTrades(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trades from %q: %v\n", input, err)
		return subcommands.ExitFailure
	}

	converted, err := k4.Convert(trades, cfg.FXRates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting trades: %v\n", err)
		return subcommands.ExitFailure
	}

	results := k4.Classify(converted)

	if c.additional != "" {
		extra, err := readPrecomputed(c.additional)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading pre-computed trades: %v\n", err)
			return subcommands.ExitFailure
		}
		results = append(results, extra...)
	}

	slices.SortStableFunc(results, func(a, b k4.Result) int {
		return strings.Compare(a.Label, b.Label)
	})
	grouped := k4.Aggregate(results)
	filing := k4.NewFiling(grouped)

	// Build every artifact in memory before writing anything, so a failed
	// run leaves no partial output behind. The slice fixes the write order.
	var artifacts []artifact
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	var resultsCSV, groupedCSV bytes.Buffer
	if err := k4.WriteResults(&resultsCSV, results); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering results: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := k4.WriteGrouped(&groupedCSV, grouped); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering grouped results: %v\n", err)
		return subcommands.ExitFailure
	}
	artifacts = append(artifacts,
		artifact{base + "_k4.csv", resultsCSV.Bytes()},
		artifact{base + "_k4_grouped.csv", groupedCSV.Bytes()})

	if !c.noSRU {
		info, err := k4.Info(cfg.Personal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid SRU configuration: %v\n", err)
			return subcommands.ExitFailure
		}
		blanketter, err := filing.Blanketter(cfg.Personal, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid SRU configuration: %v\n", err)
			return subcommands.ExitFailure
		}
		artifacts = append(artifacts,
			artifact{"INFO.SRU", info},
			artifact{"BLANKETTER.SRU", blanketter})
	}

	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory %q: %v\n", c.outputDir, err)
		return subcommands.ExitFailure
	}
	for _, a := range artifacts {
		path := filepath.Join(c.outputDir, a.name)
		if err := os.WriteFile(path, a.data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
	}

	var report strings.Builder
	fmt.Fprintf(&report, "# K4 Report for %s\n\n", base)
	report.WriteString(renderer.SummaryMarkdown("Classified results", k4.Summarize(results)))
	report.WriteString("\n")
	report.WriteString(renderer.SummaryMarkdown("Grouped results", k4.SummarizeGrouped(grouped)))
	if !c.noSRU {
		report.WriteString("\n")
		report.WriteString(renderer.FilingMarkdown(filing))
	}
	printMarkdown(report.String())
	fmt.Printf("Results saved to %s\n", c.outputDir)

	return subcommands.ExitSuccess
}

// artifact is one output file, ready to write.
type artifact struct {
	name string
	data []byte
}

func readPrecomputed(path string) ([]k4.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return k4.ReadPrecomputed(f)
}
