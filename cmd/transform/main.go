// Command transform runs the extraction pipeline over a CSV file of
// flattened report rows and writes the resolved hierarchy as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/dromic-parser/app/config"
	"github.com/dromic-parser/app/models"
	"github.com/dromic-parser/app/services"
	"github.com/dromic-parser/internal/gazetteer"
	"github.com/dromic-parser/internal/hierarchy"
	"github.com/dromic-parser/internal/resolver"
)

func main() {
	var (
		gazetteerPath = flag.String("gazetteer", "data/phl_adminareas.csv", "path to the gazetteer CSV")
		inputPath     = flag.String("input", "", "input CSV of flattened report rows (required)")
		outputPath    = flag.String("output", "", "output CSV path (default: stdout)")
		strategy      = flag.String("strategy", "cumsum", "reconstruction strategy: counter or cumsum")
		locationCol   = flag.String("location-col", "Location", "name of the location column")
		markerCol     = flag.String("marker-col", "", "name of the municipality marker column")
		countCol      = flag.String("count-col", "", "counting column for the counter strategy (default: auto-detect)")
		sumCol        = flag.String("sum-col", "Affected_Persons", "sum column for sentence-case province recovery")
		threshold     = flag.Int("threshold", resolver.DefaultThreshold, "fuzzy match acceptance threshold (0-100)")
		verbose       = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := buildLogger(*verbose)
	defer logger.Sync()

	gaz, err := gazetteer.LoadFile(*gazetteerPath, logger)
	if err != nil {
		log.Fatalf("load gazetteer: %v", err)
	}

	in, err := os.Open(*inputPath)
	if err != nil {
		log.Fatalf("open input: %v", err)
	}
	defer in.Close()

	cols := config.ColumnsCfg{
		Location: *locationCol,
		Marker:   *markerCol,
	}
	rows, err := services.DecodeRows(in, cols)
	if err != nil {
		log.Fatalf("read input rows: %v", err)
	}

	svc := services.NewExtractionService(gaz, resolver.Options{Threshold: *threshold}, logger)
	resolved, stats, err := svc.Transform(context.Background(), rows, services.TransformOptions{
		Strategy:    hierarchy.Strategy(*strategy),
		CountColumn: *countCol,
		SumColumn:   *sumCol,
	})
	if err != nil {
		log.Fatalf("transform: %v", err)
	}

	out := os.Stdout
	if *outputPath != "" {
		out, err = os.Create(*outputPath)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		defer out.Close()
	}

	payload := payloadColumns(rows)
	if err := services.EncodeRows(out, resolved, payload); err != nil {
		log.Fatalf("write output: %v", err)
	}

	fmt.Fprintf(os.Stderr, "run %s: %d rows in, %d rows out (exact %d, fuzzy %d, unmatched %d, backfilled %d, dangling %d)\n",
		stats.RunID, stats.RowsIn, stats.RowsOut,
		stats.ExactMatches, stats.FuzzyMatches, stats.Unmatched,
		stats.RegionBackfilled, stats.DanglingGroups)
}

func buildLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("init logger: %v", err)
		}
		return logger
	}
	return zap.NewNop()
}

// payloadColumns collects every payload column name seen across the input,
// sorted for a stable output header.
func payloadColumns(rows []models.LocationRow) []string {
	seen := map[string]bool{}
	for _, row := range rows {
		for col := range row.Payload {
			if col != "" {
				seen[col] = true
			}
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
