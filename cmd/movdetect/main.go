// Command movdetect runs the gross movement detector over a directory of
// recording sessions and writes fused use-signals, summary statistics,
// diagnostic plots and an HTML report.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/lrlcardoso/GrossMovDetector/internal/config"
	"github.com/lrlcardoso/GrossMovDetector/internal/report"
	"github.com/lrlcardoso/GrossMovDetector/internal/results"
	"github.com/lrlcardoso/GrossMovDetector/internal/runner"
)

var (
	dataDir    = flag.String("data", "data", "Root directory of session recordings (<session>/<segment>/<camera>.csv)")
	configPath = flag.String("config", "", "Optional JSON config file")
	dbPath     = flag.String("db", "movements.db", "SQLite results database path (empty to skip persistence)")
	plotDir    = flag.String("plots", "", "Directory for per-unit diagnostic plots (empty to skip)")
	reportPath = flag.String("report", "", "HTML summary report path (empty to skip)")
	workers    = flag.Int("workers", 0, "Concurrent segment workers (0 = NumCPU)")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	opts := runner.Options{
		Config:  cfg,
		PlotDir: *plotDir,
		Workers: *workers,
	}

	if *dbPath != "" {
		db, err := results.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("failed to open results database: %v", err)
		}
		defer db.Close()
		opts.DB = db
	}

	if _, err := os.Stat(*dataDir); err != nil {
		log.Fatalf("data directory %s: %v", *dataDir, err)
	}

	res, err := runner.Run(context.Background(), os.DirFS(*dataDir), opts)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	for _, o := range res.Outcomes {
		log.Printf("%s/%s %s: %d movements (%.2f/min, base camera %s)",
			o.Session, o.Segment, o.Limb, o.Summary.SegmentCount, o.Summary.RatePerMin, o.Summary.BaseCamera)
	}

	if *reportPath != "" && opts.DB != nil {
		summaries, err := opts.DB.Summaries(context.Background(), res.RunID)
		if err != nil {
			log.Fatalf("failed to load summaries: %v", err)
		}
		if err := report.Write(*reportPath, res.RunID, summaries); err != nil {
			log.Fatalf("failed to write report: %v", err)
		}
		log.Printf("report written to %s", *reportPath)
	}
}
