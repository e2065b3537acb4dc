// pdpaudit-run is the one-shot CLI: audit a single product page and print
// the outcome, without running the API server. Configuration comes from the
// same PDPA_ environment variables the server uses; flags cover the
// per-invocation choices.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/launchlens/pdpaudit/audit"
	"github.com/launchlens/pdpaudit/capture"
	"github.com/launchlens/pdpaudit/config"
	"github.com/launchlens/pdpaudit/models"
	"github.com/launchlens/pdpaudit/regions"
)

func main() {
	var (
		regionsFlag = flag.String("regions", "UK", "comma-separated region codes (e.g. UK,DE,CA_FR)")
		profile     = flag.String("profile", "", "evidence profile: details or sizefit (default: configured profile)")
		timeout     = flag.Int("timeout", 0, "capture timeout per region in seconds (default: configured timeout)")
		skipReport  = flag.Bool("skip-report", false, "skip PDF generation")
		jsonOut     = flag.Bool("json", false, "print the full result as JSON instead of a summary")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <url>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	url := flag.Arg(0)

	cfg := config.Load()
	// A CLI run reads better as text on stderr; JSON stays opt-in via env.
	if os.Getenv("PDPA_LOG_FORMAT") == "" {
		cfg.Log.Format = "text"
	}
	initLogger(cfg.Log)

	registry, err := regions.Load(cfg.Regions.File)
	if err != nil {
		slog.Error("failed to load region profiles", "error", err)
		os.Exit(1)
	}

	engine, err := capture.NewEngine(cfg.Browser, cfg.Capture)
	if err != nil {
		slog.Error("failed to initialise capture engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	runner := audit.NewRunner(cfg, engine, registry)

	req := &models.AuditRequest{
		URL:        url,
		Regions:    splitRegions(*regionsFlag),
		Profile:    *profile,
		Timeout:    *timeout,
		SkipReport: *skipReport,
	}

	resp := runner.Run(context.Background(), req)

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			slog.Error("failed to encode result", "error", err)
			os.Exit(1)
		}
	} else {
		printSummary(resp)
	}

	if !resp.Success {
		os.Exit(1)
	}
}

func splitRegions(s string) []string {
	var codes []string
	for _, part := range strings.Split(s, ",") {
		if code := strings.TrimSpace(part); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

func printSummary(resp *models.AuditResponse) {
	for _, r := range resp.Results {
		label := r.Region
		if r.RegionLabel != "" {
			label = fmt.Sprintf("%s (%s)", r.RegionLabel, r.Region)
		}

		if r.Error != nil {
			fmt.Printf("%s: FAILED [%s] %s\n", label, r.Error.Code, r.Error.Message)
			continue
		}

		fmt.Printf("%s:\n", label)
		if r.Bundle != nil {
			fmt.Printf("  evidence:  %s\n", r.Bundle.OutputDir)
		}
		if r.Analysis != nil {
			fmt.Printf("  findings:  %d\n", len(r.Analysis.Findings))
			fmt.Printf("  summary:   %s\n", r.Analysis.Summary)
			for _, f := range r.Analysis.Findings {
				fmt.Printf("    - [%s/%s] %s\n", f.Category, f.Severity, f.Issue)
			}
		}
		if r.ReportPath != "" {
			fmt.Printf("  report:    %s\n", r.ReportPath)
		}
		if r.ContentUnchanged {
			fmt.Printf("  content unchanged since previous run\n")
		}
	}
	fmt.Printf("total: %dms (capture %dms, analysis %dms, report %dms)\n",
		resp.Timing.TotalMs, resp.Timing.CaptureMs, resp.Timing.AnalysisMs, resp.Timing.ReportMs)
}

func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
