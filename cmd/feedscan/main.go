// Command feedscan analyzes one e-commerce export file: encoding, dialect,
// column types, source platform and the planned export schema. Output is
// JSON by default, or a human-readable report with -report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"feedscope/internal/config"
	"feedscope/internal/mapping"
	"feedscope/internal/metrics"
	"feedscope/internal/metrics/datadog"
	"feedscope/internal/pipeline"
)

func main() {
	var (
		filePath       string
		planFlg        string
		delimiterFlg   string
		metricsBackend string
		pretty         bool
		report         bool
	)

	flag.StringVar(&filePath, "file", "", "path of the file to analyze (required)")
	flag.StringVar(&planFlg, "plan", "free", "plan tier for size limits (free, pro, business)")
	flag.StringVar(&delimiterFlg, "delimiter", "", "force a field delimiter instead of auto-detecting")
	flag.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend to use (datadog, none)")
	flag.BoolVar(&pretty, "pretty", false, "indent the JSON output")
	flag.BoolVar(&report, "report", false, "print a human-readable report instead of JSON")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	if filePath == "" {
		fatalf("-file is required")
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fatalf("init logger: %v", err)
		}
		logger = l
		defer logger.Sync()
	}

	limits, err := config.LoadLimits()
	if err != nil {
		log.Printf("limits: %v; using defaults", err)
		limits = config.DefaultLimits()
	}

	// Decide metrics backend: flag → env → none.
	var backend metrics.Backend = metrics.Nop{}
	if metricsBackend == "" {
		metricsBackend = os.Getenv("METRICS_BACKEND")
	}
	switch metricsBackend {
	case "datadog":
		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName: "feedscan",
			Tags:    datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS")),
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			backend = b
			defer func() {
				if err := b.Close(); err != nil {
					log.Printf("metrics: datadog close/flush error: %v", err)
				}
			}()
		}
	case "", "none":
	default:
		log.Printf("metrics: unknown backend %q; using nop", metricsBackend)
	}

	buf, err := os.ReadFile(filePath)
	if err != nil {
		fatalf("read file: %v", err)
	}

	opts := pipeline.Options{
		Plan:     config.ParsePlan(planFlg),
		Limits:   limits,
		Filename: filepath.Base(filePath),
		Logger:   logger,
	}
	if delimiterFlg != "" {
		opts.Tokenizer = config.Options{"delimiter": delimiterFlg}
	}

	res, err := pipeline.Resolve(buf, opts)
	recordRun(backend, res, err, string(opts.Plan))
	if err != nil {
		fatalf("analyze %s: %v", filePath, err)
	}

	if report {
		printReport(os.Stdout, res)
		return
	}

	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		fatalf("encode result: %v", err)
	}
}

func recordRun(b metrics.Backend, res pipeline.Result, err error, plan string) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	labels := metrics.Labels{"status": status, "plan": plan}
	b.IncCounter("feedscope.files.total", 1, labels)
	if err != nil {
		return
	}
	b.IncCounter("feedscope.rows.total", float64(res.Parse.TotalRows), labels)
	b.ObserveHistogram("feedscope.analyze.duration_seconds", res.Parse.Duration.Seconds(), labels)
	b.ObserveHistogram("feedscope.detect.confidence", float64(res.Detection.Confidence),
		metrics.Labels{"platform": res.Detection.Platform})
}

func printReport(w *os.File, res pipeline.Result) {
	p := res.Parse
	fmt.Fprintf(w, "File: %d bytes, %s, %d rows, %d columns\n",
		p.FileSize, p.Encoding, p.TotalRows, len(p.Headers))
	fmt.Fprintf(w, "Checksum: %s\n", p.Checksum)
	fmt.Fprintf(w, "Analyzed in %s\n\n", p.Duration.Round(time.Microsecond))

	fmt.Fprintln(w, "Columns:")
	for _, c := range p.Columns {
		fmt.Fprintf(w, "  %-30s %-8s confidence=%d%% empty=%d\n",
			c.Name, c.Type, c.Confidence, c.EmptyCount)
	}

	fmt.Fprintf(w, "\nPlatform: %s (confidence %d)\n", res.Detection.Name, res.Detection.Confidence)
	for _, ev := range res.Detection.Evidence {
		fmt.Fprintf(w, "  %-16s %s (weight %d)\n", ev.Kind, ev.Field, ev.Weight)
	}

	fmt.Fprintln(w, "\nField mapping:")
	for _, f := range mapping.Fields {
		if col, ok := res.Mapping[f]; ok {
			fmt.Fprintf(w, "  %-14s -> %s\n", f, col)
		}
	}

	fmt.Fprintf(w, "\nExport: %d original + %d generated = %d columns (x%.2f)\n",
		len(res.Export.OriginalColumns),
		len(res.Export.GeneratedColumns()),
		res.Export.TotalColumns,
		1+res.Export.GrowthRatio)

	if len(p.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range p.Warnings {
			fmt.Fprintf(w, "  - %s\n", warn)
		}
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "feedscan: "+format+"\n", args...)
	os.Exit(1)
}
