// Command exportplan builds the export skeleton for an e-commerce file: all
// original columns preserved in order, followed by the generated content
// columns for the detected platform. The skeleton is written as CSV or XLSX;
// generated cells are left empty for the downstream content generator.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"feedscope/internal/config"
	"feedscope/internal/exportfile"
	"feedscope/internal/pipeline"
)

func main() {
	var (
		filePath string
		planFlg  string
		outPath  string
		format   string
	)

	flag.StringVar(&filePath, "file", "", "path of the file to analyze (required)")
	flag.StringVar(&planFlg, "plan", "free", "plan tier for size limits (free, pro, business)")
	flag.StringVar(&outPath, "out", "", "output path (default: <file>.export.<format>)")
	flag.StringVar(&format, "format", "csv", "output format (csv, xlsx)")

	flag.Parse()

	if filePath == "" {
		fatalf("-file is required")
	}
	format = strings.ToLower(format)
	if format != "csv" && format != "xlsx" {
		fatalf("unsupported format %q (want csv or xlsx)", format)
	}

	limits, err := config.LoadLimits()
	if err != nil {
		limits = config.DefaultLimits()
	}

	buf, err := os.ReadFile(filePath)
	if err != nil {
		fatalf("read file: %v", err)
	}

	opts := pipeline.Options{
		Plan:     config.ParsePlan(planFlg),
		Limits:   limits,
		Filename: filepath.Base(filePath),
	}

	res, err := pipeline.Resolve(buf, opts)
	if err != nil {
		fatalf("analyze %s: %v", filePath, err)
	}
	_, rows, err := pipeline.ExtractRows(buf, opts)
	if err != nil {
		fatalf("extract rows: %v", err)
	}

	if outPath == "" {
		outPath = strings.TrimSuffix(filePath, filepath.Ext(filePath)) + ".export." + format
	}

	out, err := os.Create(outPath)
	if err != nil {
		fatalf("create output: %v", err)
	}
	defer out.Close()

	switch format {
	case "csv":
		err = exportfile.WriteCSV(out, res.Export, rows)
	case "xlsx":
		err = exportfile.WriteXLSX(out, res.Export, rows)
	}
	if err != nil {
		fatalf("write export: %v", err)
	}

	fmt.Printf("%s: platform=%s, %d original + %d generated columns, %d rows -> %s\n",
		filepath.Base(filePath),
		res.Detection.Platform,
		len(res.Export.OriginalColumns),
		len(res.Export.GeneratedColumns()),
		res.Parse.TotalRows,
		outPath)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "exportplan: "+format+"\n", args...)
	os.Exit(1)
}
