// Package pipeline orchestrates a full analysis pass over one uploaded file:
// rejection checks, decoding, tokenization, header resolution, column type
// profiling, platform detection, column mapping and export schema planning.
//
// Resolve is synchronous and allocation-isolated: every call works on its own
// buffers, and the only shared state it touches is the immutable platform
// signature registry. Callers may run any number of Resolve calls
// concurrently.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"go.uber.org/zap"

	"feedscope/internal/config"
	"feedscope/internal/exportplan"
	"feedscope/internal/mapping"
	"feedscope/internal/platform"
	"feedscope/internal/profile"
	"feedscope/internal/textenc"
	"feedscope/internal/tokenizer"
	"feedscope/internal/xlsxsrc"
)

// sampleRowsKept is how many data rows the ParseResult keeps for preview.
const sampleRowsKept = 10

// ErrRejected is the sentinel all upfront rejections unwrap to. Rejections
// happen before any tokenization work and carry the concrete reason in a
// *RejectionError.
var ErrRejected = errors.New("upload rejected")

// ErrNoData is returned when the upload parses cleanly but contains no rows.
var ErrNoData = errors.New("no data rows found")

// RejectionError describes why an upload was refused before parsing.
type RejectionError struct {
	// Reason is a short machine-readable code: "size_limit" or
	// "unsupported_type".
	Reason string

	// Plan and Limit are set for size rejections.
	Plan  config.Plan
	Limit int64
	Size  int64

	// Detected is set for type rejections: the sniffed MIME type or the
	// offending file extension.
	Detected string
}

func (e *RejectionError) Error() string {
	switch e.Reason {
	case "size_limit":
		return fmt.Sprintf("file size %d exceeds the %s plan limit of %d bytes", e.Size, e.Plan, e.Limit)
	case "unsupported_type":
		return fmt.Sprintf("unsupported file type %q", e.Detected)
	default:
		return "upload rejected"
	}
}

func (e *RejectionError) Unwrap() error { return ErrRejected }

// Options configures one Resolve call. The zero value is usable: free plan,
// built-in limits, no filename hint, no logging.
type Options struct {
	// Plan selects the size-limit tier. Empty means free.
	Plan config.Plan

	// Limits overrides the tier limits. The zero value means
	// config.DefaultLimits().
	Limits config.Limits

	// Filename is an optional hint used for the extension check and for
	// routing .xlsx uploads. Only the base name matters.
	Filename string

	// Logger receives debug/info progress events. Nil means no logging.
	Logger *zap.Logger

	// Tokenizer passes through tokenizer options such as "delimiter" and
	// "trim_space".
	Tokenizer config.Options
}

// ParseResult is the parsing half of an analysis: what the file contained
// and how it was read.
type ParseResult struct {
	Success    bool             `json:"success"`
	Headers    []string         `json:"headers"`
	SampleRows [][]string       `json:"sample_rows"`
	TotalRows  int              `json:"total_rows"`
	Encoding   string           `json:"encoding"`
	Columns    []profile.Column `json:"columns"`
	FileSize   int64            `json:"file_size"`
	Duration   time.Duration    `json:"duration_ns"`
	Checksum   string           `json:"checksum"`
	Error      string           `json:"error,omitempty"`
	Warnings   []string         `json:"warnings,omitempty"`
}

// Result is the full output of one analysis pass.
type Result struct {
	Parse     ParseResult           `json:"parse"`
	Detection platform.Detection    `json:"detection"`
	Mapping   mapping.ColumnMapping `json:"mapping"`
	Export    exportplan.Structure  `json:"export"`
}

// Resolve analyzes one uploaded file end to end.
//
// Rejections (plan size limit, unsupported file type) are checked before any
// parsing work and return an error unwrapping to ErrRejected. Recoverable
// anomalies (mojibake fallback, ragged rows, unterminated quotes, duplicate
// headers, low detection confidence) never fail the call; they accumulate as
// warnings on a successful result. A panic anywhere below the boundary is
// recovered into a failed ParseResult and an error.
func Resolve(buf []byte, opts Options) (res Result, err error) {
	start := time.Now()

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	res.Parse.FileSize = int64(len(buf))
	res.Parse.Checksum = Checksum(buf)
	res.Detection = platform.Detection{Platform: platform.Unknown, Name: platform.Unknown}

	defer func() {
		res.Parse.Duration = time.Since(start)
		if r := recover(); r != nil {
			res.Parse.Success = false
			res.Parse.Error = fmt.Sprintf("internal error: %v", r)
			err = fmt.Errorf("resolve: internal error: %v", r)
			log.Error("analysis panicked", zap.Any("panic", r))
		}
	}()

	if rej := reject(buf, opts); rej != nil {
		res.Parse.Error = rej.Error()
		log.Info("upload rejected",
			zap.String("reason", rej.Reason),
			zap.Int64("size", res.Parse.FileSize))
		return res, rej
	}

	table, err := loadTable(buf, opts)
	if err != nil {
		res.Parse.Error = err.Error()
		return res, err
	}
	res.Parse.Encoding = table.encoding
	res.Parse.Warnings = append(res.Parse.Warnings, table.warnings...)

	if len(table.rows) == 0 {
		res.Parse.Error = ErrNoData.Error()
		return res, ErrNoData
	}

	headers, data, headerWarnings := profile.ResolveHeader(table.rows)
	res.Parse.Warnings = append(res.Parse.Warnings, headerWarnings...)

	// Data rows start at physical row 2 when the first row was consumed as
	// a header, at row 1 otherwise.
	rowOffset := 0
	if len(data) < len(table.rows) {
		rowOffset = 1
	}
	res.Parse.Warnings = append(res.Parse.Warnings,
		tokenizer.RaggedWarnings(data, len(headers), rowOffset)...)

	res.Parse.Headers = headers
	res.Parse.TotalRows = len(data)
	res.Parse.SampleRows = sampleRows(data)
	res.Parse.Columns = profile.AnalyzeColumns(headers, data)

	res.Detection = platform.Detect(headers, data)
	res.Parse.Warnings = append(res.Parse.Warnings, res.Detection.Warnings...)

	res.Mapping = mapping.MapColumns(headers, res.Detection.Platform)
	res.Export = exportplan.Plan(headers, res.Detection.Platform)

	res.Parse.Success = true

	log.Debug("analysis complete",
		zap.Int("columns", len(headers)),
		zap.Int("rows", res.Parse.TotalRows),
		zap.String("encoding", res.Parse.Encoding),
		zap.String("platform", res.Detection.Platform),
		zap.Int("confidence", res.Detection.Confidence))

	return res, nil
}

// ExtractRows runs the rejection checks and the parsing front half only,
// returning the resolved header and every data row. Callers that need the
// full data (the export writer, not just the analysis preview) use this
// alongside Resolve.
func ExtractRows(buf []byte, opts Options) (headers []string, rows [][]string, err error) {
	if rej := reject(buf, opts); rej != nil {
		return nil, nil, rej
	}
	table, err := loadTable(buf, opts)
	if err != nil {
		return nil, nil, err
	}
	if len(table.rows) == 0 {
		return nil, nil, ErrNoData
	}
	headers, rows, _ = profile.ResolveHeader(table.rows)
	return headers, rows, nil
}

// reject runs the upfront checks: plan size limit first, then file type.
// Both run on the raw bytes before any decoding or tokenization.
func reject(buf []byte, opts Options) *RejectionError {
	limits := opts.Limits
	if limits == (config.Limits{}) {
		limits = config.DefaultLimits()
	}
	plan := opts.Plan
	if plan == "" {
		plan = config.PlanFree
	}

	if max := limits.MaxBytes(plan); int64(len(buf)) > max {
		return &RejectionError{
			Reason: "size_limit",
			Plan:   plan,
			Limit:  max,
			Size:   int64(len(buf)),
		}
	}

	if ext := strings.ToLower(filepath.Ext(opts.Filename)); ext != "" && !allowedExt[ext] {
		return &RejectionError{Reason: "unsupported_type", Detected: ext}
	}

	// Text files sniff as Unknown; any recognized binary type other than a
	// workbook is refused outright.
	if t, _ := filetype.Match(buf); t != filetype.Unknown && t != matchers.TypeXlsx {
		return &RejectionError{Reason: "unsupported_type", Detected: t.MIME.Value}
	}

	return nil
}

var allowedExt = map[string]bool{
	".csv":  true,
	".tsv":  true,
	".txt":  true,
	".xlsx": true,
}

// sourceTable is the routing result: rows plus how they were obtained.
type sourceTable struct {
	rows     [][]string
	encoding string
	warnings []string
}

// loadTable routes the upload to the right reader: workbooks go through the
// XLSX loader, everything else is decoded to UTF-8 and tokenized.
func loadTable(buf []byte, opts Options) (sourceTable, error) {
	if isXLSX(buf, opts.Filename) {
		table, err := xlsxsrc.Load(buf)
		if err != nil {
			return sourceTable{}, fmt.Errorf("load workbook: %w", err)
		}
		return sourceTable{rows: table.Rows, encoding: "xlsx", warnings: table.Warnings}, nil
	}

	dec, err := textenc.Decode(buf)
	if err != nil {
		return sourceTable{}, fmt.Errorf("decode text: %w", err)
	}

	table := tokenizer.Tokenize(dec.Text, opts.Tokenizer)
	return sourceTable{
		rows:     table.Rows,
		encoding: dec.Encoding,
		warnings: append(dec.Warnings, table.Warnings...),
	}, nil
}

func isXLSX(buf []byte, filename string) bool {
	if t, _ := filetype.Match(buf); t == matchers.TypeXlsx {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".xlsx")
}

// sampleRows copies the first few data rows for the result preview.
func sampleRows(data [][]string) [][]string {
	n := len(data)
	if n > sampleRowsKept {
		n = sampleRowsKept
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		out[i] = append([]string(nil), data[i]...)
	}
	return out
}
