// Package xlsxsrc loads spreadsheet (XLSX) uploads into the same RawTable
// shape the text tokenizer produces, so the rest of the pipeline does not
// care whether the upload was delimited text or a workbook.
package xlsxsrc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"feedscope/internal/tokenizer"
)

// Load parses buf as an XLSX workbook and returns the first sheet as a
// RawTable. Only the first sheet is ingested; additional sheets are reported
// as a warning, matching the single-table contract of the pipeline.
func Load(buf []byte) (tokenizer.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return tokenizer.RawTable{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return tokenizer.RawTable{}, fmt.Errorf("xlsx contains no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return tokenizer.RawTable{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var table tokenizer.RawTable
	for _, r := range rows {
		fields := make([]string, len(r))
		for i, v := range r {
			fields[i] = strings.TrimSpace(v)
		}
		if isBlankRow(fields) {
			continue
		}
		table.Rows = append(table.Rows, fields)
	}

	if len(sheets) > 1 {
		table.Warnings = append(table.Warnings,
			fmt.Sprintf("workbook has %d sheets; only %q was ingested", len(sheets), sheets[0]))
	}
	return table, nil
}

func isBlankRow(fields []string) bool {
	for _, v := range fields {
		if v != "" {
			return false
		}
	}
	return true
}
