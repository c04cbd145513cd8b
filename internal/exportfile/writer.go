// Package exportfile writes the final export skeleton: every original column
// verbatim and in order, followed by the namespaced generated columns from
// the export plan. Generated cells are left empty here — filling them is the
// content-generation collaborator's job.
package exportfile

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"feedscope/internal/exportplan"
)

// WriteCSV writes the planned export as CSV: the combined header row, then
// one row per data row. Ragged source rows are padded with empty fields up
// to the original column count; extra trailing fields are kept so no
// original data is lost.
func WriteCSV(w io.Writer, s exportplan.Structure, rows [][]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(s.AllColumns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	genPad := make([]string, len(s.GeneratedColumns()))
	for i, r := range rows {
		out := padRow(r, len(s.OriginalColumns))
		out = append(out, genPad...)
		if err := cw.Write(out); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the planned export as a single-sheet workbook.
func WriteXLSX(w io.Writer, s exportplan.Structure, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	if err := setRow(f, sheet, 1, s.AllColumns()); err != nil {
		return err
	}
	for i, r := range rows {
		if err := setRow(f, sheet, i+2, padRow(r, len(s.OriginalColumns))); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	anyVals := make([]any, len(values))
	for i, v := range values {
		anyVals[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &anyVals); err != nil {
		return fmt.Errorf("set row %d: %w", rowNum, err)
	}
	return nil
}

// padRow extends a short row with empty fields up to want. Longer rows are
// returned unchanged: trailing extra fields are original data and must not
// be dropped.
func padRow(r []string, want int) []string {
	if len(r) >= want {
		return append([]string(nil), r...)
	}
	out := make([]string, want)
	copy(out, r)
	return out
}
